package window

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/verse"
)

// fakeElement is a fixed block of rendered rows.
type fakeElement struct {
	lines []string
}

func (e fakeElement) Lines() []string { return e.lines }
func (e fakeElement) Height() int     { return len(e.lines) }

// fakeRenderer renders every verse at a fixed height.
type fakeRenderer struct {
	height int
}

func (r fakeRenderer) Render(v verse.Verse, width int) Element {
	lines := make([]string, r.height)
	for i := range lines {
		lines[i] = fmt.Sprintf("%d|%d %s", v.Index, i, v.Text)
	}
	return fakeElement{lines: lines}
}

// fakeFetcher serves generated verses and records every call.
type fakeFetcher struct {
	mu         sync.Mutex
	rangeCalls []string
	locators   map[string][2]int
	failNext   error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{locators: map[string][2]int{}}
}

func makeVerses(start, end int) []verse.Verse {
	out := make([]verse.Verse, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, verse.Verse{
			Index:       i,
			Ref:         verse.Ref{Book: "JHN", Chapter: 3, Verse: i},
			Translation: "web",
			Text:        fmt.Sprintf("verse %d", i),
		})
	}
	return out
}

func (f *fakeFetcher) FetchRange(_ context.Context, viewportID string, start, end int) ([]verse.Verse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangeCalls = append(f.rangeCalls, fmt.Sprintf("%s:%d-%d", viewportID, start, end))
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	return makeVerses(start, end), nil
}

func (f *fakeFetcher) FetchByLocator(_ context.Context, viewportID, locator string) ([]verse.Verse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	bounds, ok := f.locators[locator]
	if !ok {
		return nil, fmt.Errorf("unknown locator %q", locator)
	}
	return makeVerses(bounds[0], bounds[1]), nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rangeCalls)
}

func testConfig() Config {
	return Config{
		EdgeThresholdRows:   6,
		PageSize:            50,
		InitialPageSize:     30,
		EvictionCeiling:     300,
		EvictionBufferUnits: 100,
		EvictionMinBatch:    20,
		MinIndex:            1,
		MaxIndex:            31102,
		AvgUnitHeightRows:   3,
	}
}

func newTestManager(t *testing.T, cfg Config) (*Manager, *fakeFetcher) {
	t.Helper()
	fetcher := newFakeFetcher()
	fetcher.locators["JHN 3"] = [2]int{1000, 1029}
	mgr := New(cfg, fetcher, fakeRenderer{height: 3}, zerolog.Nop())
	return mgr, fetcher
}

// loadInitial drives a full locator load synchronously.
func loadInitial(t *testing.T, mgr *Manager, id, locator string) ApplyInfo {
	t.Helper()
	fetch, err := mgr.LoadInitial(id, locator)
	require.NoError(t, err)
	return mgr.Apply(fetch(context.Background()))
}

// runCheck drives CheckAndLoadMore to completion when it triggers.
func runCheck(t *testing.T, mgr *Manager, id string) (ApplyInfo, bool) {
	t.Helper()
	fetch, ok := mgr.CheckAndLoadMore(id)
	if !ok {
		return ApplyInfo{}, false
	}
	return mgr.Apply(fetch(context.Background())), true
}

func requireAscending(t *testing.T, indices []int) {
	t.Helper()
	require.True(t, sort.IntsAreSorted(indices), "rendered order not ascending: %v", indices)
	for i := 1; i < len(indices); i++ {
		require.NotEqual(t, indices[i-1], indices[i], "duplicate rendered index %d", indices[i])
	}
}

func TestManager_RegisterLifecycle(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig())

	require.NoError(t, mgr.Register("source"))
	assert.True(t, mgr.Registered("source"))

	err := mgr.Register("source")
	require.ErrorIs(t, err, ErrViewportRegistered)

	// Unknown unregister is a no-op.
	mgr.Unregister("never-registered")

	mgr.Unregister("source")
	assert.False(t, mgr.Registered("source"))
	require.NoError(t, mgr.Register("source"))
}

func TestManager_UnknownViewportOperations(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig())

	_, err := mgr.LoadInitial("ghost", "JHN 3")
	require.ErrorIs(t, err, ErrViewportUnknown)

	require.ErrorIs(t, mgr.SetSize("ghost", 80, 40), ErrViewportUnknown)

	_, ok := mgr.CheckAndLoadMore("ghost")
	assert.False(t, ok)
}

func TestManager_InitialLoad(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))

	fetch, err := mgr.LoadInitial("source", "JHN 3")
	require.NoError(t, err)
	assert.True(t, mgr.Busy("source"))

	info := mgr.Apply(fetch(context.Background()))
	require.NoError(t, info.Err)
	assert.False(t, info.Stale)

	assert.Equal(t, 30, mgr.LoadedCount("source"))
	assert.Equal(t, 30, mgr.RenderedCount("source"))
	assert.Equal(t, 0, mgr.ScrollTop("source"))
	assert.False(t, mgr.Busy("source"))

	anchor, ok := mgr.ChapterAnchor("source")
	require.True(t, ok)
	assert.Equal(t, 1000, anchor)

	requireAscending(t, mgr.RenderedIndices("source"))
}

func TestManager_ForwardLoad(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))
	loadInitial(t, mgr, "source", "JHN 3")

	// 30 verses at 3 rows = 90 rows of content in a 40-row pane. Scroll to
	// within the edge threshold of the bottom.
	mgr.ScrollTo("source", 90-40-3)

	info, triggered := runCheck(t, mgr, "source")
	require.True(t, triggered)
	require.NoError(t, info.Err)

	require.Equal(t, 1, fetcher.calls())
	assert.Equal(t, "source:1030-1079", fetcher.rangeCalls[0])

	assert.Equal(t, 80, mgr.LoadedCount("source"))
	assert.Equal(t, 80, mgr.RenderedCount("source"))
	requireAscending(t, mgr.RenderedIndices("source"))
}

func TestManager_BackwardLoad_AnchorStability(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	fetcher.locators["JHN 4"] = [2]int{1030, 1079}
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 30))
	loadInitial(t, mgr, "source", "JHN 4")

	// Near the top: backward load should trigger.
	mgr.ScrollTo("source", 3)

	anchorIdx, ok := mgr.CenteredIndex("source")
	require.True(t, ok)
	anchorTop, found := mgr.OffsetOf("source", anchorIdx)
	require.True(t, found)
	screenPos := anchorTop - mgr.ScrollTop("source")

	fetch, triggered := mgr.CheckAndLoadMore("source")
	require.True(t, triggered)
	require.Equal(t, "source:980-1029", fetcher.rangeCalls[0])

	info := mgr.Apply(fetch(context.Background()))
	require.NoError(t, info.Err)

	// The anchor verse must sit at the same screen position after the
	// insertion above it.
	newTop, found := mgr.OffsetOf("source", anchorIdx)
	require.True(t, found)
	assert.Equal(t, screenPos, newTop-mgr.ScrollTop("source"), "anchor verse moved on screen")

	assert.Equal(t, 100, mgr.RenderedCount("source"))
	requireAscending(t, mgr.RenderedIndices("source"))
	assert.Equal(t, 980, mgr.RenderedIndices("source")[0])
}

func TestManager_BusyGatesOverlappingLoads(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))
	loadInitial(t, mgr, "source", "JHN 3")

	mgr.ScrollTo("source", 90) // clamped to bottom, inside threshold

	fetch, ok := mgr.CheckAndLoadMore("source")
	require.True(t, ok)
	assert.True(t, mgr.Busy("source"))

	// Second trigger while busy is dropped, not queued.
	_, ok = mgr.CheckAndLoadMore("source")
	assert.False(t, ok)

	mgr.Apply(fetch(context.Background()))
	assert.Equal(t, 1, fetcher.calls())
}

func TestManager_BoundaryTermination(t *testing.T) {
	cfg := testConfig()
	cfg.MinIndex = 1000
	cfg.MaxIndex = 1029
	mgr, fetcher := newTestManager(t, cfg)
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))
	loadInitial(t, mgr, "source", "JHN 3")

	// Top of the domain: no backward load.
	mgr.ScrollTo("source", 0)
	_, ok := mgr.CheckAndLoadMore("source")
	assert.False(t, ok)

	// Bottom of the domain: no forward load.
	mgr.ScrollTo("source", 1000)
	_, ok = mgr.CheckAndLoadMore("source")
	assert.False(t, ok)

	assert.Zero(t, fetcher.calls())
}

func TestManager_OverlappingResultRendersNoDuplicates(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))
	loadInitial(t, mgr, "source", "JHN 3")

	// Force an overlapping range result through the manager.
	mgr.ScrollTo("source", 50)
	fetch, ok := mgr.CheckAndLoadMore("source")
	require.True(t, ok)
	res := fetch(context.Background())
	res.Units = makeVerses(1020, 1079) // overlaps 1020..1029

	info := mgr.Apply(res)
	require.NoError(t, info.Err)
	assert.Equal(t, 50, info.Merged, "only new indices merged")
	assert.Equal(t, 50, info.Inserted)

	assert.Equal(t, 80, mgr.RenderedCount("source"))
	requireAscending(t, mgr.RenderedIndices("source"))
}

func TestManager_FetchFailureRecovers(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))
	loadInitial(t, mgr, "source", "JHN 3")

	mgr.ScrollTo("source", 50)
	fetcher.failNext = errors.New("backend down")

	info, triggered := runCheck(t, mgr, "source")
	require.True(t, triggered)
	require.Error(t, info.Err)

	assert.False(t, mgr.Busy("source"))
	assert.Equal(t, 30, mgr.LoadedCount("source"), "failed fetch must not merge")
	assert.NoError(t, mgr.InitialError("source"), "range failure is not an inline error")

	// The next scroll event retries naturally.
	info, triggered = runCheck(t, mgr, "source")
	require.True(t, triggered)
	require.NoError(t, info.Err)
	assert.Equal(t, 80, mgr.LoadedCount("source"))
}

func TestManager_InitialLoadFailureShowsInlineError(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))

	fetcher.failNext = errors.New("backend down")
	info := loadInitial(t, mgr, "source", "JHN 3")
	require.Error(t, info.Err)

	assert.Error(t, mgr.InitialError("source"))
	assert.Zero(t, mgr.LoadedCount("source"))
	assert.False(t, mgr.Busy("source"), "retry must be possible")

	// Retry succeeds and clears the inline error.
	info = loadInitial(t, mgr, "source", "JHN 3")
	require.NoError(t, info.Err)
	assert.NoError(t, mgr.InitialError("source"))
	assert.Equal(t, 30, mgr.LoadedCount("source"))
}

func TestManager_StaleResultDiscardedAfterJump(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	fetcher.locators["GEN 1"] = [2]int{1, 31}
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))

	// First locator load left in flight...
	fetchA, err := mgr.LoadInitial("source", "JHN 3")
	require.NoError(t, err)
	resA := fetchA(context.Background())

	// ...then the user jumps somewhere else before it lands.
	fetchB, err := mgr.LoadInitial("source", "GEN 1")
	require.NoError(t, err)
	resB := fetchB(context.Background())

	infoB := mgr.Apply(resB)
	require.NoError(t, infoB.Err)

	infoA := mgr.Apply(resA)
	assert.True(t, infoA.Stale, "result from before the jump must be discarded")

	indices := mgr.RenderedIndices("source")
	requireAscending(t, indices)
	assert.Equal(t, 1, indices[0], "stale slice must not be merged")
	assert.Equal(t, 31, mgr.LoadedCount("source"))
	assert.False(t, mgr.Busy("source"))
}

func TestManager_StaleResultDoesNotClearNewBusyFlag(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	fetcher.locators["GEN 1"] = [2]int{1, 31}
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 40))

	fetchA, err := mgr.LoadInitial("source", "JHN 3")
	require.NoError(t, err)
	resA := fetchA(context.Background())

	fetchB, err := mgr.LoadInitial("source", "GEN 1")
	require.NoError(t, err)

	// Stale result lands while the second load is still in flight.
	mgr.Apply(resA)
	assert.True(t, mgr.Busy("source"), "stale apply must not release the new load's busy flag")

	mgr.Apply(fetchB(context.Background()))
	assert.False(t, mgr.Busy("source"))
}

func TestManager_ViewportsAreIndependent(t *testing.T) {
	mgr, fetcher := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.Register("target"))
	require.NoError(t, mgr.SetSize("source", 80, 40))
	require.NoError(t, mgr.SetSize("target", 80, 40))

	loadInitial(t, mgr, "source", "JHN 3")

	fetcher.failNext = errors.New("target backend down")
	info := loadInitial(t, mgr, "target", "JHN 3")
	require.Error(t, info.Err)

	// One viewport's failure never corrupts the other.
	assert.Equal(t, 30, mgr.LoadedCount("source"))
	assert.NoError(t, mgr.InitialError("source"))
	assert.Error(t, mgr.InitialError("target"))

	// Both can load concurrently: issue source forward while target retries.
	mgr.ScrollTo("source", 50)
	fetchSrc, ok := mgr.CheckAndLoadMore("source")
	require.True(t, ok)

	fetchTgt, err := mgr.LoadInitial("target", "JHN 3")
	require.NoError(t, err)

	require.NoError(t, mgr.Apply(fetchTgt(context.Background())).Err)
	require.NoError(t, mgr.Apply(fetchSrc(context.Background())).Err)

	assert.Equal(t, 80, mgr.LoadedCount("source"))
	assert.Equal(t, 30, mgr.LoadedCount("target"))
}

func TestManager_VisibleLines(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 9))
	loadInitial(t, mgr, "source", "JHN 3")

	mgr.ScrollTo("source", 4)
	lines := mgr.VisibleLines("source")
	require.Len(t, lines, 9)

	// Row 4 is the middle row of the second verse (1001).
	assert.True(t, strings.HasPrefix(lines[0], "1001|1 "), "got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[8], "1004|0 "), "got %q", lines[8])
}

func TestManager_CenteredIndex(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 12))
	loadInitial(t, mgr, "source", "JHN 3")

	// Viewport center at row 0+6; verse 1002 occupies rows 6..9.
	idx, ok := mgr.CenteredIndex("source")
	require.True(t, ok)
	assert.Equal(t, 1002, idx)

	mgr.ScrollTo("source", 30)
	idx, ok = mgr.CenteredIndex("source")
	require.True(t, ok)
	assert.Equal(t, 1012, idx)
}

func TestManager_SetSizeRerendersAndKeepsCenter(t *testing.T) {
	mgr, _ := newTestManager(t, testConfig())
	require.NoError(t, mgr.Register("source"))
	require.NoError(t, mgr.SetSize("source", 80, 12))
	loadInitial(t, mgr, "source", "JHN 3")

	mgr.ScrollTo("source", 30)
	before, ok := mgr.CenteredIndex("source")
	require.True(t, ok)

	require.NoError(t, mgr.SetSize("source", 60, 12))
	after, ok := mgr.CenteredIndex("source")
	require.True(t, ok)
	assert.Equal(t, before, after, "width change moved the centered verse")
	assert.Equal(t, 30, mgr.RenderedCount("source"))
}

func TestConfig_NormalizedDefaults(t *testing.T) {
	mgr := New(Config{}, newFakeFetcher(), fakeRenderer{height: 3}, zerolog.Nop())
	cfg := mgr.Config()

	def := DefaultConfig()
	assert.Equal(t, def, cfg)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 300, cfg.EvictionCeiling)
	assert.Equal(t, 1, cfg.MinIndex)
	assert.Equal(t, 31102, cfg.MaxIndex)
}
