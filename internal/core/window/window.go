// Package window implements the verse window manager: the engine that keeps
// a bounded neighborhood of an effectively unbounded verse sequence
// materialized inside each scrollable pane.
//
// The manager is single-threaded by contract. All methods must be called
// from one update loop (the Bubble Tea loop in this application); the only
// asynchronous work is the Fetch closure a load hands back, which runs off
// the loop and re-enters through Apply. The busy flag is the sole
// back-pressure primitive: while a viewport has a load in flight, further
// edge triggers are dropped, and the next scroll event retries.
package window

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/eventbus"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/verse"
)

// Manager owns every registered viewport's load state and scroll geometry.
type Manager struct {
	cfg       Config
	fetcher   RangeFetcher
	renderer  Renderer
	log       zerolog.Logger
	bus       *eventbus.EventBus
	viewports map[string]*viewport
}

// New creates a manager. Zero config fields fall back to defaults.
func New(cfg Config, fetcher RangeFetcher, renderer Renderer, logger zerolog.Logger) *Manager {
	return &Manager{
		cfg:       cfg.normalized(),
		fetcher:   fetcher,
		renderer:  renderer,
		log:       logger,
		viewports: make(map[string]*viewport),
	}
}

// AttachBus wires an event bus for load/evict notifications. Optional.
func (m *Manager) AttachBus(bus *eventbus.EventBus) {
	m.bus = bus
}

// Config returns the normalized tunables in effect.
func (m *Manager) Config() Config {
	return m.cfg
}

// Register creates fresh load state for a viewport id. Registering an id
// twice is an error; re-registration must go through Unregister first.
func (m *Manager) Register(viewportID string) error {
	if _, ok := m.viewports[viewportID]; ok {
		return ErrViewportRegistered
	}
	m.viewports[viewportID] = newViewport(viewportID)
	m.log.Debug().Str("viewport", viewportID).Msg("viewport registered")
	if m.bus != nil {
		m.bus.PublishViewportRegistered(eventbus.ViewportRegisteredPayload{ViewportID: viewportID})
	}
	return nil
}

// Unregister discards a viewport's state. Unknown ids are a no-op.
func (m *Manager) Unregister(viewportID string) {
	if _, ok := m.viewports[viewportID]; !ok {
		return
	}
	delete(m.viewports, viewportID)
	m.log.Debug().Str("viewport", viewportID).Msg("viewport unregistered")
	if m.bus != nil {
		m.bus.PublishViewportUnregistered(eventbus.ViewportUnregisteredPayload{ViewportID: viewportID})
	}
}

// Registered reports whether a viewport id is active.
func (m *Manager) Registered(viewportID string) bool {
	_, ok := m.viewports[viewportID]
	return ok
}

// SetSize updates a viewport's pane dimensions. A width change re-renders
// every materialized element (wrapped heights change) while keeping the
// centered verse stable.
func (m *Manager) SetSize(viewportID string, width, height int) error {
	vp, ok := m.viewports[viewportID]
	if !ok {
		return ErrViewportUnknown
	}
	if width == vp.width {
		vp.height = height
		vp.clampScroll()
		return nil
	}

	anchorIdx, anchorOK := vp.centeredIndex()
	var anchorTop int
	if anchorOK {
		anchorTop, _ = vp.offsetOf(anchorIdx)
	}

	vp.width = width
	vp.height = height
	vp.heightSum, vp.heightCount = 0, 0
	for i, re := range vp.rendered {
		el := m.renderer.Render(vp.loaded[re.index], width)
		vp.rendered[i].el = el
		vp.heightSum += el.Height()
		vp.heightCount++
	}

	if anchorOK {
		if newTop, found := vp.offsetOf(anchorIdx); found {
			vp.scrollTop += newTop - anchorTop
		}
	}
	vp.clampScroll()
	return nil
}

// LoadInitial begins a locator load: clears all loaded and rendered state,
// resets scroll to the top, and marks the viewport busy. The returned Fetch
// must be run off the update loop and its result fed to Apply. A stale
// in-flight result from before this call is discarded by the epoch bump.
func (m *Manager) LoadInitial(viewportID, locator string) (Fetch, error) {
	vp, ok := m.viewports[viewportID]
	if !ok {
		return nil, ErrViewportUnknown
	}

	vp.reset()
	vp.busy = true
	vp.direction = DirectionNone

	req := LoadRequest{
		ViewportID: viewportID,
		Locator:    locator,
		Initial:    true,
		epoch:      vp.epoch,
	}
	m.log.Debug().Str("viewport", viewportID).Str("locator", locator).Msg("initial load issued")

	return func(ctx context.Context) LoadResult {
		units, err := m.fetcher.FetchByLocator(ctx, viewportID, locator)
		return LoadResult{Request: req, Units: units, Err: err}
	}, nil
}

// CheckAndLoadMore is the synchronous per-scroll edge check. Work is
// bounded by the rendered count and there is no I/O unless a load actually
// triggers. Evicted-but-cached verses near the edges are re-rendered from
// the loaded map first; a fetch is only issued once the rendered edge is
// the true loaded edge. When a load triggers it returns the Fetch to run
// and true; otherwise nil, false.
func (m *Manager) CheckAndLoadMore(viewportID string) (Fetch, bool) {
	vp, ok := m.viewports[viewportID]
	if !ok || vp.busy || len(vp.loaded) == 0 || len(vp.rendered) == 0 {
		return nil, false
	}

	m.restoreFromCache(vp)

	distanceFromTop := vp.scrollTop
	distanceFromBottom := vp.renderedHeight() - vp.scrollTop - vp.height

	minIdx, maxIdx, _ := vp.loadedBounds()
	renderedMin := vp.rendered[0].index
	renderedMax := vp.rendered[len(vp.rendered)-1].index

	switch {
	case distanceFromBottom < m.cfg.EdgeThresholdRows && renderedMax == maxIdx && maxIdx < m.cfg.MaxIndex:
		return m.startLoad(vp, DirectionForward, minIdx, maxIdx)
	case distanceFromTop < m.cfg.EdgeThresholdRows && renderedMin == minIdx && minIdx > m.cfg.MinIndex:
		return m.startLoad(vp, DirectionBackward, minIdx, maxIdx)
	default:
		return nil, false
	}
}

// startLoad computes the next contiguous range adjacent to the loaded
// bounds, clamped to the index domain, and marks the viewport busy. An
// empty range (already at a boundary) declines without touching busy.
func (m *Manager) startLoad(vp *viewport, dir Direction, minIdx, maxIdx int) (Fetch, bool) {
	var start, end int
	switch dir {
	case DirectionForward:
		start, end = maxIdx+1, maxIdx+m.cfg.PageSize
		if end > m.cfg.MaxIndex {
			end = m.cfg.MaxIndex
		}
	case DirectionBackward:
		start, end = minIdx-m.cfg.PageSize, minIdx-1
		if start < m.cfg.MinIndex {
			start = m.cfg.MinIndex
		}
	default:
		return nil, false
	}
	if start > end {
		return nil, false
	}

	vp.busy = true
	vp.direction = dir

	req := LoadRequest{
		ViewportID: vp.id,
		Direction:  dir,
		Start:      start,
		End:        end,
		epoch:      vp.epoch,
	}
	m.log.Debug().
		Str("viewport", vp.id).
		Stringer("direction", dir).
		Int("start", start).
		Int("end", end).
		Msg("load issued")

	viewportID := vp.id
	return func(ctx context.Context) LoadResult {
		units, err := m.fetcher.FetchRange(ctx, viewportID, start, end)
		return LoadResult{Request: req, Units: units, Err: err}
	}, true
}

// ApplyInfo summarizes what Apply did, for the caller's UI bookkeeping.
type ApplyInfo struct {
	ViewportID string
	Stale      bool
	Initial    bool
	Err        error
	Merged     int
	Inserted   int
	Evicted    int
}

// Apply merges a completed load into viewport state: dedupe into the loaded
// map, render and insert missing indices at their sorted positions, correct
// the scroll offset for backward insertions, then run the eviction check.
//
// A result whose epoch predates the viewport's current epoch is from before
// a locator jump and is discarded wholesale. Fetch failures leave the
// loaded map untouched so the next qualifying scroll event retries.
func (m *Manager) Apply(res LoadResult) ApplyInfo {
	info := ApplyInfo{ViewportID: res.Request.ViewportID, Initial: res.Request.Initial}

	vp, ok := m.viewports[res.Request.ViewportID]
	if !ok || res.Request.epoch != vp.epoch {
		info.Stale = true
		m.log.Debug().Str("viewport", res.Request.ViewportID).Msg("stale load result discarded")
		return info
	}

	vp.busy = false
	vp.direction = DirectionNone

	if res.Err != nil {
		info.Err = res.Err
		if res.Request.Initial {
			// An empty pane is worse than a visible error: surface it inline
			// and keep state clean for a retry.
			vp.initialErr = res.Err
		}
		m.log.Error().
			Err(res.Err).
			Str("viewport", vp.id).
			Stringer("direction", res.Request.Direction).
			Msg("load failed")
		if m.bus != nil {
			m.bus.PublishWindowLoadFailed(eventbus.WindowLoadFailedPayload{
				ViewportID: vp.id,
				Err:        res.Err,
			})
		}
		return info
	}

	vp.initialErr = nil

	// Anchor snapshot precedes any structural mutation for backward loads.
	var (
		anchorIdx  int
		anchorTop  int
		anchorOK   bool
		heightGain int
	)
	if res.Request.Direction == DirectionBackward {
		if anchorIdx, anchorOK = vp.centeredIndex(); anchorOK {
			anchorTop, _ = vp.offsetOf(anchorIdx)
		}
	}

	for _, u := range res.Units {
		if _, seen := vp.loaded[u.Index]; !seen {
			info.Merged++
		}
		vp.loaded[u.Index] = u

		if vp.isRendered(u.Index) {
			continue
		}
		el := m.renderer.Render(u, vp.width)
		if vp.insert(u.Index, el) {
			info.Inserted++
			heightGain += el.Height()
		}
	}

	switch {
	case res.Request.Initial:
		vp.scrollTop = 0
		if len(res.Units) > 0 {
			vp.chapterAnchor = res.Units[0].Index
		}
	case res.Request.Direction == DirectionBackward:
		if newTop, found := vp.offsetOf(anchorIdx); anchorOK && found {
			vp.scrollTop += newTop - anchorTop
		} else {
			// Anchor gone (should not normally happen): fall back to the net
			// height added.
			vp.scrollTop += heightGain
		}
	}
	vp.clampScroll()

	info.Evicted = m.evict(vp)

	m.log.Debug().
		Str("viewport", vp.id).
		Int("merged", info.Merged).
		Int("inserted", info.Inserted).
		Int("evicted", info.Evicted).
		Int("loaded", len(vp.loaded)).
		Int("rendered", len(vp.rendered)).
		Msg("load applied")
	if m.bus != nil {
		m.bus.PublishWindowLoaded(eventbus.WindowLoadedPayload{
			ViewportID: vp.id,
			Merged:     info.Merged,
			Inserted:   info.Inserted,
		})
	}
	return info
}

// evict trims the rendered set when it exceeds the ceiling, removing
// elements whose extent lies entirely outside the keep-window around the
// current scroll position. Fetched data stays in the loaded map, so a verse
// scrolled back into view re-renders from cache instead of re-fetching.
func (m *Manager) evict(vp *viewport) int {
	if len(vp.rendered) <= m.cfg.EvictionCeiling {
		return 0
	}

	buffer := m.cfg.EvictionBufferUnits * vp.avgHeight(m.cfg.AvgUnitHeightRows)
	keepTop := vp.scrollTop - buffer
	keepBottom := vp.scrollTop + vp.height + buffer

	type span struct{ i, top, bottom int }
	var candidates []span
	top := 0
	for i, re := range vp.rendered {
		bottom := top + re.el.Height()
		if bottom <= keepTop || top >= keepBottom {
			candidates = append(candidates, span{i: i, top: top, bottom: bottom})
		}
		top = bottom
	}

	// Evicting a handful of elements at a time would thrash; wait for a
	// worthwhile batch.
	if len(candidates) < m.cfg.EvictionMinBatch {
		return 0
	}

	removed := make(map[int]struct{}, len(candidates))
	rowsAboveFold := 0
	for _, c := range candidates {
		removed[c.i] = struct{}{}
		if c.bottom <= vp.scrollTop {
			rowsAboveFold += c.bottom - c.top
		}
	}

	kept := vp.rendered[:0]
	for i, re := range vp.rendered {
		if _, drop := removed[i]; drop {
			vp.heightSum -= re.el.Height()
			vp.heightCount--
			continue
		}
		kept = append(kept, re)
	}
	vp.rendered = kept

	// Removing rows above the fold shifts everything up; compensate so the
	// visible content does not jump.
	vp.scrollTop -= rowsAboveFold
	vp.clampScroll()

	m.log.Debug().
		Str("viewport", vp.id).
		Int("evicted", len(candidates)).
		Int("rendered", len(vp.rendered)).
		Msg("eviction pass")
	if m.bus != nil {
		m.bus.PublishWindowEvicted(eventbus.WindowEvictedPayload{
			ViewportID: vp.id,
			Evicted:    len(candidates),
		})
	}
	return len(candidates)
}

// Busy reports whether a load is in flight for the viewport.
func (m *Manager) Busy(viewportID string) bool {
	vp, ok := m.viewports[viewportID]
	return ok && vp.busy
}

// InitialError returns the inline error state from a failed locator load.
func (m *Manager) InitialError(viewportID string) error {
	if vp, ok := m.viewports[viewportID]; ok {
		return vp.initialErr
	}
	return nil
}

// ChapterAnchor returns the first index of the most recent initial slice.
func (m *Manager) ChapterAnchor(viewportID string) (int, bool) {
	vp, ok := m.viewports[viewportID]
	if !ok || vp.chapterAnchor == 0 {
		return 0, false
	}
	return vp.chapterAnchor, true
}

// LoadedCount returns the number of cached verses for a viewport.
func (m *Manager) LoadedCount(viewportID string) int {
	if vp, ok := m.viewports[viewportID]; ok {
		return len(vp.loaded)
	}
	return 0
}

// RenderedCount returns the number of materialized elements for a viewport.
func (m *Manager) RenderedCount(viewportID string) int {
	if vp, ok := m.viewports[viewportID]; ok {
		return len(vp.rendered)
	}
	return 0
}

// RenderedIndices returns the materialized verse indices in display order.
func (m *Manager) RenderedIndices(viewportID string) []int {
	vp, ok := m.viewports[viewportID]
	if !ok {
		return nil
	}
	out := make([]int, len(vp.rendered))
	for i, re := range vp.rendered {
		out[i] = re.index
	}
	return out
}

// Loaded returns the cached verse for an index, if present.
func (m *Manager) Loaded(viewportID string, index int) (verse.Verse, bool) {
	vp, ok := m.viewports[viewportID]
	if !ok {
		return verse.Verse{}, false
	}
	v, ok := vp.loaded[index]
	return v, ok
}

// restoreFromCache materializes loaded-but-evicted verses that fall inside
// the current keep-window. It never fetches; startLoad covers true gaps.
// Returns the number of elements restored.
func (m *Manager) restoreFromCache(vp *viewport) int {
	if len(vp.rendered) == 0 {
		return 0
	}

	avg := vp.avgHeight(m.cfg.AvgUnitHeightRows)
	buffer := m.cfg.EvictionBufferUnits * avg

	// Estimate how many verses fit between the rendered edges and the
	// keep-window edges, then restore those indices from cache.
	restored := 0
	if vp.scrollTop < buffer {
		missing := (buffer - vp.scrollTop + avg - 1) / avg
		first := vp.rendered[0].index
		for idx := first - 1; idx >= first-missing; idx-- {
			v, cached := vp.loaded[idx]
			if !cached {
				break
			}
			el := m.renderer.Render(v, vp.width)
			if vp.insert(idx, el) {
				vp.scrollTop += el.Height()
				restored++
			}
		}
	}

	distanceFromBottom := vp.renderedHeight() - vp.scrollTop - vp.height
	if distanceFromBottom < buffer {
		missing := (buffer - distanceFromBottom + avg - 1) / avg
		last := vp.rendered[len(vp.rendered)-1].index
		for idx := last + 1; idx <= last+missing; idx++ {
			v, cached := vp.loaded[idx]
			if !cached {
				break
			}
			if vp.insert(idx, m.renderer.Render(v, vp.width)) {
				restored++
			}
		}
	}

	if restored > 0 {
		vp.clampScroll()
		m.log.Debug().Str("viewport", vp.id).Int("restored", restored).Msg("re-rendered from cache")
	}
	return restored
}
