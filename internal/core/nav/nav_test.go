package nav

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/eventbus"
)

// fakeResolver resolves indices arithmetically and counts calls.
type fakeResolver struct {
	mu       sync.Mutex
	calls    []int
	failNext error
}

func (r *fakeResolver) Resolve(_ context.Context, index int) (Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, index)
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return Location{}, err
	}
	return Location{
		Index:   index,
		Book:    "JHN",
		Chapter: 3,
		Verse:   index - 26121,
		Label:   "John 3",
	}, nil
}

func (r *fakeResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// fakeClock lets tests step through the throttle interval deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestNotifier(t *testing.T) (*Notifier, *fakeResolver, *fakeClock) {
	t.Helper()
	resolver := &fakeResolver{}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	n := New("source", resolver, nil, 100*time.Millisecond, zerolog.Nop())
	n.now = clock.now
	return n, resolver, clock
}

func run(t *testing.T, n *Notifier, resolve Resolve) (Location, bool) {
	t.Helper()
	return n.Apply(resolve(context.Background()))
}

func TestNotifier_ResolvesAndCaches(t *testing.T) {
	n, resolver, _ := newTestNotifier(t)

	resolve, ok := n.Note(26137)
	require.True(t, ok)

	loc, applied := run(t, n, resolve)
	require.True(t, applied)
	assert.Equal(t, 26137, loc.Index)
	assert.Equal(t, "JHN", loc.Book)
	assert.Equal(t, 16, loc.Verse)

	current, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, loc, current)
	assert.Equal(t, 1, resolver.callCount())
}

func TestNotifier_SameIndexIsANoOp(t *testing.T) {
	n, resolver, clock := newTestNotifier(t)

	resolve, _ := n.Note(26137)
	run(t, n, resolve)
	clock.advance(time.Second)

	_, ok := n.Note(26137)
	assert.False(t, ok)
	assert.Equal(t, 1, resolver.callCount())
}

func TestNotifier_CacheHitSkipsResolver(t *testing.T) {
	bus := eventbus.New()
	n, resolver, clock := newTestNotifier(t)
	n.bus = bus

	var published []eventbus.NavLocationChangedPayload
	bus.SubscribeNavLocationChanged(func(p eventbus.NavLocationChangedPayload) {
		published = append(published, p)
	})

	resolve, _ := n.Note(26137)
	run(t, n, resolve)
	clock.advance(time.Second)
	resolve, _ = n.Note(26140)
	run(t, n, resolve)
	clock.advance(time.Second)

	// Scrolling back to a previously resolved index hits the cache.
	_, ok := n.Note(26137)
	assert.False(t, ok)
	assert.Equal(t, 2, resolver.callCount())

	current, _ := n.Current()
	assert.Equal(t, 26137, current.Index)

	bus.Drain()
	require.Len(t, published, 3)
	assert.Equal(t, 26137, published[2].Index)
	assert.Equal(t, "source", published[2].ViewportID)
}

func TestNotifier_ThrottleParksIndex(t *testing.T) {
	n, resolver, clock := newTestNotifier(t)

	resolve, ok := n.Note(100)
	require.True(t, ok)
	run(t, n, resolve)

	// Within the throttle interval: parked, not issued.
	clock.advance(20 * time.Millisecond)
	_, ok = n.Note(110)
	assert.False(t, ok)
	assert.True(t, n.Pending())
	assert.Equal(t, 1, resolver.callCount())

	// Still inside the interval: Flush declines too.
	_, ok = n.Flush()
	assert.False(t, ok)

	// Once the interval passes, the parked index goes out.
	clock.advance(100 * time.Millisecond)
	resolve, ok = n.Flush()
	require.True(t, ok)
	assert.False(t, n.Pending())

	loc, applied := run(t, n, resolve)
	require.True(t, applied)
	assert.Equal(t, 110, loc.Index)
}

func TestNotifier_LatestIndexWinsWhileBusy(t *testing.T) {
	n, resolver, clock := newTestNotifier(t)

	resolve, ok := n.Note(100)
	require.True(t, ok)

	// Three more indices arrive while the resolve is in flight; only the
	// last survives.
	_, ok2 := n.Note(110)
	assert.False(t, ok2)
	n.Note(120)
	n.Note(130)

	run(t, n, resolve)
	clock.advance(time.Second)

	resolve, ok = n.Flush()
	require.True(t, ok)
	loc, applied := run(t, n, resolve)
	require.True(t, applied)

	assert.Equal(t, 130, loc.Index)
	assert.Equal(t, []int{100, 130}, resolver.calls, "intermediate indices never resolved")
}

func TestNotifier_SupersededResultIsDiscarded(t *testing.T) {
	n, _, clock := newTestNotifier(t)

	resolveA, ok := n.Note(100)
	require.True(t, ok)
	resA := resolveA(context.Background())

	// The first result lands, then a newer resolve goes out before the
	// duplicate delivery of the first.
	_, applied := n.Apply(resA)
	require.True(t, applied)

	clock.advance(time.Second)
	resolveB, ok := n.Note(200)
	require.True(t, ok)

	_, applied = n.Apply(resA)
	assert.False(t, applied, "superseded result must not touch the header")

	loc, applied := run(t, n, resolveB)
	require.True(t, applied)
	assert.Equal(t, 200, loc.Index)
}

func TestNotifier_FailedResolveKeepsPreviousLocation(t *testing.T) {
	n, resolver, clock := newTestNotifier(t)

	resolve, _ := n.Note(100)
	run(t, n, resolve)
	clock.advance(time.Second)

	resolver.failNext = errors.New("backend down")
	resolve, ok := n.Note(200)
	require.True(t, ok)

	_, applied := run(t, n, resolve)
	assert.False(t, applied)

	current, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, 100, current.Index, "header keeps its previous value")

	// The notifier is idle again; the next index resolves normally.
	clock.advance(time.Second)
	resolve, ok = n.Note(200)
	require.True(t, ok)
	loc, applied := run(t, n, resolve)
	require.True(t, applied)
	assert.Equal(t, 200, loc.Index)
}
