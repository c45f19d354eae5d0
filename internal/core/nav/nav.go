// Package nav keeps the navigation header in sync with the centered verse
// of the focused pane. Scroll activity produces centered indices faster
// than the backend can resolve them to canonical locations, so the
// notifier throttles resolve requests, keeps at most one in flight, and
// lets the latest index win: an index noted while a resolve is in flight
// replaces any earlier pending index and is issued when the in-flight
// resolve lands.
//
// Like the window manager, the notifier is single-threaded by contract:
// all methods run on the update loop, and the Resolve closure it hands
// back is the only piece that runs elsewhere, re-entering through Apply.
package nav

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/eventbus"
	"github.com/genesis-ai-dev/CodexZero-sub001/pkg/kv"
)

// Location is a resolved canonical position in the verse sequence.
type Location struct {
	Index   int
	Book    string
	Chapter int
	Verse   int
	Label   string
}

// Resolver maps a global verse index to its canonical location.
type Resolver interface {
	Resolve(ctx context.Context, index int) (Location, error)
}

// Result is a completed resolve, fed back through Apply.
type Result struct {
	ViewportID string
	Loc        Location
	Err        error
	seq        uint64
}

// Resolve runs one resolve off the update loop.
type Resolve func(ctx context.Context) Result

const noPending = -1

// Notifier throttles and serializes centered-index resolution for one
// viewport and publishes the resolved location on the event bus.
type Notifier struct {
	viewportID string
	resolver   Resolver
	bus        *eventbus.EventBus
	log        zerolog.Logger
	throttle   time.Duration

	cache *kv.Store[int, Location]
	now   func() time.Time

	seq       uint64
	busy      bool
	pending   int
	lastIssue time.Time
	current   Location
	currentOK bool
}

// New creates a notifier for one viewport. The bus is optional.
func New(viewportID string, resolver Resolver, bus *eventbus.EventBus, throttle time.Duration, logger zerolog.Logger) *Notifier {
	return &Notifier{
		viewportID: viewportID,
		resolver:   resolver,
		bus:        bus,
		log:        logger,
		throttle:   throttle,
		cache:      kv.New[int, Location](),
		now:        time.Now,
		pending:    noPending,
	}
}

// Current returns the most recently resolved location.
func (n *Notifier) Current() (Location, bool) {
	return n.current, n.currentOK
}

// Pending reports whether an index is waiting to be issued.
func (n *Notifier) Pending() bool {
	return n.pending != noPending
}

// Note records a newly derived centered index. A cached location applies
// immediately with no I/O. Otherwise a Resolve is returned when the
// notifier is idle and outside the throttle interval; when it is not, the
// index is parked as pending, overwriting any earlier pending index, and
// the caller retries via Flush.
func (n *Notifier) Note(index int) (Resolve, bool) {
	if n.currentOK && n.current.Index == index {
		return nil, false
	}

	if loc, ok := n.cache.Get(index); ok {
		n.apply(loc)
		return nil, false
	}

	if n.busy || n.now().Sub(n.lastIssue) < n.throttle {
		n.pending = index
		return nil, false
	}
	return n.issue(index), true
}

// Flush issues the pending index if the notifier has gone idle. Callers
// invoke it after Apply and on throttle ticks.
func (n *Notifier) Flush() (Resolve, bool) {
	if n.pending == noPending || n.busy {
		return nil, false
	}
	if n.now().Sub(n.lastIssue) < n.throttle {
		return nil, false
	}
	index := n.pending
	n.pending = noPending

	if loc, ok := n.cache.Get(index); ok {
		n.apply(loc)
		return nil, false
	}
	return n.issue(index), true
}

func (n *Notifier) issue(index int) Resolve {
	n.seq++
	n.busy = true
	n.lastIssue = n.now()

	seq := n.seq
	viewportID := n.viewportID
	n.log.Debug().Str("viewport", viewportID).Int("index", index).Msg("resolve issued")

	return func(ctx context.Context) Result {
		loc, err := n.resolver.Resolve(ctx, index)
		return Result{ViewportID: viewportID, Loc: loc, Err: err, seq: seq}
	}
}

// Apply merges a completed resolve. Results from superseded requests are
// discarded; only the newest issued resolve may update the header. A
// failed resolve is dropped silently, since the header simply keeps its
// previous value and the next scroll event produces a fresh index.
func (n *Notifier) Apply(res Result) (Location, bool) {
	if res.seq != n.seq {
		return Location{}, false
	}
	n.busy = false

	if res.Err != nil {
		n.log.Warn().Err(res.Err).Str("viewport", n.viewportID).Msg("resolve failed")
		return Location{}, false
	}

	n.cache.Set(res.Loc.Index, res.Loc)
	n.apply(res.Loc)
	return res.Loc, true
}

func (n *Notifier) apply(loc Location) {
	n.current = loc
	n.currentOK = true
	if n.bus != nil {
		n.bus.PublishNavLocationChanged(eventbus.NavLocationChangedPayload{
			ViewportID: n.viewportID,
			Index:      loc.Index,
			Book:       loc.Book,
			Chapter:    loc.Chapter,
			Verse:      loc.Verse,
			Label:      loc.Label,
		})
	}
}
