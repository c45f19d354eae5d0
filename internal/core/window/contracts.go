package window

import (
	"context"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/verse"
)

// Direction indicates which edge of the loaded range a fetch extends.
type Direction int

// Load directions.
const (
	DirectionNone Direction = iota
	DirectionForward
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

// Element is a rendered verse: a block of terminal rows produced by the
// surrounding editor's renderer. The manager only ever measures it and
// hands its lines to the view.
type Element interface {
	Lines() []string
	Height() int
}

// Renderer produces a displayable element for one verse at a given pane
// width. It must be pure with respect to manager state; internal side
// effects (style caches and the like) are its own business.
type Renderer interface {
	Render(v verse.Verse, width int) Element
}

// RangeFetcher supplies contiguous slices of verses. Results must be sorted
// ascending by index, and a failed fetch must return an error rather than a
// partial slice.
type RangeFetcher interface {
	FetchRange(ctx context.Context, viewportID string, start, end int) ([]verse.Verse, error)
	FetchByLocator(ctx context.Context, viewportID string, locator string) ([]verse.Verse, error)
}

// LoadRequest describes one pending fetch. It exists only for the duration
// of the fetch and comes back attached to the LoadResult.
type LoadRequest struct {
	ViewportID string
	Direction  Direction
	Start, End int    // inclusive bounds for range loads
	Locator    string // set for initial loads
	Initial    bool
	epoch      uint64
}

// LoadResult is the completion of one fetch, applied via Manager.Apply.
type LoadResult struct {
	Request LoadRequest
	Units   []verse.Verse
	Err     error
}

// Fetch performs the asynchronous part of a load. The caller runs it off
// the update loop (a tea.Cmd in the TUI) and feeds the result back into
// Manager.Apply on the update loop.
type Fetch func(ctx context.Context) LoadResult
