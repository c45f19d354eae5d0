package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/nav"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/window"
)

// loadResultMsg carries a completed verse fetch back onto the update loop.
type loadResultMsg struct {
	res window.LoadResult
}

// centerDebounceMsg fires after the scroll quiet period. seq is the scroll
// tag captured when the tick was scheduled; a newer scroll invalidates it.
type centerDebounceMsg struct {
	viewportID string
	seq        int
}

// navFlushMsg retries a parked navigation resolve after the throttle
// interval.
type navFlushMsg struct {
	viewportID string
}

// navResultMsg carries a completed location resolve.
type navResultMsg struct {
	res nav.Result
}

func runFetch(fetch window.Fetch) tea.Cmd {
	return func() tea.Msg {
		return loadResultMsg{res: fetch(context.Background())}
	}
}

func runResolve(resolve nav.Resolve) tea.Cmd {
	return func() tea.Msg {
		return navResultMsg{res: resolve(context.Background())}
	}
}

func debounceCenter(viewportID string, seq int, wait time.Duration) tea.Cmd {
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return centerDebounceMsg{viewportID: viewportID, seq: seq}
	})
}

func navFlushTick(viewportID string, wait time.Duration) tea.Cmd {
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return navFlushMsg{viewportID: viewportID}
	})
}
