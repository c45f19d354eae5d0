// Package tui implements the parallel-text reader: two translation panes
// driven by one window manager, a jump prompt, and a status bar showing
// the resolved centered location.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/config"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/eventbus"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/nav"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/window"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/stores"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/tui/views/reader"
)

// Viewport ids for the two panes.
const (
	ViewportSource = "source"
	ViewportTarget = "target"
)

// UIState tracks which input mode the reader is in.
type UIState int

const (
	stateNormal UIState = iota
	stateJumping
	stateShowingHelp
)

// Options wires the model to the application's services.
type Options struct {
	Cfg       *config.Config
	Store     *stores.VerseStore
	Positions *stores.PositionStore
	Bus       *eventbus.EventBus
	Logger    zerolog.Logger

	// StartLocators maps viewport ids to the locator each pane opens on.
	StartLocators map[string]string
}

// Model is the root bubbletea model.
type Model struct {
	cfg       *config.Config
	log       zerolog.Logger
	bus       *eventbus.EventBus
	win       *window.Manager
	positions *stores.PositionStore

	panes []*reader.Pane
	focus int

	state UIState
	keys  KeyMap
	jump  textinput.Model
	spin  spinner.Model

	width  int
	height int

	// lastLocator remembers each pane's most recent jump target so a
	// failed initial load can be retried with enter.
	lastLocator map[string]string
}

// NewModel builds the reader model and registers both viewports.
func NewModel(opts Options) (*Model, error) {
	win := window.New(opts.Cfg.Window, opts.Store, reader.VerseRenderer{}, opts.Logger)
	if opts.Bus != nil {
		win.AttachBus(opts.Bus)
	}

	jump := textinput.New()
	jump.Prompt = styles.JumpPromptStyle.Render("go to: ")
	jump.Placeholder = "John 3:16"
	jump.TextStyle = styles.JumpInputStyle
	jump.CharLimit = 32

	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.StatusBusyStyle),
	)

	m := &Model{
		cfg:         opts.Cfg,
		log:         opts.Logger,
		bus:         opts.Bus,
		win:         win,
		positions:   opts.Positions,
		keys:        DefaultKeyMap(),
		jump:        jump,
		spin:        spin,
		lastLocator: make(map[string]string),
	}

	panes := []struct {
		id, title, translation string
	}{
		{ViewportSource, "Source", opts.Cfg.Translations.Source},
		{ViewportTarget, "Target", opts.Cfg.Translations.Target},
	}
	for _, p := range panes {
		if err := win.Register(p.id); err != nil {
			return nil, fmt.Errorf("register viewport %s: %w", p.id, err)
		}
		opts.Store.Bind(p.id, p.translation)

		notifier := nav.New(p.id, opts.Store.ResolverFor(p.id), opts.Bus,
			win.Config().NavResolveThrottle, opts.Logger)
		m.panes = append(m.panes, reader.New(p.id, p.title, p.translation, win, notifier))

		locator := opts.StartLocators[p.id]
		if locator == "" {
			locator = "Genesis 1"
		}
		m.lastLocator[p.id] = locator
	}
	m.panes[m.focus].SetFocus(true)

	return m, nil
}

// Init issues the opening loads for both panes.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	for _, p := range m.panes {
		cmds = append(cmds, m.loadLocator(p.ID, m.lastLocator[p.ID]))
	}
	return tea.Batch(cmds...)
}

// Update is the single-threaded entry point all window manager and
// notifier calls go through.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case loadResultMsg:
		return m, m.applyLoad(msg.res)

	case centerDebounceMsg:
		return m, m.deriveCenter(msg)

	case navFlushMsg:
		return m, m.flushNav(msg.viewportID)

	case navResultMsg:
		return m, m.applyNav(msg.res)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.state == stateJumping {
		var cmd tea.Cmd
		m.jump, cmd = m.jump.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateJumping:
		return m.updateJumpKeys(msg)
	case stateShowingHelp:
		m.state = stateNormal
		return m, nil
	}

	pane := m.panes[m.focus]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchPane):
		pane.SetFocus(false)
		m.focus = (m.focus + 1) % len(m.panes)
		m.panes[m.focus].SetFocus(true)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m, m.scroll(pane, -1)

	case key.Matches(msg, m.keys.Down):
		return m, m.scroll(pane, 1)

	case key.Matches(msg, m.keys.PageUp):
		return m, m.scroll(pane, -pane.PageSize())

	case key.Matches(msg, m.keys.PageDown):
		return m, m.scroll(pane, pane.PageSize())

	case key.Matches(msg, m.keys.Jump):
		m.state = stateJumping
		m.jump.SetValue("")
		m.jump.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Retry):
		if m.win.InitialError(pane.ID) != nil {
			return m, m.loadLocator(pane.ID, m.lastLocator[pane.ID])
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.state = stateShowingHelp
		return m, nil
	}
	return m, nil
}

func (m *Model) updateJumpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateNormal
		m.jump.Blur()
		return m, nil

	case "enter":
		locator := strings.TrimSpace(m.jump.Value())
		m.state = stateNormal
		m.jump.Blur()
		if locator == "" {
			return m, nil
		}

		// A jump moves both panes; the shared index layout keeps them on
		// the same passage.
		var cmds []tea.Cmd
		for _, p := range m.panes {
			m.lastLocator[p.ID] = locator
			cmds = append(cmds, m.loadLocator(p.ID, locator))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

// scroll moves the focused pane, schedules the centered-verse derivation
// behind the debounce, and runs the synchronous edge check.
func (m *Model) scroll(pane *reader.Pane, delta int) tea.Cmd {
	seq := pane.ScrollBy(delta)

	cmds := []tea.Cmd{
		debounceCenter(pane.ID, seq, m.win.Config().ScrollCenterDebounce),
	}
	if fetch, ok := m.win.CheckAndLoadMore(pane.ID); ok {
		cmds = append(cmds, runFetch(fetch))
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadLocator(viewportID, locator string) tea.Cmd {
	fetch, err := m.win.LoadInitial(viewportID, locator)
	if err != nil {
		m.log.Error().Err(err).Str("viewport", viewportID).Msg("initial load refused")
		return nil
	}
	return runFetch(fetch)
}

// applyLoad merges a fetch result and, for fresh initial slices, derives
// the centered verse immediately so the header is right without waiting
// for a scroll.
func (m *Model) applyLoad(res window.LoadResult) tea.Cmd {
	info := m.win.Apply(res)
	if info.Stale || info.Err != nil {
		return nil
	}

	if info.Initial {
		if pane := m.pane(info.ViewportID); pane != nil {
			return debounceCenter(pane.ID, pane.ScrollSeq(), m.win.Config().ScrollCenterDebounce)
		}
	}
	return nil
}

// deriveCenter runs after the scroll quiet period: derive the centered
// verse, hand it to the notifier, and persist it as the pane's position.
func (m *Model) deriveCenter(msg centerDebounceMsg) tea.Cmd {
	pane := m.pane(msg.viewportID)
	if pane == nil || msg.seq != pane.ScrollSeq() {
		return nil
	}

	index, ok := m.win.CenteredIndex(pane.ID)
	if !ok {
		return nil
	}

	cmds := []tea.Cmd{m.savePosition(pane.ID, index)}
	if resolve, issued := pane.Nav().Note(index); issued {
		cmds = append(cmds, runResolve(resolve))
	} else if pane.Nav().Pending() {
		cmds = append(cmds, navFlushTick(pane.ID, m.win.Config().NavResolveThrottle))
	}
	return tea.Batch(cmds...)
}

func (m *Model) flushNav(viewportID string) tea.Cmd {
	pane := m.pane(viewportID)
	if pane == nil {
		return nil
	}
	if resolve, issued := pane.Nav().Flush(); issued {
		return runResolve(resolve)
	}
	if pane.Nav().Pending() {
		return navFlushTick(viewportID, m.win.Config().NavResolveThrottle)
	}
	return nil
}

func (m *Model) applyNav(res nav.Result) tea.Cmd {
	pane := m.pane(res.ViewportID)
	if pane == nil {
		return nil
	}
	pane.Nav().Apply(res)
	return m.flushNav(res.ViewportID)
}

func (m *Model) savePosition(viewportID string, index int) tea.Cmd {
	if m.positions == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.positions.Save(context.Background(), viewportID, index); err != nil {
			m.log.Warn().Err(err).Str("viewport", viewportID).Msg("position save failed")
		}
		return nil
	}
}

func (m *Model) pane(viewportID string) *reader.Pane {
	for _, p := range m.panes {
		if p.ID == viewportID {
			return p
		}
	}
	return nil
}

// layout splits the width between the two panes, reserving one row for
// the status bar.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	paneHeight := m.height - 1
	left := m.width / 2
	right := m.width - left

	widths := []int{left, right}
	for i, p := range m.panes {
		if err := p.SetSize(widths[i], paneHeight); err != nil {
			m.log.Error().Err(err).Str("viewport", p.ID).Msg("resize failed")
		}
	}
}

// View renders the two panes over a one-row status bar; the help overlay
// replaces everything.
func (m *Model) View() string {
	if m.width <= 0 {
		return ""
	}
	if m.state == stateShowingHelp {
		return m.helpView()
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		m.panes[0].View(m.spin.View()),
		m.panes[1].View(m.spin.View()),
	)
	return row + "\n" + m.statusBar()
}

func (m *Model) statusBar() string {
	if m.state == stateJumping {
		return m.jump.View()
	}

	pane := m.panes[m.focus]
	location := styles.StatusLocationStyle.Render(styles.IconLocation + " " + pane.StatusLabel())

	busy := ""
	if m.win.Busy(pane.ID) {
		busy = styles.StatusBusyStyle.Render(" loading ")
	}

	hint := styles.StatusHelpStyle.Render(" tab: switch  :: jump  ?: help  q: quit")

	bar := location + busy + hint
	gap := m.width - lipgloss.Width(bar)
	if gap > 0 {
		bar += styles.StatusBarStyle.Render(strings.Repeat(" ", gap))
	}
	return bar
}
