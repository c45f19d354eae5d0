// Package reader renders one translation pane backed by a window manager
// viewport.
package reader

import (
	"fmt"
	"strings"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/nav"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/window"
)

// Pane is one scrollable translation view. The window manager owns all
// load state; the pane owns geometry, focus, and the scroll debounce tag.
type Pane struct {
	ID          string
	Title       string
	Translation string

	win *window.Manager
	nav *nav.Notifier

	focused bool
	width   int
	height  int

	// scrollSeq tags the most recent scroll burst; stale debounce ticks
	// carry an older tag and are ignored.
	scrollSeq int
}

// New creates a pane bound to a registered viewport.
func New(id, title, translation string, win *window.Manager, notifier *nav.Notifier) *Pane {
	return &Pane{
		ID:          id,
		Title:       title,
		Translation: translation,
		win:         win,
		nav:         notifier,
	}
}

// Nav returns the pane's navigation notifier.
func (p *Pane) Nav() *nav.Notifier { return p.nav }

// SetFocus toggles the focus highlight.
func (p *Pane) SetFocus(focused bool) { p.focused = focused }

// Focused reports whether the pane has focus.
func (p *Pane) Focused() bool { return p.focused }

// SetSize resizes the pane's outer box and propagates the inner content
// area to the window manager.
func (p *Pane) SetSize(width, height int) error {
	p.width = width
	p.height = height
	return p.win.SetSize(p.ID, p.contentWidth(), p.contentHeight())
}

// contentWidth is the text area inside the border.
func (p *Pane) contentWidth() int {
	w := p.width - 2
	if w < 1 {
		w = 1
	}
	return w
}

// contentHeight is the row count inside the border and title line.
func (p *Pane) contentHeight() int {
	h := p.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// ScrollBy moves the viewport and bumps the debounce tag. Returns the new
// tag for scheduling the centered-verse derivation.
func (p *Pane) ScrollBy(delta int) int {
	p.win.Scroll(p.ID, delta)
	p.scrollSeq++
	return p.scrollSeq
}

// ScrollSeq returns the current debounce tag.
func (p *Pane) ScrollSeq() int { return p.scrollSeq }

// PageSize is the row count of one page scroll.
func (p *Pane) PageSize() int { return p.contentHeight() }

// View renders the pane.
func (p *Pane) View(spinnerView string) string {
	title := p.titleLine(spinnerView)
	body := p.bodyLines()

	content := title + "\n" + strings.Join(body, "\n")

	border := styles.PaneBorderStyle
	if p.focused {
		border = styles.PaneBorderFocusedStyle
	}
	return border.Width(p.contentWidth()).Render(content)
}

func (p *Pane) titleLine(spinnerView string) string {
	style := styles.PaneTitleStyle
	if p.focused {
		style = styles.PaneTitleFocusedStyle
	}
	title := fmt.Sprintf("%s %s [%s]", styles.IconBook, p.Title, p.Translation)
	line := style.Render(title)
	if p.win.Busy(p.ID) && spinnerView != "" {
		line += " " + spinnerView
	}
	return line
}

func (p *Pane) bodyLines() []string {
	height := p.contentHeight()

	if err := p.win.InitialError(p.ID); err != nil {
		lines := make([]string, height)
		lines[0] = styles.ErrorStyle.Render(styles.IconWarn + " " + err.Error())
		if height > 1 {
			lines[1] = styles.StatusHelpStyle.Render("press enter to retry")
		}
		return lines
	}

	lines := p.win.VisibleLines(p.ID)
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// StatusLabel is the pane's contribution to the status bar: the resolved
// centered location, or a placeholder while unresolved.
func (p *Pane) StatusLabel() string {
	if loc, ok := p.nav.Current(); ok {
		return loc.Label
	}
	return "..."
}
