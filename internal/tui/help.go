package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
)

const helpMarkdown = `# Reader Help

## Navigation

| Key | Action |
| --- | --- |
| ` + "`↑` / `k`" + ` | scroll up one row |
| ` + "`↓` / `j`" + ` | scroll down one row |
| ` + "`pgup` / `ctrl+u`" + ` | page up |
| ` + "`pgdn` / `ctrl+d`" + ` | page down |
| ` + "`tab`" + ` | switch focused pane |

## Jumping

Press ` + "`:`" + ` or ` + "`/`" + ` and enter a reference. Both panes move
together.

- ` + "`John 3`" + ` opens the chapter
- ` + "`JHN 3:16`" + ` anchors at the verse
- Book names, codes, and unambiguous prefixes all work

## Other

| Key | Action |
| --- | --- |
| ` + "`enter`" + ` | retry a failed load |
| ` + "`?`" + ` | toggle this help |
| ` + "`q`" + ` | quit |

Press any key to close.
`

// helpView renders the help overlay with the active theme's glamour style.
// A renderer failure falls back to the raw markdown.
func (m *Model) helpView() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.log.Debug().Err(err).Msg("help renderer unavailable, showing raw markdown")
		return helpMarkdown
	}

	rendered, err := renderer.Render(helpMarkdown)
	if err != nil {
		m.log.Debug().Err(err).Msg("help render failed, showing raw markdown")
		return helpMarkdown
	}
	return rendered
}
