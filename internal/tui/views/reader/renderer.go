package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/verse"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/window"
)

// element is one verse materialized as wrapped terminal rows.
type element struct {
	lines []string
}

func (e element) Lines() []string { return e.lines }
func (e element) Height() int     { return len(e.lines) }

// VerseRenderer turns verses into styled, word-wrapped elements. Height is
// whatever the wrap produces; the window manager measures it per element.
type VerseRenderer struct{}

var _ window.Renderer = VerseRenderer{}

// Render wraps the verse text at the pane width with a styled verse number
// prefix. The first verse of a chapter gets a heading line above it.
func (VerseRenderer) Render(v verse.Verse, width int) window.Element {
	if width < 8 {
		width = 8
	}

	num := styles.VerseNumStyle.Render(fmt.Sprintf("%d", v.Ref.Verse))
	body := styles.VerseTextStyle.Render(v.Text)
	wrapped := ansi.Wordwrap(num+" "+body, width, "")

	var lines []string
	if v.Ref.Verse == 1 {
		heading := fmt.Sprintf("%s %d", v.Ref.Book, v.Ref.Chapter)
		lines = append(lines, styles.ChapterHeadingStyle.Render(heading))
	}
	lines = append(lines, strings.Split(wrapped, "\n")...)
	return element{lines: lines}
}
