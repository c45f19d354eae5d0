// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import "github.com/charmbracelet/lipgloss"

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	// Pane chrome.
	PaneBorderStyle        lipgloss.Style
	PaneBorderFocusedStyle lipgloss.Style
	PaneTitleStyle         lipgloss.Style
	PaneTitleFocusedStyle  lipgloss.Style

	// Verse rendering.
	VerseNumStyle       lipgloss.Style
	VerseTextStyle      lipgloss.Style
	ChapterHeadingStyle lipgloss.Style

	// Status bar.
	StatusBarStyle      lipgloss.Style
	StatusLocationStyle lipgloss.Style
	StatusBusyStyle     lipgloss.Style
	StatusHelpStyle     lipgloss.Style

	// Jump prompt.
	JumpPromptStyle lipgloss.Style
	JumpInputStyle  lipgloss.Style

	// Inline errors.
	ErrorStyle lipgloss.Style
)

// ColorPool is used for deterministic color hashing of translation badges.
var ColorPool []lipgloss.Color

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	PaneBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface)
	PaneBorderFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	PaneTitleFocusedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	VerseNumStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	VerseTextStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	ChapterHeadingStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground)
	StatusLocationStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	StatusBusyStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorWarning)
	StatusHelpStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorMuted)

	JumpPromptStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	JumpInputStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	ColorPool = []lipgloss.Color{
		ColorPrimary,
		ColorSecondary,
		ColorSuccess,
		ColorWarning,
		ColorError,
		ColorMuted,
	}
}

// ColorForString returns a deterministic color for a given string.
// The same string always produces the same color.
func ColorForString(s string) lipgloss.Color {
	var hash uint32
	for _, c := range s {
		hash = hash*31 + uint32(c)
	}
	return ColorPool[hash%uint32(len(ColorPool))]
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
