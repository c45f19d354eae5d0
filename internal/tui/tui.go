package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/eventbus"
)

// Run builds the reader model and blocks inside the bubbletea program
// until the user quits.
func Run(ctx context.Context, opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return fmt.Errorf("build reader model: %w", err)
	}

	if opts.Bus != nil {
		opts.Bus.PublishTUIStarted(eventbus.TUIStartedPayload{})
		defer opts.Bus.PublishTUIStopped(eventbus.TUIStoppedPayload{})
	}

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run reader: %w", err)
	}
	return nil
}
