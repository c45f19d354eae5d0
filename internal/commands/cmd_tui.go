package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/app"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/tui"
	"github.com/genesis-ai-dev/CodexZero-sub001/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	app   *app.App
}

// NewTuiCmd creates the reader command. It is the root default action.
func NewTuiCmd(flags *Flags, application *app.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: application}
}

// Flags returns the TUI-specific flags for registration on the root command.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("VERSEWIN_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; the reader needs an interactive session")
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	cfg := cmd.app.Config

	// The index domain comes from the stored corpus: the union of both
	// translations' bounds, so either pane can reach its own extremes.
	panes := map[string]string{
		tui.ViewportSource: cfg.Translations.Source,
		tui.ViewportTarget: cfg.Translations.Target,
	}

	domainSet := false
	for _, translation := range panes {
		minIdx, maxIdx, err := cmd.app.Verses.Bounds(ctx, translation)
		if err != nil {
			return fmt.Errorf("no verses stored for %q; run 'versewin import --translation %s <glob>' first", translation, translation)
		}
		if !domainSet || minIdx < cfg.Window.MinIndex {
			cfg.Window.MinIndex = minIdx
		}
		if !domainSet || maxIdx > cfg.Window.MaxIndex {
			cfg.Window.MaxIndex = maxIdx
		}
		domainSet = true
	}

	opts := tui.Options{
		Cfg:           cfg,
		Store:         cmd.app.Verses,
		Positions:     cmd.app.Positions,
		Bus:           cmd.app.Bus,
		Logger:        cmd.app.Log,
		StartLocators: cmd.startLocators(ctx, panes),
	}
	return tui.Run(ctx, opts)
}

// startLocators restores each pane's saved position, expressed as a
// locator the window manager's initial load understands.
func (cmd *TuiCmd) startLocators(ctx context.Context, panes map[string]string) map[string]string {
	locators := make(map[string]string, len(panes))
	for viewportID, translation := range panes {
		index, found, err := cmd.app.Positions.Last(ctx, viewportID)
		if err != nil {
			log.Warn().Err(err).Str("viewport", viewportID).Msg("saved position unreadable")
			continue
		}
		if !found {
			continue
		}

		row, err := cmd.app.DB.Queries().GetVerseByIdx(ctx, translation, index)
		if err != nil {
			log.Warn().Err(err).
				Str("viewport", viewportID).
				Int("index", index).
				Msg("saved position no longer resolves")
			continue
		}
		locators[viewportID] = fmt.Sprintf("%s %d:%d", row.Book, row.Chapter, row.Verse)
	}
	return locators
}
