package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/app"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/commands"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/config"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/eventbus"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/logging"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/db"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/stores"
	"github.com/genesis-ai-dev/CodexZero-sub001/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		readerApp = &app.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "versewin",
		Usage:     "Parallel-text Bible reader with windowed verse loading",
		UsageText: "versewin [global options] command [command options]",
		Description: `Versewin shows two translations side by side in scrollable panes backed
by a local SQLite corpus. Only a bounded neighborhood of the ~31k verse
sequence is materialized at a time; scrolling loads more and evicts what
drifted out of reach.

Run 'versewin' with no arguments to open the reader.
Run 'versewin init' for first-time setup and 'versewin import' to load a corpus.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("VERSEWIN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/versewin.log)",
				Sources:     cli.EnvVars("VERSEWIN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("VERSEWIN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("VERSEWIN_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "versewin.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logger = logger.Hook(logging.ContextHook{})
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures the name is valid).
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			database, err = db.Open(cfg.DatabasePath(), db.DefaultOpenOptions())
			if err != nil && stores.IsCorruptionError(err) {
				log.Warn().Err(err).Msg("database corrupt, backing it up and starting fresh")
				if rerr := stores.RecoverFromCorruption(cfg.DatabasePath()); rerr != nil {
					return ctx, fmt.Errorf("recover database: %w", rerr)
				}
				database, err = db.Open(cfg.DatabasePath(), db.DefaultOpenOptions())
			}
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			bus := eventbus.New()
			eventbus.RegisterDebugLogger(bus, logger)
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			// Populate the pre-allocated App struct (commands already hold a
			// pointer to it).
			*readerApp = *app.New(cfg, database, bus, logging.Component("reader"))

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if readerApp.Bus != nil {
				readerApp.Bus.Drain()
			}
			if busCancel != nil {
				busCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, readerApp)
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root = commands.NewInitCmd(flags).Register(root)
	root = commands.NewImportCmd(flags, readerApp).Register(root)
	root = commands.NewWhereCmd(flags, readerApp).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	// The reader is the default action when no subcommand is provided.
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'versewin --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
