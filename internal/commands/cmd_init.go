package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/config"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
)

type InitCmd struct {
	flags *Flags
	yes   bool
	force bool
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Write a starter configuration with an interactive wizard",
		UsageText: "versewin init [options]",
		Description: `Sets up versewin for first-time use.

The wizard asks for a theme and the translation pair the reader shows, then
writes the config file. Use --yes to accept all defaults without prompts.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite an existing config file",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *InitCmd) run(_ context.Context, _ *cli.Command) error {
	path := cmd.flags.ConfigPath

	if _, err := os.Stat(path); err == nil && !cmd.force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()

	if !cmd.yes {
		themeOptions := make([]huh.Option[string], 0, len(styles.ThemeNames()))
		for _, name := range styles.ThemeNames() {
			themeOptions = append(themeOptions, huh.NewOption(name, name))
		}

		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&cfg.Theme),
			huh.NewInput().
				Title("Source translation id").
				Description("The reference text shown in the left pane").
				Value(&cfg.Translations.Source),
			huh.NewInput().
				Title("Target translation id").
				Description("The draft shown in the right pane").
				Value(&cfg.Translations.Target),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("wizard aborted: %w", err)
		}
	}

	cfg.Translations.Source = strings.TrimSpace(cfg.Translations.Source)
	cfg.Translations.Target = strings.TrimSpace(cfg.Translations.Target)
	cfg.DataDir = cmd.flags.DataDir
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Println(styles.CommandHeaderStyle.Render("Configuration written"))
	fmt.Printf("  %s\n\n", path)
	fmt.Println("Next: import a corpus, then start the reader.")
	fmt.Printf("  versewin import --translation %s 'corpus/**/*.json'\n", cfg.Translations.Source)
	fmt.Println("  versewin")
	return nil
}
