package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/config"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

func (cmd *ConfigCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate the configuration file",
				UsageText:   "versewin config validate [options]",
				Description: "Validates the configuration, checking file paths, the theme, and window tunable ranges.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runValidate,
			},
		},
	})
	return root
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cmd.flags.Config.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Error    string                     `json:"error,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    err == nil,
			Warnings: warnings,
		}
		if err != nil {
			out.Error = err.Error()
		}
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(out); encErr != nil {
			return encErr
		}
		return err
	}

	for _, w := range warnings {
		fmt.Printf("%s %s: %s\n", styles.CommandHeaderStyle.Render("warning"), w.Item, w.Message)
	}
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	fmt.Println("configuration valid")
	return nil
}
