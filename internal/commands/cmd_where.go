package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/app"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/canon"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/tui"
)

type WhereCmd struct {
	flags *Flags
	app   *app.App
}

func NewWhereCmd(flags *Flags, application *app.App) *WhereCmd {
	return &WhereCmd{flags: flags, app: application}
}

func (cmd *WhereCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "where",
		Usage:     "Show the saved reading positions and stored translations",
		UsageText: "versewin where",
		Action:    cmd.run,
	})
	return root
}

func (cmd *WhereCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.app.Config

	fmt.Println(styles.CommandHeaderStyle.Render("Reading positions"))
	panes := []struct {
		viewportID  string
		translation string
	}{
		{tui.ViewportSource, cfg.Translations.Source},
		{tui.ViewportTarget, cfg.Translations.Target},
	}
	for _, p := range panes {
		fmt.Printf("  %-8s %s\n", p.viewportID, cmd.position(ctx, p.viewportID, p.translation))
	}

	translations, err := cmd.app.DB.Queries().ListTranslations(ctx)
	if err != nil {
		return fmt.Errorf("list translations: %w", err)
	}

	fmt.Println()
	fmt.Println(styles.CommandHeaderStyle.Render("Stored translations"))
	if len(translations) == 0 {
		fmt.Println(styles.DividerStyle.Render("  none; run 'versewin import' first"))
		return nil
	}
	for _, tc := range translations {
		fmt.Printf("  %-8s %d verses\n", tc.Translation, tc.Verses)
	}
	return nil
}

func (cmd *WhereCmd) position(ctx context.Context, viewportID, translation string) string {
	index, found, err := cmd.app.Positions.Last(ctx, viewportID)
	if err != nil {
		return styles.ErrorStyle.Render(fmt.Sprintf("unreadable: %v", err))
	}
	if !found {
		return styles.DividerStyle.Render("no saved position")
	}

	row, err := cmd.app.DB.Queries().GetVerseByIdx(ctx, translation, index)
	if err != nil {
		return styles.DividerStyle.Render(fmt.Sprintf("index %d (no longer stored in %q)", index, translation))
	}

	label := fmt.Sprintf("%s %d:%d", row.Book, row.Chapter, row.Verse)
	if book, ok := canon.Lookup(row.Book); ok {
		label = fmt.Sprintf("%s %d:%d", book.Name, row.Chapter, row.Verse)
	}
	return fmt.Sprintf("%s  (index %d, %s)", label, index, translation)
}
