package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/app"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/styles"
)

type ImportCmd struct {
	flags       *Flags
	app         *app.App
	translation string
}

func NewImportCmd(flags *Flags, application *app.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: application}
}

func (cmd *ImportCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import a translation corpus from JSON book files",
		UsageText: "versewin import --translation <id> <glob>",
		Description: `Imports verse text from JSON book files into the local database.

Each file holds one book:

  {"book": "JHN", "chapters": [["verse 1 text", "verse 2 text"], ...]}

The glob supports ** recursion, e.g. 'corpus/web/**/*.json'. Global verse
indices are assigned in canonical book order and shared across translations,
so import the most complete translation first.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "translation",
				Aliases:     []string{"t"},
				Usage:       "translation id to import into (e.g. web, draft)",
				Required:    true,
				Destination: &cmd.translation,
			},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one glob argument, got %d", c.Args().Len())
	}
	pattern := c.Args().First()

	summary, err := cmd.app.Importer.ImportGlob(ctx, cmd.translation, pattern)
	if err != nil {
		return fmt.Errorf("import %q: %w", pattern, err)
	}

	fmt.Println(styles.CommandHeaderStyle.Render(fmt.Sprintf("Imported %q", cmd.translation)))
	fmt.Printf("  files:  %d\n", summary.Files)
	fmt.Printf("  books:  %d\n", summary.Books)
	fmt.Printf("  verses: %d\n", summary.Verses)
	for _, skipped := range summary.Skipped {
		fmt.Println(styles.DividerStyle.Render("  skipped: " + skipped))
	}
	return nil
}
