package commands

import (
	"fmt"

	"github.com/nghood/eventgraph/internal/manifest"
	"github.com/nghood/eventgraph/internal/report"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree [MANIFEST]",
	Short: "Print the event tree in display order",
	Long: `Validate a manifest and print its events as the site's tree view would
order them.

Siblings are sorted by their numeric order attribute; events without an order
come last, and ties are broken by title. Nothing is printed beyond the
validation report when the manifest is invalid.

Output Formats:
  default - Indented outline, one event per line
  json    - Nested JSON array of root events

Examples:
  # Outline the configured manifest
  eventgraph tree

  # Export the ordered tree as JSON
  eventgraph tree docs/bible-data/events.json --output=json > tree.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	format, err := parseFormat(cfg.Output)
	if err != nil {
		return err
	}

	path := manifestPath(cfg, args)
	doc, _, err := checkManifest(path, format)
	if err != nil {
		return err
	}

	forest, res := manifest.Build(doc)
	if forest == nil || !report.Passed(res, cfg.Strict) {
		return presentResult(path, res, format, cfg.Strict)
	}

	if format == report.OutputFormatJSON {
		return report.FormatOutlineJSON(out.Out(), forest)
	}

	for _, w := range res.Warnings {
		out.Warning("%s\n", w.Message)
	}
	out.Println()
	if _, err := report.FormatOutline(out.Out(), forest); err != nil {
		return fmt.Errorf("failed to print tree: %w", err)
	}
	return nil
}
