package commands

import (
	"fmt"

	"github.com/nghood/eventgraph/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and starter manifest",
	Long: `Initialize the current directory with a default configuration and a
starter Bible Event Graph manifest.

Creates:
  • ` + scaffold.ConfigFile + ` - Validator configuration
  • ` + scaffold.ManifestFile + ` - A small manifest that validates cleanly

Use --force to reinitialize (WARNING: overwrites both files).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file and manifest")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check for existing files (unless --force)
	if !forceInit {
		if err := scaffold.CheckExisting("."); err != nil {
			return err
		}
	}

	if err := scaffold.Initialize(".", forceInit, out); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess(out)
	return nil
}
