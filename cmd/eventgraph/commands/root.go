package commands

import (
	"context"
	"fmt"

	"github.com/nghood/eventgraph/internal/config"
	"github.com/nghood/eventgraph/internal/printer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version string
	commit  string
	date    string

	configPath   string
	outputFormat string
	strict       bool
	verbose      bool

	// logger carries diagnostic output; it stays a no-op unless --verbose
	logger = zap.NewNop()

	// out carries everything the user is meant to read
	out = printer.Default()
)

// rootCmd represents the base command; without a subcommand it validates a manifest
var rootCmd = &cobra.Command{
	Use:   "eventgraph [MANIFEST]",
	Short: "eventgraph - Bible Event Graph manifest validator",
	Long: `eventgraph validates Bible Event Graph manifests before the site's
event tree trusts them.

A manifest is a JSON document whose "events" object maps event ids to events.
Each event names its parent through parent_id, forming a forest. Validation
checks every event's fields, that every parent exists, that at least one root
exists, that the parent relation has no cycles, and that siblings never share
an order value.

The manifest path is taken from the first argument, then from the config file
(` + config.DefaultPath + `), then defaults to ` + config.DefaultManifest + `.

Examples:
  # Validate the configured manifest
  eventgraph

  # Validate a specific file and emit JSON for CI
  eventgraph docs/bible-data/events.json --output=json

  # Treat warnings (events without an order) as failures
  eventgraph --strict`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: setupLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runValidate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a parent context; long-running commands
// such as watch stop when it is cancelled.
func ExecuteContext(ctx context.Context) error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors through the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !printer.IsReported(err) {
		// Flag and argument errors come straight from Cobra
		out.Error(err.Error(), "", []string{"See 'eventgraph --help' for usage."})
	}
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", config.OutputDefault, "Output format: default or json")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Treat warnings as validation failures")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
}

// setupLogger builds the debug logger when --verbose is set
func setupLogger(cmd *cobra.Command, args []string) error {
	if !verbose {
		logger = zap.NewNop()
		return nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// loadSettings reads the config file and applies command-line overrides.
// A missing config file is only an error when --config was given explicitly.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOrDefault(configPath)
	}
	if err != nil {
		return nil, out.ErrorWithContext(
			"invalid configuration",
			err.Error(),
			map[string]string{"Config": configPath},
			[]string{fmt.Sprintf("Fix or remove %s, or run 'eventgraph init' to create one.", configPath)},
		)
	}

	if cmd.Flags().Changed("output") {
		cfg.Output = outputFormat
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = strict
	}

	logger.Debug("Loaded settings",
		zap.String("config", configPath),
		zap.String("manifest", cfg.ManifestPath()),
		zap.String("output", cfg.Output),
		zap.Bool("strict", cfg.Strict))
	return cfg, nil
}

// manifestPath picks the manifest from the arguments or the config
func manifestPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.ManifestPath()
}
