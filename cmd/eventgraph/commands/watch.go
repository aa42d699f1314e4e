package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nghood/eventgraph/internal/report"
	"github.com/nghood/eventgraph/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [MANIFEST]",
	Short: "Revalidate a manifest every time it changes",
	Long: `Validate a manifest, then keep validating it whenever the file is saved.

Changes arriving close together are collapsed into a single run; the window is
set by watch.debounce in the config file (default 300ms). Failing runs are
reported but do not stop the watch. Press Ctrl+C to exit.

Examples:
  # Watch the configured manifest
  eventgraph watch

  # Watch a specific file in strict mode
  eventgraph watch docs/bible-data/events.json --strict`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	format, err := parseFormat(cfg.Output)
	if err != nil {
		return err
	}

	path := manifestPath(cfg, args)
	w, err := watch.New(path, cfg.DebounceDuration(), logger)
	if err != nil {
		return out.ErrorWithContext(
			"unable to watch manifest",
			err.Error(),
			map[string]string{"Manifest": displayPath(path)},
			[]string{"Make sure the manifest's directory exists."},
		)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runs := 0
	err = w.Run(ctx, func() {
		runs++
		if runs > 1 {
			out.Println()
		}
		_, res, err := checkManifest(path, format)
		if err != nil {
			// Already printed; a half-written file is normal mid-save.
			return
		}
		if err := presentResult(path, res, format, cfg.Strict); err != nil {
			logger.Debug("Manifest rejected", zap.Int("run", runs), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	if format == report.OutputFormatDefault {
		out.Info("\nStopped watching %s\n", w.Path())
	}
	return nil
}
