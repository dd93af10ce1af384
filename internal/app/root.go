package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/benchtable/internal/config"
)

var (
	dbPath  string
	verbose bool

	// cfg is the environment configuration with flag overrides applied.
	cfg *config.Config

	// RootCmd is the root command for benchtable
	RootCmd = &cobra.Command{
		Use:   "benchtable [flags] <result.json>...",
		Short: "Tabulate per-method benchmark results",
		Long: `benchtable aggregates per-method benchmark result files into two tables.

Each argument is a JSON file holding one method's metrics (precision, recall,
FN, FP, TP-call, f1). The method name is taken from the file's directory:
results/<method>/summary.json, or <method>/summary.json.

Output (stdout):
  1. A tab-separated dump: method, FDR, FN, FP, TP-call, precision, recall, f1
  2. A pipe table without f1 but with recall-% and FP-%, both relative to the
     first file given (the baseline)

FDR is 1 - precision. Floats are printed with three decimals. The run fails
without printing anything if a file is missing or malformed, or if the
baseline's recall or FP is zero.

Examples:
  # Compare two callers, lumpy as the baseline
  benchtable results/lumpy/summary.json results/manta/summary.json

  # Archive the run, then list and replay archived runs
  benchtable --save results/*/summary.json
  benchtable history
  benchtable show 3

  # Re-render whenever a result file changes
  benchtable --watch results/*/summary.json`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE:              runReport,
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "archive database path (default: $BENCHTABLE_DB or ~/.config/benchtable/benchtable.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

// setup loads the environment configuration, applies flag overrides and
// installs the logger on the command context.
func setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if verbose {
		c.Verbose = true
	}
	cfg = c

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := clog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	cmd.SetContext(clog.WithLogger(ctx, logger))

	logger.Debugf("config: db=%q watch-debounce=%s", cfg.DBPath, cfg.WatchDebounce)
	return nil
}

// printHint is shown for a bare invocation with no result files.
func printHint(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "benchtable: tabulate per-method benchmark results")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: benchtable <prefix>/<method>/<result.json>...")
	fmt.Fprintln(out, "Run 'benchtable --help' for the full reference.")
}
