package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/benchtable/internal/report"
	"github.com/blackwell-systems/benchtable/internal/watcher"
)

var (
	saveRun     bool
	watchInputs bool
)

func init() {
	RootCmd.Flags().BoolVar(&saveRun, "save", false, "archive this run in the database")
	RootCmd.Flags().BoolVarP(&watchInputs, "watch", "w", false, "re-render whenever an input file changes")
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		printHint(cmd)
		return nil
	}

	archive := saveRun || dbPath != ""
	if watchInputs && archive {
		return errors.New("--watch cannot be combined with --save or --db")
	}

	ctx := cmd.Context()
	clog.FromContext(ctx).Debugf("building report from %d files", len(args))

	rep, err := buildReport(args)
	if err != nil {
		return err
	}

	if err := printReport(cmd.OutOrStdout(), rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if archive {
		id, err := archiveReport(rep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Archived as run %d (%s)\n", id, strings.Join(rep.Methods(), ", "))
	}

	if watchInputs {
		return watchReport(ctx, cmd.OutOrStdout(), args)
	}
	return nil
}

// archiveReport stores the report's results as a new run.
func archiveReport(rep *report.Report) (int64, error) {
	st, err := openArchive(true)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	id, err := st.SaveRun(rep.Results(), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to archive run: %w", err)
	}
	return id, nil
}

// watchReport re-renders the report to w on every input change until ctx is
// cancelled.
func watchReport(ctx context.Context, w io.Writer, paths []string) error {
	log := clog.FromContext(ctx)

	wt, err := watcher.New(paths, cfg.WatchDebounce, func(ctx context.Context) error {
		rep, err := buildReport(paths)
		if err != nil {
			return err
		}
		return printReport(w, rep)
	})
	if err != nil {
		return err
	}

	if err := wt.Start(ctx); err != nil {
		return err
	}
	defer wt.Stop()

	log.Infof("watching %d files, press Ctrl-C to stop", len(paths))
	<-ctx.Done()
	log.Debugf("stopping after %d re-renders", wt.Renders())
	return nil
}
