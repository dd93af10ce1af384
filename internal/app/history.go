package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/benchtable/internal/output"
	"github.com/blackwell-systems/benchtable/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived runs",
	Long: `List runs archived with --save or --db, newest first.

Use 'benchtable show <id>' to print an archived run again.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived run",
	Long: `Print the TSV dump and summary table of an archived run, exactly as
they were printed when the run was archived.`,
	Example: `  benchtable show 3
  benchtable --db ./bench.db show 1`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var forgetCmd = &cobra.Command{
	Use:   "forget <id>",
	Short: "Delete an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runForget,
}

func init() {
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(forgetCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openArchive(false)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderRunTable(runs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	st, err := openArchive(false)
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.LoadResults(id)
	if err != nil {
		return err
	}

	rep, err := report.Build(results)
	if err != nil {
		return fmt.Errorf("failed to rebuild run %d: %w", id, err)
	}
	return printReport(cmd.OutOrStdout(), rep)
}

func runForget(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	st, err := openArchive(false)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteRun(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %d\n", id)
	return nil
}

// parseRunID parses a positive run id.
func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id: %q (must be a positive integer)", s)
	}
	return id, nil
}
