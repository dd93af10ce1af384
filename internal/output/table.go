// Package output renders benchtable reports for the terminal.
//
// This package includes:
//   - The TSV dump of a report
//   - The pipe-table summary with baseline percentages
//   - A listing of archived runs
//
// Report renderers emit plain text only so their output can be piped and
// diffed. Color is reserved for diagnostics on a TTY.
package output

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/benchtable/internal/report"
	"github.com/blackwell-systems/benchtable/internal/store"
)

// ANSI color codes for diagnostics
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
)

// TSVColumns is the column order of the TSV dump.
var TSVColumns = []string{"method", "FDR", "FN", "FP", "TP-call", "precision", "recall", "f1"}

// SummaryColumns is the column order of the summary table.
var SummaryColumns = []string{"method", "FDR", "FN", "FP", "TP-call", "precision", "recall", "recall-%", "FP-%"}

// IsColorEnabled returns true if ANSI color codes should be emitted on f.
// It checks that f is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ErrorPrefix returns the "Error:" label used for fatal diagnostics on f.
func ErrorPrefix(f *os.File) string {
	if IsColorEnabled(f) {
		return colorRed + "Error:" + colorReset
	}
	return "Error:"
}

// formatFloat renders every floating column with three decimals.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatCount(v int64) string {
	return strconv.FormatInt(v, 10)
}

// RenderTSV renders the tab-separated dump: a header line followed by one
// line per row in report order.
func RenderTSV(rep *report.Report) string {
	var sb strings.Builder

	writeTSVLine(&sb, TSVColumns)
	for _, row := range rep.Rows {
		writeTSVLine(&sb, []string{
			row.Method,
			formatFloat(row.FDR),
			formatCount(row.FN),
			formatCount(row.FP),
			formatCount(row.TPCall),
			formatFloat(row.Precision),
			formatFloat(row.Recall),
			formatFloat(row.F1),
		})
	}

	return sb.String()
}

func writeTSVLine(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte('\t')
		}
		sb.WriteString(quoteTSVField(f))
	}
	sb.WriteByte('\n')
}

// quoteTSVField quotes a field only when it holds a tab, quote, CR or LF.
// Embedded quotes are doubled. Leading and trailing spaces are kept as is.
func quoteTSVField(f string) string {
	if !strings.ContainsAny(f, "\t\"\r\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// RenderSummary renders the pipe table: header, alignment line, then one line
// per row. Numeric columns are right aligned, with each column at least two
// characters wider than its header. The method column is text unless every
// label is a number, see methodColumn.
func RenderSummary(rep *report.Report) string {
	methods, methodRight := methodColumn(rep.Summary)

	rows := make([][]string, len(rep.Summary))
	for i, s := range rep.Summary {
		rows[i] = []string{
			methods[i],
			formatFloat(s.FDR),
			formatCount(s.FN),
			formatCount(s.FP),
			formatCount(s.TPCall),
			formatFloat(s.Precision),
			formatFloat(s.Recall),
			formatFloat(s.RecallPct),
			formatFloat(s.FPPct),
		}
	}

	rightAlign := make([]bool, len(SummaryColumns))
	rightAlign[0] = methodRight
	for i := 1; i < len(rightAlign); i++ {
		rightAlign[i] = true
	}

	return renderPipeTable(SummaryColumns, rows, rightAlign)
}

// methodColumn returns the method cells and whether the column is numeric.
// Labels such as runs/1/x.json are typed like any other column: all integers
// are right aligned verbatim, all finite numbers with at least one
// non-integer are right aligned and printed with three decimals, anything
// else is left-aligned text.
func methodColumn(rows []report.SummaryRow) ([]string, bool) {
	cells := make([]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Method
	}
	if len(rows) == 0 {
		return cells, false
	}

	allInts := true
	values := make([]float64, len(rows))
	for i, c := range cells {
		if _, err := strconv.ParseInt(c, 10, 64); err != nil {
			allInts = false
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return cells, false
		}
		values[i] = v
	}

	if allInts {
		return cells, true
	}
	for i, v := range values {
		cells[i] = formatFloat(v)
	}
	return cells, true
}

// renderPipeTable lays out a Markdown pipe table.
func renderPipeTable(headers []string, rows [][]string, rightAlign []bool) string {
	const minPadding = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h) + minPadding
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder

	writeLine := func(cells []string) {
		sb.WriteString("|")
		for i, cell := range cells {
			sb.WriteString(" ")
			sb.WriteString(pad(cell, widths[i], rightAlign[i]))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	// Header
	writeLine(headers)

	// Alignment line, one segment per column spanning the padded cell
	sb.WriteString("|")
	for i, w := range widths {
		if rightAlign[i] {
			sb.WriteString(strings.Repeat("-", w+1))
			sb.WriteString(":")
		} else {
			sb.WriteString(":")
			sb.WriteString(strings.Repeat("-", w+1))
		}
		sb.WriteString("|")
	}
	sb.WriteString("\n")

	// Rows
	for _, row := range rows {
		writeLine(row)
	}

	return sb.String()
}

// pad pads s with spaces to width runes.
func pad(s string, width int, right bool) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Render renders the TSV dump followed immediately by the summary table.
func Render(rep *report.Report) string {
	return RenderTSV(rep) + RenderSummary(rep)
}

// RenderRunTable renders a table of archived runs, newest first as given.
func RenderRunTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No archived runs found.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-5s %-17s %-6s %s\n",
		"ID", "Created", "Rows", "Methods"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	// Rows
	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("%-5d %-17s %-6d %s\n",
			run.ID,
			formatRelativeTime(run.CreatedAt),
			run.RowCount,
			truncate(strings.Join(run.Methods, ", "), 40)))
	}

	return sb.String()
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24/7), "week")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/24/30), "month")
	default:
		return plural(int(diff.Hours()/24/365), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// truncate shortens s to maxLen characters, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
