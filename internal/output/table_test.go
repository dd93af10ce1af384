package output

import (
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/blackwell-systems/benchtable/internal/bench"
	"github.com/blackwell-systems/benchtable/internal/report"
	"github.com/blackwell-systems/benchtable/internal/store"
)

func scenarioA(t *testing.T) *report.Report {
	t.Helper()
	rep, err := report.Build([]bench.Result{
		{
			Path:   "runA/out.json",
			Method: "runA",
			Record: bench.Record{Precision: 0.8, Recall: 0.5, FN: 10, FP: 5, TPCall: 40, F1: 0.62},
		},
		{
			Path:   "runB/out.json",
			Method: "runB",
			Record: bench.Record{Precision: 0.9, Recall: 0.6, FN: 8, FP: 2, TPCall: 45, F1: 0.72},
		},
	})
	if err != nil {
		t.Fatalf("report.Build() failed: %v", err)
	}
	return rep
}

const scenarioATSV = "method\tFDR\tFN\tFP\tTP-call\tprecision\trecall\tf1\n" +
	"runA\t0.200\t10\t5\t40\t0.800\t0.500\t0.620\n" +
	"runB\t0.100\t8\t2\t45\t0.900\t0.600\t0.720\n"

const scenarioASummary = "| method   |   FDR |   FN |   FP |   TP-call |   precision |   recall |   recall-% |    FP-% |\n" +
	"|:---------|------:|-----:|-----:|----------:|------------:|---------:|-----------:|--------:|\n" +
	"| runA     | 0.200 |   10 |    5 |        40 |       0.800 |    0.500 |    100.000 | 100.000 |\n" +
	"| runB     | 0.100 |    8 |    2 |        45 |       0.900 |    0.600 |    120.000 |  40.000 |\n"

func TestRenderTSV_ScenarioA(t *testing.T) {
	got := RenderTSV(scenarioA(t))
	if got != scenarioATSV {
		t.Errorf("RenderTSV() =\n%s\nwant\n%s", got, scenarioATSV)
	}
}

func TestRenderSummary_ScenarioA(t *testing.T) {
	got := RenderSummary(scenarioA(t))
	if got != scenarioASummary {
		t.Errorf("RenderSummary() =\n%s\nwant\n%s", got, scenarioASummary)
	}
}

func TestRender_TSVThenSummary(t *testing.T) {
	got := Render(scenarioA(t))
	if got != scenarioATSV+scenarioASummary {
		t.Errorf("Render() =\n%s", got)
	}
}

func TestRender_RowCountAndFloatFormat(t *testing.T) {
	results := []bench.Result{
		{Method: "base", Record: bench.Record{Precision: 0.87654, Recall: 0.3333333, FN: 1, FP: 3, TPCall: 9, F1: 0.5}},
		{Method: "long-method-name", Record: bench.Record{Precision: 1, Recall: 1, FN: 0, FP: 10000, TPCall: 123456, F1: 1}},
		{Method: "odd", Record: bench.Record{Precision: 1.2, Recall: 0.0001, FN: 7, FP: 1, TPCall: 2, F1: 0}},
	}
	rep, err := report.Build(results)
	if err != nil {
		t.Fatalf("report.Build() failed: %v", err)
	}

	tsv := RenderTSV(rep)
	tsvLines := strings.Split(strings.TrimSuffix(tsv, "\n"), "\n")
	if len(tsvLines) != len(results)+1 {
		t.Fatalf("TSV has %d lines, want %d", len(tsvLines), len(results)+1)
	}

	summary := RenderSummary(rep)
	summaryLines := strings.Split(strings.TrimSuffix(summary, "\n"), "\n")
	if len(summaryLines) != len(results)+2 {
		t.Fatalf("summary has %d lines, want %d", len(summaryLines), len(results)+2)
	}

	threeDecimals := regexp.MustCompile(`^-?\d+\.\d{3}$`)
	floatCols := map[int]bool{1: true, 5: true, 6: true, 7: true}
	for i, line := range tsvLines[1:] {
		fields := strings.Split(line, "\t")
		if fields[0] != results[i].Method {
			t.Errorf("TSV row %d method = %s, want %s", i, fields[0], results[i].Method)
		}
		for col := range floatCols {
			if !threeDecimals.MatchString(fields[col]) {
				t.Errorf("TSV row %d column %s = %q, want 3 decimals", i, TSVColumns[col], fields[col])
			}
		}
	}

	summaryFloatCols := []int{1, 5, 6, 7, 8}
	for i, line := range summaryLines[2:] {
		cells := strings.Split(strings.Trim(line, "|"), "|")
		if len(cells) != len(SummaryColumns) {
			t.Fatalf("summary row %d has %d cells, want %d", i, len(cells), len(SummaryColumns))
		}
		if got := strings.TrimSpace(cells[0]); got != results[i].Method {
			t.Errorf("summary row %d method = %s, want %s", i, got, results[i].Method)
		}
		for _, col := range summaryFloatCols {
			if cell := strings.TrimSpace(cells[col]); !threeDecimals.MatchString(cell) {
				t.Errorf("summary row %d column %s = %q, want 3 decimals", i, SummaryColumns[col], cell)
			}
		}
	}

	// Baseline row reads 100.000 in both percentage columns.
	baseline := strings.Split(strings.Trim(summaryLines[2], "|"), "|")
	if strings.TrimSpace(baseline[7]) != "100.000" || strings.TrimSpace(baseline[8]) != "100.000" {
		t.Errorf("baseline percentages = %q, %q", baseline[7], baseline[8])
	}

	// Every line of the pipe table has the same width.
	for i, line := range summaryLines {
		if len(line) != len(summaryLines[0]) {
			t.Errorf("summary line %d width = %d, want %d", i, len(line), len(summaryLines[0]))
		}
	}
}

func TestRenderTSV_QuotesTabsInMethod(t *testing.T) {
	rep, err := report.Build([]bench.Result{
		{Method: "a\tb", Record: bench.Record{Precision: 0.5, Recall: 0.5, FP: 1}},
	})
	if err != nil {
		t.Fatalf("report.Build() failed: %v", err)
	}
	got := RenderTSV(rep)
	if !strings.Contains(got, "\"a\tb\"\t") {
		t.Errorf("RenderTSV() should quote a method containing a tab, got %q", got)
	}
}

func TestQuoteTSVField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: " sp", want: " sp"},
		{in: "trailing ", want: "trailing "},
		{in: "", want: ""},
		{in: "a\tb", want: "\"a\tb\""},
		{in: `say "hi"`, want: `"say ""hi"""`},
		{in: "two\nlines", want: "\"two\nlines\""},
		{in: "cr\r", want: "\"cr\r\""},
	}
	for _, tt := range tests {
		if got := quoteTSVField(tt.in); got != tt.want {
			t.Errorf("quoteTSVField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderTSV_LeadingSpaceNotQuoted(t *testing.T) {
	rep, err := report.Build([]bench.Result{
		{Method: " sp", Record: bench.Record{Precision: 0.5, Recall: 0.5, FP: 1}},
	})
	if err != nil {
		t.Fatalf("report.Build() failed: %v", err)
	}
	want := " sp\t0.500\t0\t1\t0\t0.500\t0.500\t0.000\n"
	if got := RenderTSV(rep); !strings.HasSuffix(got, want) {
		t.Errorf("RenderTSV() = %q, want suffix %q", got, want)
	}
}

func TestRenderSummary_NumericMethodColumn(t *testing.T) {
	build := func(methods ...string) *report.Report {
		t.Helper()
		results := make([]bench.Result, len(methods))
		for i, m := range methods {
			results[i] = bench.Result{Method: m, Record: bench.Record{Precision: 0.5, Recall: 0.5, FN: 1, FP: 1, TPCall: 1}}
		}
		rep, err := report.Build(results)
		if err != nil {
			t.Fatalf("report.Build() failed: %v", err)
		}
		return rep
	}

	tests := []struct {
		name       string
		methods    []string
		alignStart string
		firstRow   string
	}{
		{
			name:       "integer labels right aligned verbatim",
			methods:    []string{"1", "20"},
			alignStart: "|---------:|",
			firstRow:   "|        1 |",
		},
		{
			name:       "float labels reformatted",
			methods:    []string{"1", "2.5"},
			alignStart: "|---------:|",
			firstRow:   "|    1.000 |",
		},
		{
			name:       "mixed labels stay text",
			methods:    []string{"1", "lumpy"},
			alignStart: "|:---------|",
			firstRow:   "| 1        |",
		},
		{
			name:       "non-finite labels stay text",
			methods:    []string{"inf", "2"},
			alignStart: "|:---------|",
			firstRow:   "| inf      |",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := strings.Split(RenderSummary(build(tt.methods...)), "\n")
			if !strings.HasPrefix(lines[1], tt.alignStart) {
				t.Errorf("alignment line = %q, want prefix %q", lines[1], tt.alignStart)
			}
			if !strings.HasPrefix(lines[2], tt.firstRow) {
				t.Errorf("first row = %q, want prefix %q", lines[2], tt.firstRow)
			}
			if tt.alignStart[1] == '-' && !strings.HasPrefix(lines[0], "|   method |") {
				t.Errorf("numeric method header should be right aligned, got %q", lines[0])
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		s     string
		width int
		right bool
		want  string
	}{
		{"ab", 4, false, "ab  "},
		{"ab", 4, true, "  ab"},
		{"abcdef", 4, true, "abcdef"},
		{"é", 3, true, "  é"},
	}
	for _, tt := range tests {
		if got := pad(tt.s, tt.width, tt.right); got != tt.want {
			t.Errorf("pad(%q, %d, %v) = %q, want %q", tt.s, tt.width, tt.right, got, tt.want)
		}
	}
}

func TestRenderRunTable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		runs     []*store.Run
		contains []string
	}{
		{
			name:     "empty",
			runs:     nil,
			contains: []string{"No archived runs found"},
		},
		{
			name: "two runs",
			runs: []*store.Run{
				{ID: 2, CreatedAt: now.Add(-2 * time.Hour), RowCount: 3, Methods: []string{"lumpy", "manta", "delly"}},
				{ID: 1, CreatedAt: now.Add(-48 * time.Hour), RowCount: 2, Methods: []string{"runA", "runB"}},
			},
			contains: []string{"ID", "Created", "Methods", "2 hours ago", "lumpy, manta, delly", "2 days ago", "runA, runB"},
		},
		{
			name: "multibyte methods truncated on character boundary",
			runs: []*store.Run{
				{ID: 1, CreatedAt: now, RowCount: 1, Methods: []string{strings.Repeat("日", 50)}},
			},
			contains: []string{strings.Repeat("日", 37) + "..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderRunTable(tt.runs)
			if !utf8.ValidString(result) {
				t.Errorf("RenderRunTable() produced invalid UTF-8: %q", result)
			}
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("RenderRunTable() missing %q in:\n%s", s, result)
				}
			}
		})
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now, "just now"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-24 * time.Hour), "1 day ago"},
		{now.Add(-14 * 24 * time.Hour), "2 weeks ago"},
		{now.Add(-60 * 24 * time.Hour), "2 months ago"},
		{now.Add(-400 * 24 * time.Hour), "1 year ago"},
	}

	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 2, "ab"},
		{"日日日日日日日日日日日日日日", 10, "日日日日日日日..."},
		{"日日日", 3, "日日日"},
		{"lumpy, 日本", 7, "lump..."},
		{"日本語", 2, "日本"},
	}
	for _, tt := range tests {
		got := truncate(tt.s, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.s, tt.maxLen)
		}
	}
}

func TestErrorPrefix_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	// Even on a terminal, NO_COLOR wins; os.Stderr in tests is usually not a TTY either.
	if got := ErrorPrefix(nil); got != "Error:" {
		t.Errorf("ErrorPrefix() = %q, want %q", got, "Error:")
	}
}
