// Package report turns benchmark results into the rows behind the TSV dump and
// the baseline-normalized summary.
//
// The first result is the baseline: every summary row expresses its recall and
// FP count as a percentage of the baseline's.
package report

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/benchtable/internal/bench"
)

var (
	// ErrNoResults is returned when Build is given nothing to tabulate.
	ErrNoResults = errors.New("no results to tabulate")

	// ErrZeroBaseline is returned when the baseline row's recall or FP is
	// zero, leaving the percentage columns undefined.
	ErrZeroBaseline = errors.New("baseline is zero")
)

// Row is one result plus its false discovery rate.
type Row struct {
	bench.Result
	FDR float64
}

// SummaryRow is a Row normalized against the baseline.
type SummaryRow struct {
	Row
	RecallPct float64
	FPPct     float64
}

// Report holds both views of one set of results, in input order.
type Report struct {
	Rows    []Row
	Summary []SummaryRow
}

// Build derives FDR for every result and normalizes recall and FP against the
// first result. Precision is not range-checked; an out-of-range value yields
// an out-of-range FDR.
func Build(results []bench.Result) (*Report, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	base := results[0]
	if base.Recall == 0 {
		return nil, fmt.Errorf("%w: recall of %s (%s) is 0", ErrZeroBaseline, base.Method, base.Path)
	}
	if base.FP == 0 {
		return nil, fmt.Errorf("%w: FP of %s (%s) is 0", ErrZeroBaseline, base.Method, base.Path)
	}

	rep := &Report{
		Rows:    make([]Row, len(results)),
		Summary: make([]SummaryRow, len(results)),
	}
	for i, res := range results {
		row := Row{
			Result: res,
			FDR:    1 - res.Precision,
		}
		rep.Rows[i] = row
		rep.Summary[i] = SummaryRow{
			Row:       row,
			RecallPct: 100 * res.Recall / base.Recall,
			FPPct:     100 * float64(res.FP) / float64(base.FP),
		}
	}
	return rep, nil
}

// Methods returns the method labels in row order.
func (r *Report) Methods() []string {
	methods := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		methods[i] = row.Method
	}
	return methods
}

// Results returns the underlying results in row order.
func (r *Report) Results() []bench.Result {
	results := make([]bench.Result, len(r.Rows))
	for i, row := range r.Rows {
		results[i] = row.Result
	}
	return results
}
