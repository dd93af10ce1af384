package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/benchtable/internal/bench"
	"github.com/blackwell-systems/benchtable/internal/output"
	"github.com/blackwell-systems/benchtable/internal/report"
	"github.com/blackwell-systems/benchtable/internal/store"
)

// buildReport loads the result files in order and derives both views.
func buildReport(paths []string) (*report.Report, error) {
	results, err := bench.Load(paths)
	if err != nil {
		return nil, err
	}
	return report.Build(results)
}

// printReport renders the TSV dump and the summary table to w. Rendering
// completes before anything is written.
func printReport(w io.Writer, rep *report.Report) error {
	_, err := io.WriteString(w, output.Render(rep))
	return err
}

// openArchive opens the archive database. With create set the file and
// schema are created as needed; otherwise a missing file is reported as
// store.ErrNotInitialized.
func openArchive(create bool) (*store.Store, error) {
	path, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}

	if create {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	} else if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, store.ErrNotInitialized)
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	if create {
		if err := st.CreateSchema(); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}
