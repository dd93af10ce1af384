package store

import "time"

// Run is one archived report invocation.
type Run struct {
	ID        int64
	CreatedAt time.Time
	RowCount  int
	Methods   []string // in row order
}
