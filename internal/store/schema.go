package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    row_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_rows (
    run_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    method TEXT NOT NULL,
    path TEXT NOT NULL,
    precision REAL NOT NULL,
    recall REAL NOT NULL,
    fn INTEGER NOT NULL,
    fp INTEGER NOT NULL,
    tp_call INTEGER NOT NULL,
    f1 REAL NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_run_rows_method ON run_rows(method);
`
