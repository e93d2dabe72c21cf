package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    run_id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid        TEXT UNIQUE NOT NULL,
    subject         TEXT NOT NULL,
    ses_pattern     TEXT,
    bids_dir        TEXT NOT NULL,
    output_dir      TEXT NOT NULL,
    run_timestamp   DATETIME DEFAULT CURRENT_TIMESTAMP,
    duration_ms     INTEGER DEFAULT 0,
    exit_code       INTEGER NOT NULL,
    dry_run         INTEGER DEFAULT 0,
    cli_version     TEXT,
    run_flags       TEXT,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_subject_timestamp
    ON runs(subject, run_timestamp);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp
    ON runs(run_timestamp DESC);

CREATE TABLE IF NOT EXISTS run_steps (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          INTEGER NOT NULL,
    position        INTEGER NOT NULL,
    name            TEXT NOT NULL,
    command         TEXT NOT NULL,
    exit_code       INTEGER NOT NULL,
    skipped         INTEGER DEFAULT 0,
    started_at      DATETIME,
    duration_ms     INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_steps_run ON run_steps(run_id);

CREATE TABLE IF NOT EXISTS run_inputs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          INTEGER NOT NULL,
    kind            TEXT NOT NULL,
    path            TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_inputs_run ON run_inputs(run_id);
`
