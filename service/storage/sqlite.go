package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thirukguru/designer-wrapper/shared/pathutil"
	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.designer-wrapper/history.db"

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	return pathutil.ExpandHome(p)
}

func (s *service) SaveRun(ctx context.Context, input SaveRunInput) (int64, error) {
	if input.Subject == "" {
		return 0, errors.New("subject is required")
	}
	if input.RunUUID == "" {
		input.RunUUID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_uuid, subject, ses_pattern, bids_dir, output_dir,
			duration_ms, exit_code, dry_run, cli_version, run_flags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.RunUUID, input.Subject, input.SesPattern, input.BIDSDir, input.OutputDir,
		input.DurationMs, input.ExitCode, input.DryRun, input.Version, input.FlagsJSON)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err = s.saveStepsTx(ctx, tx, runID, input.Steps); err != nil {
		return 0, err
	}
	if err = s.saveInputsTx(ctx, tx, runID, input.Inputs); err != nil {
		return 0, err
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return runID, nil
}

func (s *service) saveStepsTx(ctx context.Context, tx *sql.Tx, runID int64, steps []StepRecord) error {
	for i, st := range steps {
		pos := st.Position
		if pos == 0 {
			pos = i + 1
		}
		var started any
		if !st.StartedAt.IsZero() {
			started = st.StartedAt.UTC()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_steps(run_id, position, name, command, exit_code, skipped, started_at, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, pos, st.Name, st.Command, st.ExitCode, st.Skipped, started, st.DurationMs)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) saveInputsTx(ctx context.Context, tx *sql.Tx, runID int64, inputs []InputFile) error {
	for _, in := range inputs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_inputs(run_id, kind, path) VALUES (?, ?, ?)
		`, runID, in.Kind, in.Path)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetRecentRuns(subject string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT r.run_id, r.run_uuid, r.subject, COALESCE(r.ses_pattern, ''), r.output_dir, r.run_timestamp,
			r.exit_code, r.dry_run, r.duration_ms, COALESCE(r.cli_version, ''),
			(SELECT COUNT(*) FROM run_steps st WHERE st.run_id = r.run_id AND st.skipped = 0)
		FROM runs r
	`
	args := []any{}
	if subject != "" {
		query += " WHERE r.subject=?"
		args = append(args, subject)
	}
	query += " ORDER BY r.run_timestamp DESC, r.run_id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.RunUUID, &r.Subject, &r.SesPattern, &r.OutputDir, &r.RunTimestamp,
			&r.ExitCode, &r.DryRun, &r.DurationMs, &r.Version, &r.StepCount); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *service) ListSteps(runID int64) ([]StepRecord, error) {
	rows, err := s.db.Query(`
		SELECT position, name, command, exit_code, skipped, started_at, duration_ms
		FROM run_steps WHERE run_id=? ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StepRecord{}
	for rows.Next() {
		var st StepRecord
		var started sql.NullTime
		if err := rows.Scan(&st.Position, &st.Name, &st.Command, &st.ExitCode, &st.Skipped, &started, &st.DurationMs); err != nil {
			return nil, err
		}
		if started.Valid {
			st.StartedAt = started.Time
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *service) ListInputs(runID int64) ([]InputFile, error) {
	rows, err := s.db.Query(`SELECT kind, path FROM run_inputs WHERE run_id=? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []InputFile{}
	for rows.Next() {
		var in InputFile
		if err := rows.Scan(&in.Kind, &in.Path); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_timestamp < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
