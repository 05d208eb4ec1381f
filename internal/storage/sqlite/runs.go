package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planlint/planlint/internal/planning"
)

// RecordRun persists a validation run, then prunes the plan's history down
// to the retention count. The plan row must already exist.
func (s *Store) RecordRun(ctx context.Context, run *planning.Run) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	if run.ID == "" {
		return errors.New("run ID cannot be empty")
	}
	if run.PlanName == "" {
		return errors.New("run plan name cannot be empty")
	}

	report, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, plan_name, content_hash, valid, violations, warnings, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.PlanName, run.ContentHash, boolToInt(run.Valid),
		run.Violations, run.Warnings, string(report), formatTime(run.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if s.keepRuns > 0 {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM runs
			WHERE plan_name = ? AND id NOT IN (
				SELECT id FROM runs
				WHERE plan_name = ?
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			)`,
			run.PlanName, run.PlanName, s.keepRuns,
		)
		if err != nil {
			return fmt.Errorf("failed to prune runs: %w", err)
		}
	}

	return nil
}

// ListRuns returns run summaries newest first, without the report payload.
// An empty planName lists runs across all plans. limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, planName string, limit int) ([]*planning.Run, error) {
	query := `
		SELECT id, plan_name, content_hash, valid, violations, warnings, created_at
		FROM runs`
	var args []interface{}
	if planName != "" {
		query += ` WHERE plan_name = ?`
		args = append(args, planName)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*planning.Run
	for rows.Next() {
		run, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches a single run with its full report. Returns (nil, nil) when
// the run does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*planning.Run, error) {
	var (
		run       planning.Run
		valid     int
		report    string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, plan_name, content_hash, valid, violations, warnings, report, created_at
		FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.PlanName, &run.ContentHash, &valid,
		&run.Violations, &run.Warnings, &report, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	run.Valid = valid != 0
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = created

	if report != "" && report != "null" {
		var r planning.Report
		if err := json.Unmarshal([]byte(report), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		run.Report = &r
	}

	return &run, nil
}

func scanRunSummary(rows *sql.Rows) (*planning.Run, error) {
	var (
		run       planning.Run
		valid     int
		createdAt string
	)
	if err := rows.Scan(&run.ID, &run.PlanName, &run.ContentHash, &valid,
		&run.Violations, &run.Warnings, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Valid = valid != 0
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = created
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
