package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/planlint/planlint/internal/planning"
)

// StorePlan writes a plan under its name and returns the new iteration.
//
// expectedIteration implements optimistic locking: pass the iteration from a
// prior GetPlan to fail with ErrStaleIteration if someone stored the plan in
// between, or 0 to create the plan or overwrite it unconditionally.
//
// Storing content that differs from what is on record demotes the plan to
// draft and clears any approval; the old report no longer describes it.
func (s *Store) StorePlan(ctx context.Context, plan *planning.Plan, expectedIteration int) (int, error) {
	if plan == nil {
		return 0, errors.New("plan cannot be nil")
	}
	if plan.Name == "" {
		return 0, errors.New("plan name cannot be empty")
	}

	content, err := planning.Canonicalize(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to canonicalize plan: %w", err)
	}
	hash, err := planning.Fingerprint(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint plan: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())

	var (
		currentIteration int
		currentHash      string
		currentStatus    string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT iteration, content_hash, status FROM plans WHERE name = ?`,
		plan.Name,
	).Scan(&currentIteration, &currentHash, &currentStatus)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO plans (name, content, content_hash, iteration, status, created_at, updated_at)
			VALUES (?, ?, ?, 1, ?, ?, ?)`,
			plan.Name, string(content), hash, string(planning.PlanStatusDraft), now, now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert plan: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return 1, nil

	case err != nil:
		return 0, fmt.Errorf("failed to query plan: %w", err)
	}

	if expectedIteration > 0 && expectedIteration != currentIteration {
		return 0, fmt.Errorf("plan %q is at iteration %d, expected %d: %w",
			plan.Name, currentIteration, expectedIteration, ErrStaleIteration)
	}

	newIteration := currentIteration + 1
	status := currentStatus
	clearApproval := false
	if hash != currentHash {
		status = string(planning.PlanStatusDraft)
		clearApproval = true
	}

	if clearApproval {
		_, err = tx.ExecContext(ctx, `
			UPDATE plans
			SET content = ?, content_hash = ?, iteration = ?, status = ?,
			    updated_at = ?, approved_at = NULL, approved_by = ''
			WHERE name = ?`,
			string(content), hash, newIteration, status, now, plan.Name,
		)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE plans
			SET content = ?, content_hash = ?, iteration = ?, status = ?, updated_at = ?
			WHERE name = ?`,
			string(content), hash, newIteration, status, now, plan.Name,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return newIteration, nil
}

// GetPlan fetches a stored plan by name. Returns (nil, 0, nil) when no plan
// with that name exists. The second return is the stored iteration, for use
// as StorePlan's expectedIteration.
func (s *Store) GetPlan(ctx context.Context, name string) (*planning.Plan, int, error) {
	var (
		content    string
		iteration  int
		status     string
		createdAt  string
		updatedAt  string
		approvedAt sql.NullString
		approvedBy string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT content, iteration, status, created_at, updated_at, approved_at, approved_by
		FROM plans WHERE name = ?`,
		name,
	).Scan(&content, &iteration, &status, &createdAt, &updatedAt, &approvedAt, &approvedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query plan: %w", err)
	}

	plan, err := scanPlan(content, iteration, status, createdAt, updatedAt, approvedAt, approvedBy)
	if err != nil {
		return nil, 0, err
	}
	return plan, iteration, nil
}

// ListPlans returns all stored plans, most recently updated first.
func (s *Store) ListPlans(ctx context.Context) ([]*planning.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content, iteration, status, created_at, updated_at, approved_at, approved_by
		FROM plans ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*planning.Plan
	for rows.Next() {
		var (
			content    string
			iteration  int
			status     string
			createdAt  string
			updatedAt  string
			approvedAt sql.NullString
			approvedBy string
		)
		if err := rows.Scan(&content, &iteration, &status, &createdAt, &updatedAt, &approvedAt, &approvedBy); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plan, err := scanPlan(content, iteration, status, createdAt, updatedAt, approvedAt, approvedBy)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	return plans, nil
}

// DeletePlan removes a plan and, through the schema's cascade, its runs.
// Deleting a plan that does not exist is not an error.
func (s *Store) DeletePlan(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// SetPlanStatus moves a stored plan to the given lifecycle state. Entering
// the approved state stamps approved_at and approved_by; entering any other
// state clears them.
func (s *Store) SetPlanStatus(ctx context.Context, name string, status planning.PlanStatus, actor string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid plan status: %q", status)
	}

	now := formatTime(time.Now())

	var (
		result sql.Result
		err    error
	)
	if status == planning.PlanStatusApproved {
		result, err = s.db.ExecContext(ctx, `
			UPDATE plans
			SET status = ?, updated_at = ?, approved_at = ?, approved_by = ?
			WHERE name = ?`,
			string(status), now, now, actor, name,
		)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE plans
			SET status = ?, updated_at = ?, approved_at = NULL, approved_by = ''
			WHERE name = ?`,
			string(status), now, name,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("plan %q not found", name)
	}
	return nil
}

// scanPlan rebuilds a Plan from its canonical content blob plus the
// lifecycle columns. Content fields always come from the blob; lifecycle
// fields always come from the columns, which are authoritative.
func scanPlan(content string, iteration int, status, createdAt, updatedAt string, approvedAt sql.NullString, approvedBy string) (*planning.Plan, error) {
	var plan planning.Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan content: %w", err)
	}

	plan.Iteration = iteration
	plan.Status = planning.PlanStatus(status)
	plan.ApprovedBy = approvedBy

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	plan.CreatedAt = created

	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	plan.UpdatedAt = updated

	if approvedAt.Valid && approvedAt.String != "" {
		approved, err := parseTime(approvedAt.String)
		if err != nil {
			return nil, err
		}
		plan.ApprovedAt = &approved
	}

	return &plan, nil
}
