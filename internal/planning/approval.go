package planning

import (
	"context"
	"fmt"
)

// ApprovalStore is the slice of plan storage that approval needs.
type ApprovalStore interface {
	GetPlan(ctx context.Context, name string) (*Plan, int, error)
	SetPlanStatus(ctx context.Context, name string, status PlanStatus, actor string) error
}

// Approve transitions a stored plan from validated to approved.
//
// The transition is deliberately strict:
//  1. The plan must exist and currently be in the "validated" state. Storing
//     new content resets a plan to "draft", so a validated status always
//     refers to the stages on record.
//  2. The plan is re-validated at approval time. Validation tunables (the
//     denylist in particular) can change between check and approve, and an
//     approval must never sign off on a plan that no longer passes.
//  3. Approving an already-approved plan is an error, not a no-op, so a
//     double sign-off is always surfaced to the caller.
//
// On success the returned plan reflects the approved state and the returned
// report is the fresh validation result. On a re-validation failure the
// report is returned alongside the error so callers can show what broke.
func Approve(ctx context.Context, store ApprovalStore, name, actor string, vctx *ValidationContext) (*Plan, *Report, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("plan name cannot be empty")
	}
	if actor == "" {
		return nil, nil, fmt.Errorf("actor cannot be empty")
	}

	plan, _, err := store.GetPlan(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, nil, fmt.Errorf("plan %q not found", name)
	}

	if plan.Status == PlanStatusApproved {
		if plan.ApprovedAt != nil {
			return nil, nil, fmt.Errorf("plan %q was already approved at %s by %s",
				name, plan.ApprovedAt.Format("2006-01-02 15:04:05"), plan.ApprovedBy)
		}
		return nil, nil, fmt.Errorf("plan %q was already approved", name)
	}
	if plan.Status != PlanStatusValidated {
		return nil, nil, fmt.Errorf("plan status must be %q to approve (current: %s)",
			PlanStatusValidated, plan.Status)
	}

	report := ValidateWithContext(ctx, plan, vctx)
	if !report.Valid {
		return plan, report, fmt.Errorf("plan %q no longer passes validation (%d violation(s)); run check and fix them first",
			name, len(report.Violations))
	}

	if err := store.SetPlanStatus(ctx, name, PlanStatusApproved, actor); err != nil {
		return plan, report, fmt.Errorf("failed to record approval: %w", err)
	}

	plan.Status = PlanStatusApproved
	plan.ApprovedBy = actor
	return plan, report, nil
}
