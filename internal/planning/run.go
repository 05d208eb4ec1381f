package planning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded validation of a stored plan. Runs pin the content
// fingerprint they were computed against, so history can tell whether a
// report still describes the plan on record or a superseded revision.
type Run struct {
	// ID is the run's unique identifier.
	ID string `json:"id"`

	// PlanName is the stored plan this run validated.
	PlanName string `json:"plan_name"`

	// ContentHash is the plan content fingerprint at validation time.
	ContentHash string `json:"content_hash"`

	// Valid mirrors the report verdict.
	Valid bool `json:"valid"`

	// Violations and Warnings are the finding counts, denormalized so run
	// listings never need to decode the full report.
	Violations int `json:"violations"`
	Warnings   int `json:"warnings"`

	// Report is the full validation report. Listings may leave it nil.
	Report *Report `json:"report,omitempty"`

	// CreatedAt is when the run was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun builds a recordable run from a plan and its fresh report.
func NewRun(plan *Plan, report *Report) (*Run, error) {
	hash, err := Fingerprint(plan)
	if err != nil {
		return nil, fmt.Errorf("fingerprint plan: %w", err)
	}

	return &Run{
		ID:          uuid.NewString(),
		PlanName:    plan.Name,
		ContentHash: hash,
		Valid:       report.Valid,
		Violations:  len(report.Violations),
		Warnings:    len(report.Warnings),
		Report:      report,
		CreatedAt:   time.Now(),
	}, nil
}
