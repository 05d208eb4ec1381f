// Package planning provides the plan document model and structural validation.
package planning

import (
	"fmt"
	"time"
)

// PlanStatus represents the lifecycle state of a stored plan.
type PlanStatus string

const (
	// PlanStatusDraft is the initial state when a plan is first stored.
	PlanStatusDraft PlanStatus = "draft"

	// PlanStatusValidated indicates the plan's last check found no violations.
	PlanStatusValidated PlanStatus = "validated"

	// PlanStatusApproved indicates the plan has been signed off and is frozen.
	PlanStatusApproved PlanStatus = "approved"
)

// IsValid reports whether s is a known lifecycle state.
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusDraft, PlanStatusValidated, PlanStatusApproved:
		return true
	}
	return false
}

// Plan is an ordered sequence of stages describing a build-out sequence.
type Plan struct {
	// Name is the human-readable plan identifier. Plans stored in the
	// database are keyed by name.
	Name string `json:"name" yaml:"plan"`

	// MinToolVersion optionally pins the oldest planlint release the plan
	// author wrote the document for (semver, with or without the v prefix).
	MinToolVersion string `json:"min_tool_version,omitempty" yaml:"min_tool_version,omitempty"`

	// Stages are the plan's phases in declaration order. Declaration order
	// is the nominal execution sequence.
	Stages []Stage `json:"stages" yaml:"stages"`

	// Iteration counts how many times the stored plan has been rewritten.
	// Starts at 0, increments on every store.
	Iteration int `json:"iteration,omitempty" yaml:"-"`

	// Status is the current lifecycle state of the plan.
	Status PlanStatus `json:"status,omitempty" yaml:"-"`

	// CreatedAt is when the plan was first constructed.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"-"`

	// UpdatedAt is when the plan was last modified.
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"-"`

	// ApprovedAt is set once the plan reaches the approved state.
	ApprovedAt *time.Time `json:"approved_at,omitempty" yaml:"-"`

	// ApprovedBy records who approved the plan.
	ApprovedBy string `json:"approved_by,omitempty" yaml:"-"`
}

// Stage is one phase of an implementation plan.
type Stage struct {
	// ID is the stage's sequence number: a positive integer, unique within
	// the plan. Well-formed plans number stages 1..N in declaration order,
	// but the validator never assumes that.
	ID int `json:"id" yaml:"id"`

	// Name is the human-readable label for the stage (non-empty).
	Name string `json:"name" yaml:"name"`

	// DependsOn lists the ids of stages that must complete before this one
	// starts. Dependencies may only point at earlier stages.
	DependsOn []int `json:"depends_on,omitempty" yaml:"depends_on"`

	// CompletionCriteria are the verifiable conditions that define this
	// stage as finished. Every stage must declare at least one.
	CompletionCriteria []string `json:"completion_criteria,omitempty" yaml:"completion_criteria"`
}

// ViolationKind identifies the structural rule a violation breaks.
type ViolationKind string

const (
	// KindDuplicateID flags a stage id declared more than once.
	KindDuplicateID ViolationKind = "DUPLICATE_ID"

	// KindDuplicateName flags a stage name declared more than once.
	KindDuplicateName ViolationKind = "DUPLICATE_NAME"

	// KindUnknownDependency flags a depends_on entry that names no stage in the plan.
	KindUnknownDependency ViolationKind = "UNKNOWN_DEPENDENCY"

	// KindForwardOrSelfDependency flags a depends_on entry whose id is
	// greater than or equal to the stage's own id.
	KindForwardOrSelfDependency ViolationKind = "FORWARD_OR_SELF_DEPENDENCY"

	// KindCyclicDependency flags a back edge in the dependency graph.
	KindCyclicDependency ViolationKind = "CYCLIC_DEPENDENCY"

	// KindMissingCriteria flags a stage with no completion criteria.
	KindMissingCriteria ViolationKind = "MISSING_CRITERIA"

	// KindVagueCriteria flags a completion criterion built on a subjective
	// term from the denylist.
	KindVagueCriteria ViolationKind = "VAGUE_CRITERIA"
)

// Violation is a detected breach of a structural plan rule. Violations are
// collected, never fatal: a single validation run reports every problem in
// the plan at once.
type Violation struct {
	// Kind is the machine-readable rule identifier.
	Kind ViolationKind `json:"kind"`

	// StageID is the id of the offending stage.
	StageID int `json:"stage_id"`

	// RelatedID carries the second stage id for cross-stage violations
	// (the missing or offending dependency target, the far end of a cycle
	// edge, the first holder of a duplicated name). Zero when unused.
	RelatedID int `json:"related_id,omitempty"`

	// Detail is the human-readable description of the violation.
	Detail string `json:"detail"`

	// stageIndex is the declaration index of the offending stage, used to
	// order the report. Violations that concern the whole plan use -1.
	stageIndex int

	// pass is the priority of the validator that produced the violation.
	pass int
}

// WarningSeverity indicates the importance of an advisory warning.
type WarningSeverity int

const (
	// WarningSeverityLow indicates minor issues that are nice to fix.
	WarningSeverityLow WarningSeverity = iota

	// WarningSeverityMedium indicates issues that should be addressed.
	WarningSeverityMedium

	// WarningSeverityHigh indicates issues that strongly suggest revising the plan.
	WarningSeverityHigh
)

// String returns the string representation of the severity.
func (s WarningSeverity) String() string {
	switch s {
	case WarningSeverityLow:
		return "LOW"
	case WarningSeverityMedium:
		return "MEDIUM"
	case WarningSeverityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so severities serialize as
// their names rather than bare integers.
func (s WarningSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names MarshalText produces, so stored reports
// decode back into the same severities.
func (s *WarningSeverity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LOW":
		*s = WarningSeverityLow
	case "MEDIUM":
		*s = WarningSeverityMedium
	case "HIGH":
		*s = WarningSeverityHigh
	default:
		return fmt.Errorf("unknown warning severity %q", string(text))
	}
	return nil
}

// Warning is an advisory finding. Warnings never affect a report's validity;
// strict callers may still choose to treat them as failures.
type Warning struct {
	// Code is the machine-readable warning identifier.
	Code string `json:"code"`

	// StageID is the id of the stage the warning concerns, 0 for plan-level warnings.
	StageID int `json:"stage_id,omitempty"`

	// Message is the human-readable warning description.
	Message string `json:"message"`

	// Severity indicates how important this warning is.
	Severity WarningSeverity `json:"severity"`

	stageIndex int
	pass       int
}

// Report is the outcome of validating a single plan.
type Report struct {
	// PlanName echoes the name of the validated plan.
	PlanName string `json:"plan_name,omitempty"`

	// StageCount is the number of stages examined.
	StageCount int `json:"stage_count"`

	// Valid is true iff no violations were found. Warnings do not affect it.
	Valid bool `json:"valid"`

	// Violations are ordered by offending stage declaration order, then by
	// validation pass. Identical input always yields an identical report.
	Violations []Violation `json:"violations"`

	// Warnings are advisory findings, ordered like violations.
	Warnings []Warning `json:"warnings,omitempty"`
}

// HasViolations reports whether any structural rule was broken.
func (r *Report) HasViolations() bool {
	return len(r.Violations) > 0
}

// HasWarnings reports whether any advisory finding was raised.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}
