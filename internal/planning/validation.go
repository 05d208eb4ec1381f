package planning

import (
	"context"
	"sort"
)

// Validator is the interface for pluggable plan validation.
type Validator interface {
	// Name returns a unique identifier for this validator.
	Name() string

	// Priority determines execution order (lower values run first).
	// Suggested priorities:
	//   1-9:   Structural checks (uniqueness, references, cycles)
	//   10-99: Content quality checks (criteria, naming)
	Priority() int

	// Validate checks the plan and returns any violations or warnings found.
	Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result
}

// ValidationContext carries the tunables validators consult.
type ValidationContext struct {
	// Denylist is the set of subjective terms that make a completion
	// criterion vague. Matching is case-insensitive and token-bounded, so
	// "works" flags "it works" but not "networks". Nil means DefaultDenylist.
	Denylist []string

	// SimilarityThreshold is the Jaccard score at or above which two stage
	// names are reported as near-duplicates. Zero means the default (0.8).
	SimilarityThreshold float64

	// ToolVersion is the running planlint version, compared against a
	// plan's min_tool_version pin. Empty or non-semver skips the check.
	ToolVersion string
}

// DefaultDenylist returns the built-in subjective terms. Callers may replace
// or extend the list through configuration; the validator itself only ever
// does token matching, never semantic analysis.
func DefaultDenylist() []string {
	return []string{
		"works", "working", "done", "ready", "good",
		"okay", "fine", "better", "robust", "properly", "correctly",
	}
}

const defaultSimilarityThreshold = 0.8

// normalized returns a copy of vctx with zero values replaced by defaults.
// A nil vctx yields the full default context.
func (vctx *ValidationContext) normalized() *ValidationContext {
	out := &ValidationContext{}
	if vctx != nil {
		*out = *vctx
	}
	if out.Denylist == nil {
		out.Denylist = DefaultDenylist()
	}
	if out.SimilarityThreshold <= 0 {
		out.SimilarityThreshold = defaultSimilarityThreshold
	}
	return out
}

// Result contains the violations and warnings found by a single validator.
type Result struct {
	// Violations are blocking rule breaches.
	Violations []Violation

	// Warnings are advisory findings that do not affect validity.
	Warnings []Warning
}

// ValidatorRegistry manages a collection of validators and orchestrates validation.
type ValidatorRegistry struct {
	validators []Validator
}

// NewValidatorRegistry creates a new empty registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{
		validators: make([]Validator, 0),
	}
}

// Register adds a validator to the registry.
// Validators are automatically sorted by priority after registration.
func (r *ValidatorRegistry) Register(v Validator) {
	r.validators = append(r.validators, v)
	sort.SliceStable(r.validators, func(i, j int) bool {
		return r.validators[i].Priority() < r.validators[j].Priority()
	})
}

// ValidateAll runs all registered validators against the plan.
// Validators run in priority order (lowest first). All validators run even
// if earlier ones find violations, so one run reports every problem at once.
func (r *ValidatorRegistry) ValidateAll(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{
		Violations: make([]Violation, 0),
		Warnings:   make([]Warning, 0),
	}

	for _, v := range r.validators {
		vr := v.Validate(ctx, plan, vctx)
		for i := range vr.Violations {
			vr.Violations[i].pass = v.Priority()
		}
		for i := range vr.Warnings {
			vr.Warnings[i].pass = v.Priority()
		}
		result.Violations = append(result.Violations, vr.Violations...)
		result.Warnings = append(result.Warnings, vr.Warnings...)
	}

	return result
}

// DefaultRegistry returns a registry loaded with every built-in validator.
func DefaultRegistry() *ValidatorRegistry {
	r := NewValidatorRegistry()
	r.Register(&UniquenessValidator{})
	r.Register(&ReferenceValidator{})
	r.Register(&CycleDetector{})
	r.Register(&CriteriaValidator{})
	r.Register(&SimilarNameDetector{})
	r.Register(&VerifiabilityDetector{})
	r.Register(&MinVersionValidator{})
	return r
}

// Validate runs every built-in validator over the plan and assembles the
// report. It is a pure function of its input: no I/O, no shared state, and
// identical plans always produce identical reports. Independent plans may be
// validated concurrently.
//
// An empty plan is trivially valid.
func Validate(plan *Plan) *Report {
	return ValidateWithContext(context.Background(), plan, nil)
}

// ValidateWithContext is Validate with an explicit context and tunables.
// A nil vctx means defaults; a nil plan is treated as empty.
func ValidateWithContext(ctx context.Context, plan *Plan, vctx *ValidationContext) *Report {
	if plan == nil {
		plan = &Plan{}
	}
	result := DefaultRegistry().ValidateAll(ctx, plan, vctx.normalized())
	return buildReport(plan, result)
}

// buildReport orders the accumulated findings and assembles the final report.
// Violations sort by offending stage declaration order first, then by
// validation pass, preserving discovery order within a pass. Plan-level
// findings sort ahead of any stage.
func buildReport(plan *Plan, result Result) *Report {
	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := result.Violations[i], result.Violations[j]
		if a.stageIndex != b.stageIndex {
			return a.stageIndex < b.stageIndex
		}
		return a.pass < b.pass
	})
	sort.SliceStable(result.Warnings, func(i, j int) bool {
		a, b := result.Warnings[i], result.Warnings[j]
		if a.stageIndex != b.stageIndex {
			return a.stageIndex < b.stageIndex
		}
		return a.pass < b.pass
	})

	return &Report{
		PlanName:   plan.Name,
		StageCount: len(plan.Stages),
		Valid:      len(result.Violations) == 0,
		Violations: result.Violations,
		Warnings:   result.Warnings,
	}
}
