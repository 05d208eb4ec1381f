package planning

import (
	"context"
	"fmt"
)

// ReferenceValidator checks that every dependency names a stage that exists
// and comes strictly earlier in the numbering. Dependencies point only down:
// a stage may never depend on itself or on a later stage.
type ReferenceValidator struct{}

// Name returns the validator identifier.
func (v *ReferenceValidator) Name() string {
	return "references"
}

// Priority returns 2 (runs after uniqueness).
func (v *ReferenceValidator) Priority() int {
	return 2
}

// Validate resolves every depends_on entry against the plan's id mapping.
func (v *ReferenceValidator) Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{}
	known := firstOccurrenceIndex(plan)

	for i, stage := range plan.Stages {
		for _, dep := range stage.DependsOn {
			if _, exists := known[dep]; !exists {
				result.Violations = append(result.Violations, Violation{
					Kind:      KindUnknownDependency,
					StageID:   stage.ID,
					RelatedID: dep,
					Detail: fmt.Sprintf("Stage %q depends on stage %d, which is not defined in the plan",
						stage.Name, dep),
					stageIndex: i,
				})
				continue
			}

			if dep == stage.ID {
				result.Violations = append(result.Violations, Violation{
					Kind:       KindForwardOrSelfDependency,
					StageID:    stage.ID,
					RelatedID:  dep,
					Detail:     fmt.Sprintf("Stage %q depends on itself", stage.Name),
					stageIndex: i,
				})
			} else if dep > stage.ID {
				result.Violations = append(result.Violations, Violation{
					Kind:      KindForwardOrSelfDependency,
					StageID:   stage.ID,
					RelatedID: dep,
					Detail: fmt.Sprintf("Stage %q depends on stage %d, which does not come before it",
						stage.Name, dep),
					stageIndex: i,
				})
			}
		}
	}

	return result
}
