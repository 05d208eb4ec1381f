package planning

import (
	"context"
	"fmt"
)

// CriteriaValidator checks that every stage declares at least one completion
// criterion and that no criterion leans on a subjective term from the
// denylist. Detection is token matching, never semantic analysis.
type CriteriaValidator struct{}

// Name returns the validator identifier.
func (v *CriteriaValidator) Name() string {
	return "completion_criteria"
}

// Priority returns 10 (runs after structural checks).
func (v *CriteriaValidator) Priority() int {
	return 10
}

// Validate reports stages with no criteria and criteria built on vague terms.
func (v *CriteriaValidator) Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{}

	for i, stage := range plan.Stages {
		if len(stage.CompletionCriteria) == 0 {
			result.Violations = append(result.Violations, Violation{
				Kind:       KindMissingCriteria,
				StageID:    stage.ID,
				Detail:     fmt.Sprintf("Stage %q declares no completion criteria", stage.Name),
				stageIndex: i,
			})
			continue
		}

		for _, criterion := range stage.CompletionCriteria {
			if term, vague := matchDenyTerm(criterion, vctx.Denylist); vague {
				result.Violations = append(result.Violations, Violation{
					Kind:    KindVagueCriteria,
					StageID: stage.ID,
					Detail: fmt.Sprintf("Stage %q criterion %q relies on subjective term %q",
						stage.Name, criterion, term),
					stageIndex: i,
				})
			}
		}
	}

	return result
}
