package planning

import (
	"context"
	"fmt"
)

// UniquenessValidator checks that stage ids and names are declared exactly
// once. The first declaration of an id or name is the keeper; every later
// occurrence is reported.
type UniquenessValidator struct{}

// Name returns the validator identifier.
func (v *UniquenessValidator) Name() string {
	return "uniqueness"
}

// Priority returns 1 (runs first; later passes resolve ids against the
// first-occurrence mapping this pass defines).
func (v *UniquenessValidator) Priority() int {
	return 1
}

// Validate scans stages in declaration order and reports duplicate ids and
// duplicate names.
func (v *UniquenessValidator) Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{}

	firstByID := make(map[int]int, len(plan.Stages))
	firstByName := make(map[string]int, len(plan.Stages))

	for i, stage := range plan.Stages {
		if firstIdx, seen := firstByID[stage.ID]; seen {
			result.Violations = append(result.Violations, Violation{
				Kind:    KindDuplicateID,
				StageID: stage.ID,
				Detail: fmt.Sprintf("Stage %q redeclares id %d, first used by stage %q",
					stage.Name, stage.ID, plan.Stages[firstIdx].Name),
				stageIndex: i,
			})
		} else {
			firstByID[stage.ID] = i
		}

		if firstIdx, seen := firstByName[stage.Name]; seen {
			result.Violations = append(result.Violations, Violation{
				Kind:      KindDuplicateName,
				StageID:   stage.ID,
				RelatedID: plan.Stages[firstIdx].ID,
				Detail: fmt.Sprintf("Stage name %q is already used by stage %d",
					stage.Name, plan.Stages[firstIdx].ID),
				stageIndex: i,
			})
		} else {
			firstByName[stage.Name] = i
		}
	}

	return result
}

// firstOccurrenceIndex maps each stage id to the declaration index of its
// first occurrence. Later passes resolve dependency references against this
// mapping, so duplicate declarations never change what an id points at.
func firstOccurrenceIndex(plan *Plan) map[int]int {
	first := make(map[int]int, len(plan.Stages))
	for i, stage := range plan.Stages {
		if _, seen := first[stage.ID]; !seen {
			first[stage.ID] = i
		}
	}
	return first
}
