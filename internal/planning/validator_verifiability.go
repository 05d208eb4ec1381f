package planning

import (
	"context"
	"fmt"
	"strings"
)

// verifiableSignalPhrases are markers that a criterion states something
// checkable. A criterion with none of these, no digit, and no code literal
// probably cannot be verified mechanically.
var verifiableSignalPhrases = []string{
	"test", "tests", "pass", "passes", "passed", "passing", "fails",
	"returns", "creates", "created", "loads", "loaded",
	"writes", "written", "exists", "compiles", "builds",
	"deployed", "migrated", "merged", "responds",
	"exit code", "status code", "coverage", "output", "error",
	"zero", "no",
}

// VerifiabilityDetector warns about stages whose completion criteria carry no
// measurable signal at all. It is a heuristic, not a semantic judgment, and
// it stays quiet for stages the criteria pass already flagged.
type VerifiabilityDetector struct{}

// Name returns the validator identifier.
func (d *VerifiabilityDetector) Name() string {
	return "criteria_verifiability"
}

// Priority returns 30 (runs after the criteria pass).
func (d *VerifiabilityDetector) Priority() int {
	return 30
}

// Validate warns once per stage when none of its criteria look verifiable.
func (d *VerifiabilityDetector) Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{}

	for i, stage := range plan.Stages {
		if len(stage.CompletionCriteria) == 0 {
			continue // already a MissingCriteria violation
		}
		if stageHasVagueCriterion(stage, vctx.Denylist) {
			continue // the vague-term violation is the actionable finding
		}

		verifiable := false
		for _, criterion := range stage.CompletionCriteria {
			if criterionLooksVerifiable(criterion) {
				verifiable = true
				break
			}
		}
		if !verifiable {
			result.Warnings = append(result.Warnings, Warning{
				Code:    "UNVERIFIABLE_CRITERIA",
				StageID: stage.ID,
				Message: fmt.Sprintf("None of stage %q's completion criteria mention a measurable signal",
					stage.Name),
				Severity:   WarningSeverityLow,
				stageIndex: i,
			})
		}
	}

	return result
}

func stageHasVagueCriterion(stage Stage, denylist []string) bool {
	for _, criterion := range stage.CompletionCriteria {
		if _, vague := matchDenyTerm(criterion, denylist); vague {
			return true
		}
	}
	return false
}

// criterionLooksVerifiable reports whether a criterion carries any checkable
// marker: a digit, a code literal in backticks, or a verifiable phrase.
func criterionLooksVerifiable(criterion string) bool {
	if strings.TrimSpace(criterion) == "" {
		return false
	}
	if strings.Contains(criterion, "`") || containsDigit(criterion) {
		return true
	}
	normalized := normalizeText(criterion)
	for _, phrase := range verifiableSignalPhrases {
		if containsNormalizedPhrase(normalized, phrase) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
