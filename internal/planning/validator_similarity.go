package planning

import (
	"context"
	"fmt"
	"strings"
)

// SimilarNameDetector flags pairs of stages whose names are nearly, but not
// exactly, identical. Near-duplicate names usually mean the same component is
// being defined twice under slightly different labels; exact duplicates are a
// violation and handled by the uniqueness pass.
type SimilarNameDetector struct{}

// Name returns the validator identifier.
func (d *SimilarNameDetector) Name() string {
	return "similar_names"
}

// Priority returns 20 (runs after structural checks).
func (d *SimilarNameDetector) Priority() int {
	return 20
}

// Validate compares every pair of stage names and warns when the token-set
// similarity reaches the configured threshold.
func (d *SimilarNameDetector) Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{}

	for i := 0; i < len(plan.Stages); i++ {
		for j := i + 1; j < len(plan.Stages); j++ {
			a, b := plan.Stages[i], plan.Stages[j]

			// Identical names are a DuplicateName violation, not a warning.
			if a.Name == b.Name {
				continue
			}

			tokensA, tokensB := tokenize(a.Name), tokenize(b.Name)
			if len(tokensA) == 0 || len(tokensB) == 0 {
				continue // nothing meaningful to compare
			}

			similarity := jaccardSimilarity(tokensA, tokensB)
			if similarity >= vctx.SimilarityThreshold {
				result.Warnings = append(result.Warnings, Warning{
					Code:    "SIMILAR_STAGE_NAME",
					StageID: b.ID,
					Message: fmt.Sprintf("Stages %q (id %d) and %q (id %d) have very similar names (%.0f%% match)",
						a.Name, a.ID, b.Name, b.ID, similarity*100),
					Severity:   WarningSeverityMedium,
					stageIndex: j,
				})
			}
		}
	}

	return result
}

// tokenize converts text into a set of normalized words, dropping stopwords
// and words too short to carry meaning.
func tokenize(text string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})

	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"but": true, "in": true, "on": true, "at": true, "to": true,
		"for": true, "of": true, "with": true, "by": true, "from": true,
	}

	wordSet := make(map[string]bool)
	for _, word := range words {
		if len(word) > 2 && !stopWords[word] {
			wordSet[word] = true
		}
	}
	return wordSet
}

// jaccardSimilarity computes the Jaccard similarity coefficient between two
// word sets: intersection size over union size.
func jaccardSimilarity(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for word := range set1 {
		if set2[word] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	return float64(intersection) / float64(union)
}
