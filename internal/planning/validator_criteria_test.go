package planning

import (
	"context"
	"strings"
	"testing"
)

func TestCriteriaValidator_MissingCriteria(t *testing.T) {
	validator := &CriteriaValidator{}
	vctx := (&ValidationContext{}).normalized()

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Infra", CompletionCriteria: []string{"Config loaded"}},
			{ID: 2, Name: "Domain", CompletionCriteria: nil},
		},
	}

	result := validator.Validate(context.Background(), plan, vctx)

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(result.Violations))
	}

	v := result.Violations[0]
	if v.Kind != KindMissingCriteria {
		t.Errorf("expected MISSING_CRITERIA, got %s", v.Kind)
	}
	if v.StageID != 2 {
		t.Errorf("expected violation on stage 2, got %d", v.StageID)
	}
}

func TestCriteriaValidator_VagueCriteria(t *testing.T) {
	validator := &CriteriaValidator{}
	vctx := (&ValidationContext{}).normalized()

	tests := []struct {
		name      string
		criterion string
		wantVague bool
	}{
		{"bare denylist term", "works", true},
		{"term inside sentence", "the feature works", true},
		{"uppercase term", "DONE", true},
		{"term with punctuation", "Everything is done.", true},
		{"term as substring of larger word", "networks configured", false},
		{"measurable criterion", "API returns 200 on /health", false},
		{"clean prose", "All migrations applied to staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &Plan{
				Stages: []Stage{
					{ID: 1, Name: "Stage", CompletionCriteria: []string{tt.criterion}},
				},
			}

			result := validator.Validate(context.Background(), plan, vctx)

			gotVague := false
			for _, v := range result.Violations {
				if v.Kind == KindVagueCriteria {
					gotVague = true
				}
			}
			if gotVague != tt.wantVague {
				t.Errorf("criterion %q: vague = %v, want %v", tt.criterion, gotVague, tt.wantVague)
			}
		})
	}
}

func TestCriteriaValidator_VagueDetailNamesTerm(t *testing.T) {
	validator := &CriteriaValidator{}
	vctx := (&ValidationContext{}).normalized()

	plan := &Plan{
		Stages: []Stage{
			{ID: 3, Name: "Polish", CompletionCriteria: []string{"Everything is ready"}},
		},
	}

	result := validator.Validate(context.Background(), plan, vctx)

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(result.Violations))
	}

	detail := result.Violations[0].Detail
	if !strings.Contains(detail, `"ready"`) {
		t.Errorf("expected detail to name the subjective term, got: %s", detail)
	}
	if !strings.Contains(detail, `"Everything is ready"`) {
		t.Errorf("expected detail to quote the criterion, got: %s", detail)
	}
}

func TestCriteriaValidator_EveryVagueCriterionReported(t *testing.T) {
	validator := &CriteriaValidator{}
	vctx := (&ValidationContext{}).normalized()

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Stage", CompletionCriteria: []string{
				"it works",
				"Tests pass",
				"everything is fine",
			}},
		},
	}

	result := validator.Validate(context.Background(), plan, vctx)

	// The first and third criteria are vague; the second is not.
	if len(result.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(result.Violations))
	}
	for _, v := range result.Violations {
		if v.Kind != KindVagueCriteria {
			t.Errorf("expected VAGUE_CRITERIA, got %s", v.Kind)
		}
	}
}

func TestCriteriaValidator_MissingSkipsVagueScan(t *testing.T) {
	validator := &CriteriaValidator{}
	vctx := (&ValidationContext{}).normalized()

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Empty", CompletionCriteria: []string{}},
		},
	}

	result := validator.Validate(context.Background(), plan, vctx)

	if len(result.Violations) != 1 {
		t.Fatalf("expected exactly the MISSING_CRITERIA violation, got %d violations", len(result.Violations))
	}
	if result.Violations[0].Kind != KindMissingCriteria {
		t.Errorf("expected MISSING_CRITERIA, got %s", result.Violations[0].Kind)
	}
}

func TestCriteriaValidator_CustomDenylist(t *testing.T) {
	validator := &CriteriaValidator{}
	vctx := (&ValidationContext{
		Denylist: []string{"someday", "eventually"},
	}).normalized()

	plan := &Plan{
		Stages: []Stage{
			// "works" is only vague under the default denylist.
			{ID: 1, Name: "Stage", CompletionCriteria: []string{"it works", "ship someday"}},
		},
	}

	result := validator.Validate(context.Background(), plan, vctx)

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(result.Violations))
	}
	if !strings.Contains(result.Violations[0].Detail, `"someday"`) {
		t.Errorf("expected custom term in detail, got: %s", result.Violations[0].Detail)
	}
}
