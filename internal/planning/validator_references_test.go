package planning

import (
	"context"
	"strings"
	"testing"
)

func TestReferenceValidator_ValidReferences(t *testing.T) {
	validator := &ReferenceValidator{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Infra"},
			{ID: 2, Name: "Domain", DependsOn: []int{1}},
			{ID: 3, Name: "API", DependsOn: []int{1, 2}},
		},
	}

	result := validator.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 0 {
		t.Errorf("expected no violations for downward references, got %d", len(result.Violations))
	}
}

func TestReferenceValidator_UnknownDependency(t *testing.T) {
	validator := &ReferenceValidator{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Infra"},
			{ID: 2, Name: "Domain", DependsOn: []int{9}},
		},
	}

	result := validator.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(result.Violations))
	}

	v := result.Violations[0]
	if v.Kind != KindUnknownDependency {
		t.Errorf("expected UNKNOWN_DEPENDENCY, got %s", v.Kind)
	}
	if v.StageID != 2 || v.RelatedID != 9 {
		t.Errorf("expected stage 2 referencing missing stage 9, got stage %d referencing %d",
			v.StageID, v.RelatedID)
	}
}

func TestReferenceValidator_ForwardDependency(t *testing.T) {
	validator := &ReferenceValidator{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "API", DependsOn: []int{2}},
			{ID: 2, Name: "DB"},
		},
	}

	result := validator.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(result.Violations))
	}

	v := result.Violations[0]
	if v.Kind != KindForwardOrSelfDependency {
		t.Errorf("expected FORWARD_OR_SELF_DEPENDENCY, got %s", v.Kind)
	}
	if v.StageID != 1 || v.RelatedID != 2 {
		t.Errorf("expected stage 1 referencing stage 2, got stage %d referencing %d",
			v.StageID, v.RelatedID)
	}
	if !strings.Contains(v.Detail, "does not come before") {
		t.Errorf("expected forward-reference detail, got: %s", v.Detail)
	}
}

func TestReferenceValidator_SelfDependency(t *testing.T) {
	validator := &ReferenceValidator{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Bootstrap", DependsOn: []int{1}},
		},
	}

	result := validator.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(result.Violations))
	}

	v := result.Violations[0]
	if v.Kind != KindForwardOrSelfDependency {
		t.Errorf("expected FORWARD_OR_SELF_DEPENDENCY, got %s", v.Kind)
	}
	if !strings.Contains(v.Detail, "depends on itself") {
		t.Errorf("expected self-reference detail, got: %s", v.Detail)
	}
}

func TestReferenceValidator_MixedProblems(t *testing.T) {
	validator := &ReferenceValidator{}

	// One stage with one unknown, one forward, and one valid reference.
	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Base"},
			{ID: 2, Name: "Middle", DependsOn: []int{1, 3, 42}},
			{ID: 3, Name: "Top"},
		},
	}

	result := validator.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(result.Violations))
	}

	// Reported in depends_on order: the forward reference to 3, then the
	// unknown reference to 42.
	if result.Violations[0].Kind != KindForwardOrSelfDependency || result.Violations[0].RelatedID != 3 {
		t.Errorf("expected forward reference to 3 first, got %s referencing %d",
			result.Violations[0].Kind, result.Violations[0].RelatedID)
	}
	if result.Violations[1].Kind != KindUnknownDependency || result.Violations[1].RelatedID != 42 {
		t.Errorf("expected unknown reference to 42 second, got %s referencing %d",
			result.Violations[1].Kind, result.Violations[1].RelatedID)
	}
}
