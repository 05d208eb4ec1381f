package planning

import (
	"context"
	"strings"
	"testing"
)

func TestCycleDetector_NoCycles(t *testing.T) {
	detector := &CycleDetector{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Infra", DependsOn: nil},
			{ID: 2, Name: "Domain", DependsOn: []int{1}},
			{ID: 3, Name: "API", DependsOn: []int{2}},
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) > 0 {
		t.Errorf("expected no violations for valid chain, got %d", len(result.Violations))
		for _, v := range result.Violations {
			t.Logf("  %s: %s", v.Kind, v.Detail)
		}
	}
}

func TestCycleDetector_MutualCycle(t *testing.T) {
	detector := &CycleDetector{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "A", DependsOn: []int{2}},
			{ID: 2, Name: "B", DependsOn: []int{1}},
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation for mutual cycle, got %d", len(result.Violations))
	}

	v := result.Violations[0]
	if v.Kind != KindCyclicDependency {
		t.Errorf("expected CYCLIC_DEPENDENCY, got %s", v.Kind)
	}
	// Traversal starts at stage 1, so the back edge runs 2 -> 1.
	if v.StageID != 2 || v.RelatedID != 1 {
		t.Errorf("expected back edge from 2 to 1, got %d to %d", v.StageID, v.RelatedID)
	}
	if !strings.Contains(v.Detail, "1 → 2 → 1") {
		t.Errorf("expected cycle path in detail, got: %s", v.Detail)
	}
}

func TestCycleDetector_SelfCycle(t *testing.T) {
	detector := &CycleDetector{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Loop", DependsOn: []int{1}},
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation for self-cycle, got %d", len(result.Violations))
	}

	v := result.Violations[0]
	if v.Kind != KindCyclicDependency {
		t.Errorf("expected CYCLIC_DEPENDENCY, got %s", v.Kind)
	}
	if v.StageID != 1 || v.RelatedID != 1 {
		t.Errorf("expected self edge on stage 1, got %d to %d", v.StageID, v.RelatedID)
	}
}

func TestCycleDetector_LongCycle(t *testing.T) {
	detector := &CycleDetector{}

	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "A", DependsOn: []int{3}}, // Closes the loop
			{ID: 2, Name: "B", DependsOn: []int{1}},
			{ID: 3, Name: "C", DependsOn: []int{2}},
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation for three-stage cycle, got %d", len(result.Violations))
	}

	if !strings.Contains(result.Violations[0].Detail, "1 → 3 → 2 → 1") {
		t.Errorf("expected full cycle path in detail, got: %s", result.Violations[0].Detail)
	}
}

func TestCycleDetector_ComplexDAG(t *testing.T) {
	detector := &CycleDetector{}

	// Diamond dependency pattern (valid DAG)
	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Base", DependsOn: nil},
			{ID: 2, Name: "Left", DependsOn: []int{1}},
			{ID: 3, Name: "Right", DependsOn: []int{1}},
			{ID: 4, Name: "Join", DependsOn: []int{2, 3}}, // Converge
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) > 0 {
		t.Errorf("expected no violations for valid diamond DAG, got %d", len(result.Violations))
		for _, v := range result.Violations {
			t.Logf("  %s: %s", v.Kind, v.Detail)
		}
	}
}

func TestCycleDetector_MultipleCycles(t *testing.T) {
	detector := &CycleDetector{}

	// Two disjoint mutual cycles
	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "A", DependsOn: []int{2}},
			{ID: 2, Name: "B", DependsOn: []int{1}},
			{ID: 3, Name: "C", DependsOn: []int{4}},
			{ID: 4, Name: "D", DependsOn: []int{3}},
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 2 {
		t.Errorf("expected 2 violations (one per cycle), got %d", len(result.Violations))
		for _, v := range result.Violations {
			t.Logf("  %s: %s", v.Kind, v.Detail)
		}
	}
}

func TestCycleDetector_UnknownTargetsExcluded(t *testing.T) {
	detector := &CycleDetector{}

	// Edges into undefined stages cannot be graphed; the reference pass owns
	// that problem.
	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Infra", DependsOn: []int{99}},
			{ID: 2, Name: "Domain", DependsOn: []int{1}},
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 0 {
		t.Errorf("expected no cycle violations when edges dangle, got %d", len(result.Violations))
	}
}

func TestCycleDetector_DuplicateDeclarationsCollapse(t *testing.T) {
	detector := &CycleDetector{}

	// The second declaration of id 1 carries a self edge, but resolution is
	// against the first occurrence, so no cycle exists.
	plan := &Plan{
		Stages: []Stage{
			{ID: 1, Name: "Keeper", DependsOn: nil},
			{ID: 1, Name: "Shadow", DependsOn: []int{1}},
		},
	}

	result := detector.Validate(context.Background(), plan, &ValidationContext{})

	if len(result.Violations) != 0 {
		t.Errorf("expected no violations when duplicates collapse, got %d", len(result.Violations))
		for _, v := range result.Violations {
			t.Logf("  %s: %s", v.Kind, v.Detail)
		}
	}
}

func TestCycleDetector_Priority(t *testing.T) {
	detector := &CycleDetector{}

	if detector.Priority() != 3 {
		t.Errorf("expected priority 3, got %d", detector.Priority())
	}
}

func TestCycleDetector_Name(t *testing.T) {
	detector := &CycleDetector{}

	if detector.Name() != "cycle_detector" {
		t.Errorf("expected name 'cycle_detector', got '%s'", detector.Name())
	}
}
