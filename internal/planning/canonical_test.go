package planning

import (
	"bytes"
	"testing"
	"time"
)

func testPlan() *Plan {
	return &Plan{
		Name:           "checkout-rework",
		MinToolVersion: "1.0.0",
		Stages: []Stage{
			{ID: 1, Name: "Infra", CompletionCriteria: []string{"Config loaded"}},
			{ID: 2, Name: "Domain", DependsOn: []int{1}, CompletionCriteria: []string{"Unit tests >80%"}},
		},
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	plan := testPlan()

	first, err := Canonicalize(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Canonicalize(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected identical canonical bytes for identical content")
	}
}

func TestFingerprint_IgnoresLifecycle(t *testing.T) {
	plan := testPlan()
	base, err := Fingerprint(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lifecycle churn must not move the fingerprint.
	now := time.Now()
	plan.Iteration = 7
	plan.Status = PlanStatusApproved
	plan.CreatedAt = now
	plan.UpdatedAt = now
	plan.ApprovedAt = &now
	plan.ApprovedBy = "reviewer"

	again, err := Fingerprint(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != base {
		t.Errorf("expected fingerprint unchanged by lifecycle fields\nbase:  %s\nagain: %s", base, again)
	}
}

func TestFingerprint_TracksContent(t *testing.T) {
	plan := testPlan()
	base, err := Fingerprint(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan.Stages[1].CompletionCriteria = []string{"Unit tests >90%"}

	changed, err := Fingerprint(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed == base {
		t.Error("expected fingerprint to change when a criterion changes")
	}
}

func TestFingerprint_Hex(t *testing.T) {
	fp, err := Fingerprint(testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// blake3 digests are 32 bytes, so 64 hex characters.
	if len(fp) != 64 {
		t.Errorf("expected 64-character fingerprint, got %d: %s", len(fp), fp)
	}
	for _, r := range fp {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("expected lowercase hex, found %q in %s", r, fp)
		}
	}
}
