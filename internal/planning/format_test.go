package planning

import (
	"strings"
	"testing"
)

func TestFormatReport_Valid(t *testing.T) {
	report := Validate(&Plan{
		Name: "clean",
		Stages: []Stage{
			{ID: 1, Name: "Infra", CompletionCriteria: []string{"Config loaded"}},
		},
	})

	out := FormatReport(report)

	if !strings.Contains(out, `plan "clean": valid`) {
		t.Errorf("expected valid verdict, got:\n%s", out)
	}
	if !strings.Contains(out, "1 stage(s) checked, 0 violation(s), 0 warning(s)") {
		t.Errorf("expected counts line, got:\n%s", out)
	}
}

func TestFormatReport_Violations(t *testing.T) {
	report := Validate(&Plan{
		Name: "broken",
		Stages: []Stage{
			{ID: 1, Name: "API", DependsOn: []int{2}, CompletionCriteria: []string{"works"}},
			{ID: 2, Name: "DB", CompletionCriteria: []string{"Migrations pass"}},
		},
	})

	out := FormatReport(report)

	if !strings.Contains(out, `plan "broken": INVALID`) {
		t.Errorf("expected INVALID verdict, got:\n%s", out)
	}
	if !strings.Contains(out, "[FORWARD_OR_SELF_DEPENDENCY] stage 1:") {
		t.Errorf("expected forward-dependency line, got:\n%s", out)
	}
	if !strings.Contains(out, "[VAGUE_CRITERIA] stage 1:") {
		t.Errorf("expected vague-criteria line, got:\n%s", out)
	}
}

func TestFormatReport_Warnings(t *testing.T) {
	report := Validate(&Plan{
		Name: "nitpicks",
		Stages: []Stage{
			{ID: 1, Name: "Deploy Gateway Service", CompletionCriteria: []string{"Gateway responds"}},
			{ID: 2, Name: "Gateway service deploy", DependsOn: []int{1}, CompletionCriteria: []string{"Grafana dashboard exists"}},
		},
	})

	out := FormatReport(report)

	if !strings.Contains(out, "warnings:") {
		t.Errorf("expected warnings section, got:\n%s", out)
	}
	if !strings.Contains(out, "[SIMILAR_STAGE_NAME] stage 2 (MEDIUM):") {
		t.Errorf("expected similar-name warning line, got:\n%s", out)
	}
}

func TestFormatReport_UnnamedPlan(t *testing.T) {
	out := FormatReport(Validate(&Plan{}))

	if !strings.Contains(out, "plan: valid") {
		t.Errorf("expected bare 'plan' label for unnamed plan, got:\n%s", out)
	}
}
