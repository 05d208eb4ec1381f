package repl

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/planlint/planlint/internal/planning"
)

// cmdLoad parses a plan document into the session.
func (r *REPL) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load <file>")
	}

	plan, err := planning.ParseFile(args[0])
	if err != nil {
		return err
	}

	r.plan = plan
	r.planPath = args[0]
	r.report = nil

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Loaded plan %q (%d stages) from %s\n", green("✓"), plan.Name, len(plan.Stages), args[0])
	return nil
}

// cmdCheck validates the session plan and keeps the report for save.
func (r *REPL) cmdCheck(args []string) error {
	if err := r.requirePlan(); err != nil {
		return err
	}

	r.report = planning.ValidateWithContext(r.ctx, r.plan, r.lint)
	fmt.Print(planning.FormatReport(r.report))
	return nil
}

// cmdShow summarizes the session plan.
func (r *REPL) cmdShow(args []string) error {
	if err := r.requirePlan(); err != nil {
		return err
	}
	fmt.Print(renderPlanSummary(r.plan, r.planPath, r.report))
	return nil
}

// cmdStages lists the session plan's stages.
func (r *REPL) cmdStages(args []string) error {
	if err := r.requirePlan(); err != nil {
		return err
	}
	fmt.Print(renderStages(r.plan))
	return nil
}

// cmdDenylist shows the vague-term denylist in effect.
func (r *REPL) cmdDenylist(args []string) error {
	fmt.Print(renderDenylist(r.activeDenylist()))
	return nil
}

func (r *REPL) activeDenylist() []string {
	if r.lint != nil && r.lint.Denylist != nil {
		return r.lint.Denylist
	}
	return planning.DefaultDenylist()
}

func renderPlanSummary(plan *planning.Plan, path string, report *planning.Report) string {
	var b strings.Builder

	name := plan.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "Plan:    %s\n", name)
	if path != "" {
		fmt.Fprintf(&b, "File:    %s\n", path)
	}
	fmt.Fprintf(&b, "Stages:  %d\n", len(plan.Stages))
	if plan.MinToolVersion != "" {
		fmt.Fprintf(&b, "Pins:    planlint >= %s\n", plan.MinToolVersion)
	}
	if plan.Status != "" {
		fmt.Fprintf(&b, "Status:  %s (iteration %d)\n", plan.Status, plan.Iteration)
	}
	if plan.ApprovedAt != nil {
		fmt.Fprintf(&b, "Approved: %s by %s\n", plan.ApprovedAt.Format("2006-01-02 15:04:05"), plan.ApprovedBy)
	}

	if report == nil {
		b.WriteString("Checked: not yet, run 'check'\n")
	} else if report.Valid {
		fmt.Fprintf(&b, "Checked: valid, %d warning(s)\n", len(report.Warnings))
	} else {
		fmt.Fprintf(&b, "Checked: %d violation(s), %d warning(s)\n", len(report.Violations), len(report.Warnings))
	}

	return b.String()
}

func renderStages(plan *planning.Plan) string {
	var b strings.Builder

	for _, stage := range plan.Stages {
		deps := "-"
		if len(stage.DependsOn) > 0 {
			parts := make([]string, len(stage.DependsOn))
			for i, d := range stage.DependsOn {
				parts[i] = fmt.Sprintf("%d", d)
			}
			deps = strings.Join(parts, ",")
		}
		fmt.Fprintf(&b, "%3d  %-30s deps: %-10s criteria: %d\n",
			stage.ID, stage.Name, deps, len(stage.CompletionCriteria))
	}
	if len(plan.Stages) == 0 {
		b.WriteString("(no stages)\n")
	}

	return b.String()
}

func renderDenylist(terms []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vague terms (%d):\n", len(terms))
	for _, term := range terms {
		fmt.Fprintf(&b, "  %s\n", term)
	}
	return b.String()
}
