package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/planlint/planlint/internal/planning"
)

// cmdPlans lists stored plans, or loads one into the session by name.
func (r *REPL) cmdPlans(args []string) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	if len(args) == 1 {
		plan, _, err := r.store.GetPlan(r.ctx, args[0])
		if err != nil {
			return err
		}
		if plan == nil {
			return fmt.Errorf("plan %q not found", args[0])
		}
		r.plan = plan
		r.planPath = ""
		r.report = nil

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Loaded stored plan %q (%d stages, iteration %d)\n",
			green("✓"), plan.Name, len(plan.Stages), plan.Iteration)
		return nil
	}

	plans, err := r.store.ListPlans(r.ctx)
	if err != nil {
		return err
	}
	fmt.Print(renderPlanList(plans))
	return nil
}

// cmdSave stores the session plan. When the plan came from the store its
// iteration guards against concurrent edits; a freshly parsed file has
// iteration 0 and stores unconditionally. A prior check is recorded as a
// run, and a clean check promotes the stored plan to validated.
func (r *REPL) cmdSave(args []string) error {
	if err := r.requireStore(); err != nil {
		return err
	}
	if err := r.requirePlan(); err != nil {
		return err
	}

	iteration, err := r.store.StorePlan(r.ctx, r.plan, r.plan.Iteration)
	if err != nil {
		return err
	}
	r.plan.Iteration = iteration

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Stored plan %q at iteration %d\n", green("✓"), r.plan.Name, iteration)

	if r.report == nil {
		return nil
	}

	run, err := planning.NewRun(r.plan, r.report)
	if err != nil {
		return err
	}
	if err := r.store.RecordRun(r.ctx, run); err != nil {
		return err
	}
	if r.report.Valid {
		if err := r.store.SetPlanStatus(r.ctx, r.plan.Name, planning.PlanStatusValidated, ""); err != nil {
			return err
		}
		r.plan.Status = planning.PlanStatusValidated
		fmt.Printf("%s Marked validated\n", green("✓"))
	}
	return nil
}

// cmdApprove approves a stored plan after re-validating it.
func (r *REPL) cmdApprove(args []string) error {
	if err := r.requireStore(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: approve <name>")
	}

	plan, report, err := planning.Approve(r.ctx, r.store, args[0], r.actor, r.lint)
	if err != nil {
		if report != nil {
			fmt.Print(planning.FormatReport(report))
		}
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Approved plan %q (by %s)\n", green("✓"), plan.Name, r.actor)
	return nil
}

// cmdHistory shows recent validation runs.
func (r *REPL) cmdHistory(args []string) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	planName := ""
	if len(args) == 1 {
		planName = args[0]
	}

	runs, err := r.store.ListRuns(r.ctx, planName, 10)
	if err != nil {
		return err
	}
	fmt.Print(renderHistory(runs))
	return nil
}

func renderPlanList(plans []*planning.Plan) string {
	if len(plans) == 0 {
		return "No stored plans yet. Load one and 'save' it.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-10s %7s %5s  %s\n", "NAME", "STATUS", "STAGES", "ITER", "UPDATED")
	for _, plan := range plans {
		fmt.Fprintf(&b, "%-24s %-10s %7d %5d  %s\n",
			plan.Name, plan.Status, len(plan.Stages), plan.Iteration,
			plan.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

func renderHistory(runs []*planning.Run) string {
	if len(runs) == 0 {
		return "No validation runs recorded yet.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-24s %-8s %10s %8s  %s\n", "RUN", "PLAN", "RESULT", "VIOLATIONS", "WARNINGS", "WHEN")
	for _, run := range runs {
		result := "valid"
		if !run.Valid {
			result = "invalid"
		}
		fmt.Fprintf(&b, "%-10s %-24s %-8s %10d %8d  %s\n",
			shortID(run.ID), run.PlanName, result, run.Violations, run.Warnings,
			run.CreatedAt.Local().Format(time.RFC3339))
	}
	return b.String()
}

// shortID trims a UUID down to its first group for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
