package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/planning"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage stored plans",
	Long:  `List, inspect, and remove plans stored in the planlint database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPlans(cmd)
	},
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPlans(cmd)
	},
}

var plansShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a stored plan with its latest run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openExistingStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		plan, _, err := store.GetPlan(ctx, args[0])
		if err != nil {
			return err
		}
		if plan == nil {
			return fmt.Errorf("plan %q not found", args[0])
		}

		printPlan(plan)

		runs, err := store.ListRuns(ctx, plan.Name, 1)
		if err != nil {
			return err
		}
		if len(runs) > 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Println()
			fmt.Printf("%s\n", gray(fmt.Sprintf("last checked %s: %s",
				runs[0].CreatedAt.Local().Format("2006-01-02 15:04:05"), runVerdict(runs[0]))))
		}
		return nil
	},
}

var plansRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Remove a stored plan and its run history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openExistingStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		plan, _, err := store.GetPlan(ctx, args[0])
		if err != nil {
			return err
		}
		if plan == nil {
			return fmt.Errorf("plan %q not found", args[0])
		}

		if err := store.DeletePlan(ctx, args[0]); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Removed plan %q\n", green("✓"), args[0])
		return nil
	},
}

func listPlans(cmd *cobra.Command) error {
	ctx := cmd.Context()
	store, err := openExistingStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	plans, err := store.ListPlans(ctx)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Println("No stored plans. Use 'planlint check --store FILE' to add one.")
		return nil
	}

	fmt.Printf("%-24s %-10s %7s %5s  %s\n", "NAME", "STATUS", "STAGES", "ITER", "UPDATED")
	for _, plan := range plans {
		// Pad before coloring so ANSI codes don't break the columns.
		status := fmt.Sprintf("%-10s", plan.Status)
		switch plan.Status {
		case planning.PlanStatusApproved:
			status = color.New(color.FgGreen).Sprint(status)
		case planning.PlanStatusValidated:
			status = color.New(color.FgCyan).Sprint(status)
		}
		fmt.Printf("%-24s %s %7d %5d  %s\n",
			plan.Name, status, len(plan.Stages), plan.Iteration,
			plan.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runVerdict(run *planning.Run) string {
	if run.Valid {
		return fmt.Sprintf("valid, %d warning(s)", run.Warnings)
	}
	return fmt.Sprintf("%d violation(s), %d warning(s)", run.Violations, run.Warnings)
}

func init() {
	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansShowCmd)
	plansCmd.AddCommand(plansRmCmd)
	rootCmd.AddCommand(plansCmd)
}
