package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/planning"
)

var showCmd = &cobra.Command{
	Use:   "show FILE|NAME",
	Short: "Display a plan's stages and criteria",
	Long: `Show the stages of a plan with their dependencies and completion
criteria. The argument is tried as a file path first; when no such file
exists it is looked up as a stored plan name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		arg := args[0]

		var plan *planning.Plan
		if _, err := os.Stat(arg); err == nil {
			parsed, err := planning.ParseFile(arg)
			if err != nil {
				return err
			}
			plan = parsed
		} else {
			store, err := openExistingStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stored, _, err := store.GetPlan(ctx, arg)
			if err != nil {
				return err
			}
			if stored == nil {
				return fmt.Errorf("no file or stored plan named %q", arg)
			}
			plan = stored
		}

		printPlan(plan)
		return nil
	},
}

func printPlan(plan *planning.Plan) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	name := plan.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("\n%s\n", cyan(name))
	if plan.Status != "" {
		fmt.Printf("%s\n", gray(fmt.Sprintf("status: %s, iteration %d", plan.Status, plan.Iteration)))
	}
	if plan.MinToolVersion != "" {
		fmt.Printf("%s\n", gray("requires planlint >= "+plan.MinToolVersion))
	}
	fmt.Println()

	if len(plan.Stages) == 0 {
		fmt.Printf("%s\n", gray("(no stages)"))
		return
	}

	for _, stage := range plan.Stages {
		header := fmt.Sprintf("%d. %s", stage.ID, stage.Name)
		if len(stage.DependsOn) > 0 {
			deps := make([]string, len(stage.DependsOn))
			for i, d := range stage.DependsOn {
				deps[i] = fmt.Sprintf("%d", d)
			}
			header += gray(fmt.Sprintf("  (after %s)", strings.Join(deps, ", ")))
		}
		fmt.Println(header)

		if len(stage.CompletionCriteria) == 0 {
			fmt.Printf("   %s\n", yellow("no completion criteria"))
		}
		for _, criterion := range stage.CompletionCriteria {
			fmt.Printf("   - %s\n", criterion)
		}
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
