package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/planning"
)

var approveActor string

var approveCmd = &cobra.Command{
	Use:   "approve NAME",
	Short: "Approve a stored, validated plan",
	Long: `Approve a stored plan, freezing it for execution.

The plan must be in the validated state and is re-checked at approval time;
a plan that picked up violations since its last check is not approved.
Storing changed content for an approved plan moves it back to draft.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openExistingStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		plan, report, err := planning.Approve(ctx, store, args[0], approveActor, lintContext())
		if err != nil {
			if report != nil {
				// The plan failed re-validation: show why, exit as a
				// validation failure rather than a tool error.
				printReport(report)
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Approved plan %q (by %s)\n", green("✓"), plan.Name, approveActor)
		return nil
	},
}

func init() {
	defaultActor := os.Getenv("USER")
	if defaultActor == "" {
		defaultActor = "user"
	}
	approveCmd.Flags().StringVar(&approveActor, "actor", defaultActor, "who is approving the plan")
	rootCmd.AddCommand(approveCmd)
}
