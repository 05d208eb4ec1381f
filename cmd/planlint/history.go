package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/planning"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [NAME]",
	Short: "Show recent validation runs",
	Long: `List validation runs newest first, across all stored plans or for a
single plan. Each run pins the content hash it validated, so a run whose
hash differs from the stored plan describes a superseded revision.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openExistingStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		planName := ""
		if len(args) == 1 {
			planName = args[0]
		}

		runs, err := store.ListRuns(ctx, planName, historyLimit)
		if err != nil {
			return err
		}

		if historyJSON {
			data, err := json.MarshalIndent(runs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(runs) == 0 {
			fmt.Println("No validation runs recorded.")
			return nil
		}

		printRunTable(runs)
		return nil
	},
}

func printRunTable(runs []*planning.Run) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("%-10s %-24s %-10s %10s %8s  %s\n",
		"RUN", "PLAN", "RESULT", "VIOLATIONS", "WARNINGS", "WHEN")
	for _, run := range runs {
		result := green(fmt.Sprintf("%-10s", "valid"))
		if !run.Valid {
			result = red(fmt.Sprintf("%-10s", "invalid"))
		}
		fmt.Printf("%-10s %-24s %s %10d %8d  %s\n",
			runShortID(run.ID), run.PlanName, result, run.Violations, run.Warnings,
			formatRunAge(run.CreatedAt))
	}
}

// runShortID trims a UUID to its first group for table display.
func runShortID(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '-' {
			return id[:i]
		}
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatRunAge renders a run timestamp as a relative age for recent runs
// and an absolute date for older ones.
func formatRunAge(t time.Time) string {
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max runs to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "emit runs as JSON")
	rootCmd.AddCommand(historyCmd)
}
