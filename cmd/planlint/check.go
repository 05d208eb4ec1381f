package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"github.com/planlint/planlint/internal/planning"
)

var (
	checkJSON   bool
	checkStrict bool
	checkStore  bool
	checkJobs   int
)

// checkResult pairs one input file with its outcome. Err is set when the
// document could not be parsed; Report when validation ran.
type checkResult struct {
	File   string           `json:"file"`
	Report *planning.Report `json:"report,omitempty"`
	Err    error            `json:"-"`

	plan *planning.Plan
}

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Validate plan documents",
	Long: `Parse and validate one or more plan documents (YAML or JSON).

Every violation and warning in a plan is reported in a single pass; fixing
one problem never hides the next. Files are checked concurrently, output
stays in argument order.

Exit codes:
  0 - every plan is valid (warnings allowed unless --strict)
  1 - at least one plan has violations (or warnings, with --strict)
  2 - a document could not be read or parsed`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		vctx := lintContext()

		jobs := checkJobs
		if jobs < 1 {
			jobs = 1
		}

		// Validation is CPU-only and per-file independent; a weighted
		// semaphore bounds the fan-out.
		results := make([]checkResult, len(args))
		sem := semaphore.NewWeighted(int64(jobs))
		var wg sync.WaitGroup
		for i, path := range args {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			wg.Add(1)
			go func(i int, path string) {
				defer wg.Done()
				defer sem.Release(1)

				res := checkResult{File: path}
				plan, err := planning.ParseFile(path)
				if err != nil {
					res.Err = err
				} else {
					res.plan = plan
					res.Report = planning.ValidateWithContext(ctx, plan, vctx)
				}
				results[i] = res
			}(i, path)
		}
		wg.Wait()

		if checkStore {
			if err := storeResults(ctx, results); err != nil {
				return err
			}
		}

		if checkJSON {
			data, err := resultsToJSON(results)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			printResultsText(results)
		}

		parseFailures, failed := summarizeResults(results, checkStrict)
		if parseFailures > 0 {
			return fmt.Errorf("%d file(s) could not be checked", parseFailures)
		}
		if failed {
			os.Exit(1)
		}
		return nil
	},
}

// summarizeResults reduces per-file outcomes to the exit decision: how many
// files failed before validation, and whether any validated plan fails the
// run (violations always, warnings only under strict).
func summarizeResults(results []checkResult, strict bool) (parseFailures int, failed bool) {
	for _, res := range results {
		if res.Err != nil {
			parseFailures++
			continue
		}
		if !res.Report.Valid {
			failed = true
		}
		if strict && res.Report.HasWarnings() {
			failed = true
		}
	}
	return parseFailures, failed
}

// storeResults persists every successfully checked plan and its run.
// A clean report promotes the stored plan to validated.
func storeResults(ctx context.Context, results []checkResult) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}

		if _, err := store.StorePlan(ctx, res.plan, 0); err != nil {
			return fmt.Errorf("failed to store plan from %s: %w", res.File, err)
		}
		run, err := planning.NewRun(res.plan, res.Report)
		if err != nil {
			return err
		}
		if err := store.RecordRun(ctx, run); err != nil {
			return fmt.Errorf("failed to record run for %s: %w", res.File, err)
		}
		if res.Report.Valid {
			if err := store.SetPlanStatus(ctx, res.plan.Name, planning.PlanStatusValidated, ""); err != nil {
				return fmt.Errorf("failed to mark %s validated: %w", res.plan.Name, err)
			}
		}
	}
	return nil
}

func resultsToJSON(results []checkResult) ([]byte, error) {
	type jsonResult struct {
		File   string           `json:"file"`
		Error  string           `json:"error,omitempty"`
		Report *planning.Report `json:"report,omitempty"`
	}

	out := make([]jsonResult, len(results))
	for i, res := range results {
		out[i] = jsonResult{File: res.File, Report: res.Report}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func printResultsText(results []checkResult) {
	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for i, res := range results {
		if i > 0 {
			fmt.Println()
		}
		if len(results) > 1 {
			fmt.Printf("%s %s\n", cyan("→"), res.File)
		}
		if res.Err != nil {
			fmt.Printf("%s %v\n", red("✗"), res.Err)
			continue
		}
		printReport(res.Report)
	}
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit reports as JSON")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat warnings as failures")
	checkCmd.Flags().BoolVar(&checkStore, "store", false, "store checked plans and record runs")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 4, "max files checked concurrently")
	rootCmd.AddCommand(checkCmd)
}
