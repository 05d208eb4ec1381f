package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/planning"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Re-validate plan documents when they change",
	Long: `Watch plan documents and re-run validation whenever one changes.

Files are polled by modification time. A file that disappears is reported
and picked up again when it returns. Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		interval := watchInterval
		if interval <= 0 {
			interval = cfg.Watch.Interval
		}

		// First pass checks everything, then the loop reports deltas only.
		for _, path := range args {
			checkWatchedFile(cmd, path)
		}
		stamps := snapshotStamps(args)

		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("\n%s\n", gray(fmt.Sprintf("watching %d file(s), checking every %s", len(args), interval)))

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				fmt.Println("\nStopped watching")
				return nil
			case <-ticker.C:
				next := snapshotStamps(args)
				for _, path := range changedFiles(args, stamps, next) {
					fmt.Printf("\n%s %s\n", gray(time.Now().Format("15:04:05")), path)
					checkWatchedFile(cmd, path)
				}
				stamps = next
			}
		}
	},
}

func checkWatchedFile(cmd *cobra.Command, path string) {
	red := color.New(color.FgRed).SprintFunc()

	plan, err := planning.ParseFile(path)
	if err != nil {
		fmt.Printf("%s %v\n", red("✗"), err)
		return
	}
	printReport(planning.ValidateWithContext(cmd.Context(), plan, lintContext()))
}

// snapshotStamps records each file's modification time. Missing files get
// the zero time, so reappearing counts as a change.
func snapshotStamps(paths []string) map[string]time.Time {
	stamps := make(map[string]time.Time, len(paths))
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil {
			stamps[path] = info.ModTime()
		} else {
			stamps[path] = time.Time{}
		}
	}
	return stamps
}

// changedFiles returns the watched paths whose stamp moved, preserving the
// argument order so output stays stable.
func changedFiles(paths []string, prev, next map[string]time.Time) []string {
	var changed []string
	for _, path := range paths {
		if !next[path].Equal(prev[path]) {
			changed = append(changed, path)
		}
	}
	return changed
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default from config)")
	rootCmd.AddCommand(watchCmd)
}
