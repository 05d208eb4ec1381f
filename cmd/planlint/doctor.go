package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/config"
	"github.com/planlint/planlint/internal/storage"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check planlint configuration and environment health",
	Long: `Run health checks to diagnose common planlint configuration issues.

This command checks:
- Configuration file readability and value ranges
- Database discovery and accessibility
- Stored plan and run counts
- Denylist sanity

Exit codes:
  0 - All checks passed (warnings allowed)
  1 - One or more checks failed
  2 - Critical failures that prevent planlint from running`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running planlint health checks...\n\n")

		var failures []string
		var warnings []string
		var criticalFailures []string

		// Check 1: configuration. Reaching this point means it loaded, so
		// report where it came from.
		fmt.Printf("%s Configuration\n", cyan("→"))
		if cfgPath != "" {
			fmt.Printf("  %s Loaded from %s\n", green("✓"), cfgPath)
		} else if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
			fmt.Printf("  %s Loaded from %s\n", green("✓"), config.DefaultConfigPath())
		} else {
			fmt.Printf("  %s Using built-in defaults (no config file)\n", green("✓"))
		}

		// Check 2: database discovery.
		fmt.Printf("%s Database discovery\n", cyan("→"))
		resolvedPath := dbPath
		explicit := dbPath != ""
		if explicit {
			fmt.Printf("  %s Using explicit database: %s\n", green("✓"), resolvedPath)
		} else if discovered, err := storage.DiscoverDatabase(); err == nil {
			resolvedPath = discovered
			fmt.Printf("  %s Found database: %s\n", green("✓"), resolvedPath)
		} else {
			warnings = append(warnings, "No database yet; 'planlint check --store FILE' creates one")
			fmt.Printf("  %s No database found (check-only commands still work)\n", yellow("⚠"))
		}

		// Check 3: database access and contents.
		if resolvedPath != "" {
			fmt.Printf("%s Database access\n", cyan("→"))
			store, err := storage.NewStore(ctx, &storage.Config{Path: resolvedPath})
			if err != nil {
				criticalFailures = append(criticalFailures, fmt.Sprintf("Cannot open database: %v", err))
				fmt.Printf("  %s Cannot open database\n", red("✗"))
			} else {
				plans, err := store.ListPlans(ctx)
				if err != nil {
					failures = append(failures, fmt.Sprintf("Cannot read plans: %v", err))
					fmt.Printf("  %s Cannot read plans table\n", red("✗"))
				} else {
					runs, _ := store.ListRuns(ctx, "", 0)
					fmt.Printf("  %s %d plan(s), %d run(s) on record\n", green("✓"), len(plans), len(runs))
				}
				_ = store.Close()
			}
		}

		// Check 4: denylist sanity.
		fmt.Printf("%s Vague-term denylist\n", cyan("→"))
		denylist := cfg.Lint.Denylist()
		if len(denylist) == 0 {
			failures = append(failures, "Denylist is empty; vague-criteria detection is disabled")
			fmt.Printf("  %s Denylist is empty\n", red("✗"))
		} else {
			fmt.Printf("  %s %d term(s) active\n", green("✓"), len(denylist))
		}

		// Check 5: version.
		fmt.Printf("%s Version\n", cyan("→"))
		if version == "dev" {
			warnings = append(warnings, "Running a dev build; plans pinning min_tool_version are not gated")
			fmt.Printf("  %s Development build (version checks skipped)\n", yellow("⚠"))
		} else {
			fmt.Printf("  %s planlint %s\n", green("✓"), version)
		}

		// Summary
		fmt.Printf("\n%s\n", strings.Repeat("─", 60))

		if len(criticalFailures) == 0 && len(failures) == 0 && len(warnings) == 0 {
			fmt.Printf("%s All checks passed! planlint is ready.\n", green("✓"))
			os.Exit(0)
		}

		if len(criticalFailures) > 0 {
			fmt.Printf("\n%s Critical failures (%d):\n", red("✗"), len(criticalFailures))
			for _, failure := range criticalFailures {
				fmt.Printf("  • %s\n", failure)
			}
		}
		if len(failures) > 0 {
			fmt.Printf("\n%s Failures (%d):\n", red("✗"), len(failures))
			for _, failure := range failures {
				fmt.Printf("  • %s\n", failure)
			}
		}
		if len(warnings) > 0 {
			fmt.Printf("\n%s Warnings (%d):\n", yellow("⚠"), len(warnings))
			for _, warning := range warnings {
				fmt.Printf("  • %s\n", warning)
			}
		}

		if len(criticalFailures) > 0 {
			fmt.Printf("\n%s planlint cannot run until critical issues are resolved.\n", red("✗"))
			os.Exit(2)
		}
		if len(failures) > 0 {
			fmt.Printf("\n%s planlint may not work correctly. Please address the failures above.\n", yellow("⚠"))
			os.Exit(1)
		}
		fmt.Printf("\n%s planlint should work, but some warnings were detected.\n", green("✓"))
		os.Exit(0)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
