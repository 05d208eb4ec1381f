package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/planlint/planlint/internal/planning"
)

// printReport renders a validation report with color. The plain-text layout
// mirrors planning.FormatReport; only the paint differs.
func printReport(report *planning.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	if report.Valid {
		fmt.Printf("%s %s\n", green("✓"), verdictLine(report))
	} else {
		fmt.Printf("%s %s\n", red("✗"), verdictLine(report))
	}
	fmt.Printf("  %s\n", gray(countsLine(report)))

	if len(report.Violations) > 0 {
		fmt.Println()
		for _, v := range report.Violations {
			fmt.Printf("  %s stage %d: %s\n", red(fmt.Sprintf("[%s]", v.Kind)), v.StageID, v.Detail)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Println()
		for _, w := range report.Warnings {
			fmt.Printf("  %s %s: %s\n", warningTag(w), warningLocation(w), w.Message)
		}
	}
}

// verdictLine is the one-line verdict, shared by check and watch output.
func verdictLine(report *planning.Report) string {
	label := "plan"
	if report.PlanName != "" {
		label = fmt.Sprintf("plan %q", report.PlanName)
	}
	if report.Valid {
		return fmt.Sprintf("%s: valid", label)
	}
	return fmt.Sprintf("%s: INVALID", label)
}

func countsLine(report *planning.Report) string {
	return fmt.Sprintf("%d stage(s) checked, %d violation(s), %d warning(s)",
		report.StageCount, len(report.Violations), len(report.Warnings))
}

func warningLocation(w planning.Warning) string {
	if w.StageID != 0 {
		return fmt.Sprintf("stage %d", w.StageID)
	}
	return "plan"
}

// warningTag colors the warning code by severity.
func warningTag(w planning.Warning) string {
	tag := fmt.Sprintf("[%s %s]", w.Code, w.Severity)
	switch w.Severity {
	case planning.WarningSeverityHigh:
		return color.New(color.FgRed).Sprint(tag)
	case planning.WarningSeverityMedium:
		return color.New(color.FgYellow).Sprint(tag)
	default:
		return color.New(color.FgHiBlack).Sprint(tag)
	}
}
