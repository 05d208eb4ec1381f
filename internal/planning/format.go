package planning

import (
	"fmt"
	"strings"
)

// FormatReport renders a report as a human-readable multi-line summary.
// Purely presentational: it never re-derives or filters findings. Callers
// wanting color or JSON render the Report themselves.
func FormatReport(report *Report) string {
	var b strings.Builder

	label := "plan"
	if report.PlanName != "" {
		label = fmt.Sprintf("plan %q", report.PlanName)
	}

	verdict := "valid"
	if !report.Valid {
		verdict = "INVALID"
	}
	fmt.Fprintf(&b, "%s: %s\n", label, verdict)
	fmt.Fprintf(&b, "  %d stage(s) checked, %d violation(s), %d warning(s)\n",
		report.StageCount, len(report.Violations), len(report.Warnings))

	if len(report.Violations) > 0 {
		b.WriteString("\n")
		for _, v := range report.Violations {
			fmt.Fprintf(&b, "  [%s] stage %d: %s\n", v.Kind, v.StageID, v.Detail)
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\n  warnings:\n")
		for _, w := range report.Warnings {
			where := "plan"
			if w.StageID != 0 {
				where = fmt.Sprintf("stage %d", w.StageID)
			}
			fmt.Fprintf(&b, "  [%s] %s (%s): %s\n", w.Code, where, w.Severity, w.Message)
		}
	}

	return b.String()
}
