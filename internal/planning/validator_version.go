package planning

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// MinVersionValidator checks a plan's min_tool_version pin against the
// running release. A plan written for a newer planlint may rely on rules this
// build does not know, so a clean report from an old binary is not conclusive.
type MinVersionValidator struct{}

// Name returns the validator identifier.
func (v *MinVersionValidator) Name() string {
	return "min_tool_version"
}

// Priority returns 40 (runs last; plan-level advisory only).
func (v *MinVersionValidator) Priority() int {
	return 40
}

// Validate compares the pin and the running version as semver.
func (v *MinVersionValidator) Validate(ctx context.Context, plan *Plan, vctx *ValidationContext) Result {
	result := Result{}

	if plan.MinToolVersion == "" {
		return result
	}

	pin := canonicalSemver(plan.MinToolVersion)
	if !semver.IsValid(pin) {
		result.Warnings = append(result.Warnings, Warning{
			Code: "UNSUPPORTED_MIN_VERSION",
			Message: fmt.Sprintf("Plan pins min_tool_version %q, which is not a valid semantic version",
				plan.MinToolVersion),
			Severity:   WarningSeverityLow,
			stageIndex: -1,
		})
		return result
	}

	// Development builds carry no comparable version and skip the gate.
	tool := canonicalSemver(vctx.ToolVersion)
	if !semver.IsValid(tool) {
		return result
	}

	if semver.Compare(tool, pin) < 0 {
		result.Warnings = append(result.Warnings, Warning{
			Code: "UNSUPPORTED_MIN_VERSION",
			Message: fmt.Sprintf("Plan requires planlint %s or newer, but this is %s; rules added since may be missing from this report",
				pin, tool),
			Severity:   WarningSeverityHigh,
			stageIndex: -1,
		})
	}

	return result
}

// canonicalSemver normalizes a version string to the v-prefixed form
// golang.org/x/mod/semver expects.
func canonicalSemver(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
