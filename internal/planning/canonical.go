package planning

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// canonicalPlan is the hashable subset of a plan: the content the validator
// sees, and nothing of the storage lifecycle. Rewriting a plan's status or
// iteration never changes its fingerprint; editing a stage always does.
type canonicalPlan struct {
	Name           string           `json:"name"`
	MinToolVersion string           `json:"min_tool_version,omitempty"`
	Stages         []canonicalStage `json:"stages"`
}

type canonicalStage struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	DependsOn          []int    `json:"depends_on,omitempty"`
	CompletionCriteria []string `json:"completion_criteria,omitempty"`
}

// Canonicalize returns a stable JSON representation of the plan's content.
// Field order is fixed by the struct, so identical content always yields
// identical bytes.
func Canonicalize(plan *Plan) ([]byte, error) {
	c := canonicalPlan{
		Name:           plan.Name,
		MinToolVersion: plan.MinToolVersion,
		Stages:         make([]canonicalStage, len(plan.Stages)),
	}
	for i, s := range plan.Stages {
		c.Stages[i] = canonicalStage{
			ID:                 s.ID,
			Name:               s.Name,
			DependsOn:          s.DependsOn,
			CompletionCriteria: s.CompletionCriteria,
		}
	}
	return json.Marshal(c)
}

// Fingerprint computes the blake3 hash of the canonicalized plan, as hex.
// Stored runs carry the fingerprint so history can tell which report belongs
// to which revision of a plan's content.
func Fingerprint(plan *Plan) (string, error) {
	canonical, err := Canonicalize(plan)
	if err != nil {
		return "", fmt.Errorf("canonicalize plan: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash plan: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
