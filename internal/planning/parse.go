package planning

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// InvalidInputError reports that a plan could not be constructed from the
// caller's data. It is the only fatal condition in this package: once a Plan
// exists, every further problem is collected as a Violation, never raised.
type InvalidInputError struct {
	// Path is the document the input came from, when known.
	Path string

	// Reason describes what made the input unconstructible.
	Reason string

	// Err is the underlying decode error, if any.
	Err error
}

func (e *InvalidInputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid plan input in %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid plan input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// IsInvalidInput reports whether err is a construction-time input error.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}

// planDocument is the wire shape of a plan file. Pointer fields distinguish
// absent values from zero values, which is what lets the parser tell a
// missing id from a bad one.
type planDocument struct {
	Plan           string          `yaml:"plan" json:"plan"`
	MinToolVersion string          `yaml:"min_tool_version" json:"min_tool_version"`
	Stages         []stageDocument `yaml:"stages" json:"stages"`
}

type stageDocument struct {
	ID                 *int     `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	DependsOn          []int    `yaml:"depends_on" json:"depends_on"`
	CompletionCriteria []string `yaml:"completion_criteria" json:"completion_criteria"`
}

// Parse constructs a Plan from a YAML document. JSON documents parse too,
// since YAML is a superset. The returned error, if any, is an
// *InvalidInputError.
func Parse(data []byte) (*Plan, error) {
	var doc planDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidInputError{
			Reason: fmt.Sprintf("cannot parse document: %v", err),
			Err:    err,
		}
	}
	return buildPlan(&doc, "")
}

// ParseFile reads and constructs a Plan from a document on disk. Files with
// a .json extension decode as strict JSON, everything else as YAML. A plan
// that declares no name takes the file's base name.
func ParseFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidInputError{
			Path:   path,
			Reason: fmt.Sprintf("cannot read document: %v", err),
			Err:    err,
		}
	}

	var doc planDocument
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &InvalidInputError{
			Path:   path,
			Reason: fmt.Sprintf("cannot parse document: %v", err),
			Err:    err,
		}
	}

	plan, err := buildPlan(&doc, path)
	if err != nil {
		return nil, err
	}
	if plan.Name == "" {
		base := filepath.Base(path)
		plan.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return plan, nil
}

// buildPlan checks the constructibility rules and assembles the Plan.
// Only type-level constraints live here (ids present and positive, names
// present); everything the validator can report stays out of the parser.
func buildPlan(doc *planDocument, path string) (*Plan, error) {
	stages := make([]Stage, 0, len(doc.Stages))
	for i, sd := range doc.Stages {
		pos := i + 1
		if sd.ID == nil {
			return nil, &InvalidInputError{
				Path:   path,
				Reason: fmt.Sprintf("stage %d: missing id", pos),
			}
		}
		if *sd.ID <= 0 {
			return nil, &InvalidInputError{
				Path:   path,
				Reason: fmt.Sprintf("stage %d: id must be a positive integer, got %d", pos, *sd.ID),
			}
		}
		if strings.TrimSpace(sd.Name) == "" {
			return nil, &InvalidInputError{
				Path:   path,
				Reason: fmt.Sprintf("stage %d: missing name", pos),
			}
		}

		stages = append(stages, Stage{
			ID:                 *sd.ID,
			Name:               sd.Name,
			DependsOn:          dedupeIDs(sd.DependsOn),
			CompletionCriteria: sd.CompletionCriteria,
		})
	}

	now := time.Now()
	return &Plan{
		Name:           strings.TrimSpace(doc.Plan),
		MinToolVersion: doc.MinToolVersion,
		Stages:         stages,
		Status:         PlanStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// dedupeIDs drops repeated dependency ids, preserving first-occurrence
// order. depends_on is a set; writing an id twice is not a second edge.
func dedupeIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
