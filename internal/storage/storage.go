// Package storage defines the interface for plan persistence backends.
package storage

import (
	"context"
	"errors"

	"github.com/planlint/planlint/internal/planning"
	"github.com/planlint/planlint/internal/storage/sqlite"
)

// ErrStaleIteration is returned when attempting to update a plan with a stale
// iteration number. This indicates a concurrent modification race: another
// process stored the plan first.
var ErrStaleIteration = sqlite.ErrStaleIteration

// Store defines the interface for plan storage backends.
type Store interface {
	// Plans
	//
	// StorePlan writes a plan and returns the new iteration number.
	// expectedIteration == 0 creates or force-updates; a positive value must
	// match the stored iteration or ErrStaleIteration is returned. Storing
	// changed content demotes the plan to draft.
	StorePlan(ctx context.Context, plan *planning.Plan, expectedIteration int) (int, error)
	// GetPlan returns (nil, 0, nil) when no plan has that name.
	GetPlan(ctx context.Context, name string) (*planning.Plan, int, error)
	ListPlans(ctx context.Context) ([]*planning.Plan, error)
	DeletePlan(ctx context.Context, name string) error
	SetPlanStatus(ctx context.Context, name string, status planning.PlanStatus, actor string) error

	// Validation runs
	RecordRun(ctx context.Context, run *planning.Run) error
	// ListRuns returns newest-first runs, all plans when planName is empty.
	ListRuns(ctx context.Context, planName string, limit int) ([]*planning.Run, error)
	// GetRun returns (nil, nil) when the run does not exist.
	GetRun(ctx context.Context, id string) (*planning.Run, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration.
type Config struct {
	// Path is the SQLite database file path.
	// Special value ":memory:" creates an in-memory database (useful for tests).
	Path string

	// KeepRunsPerPlan bounds run history per plan; recording a run prunes
	// older ones past the limit. 0 keeps everything.
	KeepRunsPerPlan int
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Path:            ".planlint/planlint.db",
		KeepRunsPerPlan: 50,
	}
}

// NewStore creates a new SQLite storage backend.
func NewStore(ctx context.Context, cfg *Config) (Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		return nil, errors.New("storage path cannot be empty")
	}

	return sqlite.New(cfg.Path, cfg.KeepRunsPerPlan)
}
