// Package history persists the runs of sync, lint and deploy commands and
// the findings they produced.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded command execution
type Run struct {
	ID        string         `json:"id" yaml:"id"`
	Kind      string         `json:"kind" yaml:"kind"`
	File      string         `json:"file" yaml:"file"`
	StartedAt time.Time      `json:"started_at" yaml:"started_at"`
	Duration  time.Duration  `json:"duration" yaml:"duration"`
	Success   bool           `json:"success" yaml:"success"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
	Stats     map[string]int `json:"stats,omitempty" yaml:"stats,omitempty"`
	Findings  []Finding      `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Finding is an issue or entry reference reported by a run
type Finding struct {
	Line     int    `json:"line" yaml:"line"`
	Context  string `json:"context" yaml:"context"`
	Kind     string `json:"kind" yaml:"kind"`
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

// RunFilter selects runs for List. Zero fields match everything.
type RunFilter struct {
	Kind   string
	File   string
	Since  time.Time
	Limit  int
	Offset int
}

// Store persists runs
type Store interface {
	// Record stores run and its findings, assigning ID and StartedAt when
	// they are empty.
	Record(ctx context.Context, run *Run) error
	// List returns runs newest first, without findings
	List(ctx context.Context, filter RunFilter) ([]*Run, error)
	// Get returns one run with its findings. A unique ID prefix is enough.
	Get(ctx context.Context, id string) (*Run, error)
	// Prune keeps the newest keep runs and deletes the rest
	Prune(ctx context.Context, keep int) (int64, error)
	// Stats returns the number of runs per kind
	Stats(ctx context.Context) (map[string]int, error)
	Close() error
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.NewString()
}

func prepare(run *Run) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
}
