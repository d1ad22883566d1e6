// Package store persists run summaries to SQLite so past runs can be
// listed, inspected, and served over the API.
package store

import (
	"context"
	"time"

	"github.com/stellarlinkco/promptcheck/runner"
	"github.com/stellarlinkco/promptcheck/unit"
)

// Store defines persistence for run summaries.
type Store interface {
	SaveSummary(ctx context.Context, id string, createdAt time.Time, s *runner.Summary) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
	Close() error
}

// RunRecord stores one run summary. Results are populated by GetRun and
// left nil by ListRuns.
type RunRecord struct {
	ID          string
	CreatedAt   time.Time
	TotalUnits  int
	PassedUnits int
	FailedUnits int
	TotalMs     float64
	AvgMs       float64
	Results     []unit.Result
}
