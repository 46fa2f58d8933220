package locator

import (
	"context"
	"time"
)

// Run is a stored extraction of one source.
type Run struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	ContentHash string    `json:"contentHash"`
	Records     int       `json:"records"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RunService represents a service for persisting extraction runs.
type RunService interface {
	// Save stores the records of set as a new run for source.
	Save(ctx context.Context, source string, set *Set) (*Run, error)

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindRecords retrieves the records of a run in the order they were saved.
	// Returns ENOTFOUND if run does not exist.
	FindRecords(ctx context.Context, runID string) ([]Row, error)

	// DeleteRun permanently removes a run and its records.
	// Returns ENOTFOUND if run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID          *string `json:"id"`
	Source      *string `json:"source"`
	ContentHash *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
