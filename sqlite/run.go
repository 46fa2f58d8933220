package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/locator"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ locator.RunService = (*RunService)(nil)

// RunService implements locator.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// Save stores set as a new run. The content hash is taken over the set's
// JSON form, so identical extractions share a hash.
func (s *RunService) Save(ctx context.Context, source string, set *locator.Set) (*locator.Run, error) {
	if source == "" {
		return nil, locator.Errorf(locator.EINVALID, "run source required")
	}
	if set == nil {
		return nil, locator.Errorf(locator.EINVALID, "run locators required")
	}

	data, err := set.MarshalJSON()
	if err != nil {
		return nil, err
	}
	rows := set.Rows()
	run := &locator.Run{
		ID:          uuid.New().String(),
		Source:      source,
		ContentHash: hashContent(data),
		Records:     len(rows),
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, content_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Source, run.ContentHash, run.CreatedAt.Format(timeFormat)); err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, category, locator, element)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, run.ID, i, string(row.Type), row.Locator, row.Element); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*locator.Run, error) {
	runs, err := s.FindRuns(ctx, locator.RunFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, locator.Errorf(locator.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter locator.RunFilter) ([]*locator.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT r.id, r.source, r.content_hash, r.created_at,
			(SELECT COUNT(*) FROM records WHERE run_id = r.id)
		FROM runs r
		WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND r.id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Source != nil {
		query.WriteString(" AND r.source = ?")
		args = append(args, *filter.Source)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND r.content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY r.created_at DESC, r.rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*locator.Run{}
	for rows.Next() {
		var run locator.Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Source, &run.ContentHash, &createdAt, &run.Records); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindRecords retrieves the records of a run in the order they were saved.
func (s *RunService) FindRecords(ctx context.Context, runID string) ([]locator.Row, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, locator, element
		FROM records
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []locator.Row{}
	for rows.Next() {
		var row locator.Row
		var category string
		if err := rows.Scan(&category, &row.Locator, &row.Element); err != nil {
			return nil, err
		}
		row.Type = locator.Category(category)
		records = append(records, row)
	}

	return records, rows.Err()
}

// DeleteRun removes a run and its records.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return locator.Errorf(locator.ENOTFOUND, "run not found")
	}
	return nil
}
