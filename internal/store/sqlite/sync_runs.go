package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
)

// CreateSyncRun records a finished GitHub sync batch.
func (s *Store) CreateSyncRun(ctx context.Context, run *domain.SyncRun) error {
	updated := run.Updated
	if updated == nil {
		updated = []int64{}
	}
	failed := run.Failed
	if failed == nil {
		failed = []domain.SyncFailure{}
	}

	updatedJSON, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal updated ids: %w", err)
	}
	failedJSON, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO github_sync_runs (id, started_at, finished_at, updated, failed)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		string(updatedJSON),
		string(failedJSON),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sync run %s already recorded: %w", run.ID, err)
		}
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// ListSyncRuns returns the most recent runs first.
func (s *Store) ListSyncRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, updated, failed
		FROM github_sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	runs := []*domain.SyncRun{}
	for rows.Next() {
		var (
			run                   domain.SyncRun
			startedAt, finishedAt string
			updated, failed       string
		)
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &updated, &failed); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		if run.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(updated), &run.Updated); err != nil {
			return nil, fmt.Errorf("decode updated ids: %w", err)
		}
		if err := json.Unmarshal([]byte(failed), &run.Failed); err != nil {
			return nil, fmt.Errorf("decode failures: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
