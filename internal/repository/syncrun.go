package repository

import (
	"context"
	"fmt"

	"github.com/guivr/ohmydashboard-sub002/internal/model"
)

// DefaultRunListLimit bounds how many runs a single listing returns.
const DefaultRunListLimit = 50

// InsertSyncRun persists one sync run row.
func (r *Repository) InsertSyncRun(ctx context.Context, run *model.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, account_id, integration, triggered_by, status, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.AccountID,
		run.Integration,
		run.Trigger,
		run.Status,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}
	return nil
}

// ListSyncRuns returns the most recent runs, newest first. A non-positive
// limit falls back to DefaultRunListLimit.
func (r *Repository) ListSyncRuns(ctx context.Context, limit int) ([]*model.SyncRun, error) {
	if limit <= 0 || limit > DefaultRunListLimit {
		limit = DefaultRunListLimit
	}

	query := `
		SELECT id, account_id, integration, triggered_by, status, error, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.SyncRun
	for rows.Next() {
		run := &model.SyncRun{}
		if err := rows.Scan(
			&run.ID,
			&run.AccountID,
			&run.Integration,
			&run.Trigger,
			&run.Status,
			&run.Error,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return runs, nil
}
