package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/tradebias/internal/store"
)

type runRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewRunRepo returns a store.RunRepo backed by db.
func NewRunRepo(db *sqlx.DB, timeout time.Duration) store.RunRepo {
	return &runRepo{db: db, timeout: timeout}
}

func (r *runRepo) Create(ctx context.Context, run store.RunRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO evolution_runs (run_id, started_at, generations, use_pareto, seed)
		VALUES ($1, $2, $3, $4, $5)`,
		run.RunID, run.StartedAt, run.Generations, run.UsePareto, run.Seed)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

func (r *runRepo) Finish(ctx context.Context, runID string, finishedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE evolution_runs SET finished_at = $2 WHERE run_id = $1`, runID, finishedAt)
	if err != nil {
		return fmt.Errorf("failed to mark run finished: %w", err)
	}
	return nil
}

func (r *runRepo) Get(ctx context.Context, runID string) (*store.RunRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var run store.RunRecord
	err := r.db.QueryRowxContext(ctx, `
		SELECT run_id, started_at, finished_at, generations, use_pareto, seed
		FROM evolution_runs WHERE run_id = $1`, runID).
		Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.Generations, &run.UsePareto, &run.Seed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run record: %w", err)
	}
	return &run, nil
}

func (r *runRepo) ListRecent(ctx context.Context, limit int) ([]store.RunRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT run_id, started_at, finished_at, generations, use_pareto, seed
		FROM evolution_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent runs: %w", err)
	}
	defer rows.Close()

	var out []store.RunRecord
	for rows.Next() {
		var run store.RunRecord
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.FinishedAt,
			&run.Generations, &run.UsePareto, &run.Seed); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run records: %w", err)
	}
	return out, nil
}
