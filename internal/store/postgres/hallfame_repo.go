package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sawpanic/tradebias/internal/store"
)

type hallOfFameRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewHallOfFameRepo returns a store.HallOfFameRepo backed by db.
func NewHallOfFameRepo(db *sqlx.DB, timeout time.Duration) store.HallOfFameRepo {
	return &hallOfFameRepo{db: db, timeout: timeout}
}

func (r *hallOfFameRepo) Upsert(ctx context.Context, row store.HallOfFameRow) error {
	return r.UpsertBatch(ctx, []store.HallOfFameRow{row})
}

func (r *hallOfFameRepo) UpsertBatch(ctx context.Context, rows []store.HallOfFameRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(rows)/50+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hall_of_fame (run_id, signature, genome, metrics, objectives, fitness, rank, crowding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id, signature) DO UPDATE SET
			fitness = EXCLUDED.fitness,
			rank = EXCLUDED.rank,
			crowding = EXCLUDED.crowding,
			metrics = EXCLUDED.metrics,
			objectives = EXCLUDED.objectives`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		genomeJSON, err := json.Marshal(row.Genome)
		if err != nil {
			return fmt.Errorf("failed to marshal genome: %w", err)
		}
		metricsJSON, err := json.Marshal(row.Metrics)
		if err != nil {
			return fmt.Errorf("failed to marshal metrics: %w", err)
		}
		objectivesJSON, err := json.Marshal(row.Objectives)
		if err != nil {
			return fmt.Errorf("failed to marshal objectives: %w", err)
		}
		createdAt := row.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		if _, err := stmt.ExecContext(ctx, row.RunID, row.Signature, genomeJSON,
			metricsJSON, objectivesJSON, row.Fitness, row.Rank, row.Crowding, createdAt); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return fmt.Errorf("failed to upsert hall of fame row (%s): %w", pqErr.Code, err)
			}
			return fmt.Errorf("failed to upsert hall of fame row: %w", err)
		}
	}

	return tx.Commit()
}

func (r *hallOfFameRepo) ListByRun(ctx context.Context, runID string, limit int) ([]store.HallOfFameRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT run_id, signature, genome, metrics, objectives, fitness, rank, crowding, created_at
		FROM hall_of_fame
		WHERE run_id = $1
		ORDER BY fitness DESC
		LIMIT $2`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query hall of fame by run: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *hallOfFameRepo) Best(ctx context.Context, runID string, limit int) ([]store.HallOfFameRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT run_id, signature, genome, metrics, objectives, fitness, rank, crowding, created_at
		FROM hall_of_fame
		WHERE run_id = $1
		ORDER BY rank ASC, crowding DESC, fitness DESC
		LIMIT $2`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query best hall of fame rows: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows *sqlx.Rows) ([]store.HallOfFameRow, error) {
	var out []store.HallOfFameRow
	for rows.Next() {
		var row store.HallOfFameRow
		var genomeJSON, metricsJSON, objectivesJSON []byte
		if err := rows.Scan(&row.RunID, &row.Signature, &genomeJSON, &metricsJSON,
			&objectivesJSON, &row.Fitness, &row.Rank, &row.Crowding, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hall of fame row: %w", err)
		}
		if err := json.Unmarshal(genomeJSON, &row.Genome); err != nil {
			return nil, fmt.Errorf("failed to unmarshal genome: %w", err)
		}
		if err := json.Unmarshal(metricsJSON, &row.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
		if err := json.Unmarshal(objectivesJSON, &row.Objectives); err != nil {
			return nil, fmt.Errorf("failed to unmarshal objectives: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hall of fame rows: %w", err)
	}
	return out, nil
}
