package store

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// DegradingHallOfFameRepo wraps a HallOfFameRepo in a circuit breaker so a
// database outage degrades a run to in-memory-only Hall of Fame tracking
// instead of aborting it: once the breaker trips, writes are silently
// dropped rather than returned as errors, and reads return empty results.
type DegradingHallOfFameRepo struct {
	inner   HallOfFameRepo
	breaker *gobreaker.CircuitBreaker
}

// NewDegradingHallOfFameRepo wraps inner with a breaker named name using
// conservative trip thresholds: five consecutive failures opens it for
// thirty seconds before a half-open probe.
func NewDegradingHallOfFameRepo(name string, inner HallOfFameRepo) *DegradingHallOfFameRepo {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &DegradingHallOfFameRepo{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Upsert degrades silently on circuit-open: the caller's in-memory
// HallOfFame already holds the entry, so a lost write is not data loss,
// only lost durability.
func (d *DegradingHallOfFameRepo) Upsert(ctx context.Context, row HallOfFameRow) error {
	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, d.inner.Upsert(ctx, row)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil
	}
	return err
}

func (d *DegradingHallOfFameRepo) UpsertBatch(ctx context.Context, rows []HallOfFameRow) error {
	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, d.inner.UpsertBatch(ctx, rows)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil
	}
	return err
}

func (d *DegradingHallOfFameRepo) ListByRun(ctx context.Context, runID string, limit int) ([]HallOfFameRow, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		return d.inner.ListByRun(ctx, runID, limit)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result.([]HallOfFameRow), nil
}

func (d *DegradingHallOfFameRepo) Best(ctx context.Context, runID string, limit int) ([]HallOfFameRow, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		return d.inner.Best(ctx, runID, limit)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result.([]HallOfFameRow), nil
}

// State reports the breaker's current state for health reporting.
func (d *DegradingHallOfFameRepo) State() gobreaker.State {
	return d.breaker.State()
}

var _ HallOfFameRepo = (*DegradingHallOfFameRepo)(nil)
