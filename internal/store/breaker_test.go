package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/store"
)

type failingRepo struct {
	err error
}

func (f *failingRepo) Upsert(ctx context.Context, row store.HallOfFameRow) error { return f.err }
func (f *failingRepo) UpsertBatch(ctx context.Context, rows []store.HallOfFameRow) error {
	return f.err
}
func (f *failingRepo) ListByRun(ctx context.Context, runID string, limit int) ([]store.HallOfFameRow, error) {
	return nil, f.err
}
func (f *failingRepo) Best(ctx context.Context, runID string, limit int) ([]store.HallOfFameRow, error) {
	return nil, f.err
}

func TestDegradingHallOfFameRepoTripsAfterConsecutiveFailures(t *testing.T) {
	inner := &failingRepo{err: errors.New("connection refused")}
	repo := store.NewDegradingHallOfFameRepo("test", inner)

	for i := 0; i < 5; i++ {
		err := repo.Upsert(context.Background(), store.HallOfFameRow{Signature: "sig"})
		assert.Error(t, err)
	}

	// The sixth call should see the breaker open and degrade to a nil error.
	err := repo.Upsert(context.Background(), store.HallOfFameRow{Signature: "sig"})
	require.NoError(t, err)

	rows, err := repo.ListByRun(context.Background(), "run-1", 10)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestDegradingHallOfFameRepoPassesThroughOnSuccess(t *testing.T) {
	inner := &failingRepo{err: nil}
	repo := store.NewDegradingHallOfFameRepo("test-ok", inner)

	err := repo.Upsert(context.Background(), store.HallOfFameRow{Signature: "sig"})
	require.NoError(t, err)
}
