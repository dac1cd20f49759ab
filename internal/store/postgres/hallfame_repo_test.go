package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/store"
	"github.com/sawpanic/tradebias/internal/store/postgres"
)

func newMockRepo(t *testing.T) (store.HallOfFameRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "postgres")
	repo := postgres.NewHallOfFameRepo(db, 5*time.Second)
	return repo, mock, func() { mockDB.Close() }
}

func TestHallOfFameRepoUpsertBatchExecutesWithinTransaction(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO hall_of_fame")
	mock.ExpectExec("INSERT INTO hall_of_fame").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	row := store.HallOfFameRow{
		RunID:     "run-1",
		Signature: "sig-a",
		Genome:    []uint32{1, 2, 3},
		Metrics:   map[string]float64{"return_pct": 5.0},
		Fitness:   5.0,
	}
	err := repo.Upsert(context.Background(), row)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHallOfFameRepoUpsertBatchNoopOnEmpty(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	err := repo.UpsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHallOfFameRepoListByRunScansRows(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	cols := []string{"run_id", "signature", "genome", "metrics", "objectives", "fitness", "rank", "crowding", "created_at"}
	mock.ExpectQuery("SELECT run_id, signature, genome, metrics, objectives, fitness, rank, crowding, created_at").
		WithArgs("run-1", 10).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"run-1", "sig-a", []byte("[1,2,3]"), []byte(`{"return_pct":5}`), []byte("[]"), 5.0, 0, 0.0, time.Now()))

	rows, err := repo.ListByRun(context.Background(), "run-1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "sig-a", rows[0].Signature)
	assert.Equal(t, []uint32{1, 2, 3}, rows[0].Genome)
	assert.NoError(t, mock.ExpectationsWereMet())
}
