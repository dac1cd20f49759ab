package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyDedupGuardClaimWinsOnFirstAttempt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	guard := &LegacyDedupGuard{client: db, prefix: "test"}

	ttl := 10 * time.Minute
	mock.ExpectSetNX(guard.key("sig-a"), 1, ttl).SetVal(true)

	won, err := guard.Claim(context.Background(), "sig-a", ttl)
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegacyDedupGuardClaimLosesWhenAlreadyHeld(t *testing.T) {
	db, mock := redismock.NewClientMock()
	guard := &LegacyDedupGuard{client: db, prefix: "test"}

	ttl := 10 * time.Minute
	mock.ExpectSetNX(guard.key("sig-b"), 1, ttl).SetVal(false)

	won, err := guard.Claim(context.Background(), "sig-b", ttl)
	require.NoError(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegacyDedupGuardClaimPropagatesError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	guard := &LegacyDedupGuard{client: db, prefix: "test"}

	ttl := time.Minute
	mock.ExpectSetNX(guard.key("sig-c"), 1, ttl).SetErr(redis.TxFailedErr)

	_, err := guard.Claim(context.Background(), "sig-c", ttl)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegacyDedupGuardRelease(t *testing.T) {
	db, mock := redismock.NewClientMock()
	guard := &LegacyDedupGuard{client: db, prefix: "test"}

	mock.ExpectDel(guard.key("sig-d")).SetVal(1)

	err := guard.Release(context.Background(), "sig-d")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
