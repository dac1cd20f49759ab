package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuardClaimIsExclusiveUntilTTLExpires(t *testing.T) {
	guard := NewMemoryGuard()
	ctx := context.Background()

	won, err := guard.Claim(ctx, "sig-a", 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = guard.Claim(ctx, "sig-a", 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, won, "a second claim within the TTL window must lose")

	time.Sleep(60 * time.Millisecond)
	won, err = guard.Claim(ctx, "sig-a", 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, won, "a claim after TTL expiry must win again")
}

func TestMemoryGuardReleaseAllowsImmediateReclaim(t *testing.T) {
	guard := NewMemoryGuard()
	ctx := context.Background()

	_, err := guard.Claim(ctx, "sig-b", time.Hour)
	require.NoError(t, err)

	require.NoError(t, guard.Release(ctx, "sig-b"))

	won, err := guard.Claim(ctx, "sig-b", time.Hour)
	require.NoError(t, err)
	assert.True(t, won)
}
