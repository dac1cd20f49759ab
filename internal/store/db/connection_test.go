package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/store/db"
)

func TestDefaultConfig(t *testing.T) {
	cfg := db.DefaultConfig()
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.False(t, cfg.Enabled)
}

func TestNewManagerDisabled(t *testing.T) {
	manager, err := db.NewManager(db.Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, manager.IsEnabled())
	assert.Nil(t, manager.Repository())

	health := manager.Health().Health(context.Background())
	assert.True(t, health.Healthy)
	assert.Contains(t, health.Errors[0], "disabled")

	assert.NoError(t, manager.Health().Ping(context.Background()))
	assert.NoError(t, manager.Close())
}

func TestNewManagerMissingDSN(t *testing.T) {
	_, err := db.NewManager(db.Config{Enabled: true})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DSN is required")
}
