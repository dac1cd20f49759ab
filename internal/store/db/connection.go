// Package db manages the Postgres connection pool and repository set
// backing internal/store. The pool is opt-in: a run with persistence
// disabled keeps the in-memory Hall of Fame alone. NewManager returns an
// error when the database cannot be reached at startup; outages after a
// successful connect are absorbed by internal/store's circuit breaker.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sawpanic/tradebias/internal/store"
	"github.com/sawpanic/tradebias/internal/store/postgres"
)

// Config holds database connection configuration.
type Config struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
	Enabled         bool          `yaml:"enabled"`
}

// DefaultConfig returns reasonable pool defaults, disabled until a DSN
// is supplied.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    10 * time.Second,
		Enabled:         false,
	}
}

// Manager owns the connection pool and the repository set built on it.
type Manager struct {
	db     *sqlx.DB
	config Config
	repos  *store.Repository
	health *healthChecker
}

// NewManager opens a pool against config.DSN and wires the repositories.
// When config.Enabled is false, it returns a Manager with no pool and no
// repositories; callers should check IsEnabled before using Repository.
func NewManager(config Config) (*Manager, error) {
	if !config.Enabled {
		return &Manager{config: config, health: &healthChecker{enabled: false}}, nil
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("database DSN is required when store is enabled")
	}

	conn, err := sqlx.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repos := &store.Repository{
		Runs:       postgres.NewRunRepo(conn, config.QueryTimeout),
		HallOfFame: store.NewDegradingHallOfFameRepo("hall_of_fame", postgres.NewHallOfFameRepo(conn, config.QueryTimeout)),
	}

	return &Manager{
		db:     conn,
		config: config,
		repos:  repos,
		health: &healthChecker{enabled: true, db: conn, timeout: config.QueryTimeout},
	}, nil
}

// Repository returns the repository set, or nil if the store is disabled.
func (m *Manager) Repository() *store.Repository { return m.repos }

// Health returns the health checker.
func (m *Manager) Health() store.Health { return m.health }

// IsEnabled reports whether a live pool backs this Manager.
func (m *Manager) IsEnabled() bool { return m.config.Enabled && m.db != nil }

// Close releases the pool.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

type healthChecker struct {
	enabled bool
	db      *sqlx.DB
	timeout time.Duration
}

func (h *healthChecker) Health(ctx context.Context) store.HealthCheck {
	if !h.enabled {
		return store.HealthCheck{
			Healthy:        true,
			Errors:         []string{"database persistence disabled"},
			ConnectionPool: map[string]int{"status": 0},
			LastCheck:      time.Now(),
		}
	}

	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var errs []string
	healthy := true
	if err := h.db.PingContext(pingCtx); err != nil {
		errs = append(errs, fmt.Sprintf("ping failed: %v", err))
		healthy = false
	}

	stats := h.db.Stats()
	return store.HealthCheck{
		Healthy: healthy,
		Errors:  errs,
		ConnectionPool: map[string]int{
			"max_open": stats.MaxOpenConnections,
			"open":     stats.OpenConnections,
			"in_use":   stats.InUse,
			"idle":     stats.Idle,
		},
		LastCheck:      time.Now(),
		ResponseTimeMS: time.Since(start).Milliseconds(),
	}
}

func (h *healthChecker) Ping(ctx context.Context) error {
	if !h.enabled {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.db.PingContext(pingCtx)
}
