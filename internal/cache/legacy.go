package cache

import (
	"context"
	"fmt"
	"time"

	legacyredis "github.com/go-redis/redis/v8"
)

// LegacyDedupGuard is the v8-client counterpart to DistributedDedupGuard,
// kept live for workers that have not yet migrated to the v9 client
// during a rolling deploy.
type LegacyDedupGuard struct {
	client *legacyredis.Client
	prefix string
}

// NewLegacyDedupGuard dials addr using the legacy client.
func NewLegacyDedupGuard(addr, password string, db int, prefix string) (*LegacyDedupGuard, error) {
	client := legacyredis.NewClient(&legacyredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &LegacyDedupGuard{client: client, prefix: prefix}, nil
}

func (g *LegacyDedupGuard) key(signature string) string {
	return fmt.Sprintf("evolve:claim:%s:%s", g.prefix, signature)
}

func (g *LegacyDedupGuard) Claim(ctx context.Context, signature string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(signature), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (g *LegacyDedupGuard) Release(ctx context.Context, signature string) error {
	if err := g.client.Del(ctx, g.key(signature)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (g *LegacyDedupGuard) Close() error {
	return g.client.Close()
}

var _ DedupGuard = (*LegacyDedupGuard)(nil)
