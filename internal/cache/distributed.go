package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistributedDedupGuard claims signatures across processes using Redis
// SETNX, so concurrent workers searching the same population converge on
// one evaluation per signature.
type DistributedDedupGuard struct {
	client *redis.Client
	prefix string
}

// NewDistributedDedupGuard dials addr and returns a guard keyed under
// "evolve:claim:<prefix>:<signature>".
func NewDistributedDedupGuard(addr, password string, db int, prefix string) (*DistributedDedupGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &DistributedDedupGuard{client: client, prefix: prefix}, nil
}

func (g *DistributedDedupGuard) key(signature string) string {
	return fmt.Sprintf("evolve:claim:%s:%s", g.prefix, signature)
}

// Claim returns true if this call set the key (i.e. won the race).
func (g *DistributedDedupGuard) Claim(ctx context.Context, signature string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(signature), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Release deletes the claim early, allowing a retry by another worker.
func (g *DistributedDedupGuard) Release(ctx context.Context, signature string) error {
	if err := g.client.Del(ctx, g.key(signature)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (g *DistributedDedupGuard) Close() error {
	return g.client.Close()
}

var _ DedupGuard = (*DistributedDedupGuard)(nil)
