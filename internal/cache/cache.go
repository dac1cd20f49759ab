// Package cache provides a distributed guard against redundant work when
// several evolution workers search the same population concurrently: two
// workers racing to evaluate the same genome signature should only have
// one of them actually run the simulator.
package cache

import (
	"context"
	"sync"
	"time"
)

// DedupGuard claims a signature for the evaluating worker. Claim returns
// true if the caller won the race and should evaluate the genome; false
// means another worker already claimed it within ttl.
type DedupGuard interface {
	Claim(ctx context.Context, signature string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, signature string) error
}

// memoryGuard is the zero-dependency, process-local DedupGuard. The CLI
// does not install it: with no Redis address configured, the engine runs
// without any guard.
type memoryGuard struct {
	mu     sync.Mutex
	claims map[string]time.Time
}

// NewMemoryGuard returns a single-process DedupGuard backed by a map. It
// is correct only within one process; distributed runs need NewDistributedDedupGuard.
func NewMemoryGuard() DedupGuard {
	return &memoryGuard{claims: make(map[string]time.Time)}
}

func (m *memoryGuard) Claim(ctx context.Context, signature string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if expiry, ok := m.claims[signature]; ok && now.Before(expiry) {
		return false, nil
	}
	m.claims[signature] = now.Add(ttl)
	return true, nil
}

func (m *memoryGuard) Release(ctx context.Context, signature string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, signature)
	return nil
}
