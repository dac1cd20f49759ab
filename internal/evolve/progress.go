package evolve

import (
	"time"

	"golang.org/x/time/rate"
)

// ProgressCallback receives the engine's three ordered events per
// generation cycle. Handlers are invoked synchronously on the evolution
// goroutine and must not block.
type ProgressCallback interface {
	OnGenerationStart(gen int)
	OnStrategyEvaluated(k, n int)
	OnGenerationComplete(gen int, bestFitness float64, hallSize int)
}

// NoopProgress discards every event.
type NoopProgress struct{}

func (NoopProgress) OnGenerationStart(int)              {}
func (NoopProgress) OnStrategyEvaluated(int, int)       {}
func (NoopProgress) OnGenerationComplete(int, float64, int) {}

// rateLimitedProgress wraps a ProgressCallback and throttles the
// high-frequency per-strategy event so a slow consumer (a terminal
// spinner, a websocket broadcaster) isn't driven harder than it can
// keep up with; generation-boundary events always pass through.
type rateLimitedProgress struct {
	inner   ProgressCallback
	limiter *rate.Limiter
}

// newRateLimitedProgress throttles OnStrategyEvaluated to at most
// eventsPerSecond dispatches per second.
func newRateLimitedProgress(inner ProgressCallback, eventsPerSecond float64) ProgressCallback {
	if inner == nil {
		inner = NoopProgress{}
	}
	if eventsPerSecond <= 0 {
		eventsPerSecond = 20
	}
	return &rateLimitedProgress{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), 1),
	}
}

func (r *rateLimitedProgress) OnGenerationStart(gen int) {
	r.inner.OnGenerationStart(gen)
}

func (r *rateLimitedProgress) OnStrategyEvaluated(k, n int) {
	if k == n || r.limiter.AllowN(time.Now(), 1) {
		r.inner.OnStrategyEvaluated(k, n)
	}
}

func (r *rateLimitedProgress) OnGenerationComplete(gen int, bestFitness float64, hallSize int) {
	r.inner.OnGenerationComplete(gen, bestFitness, hallSize)
}
