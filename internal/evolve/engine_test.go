package evolve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/cache"
	"github.com/sawpanic/tradebias/internal/catalog"
	"github.com/sawpanic/tradebias/internal/gene"
	"github.com/sawpanic/tradebias/internal/metadata"
	"github.com/sawpanic/tradebias/internal/metrics"
	"github.com/sawpanic/tradebias/internal/ohlcv"
)

func TestMergeMetricsReturnPctReflectsOpenPositionEquity(t *testing.T) {
	// No closed trades: the trades-only Profitability view is the zero
	// value, but a strategy that opened a position and never exited must
	// still score the open position's mark-to-market P&L.
	p := metrics.ComputeProfitability(nil, 10000)
	r := metrics.Risk{}
	values := mergeMetrics(p, r, 11000, 10000)
	assert.InDelta(t, 10.0, values["return_pct"], 1e-9)
}

func TestMergeMetricsReturnPctZeroInitialCapital(t *testing.T) {
	values := mergeMetrics(metrics.Profitability{}, metrics.Risk{}, 500, 0)
	assert.Equal(t, 0.0, values["return_pct"])
}

func genomesEqual(a, b gene.Genome) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func syntheticFrame(n int) *ohlcv.Frame {
	f := &ohlcv.Frame{
		Open: make([]float64, n), High: make([]float64, n),
		Low: make([]float64, n), Close: make([]float64, n), Volume: make([]float64, n),
	}
	price := 100.0
	for i := 0; i < n; i++ {
		price += float64((i%7)-3) * 0.5
		f.Open[i] = price
		f.High[i] = price + 1
		f.Low[i] = price - 1
		f.Close[i] = price + 0.25
		f.Volume[i] = 1000 + float64(i)
	}
	return f
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 12
	cfg.Generations = 3
	cfg.GenomeLength = 24
	cfg.Seed = 42
	return cfg
}

func TestRunIsDeterministicUnderFixedSeed(t *testing.T) {
	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	frame := syntheticFrame(80)

	e1, err := New(reg, meta, testConfig(), NoopProgress{})
	require.NoError(t, err)
	hof1, err := e1.Run(context.Background(), frame)
	require.NoError(t, err)

	e2, err := New(reg, meta, testConfig(), NoopProgress{})
	require.NoError(t, err)
	hof2, err := e2.Run(context.Background(), frame)
	require.NoError(t, err)

	all1, all2 := hof1.All(), hof2.All()
	require.Equal(t, len(all1), len(all2))
	for i := range all1 {
		assert.Equal(t, all1[i].Signature, all2[i].Signature)
		assert.InDelta(t, all1[i].Fitness, all2[i].Fitness, 1e-9)
	}
}

func TestRunHonorsCancellationBetweenGenerations(t *testing.T) {
	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	frame := syntheticFrame(80)

	cfg := testConfig()
	cfg.Generations = 1000

	e, err := New(reg, meta, cfg, NoopProgress{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hof, err := e.Run(ctx, frame)
	require.NoError(t, err)
	assert.NotNil(t, hof)
}

func TestNextGenerationElitismPreservesBestGenome(t *testing.T) {
	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	cfg := testConfig()
	cfg.ElitismRate = 0.5

	e, err := New(reg, meta, cfg, NoopProgress{})
	require.NoError(t, err)

	population := initialPopulation(e.rng, cfg)
	evaluations := make([]*Evaluation, len(population))
	best := 0
	for i, g := range population {
		evaluations[i] = &Evaluation{Genome: g, Fitness: float64(i)}
		if evaluations[i].Fitness > evaluations[best].Fitness {
			best = i
		}
	}

	next := e.nextGeneration(evaluations)
	require.Len(t, next, cfg.PopulationSize)

	found := false
	for _, g := range next {
		if genomesEqual(g, population[best]) {
			found = true
			break
		}
	}
	assert.True(t, found, "elitism should carry the best genome of the prior generation forward")
}

func TestValidateRejectsInconsistentConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 0
	assert.Error(t, cfg.Validate())
}

// preClaimedGuard treats every signature as already claimed by another
// worker, forcing every genome in a generation to be skipped.
type preClaimedGuard struct{}

func (preClaimedGuard) Claim(ctx context.Context, signature string, ttl time.Duration) (bool, error) {
	return false, nil
}
func (preClaimedGuard) Release(ctx context.Context, signature string) error { return nil }

func TestRunSkipsGenomesAlreadyClaimedByAnotherWorker(t *testing.T) {
	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	frame := syntheticFrame(80)

	e, err := New(reg, meta, testConfig(), NoopProgress{})
	require.NoError(t, err)
	e.Dedup = preClaimedGuard{}

	hof, err := e.Run(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, 0, hof.Len(), "every genome was pre-claimed, so nothing should have been evaluated")
}

func TestRunWithMemoryDedupGuardStillPopulatesHallOfFame(t *testing.T) {
	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	frame := syntheticFrame(80)

	e, err := New(reg, meta, testConfig(), NoopProgress{})
	require.NoError(t, err)
	e.Dedup = cache.NewMemoryGuard()

	hof, err := e.Run(context.Background(), frame)
	require.NoError(t, err)
	assert.Greater(t, hof.Len(), 0, "a fresh in-memory guard claims every distinct signature on first sight")
}
