package evolve

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/ast"
	"github.com/sawpanic/tradebias/internal/cache"
	"github.com/sawpanic/tradebias/internal/eval"
	"github.com/sawpanic/tradebias/internal/gene"
	"github.com/sawpanic/tradebias/internal/hallfame"
	"github.com/sawpanic/tradebias/internal/mapper"
	"github.com/sawpanic/tradebias/internal/metadata"
	"github.com/sawpanic/tradebias/internal/metrics"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/pareto"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/simulate"
	"github.com/sawpanic/tradebias/internal/telemetry"
)

// Evaluation is one genome's full result for a single generation: its
// mapped AST, the metrics its simulated run scored, and whichever fitness
// representation the configured mode uses.
type Evaluation struct {
	Genome     gene.Genome
	AST        *ast.Node
	Signature  string
	Metrics    map[string]float64
	Objectives []float64
	Fitness    float64
}

// Engine drives the generation cycle over a fixed registry and metadata
// catalog.
type Engine struct {
	Registry *registry.Registry
	Metadata *metadata.Table
	Cfg      Config
	Progress ProgressCallback
	Metrics  *telemetry.MetricsRegistry // optional; nil disables metric recording
	RunID    string

	// Dedup, when set, claims a genome's signature before evaluating it so
	// that concurrent workers searching the same population converge on one
	// evaluation per signature instead of racing the simulator redundantly.
	Dedup cache.DedupGuard

	rng *rand.Rand
}

// defaultDedupTTL bounds how long a claimed-but-unreported signature
// blocks other workers before it is considered abandoned and retried.
const defaultDedupTTL = 5 * time.Minute

// New validates cfg and returns a ready-to-run Engine.
func New(reg *registry.Registry, meta *metadata.Table, cfg Config, progress ProgressCallback) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		Registry: reg,
		Metadata: meta,
		Cfg:      cfg,
		Progress: newRateLimitedProgress(progress, 20),
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Run executes the generation cycle against frame, returning the archive
// of best distinct strategies found. Cancellation via ctx is polled
// between generations and between individual strategy evaluations; on
// cancellation the current generation's in-flight evaluations finish and
// the accumulated Hall of Fame is returned without error.
func (e *Engine) Run(ctx context.Context, frame *ohlcv.Frame) (*hallfame.HallOfFame, error) {
	m := mapper.New(e.Registry, e.Metadata, e.Cfg.MaxDepth)
	evalCache := eval.NewCache(eval.DefaultCacheCapacity)
	builder := eval.NewBuilder(e.Registry, evalCache)

	hof := hallfame.New(e.Cfg.HallSize, e.Cfg.UsePareto, directionsOf(e.Cfg.Objectives))
	population := initialPopulation(e.rng, e.Cfg)
	var prevHits, prevMisses int64

	for gen := 0; gen < e.Cfg.Generations; gen++ {
		if cancelled(ctx) {
			return hof, nil
		}
		e.Progress.OnGenerationStart(gen)
		var genTimer *telemetry.GenerationTimer
		if e.Metrics != nil {
			genTimer = e.Metrics.StartGenerationTimer(e.RunID)
		}

		evaluations := make([]*Evaluation, 0, len(population))
		for i, genome := range population {
			if cancelled(ctx) {
				return hof, nil
			}
			strategy := m.CreateStrategy(genome)
			if e.Dedup != nil {
				won, err := e.Dedup.Claim(ctx, strategy.Signature(), defaultDedupTTL)
				if err == nil && !won {
					e.Progress.OnStrategyEvaluated(i+1, len(population))
					continue
				}
			}

			start := time.Now()
			result, err := e.evaluateGenome(genome, strategy, builder, frame)
			if err != nil {
				if e.Metrics != nil {
					e.Metrics.RecordEvaluationError(apperr.KindOf(err).String())
				}
				return nil, err
			}
			if e.Metrics != nil {
				e.Metrics.RecordEvaluation(time.Since(start))
			}
			evaluations = append(evaluations, result)
			e.Progress.OnStrategyEvaluated(i+1, len(population))
			hof.Offer(e.toEntry(result))
		}
		if genTimer != nil {
			genTimer.Stop()
		}

		bestFitness := e.bestFitness(evaluations)
		e.Progress.OnGenerationComplete(gen, bestFitness, hof.Len())
		if e.Metrics != nil {
			e.Metrics.UpdateGenerationSummary(hof.Len(), bestFitness)
			hits, misses := evalCache.Stats()
			e.Metrics.RecordCacheStats(hits-prevHits, misses-prevMisses)
			prevHits, prevMisses = hits, misses
		}

		if gen == e.Cfg.Generations-1 {
			break
		}
		if len(evaluations) == 0 {
			// Every genome this generation was claimed by another worker;
			// retry the same population rather than breeding from nothing.
			continue
		}
		population = e.nextGeneration(evaluations)
	}

	return hof, nil
}

func cancelled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (e *Engine) evaluateGenome(genome gene.Genome, strategy *ast.Node, builder *eval.Builder, frame *ohlcv.Frame) (*Evaluation, error) {
	signal, err := builder.EvaluateRule(strategy, frame)
	if err != nil {
		return nil, err
	}
	simResult, err := simulate.Run(signal, frame, e.Cfg.Portfolio)
	if err != nil {
		return nil, err
	}

	metricValues := mergeMetrics(
		metrics.ComputeProfitability(simResult.Trades, e.Cfg.Portfolio.InitialCapital),
		metrics.ComputeRisk(simResult.EquityCurve),
		simResult.FinalEquity,
		e.Cfg.Portfolio.InitialCapital,
	)

	result := &Evaluation{
		Genome:    genome,
		AST:       strategy,
		Signature: strategy.Signature(),
		Metrics:   metricValues,
	}
	if e.Cfg.UsePareto {
		result.Objectives = objectiveVector(e.Cfg.Objectives, metricValues)
	} else {
		result.Fitness = scalarFitness(e.Cfg.FitnessWeights, metricValues)
	}
	return result, nil
}

// mergeMetrics combines the trade-ledger-derived profitability figures with
// the equity-curve-derived risk figures. return_pct is taken from the final
// mark-to-market equity rather than p.ReturnPct, so a strategy that opens a
// position and never closes it (p.ReturnPct's trades-only view is zero)
// still reflects its unrealized P&L.
func mergeMetrics(p metrics.Profitability, r metrics.Risk, finalEquity, initialCapital float64) map[string]float64 {
	var returnPct float64
	if initialCapital > 0 {
		returnPct = (finalEquity - initialCapital) / initialCapital * 100
	}
	return map[string]float64{
		"return_pct":      returnPct,
		"win_rate":        p.WinRate,
		"avg_win":         p.AvgWin,
		"avg_loss":        p.AvgLoss,
		"profit_factor":   p.ProfitFactor,
		"num_trades":      float64(p.NumTrades),
		"max_drawdown_pct": r.MaxDrawdownPct,
		"volatility":      r.Volatility,
		"sharpe_ratio":    r.SharpeRatio,
		"sortino_ratio":   r.SortinoRatio,
	}
}

func objectiveVector(objectives []pareto.ObjectiveConfig, metricValues map[string]float64) []float64 {
	out := make([]float64, len(objectives))
	for i, o := range objectives {
		out[i] = metricValues[o.MetricName]
	}
	return out
}

func scalarFitness(weights map[string]float64, metricValues map[string]float64) float64 {
	fitness := 0.0
	for metricName, weight := range weights {
		fitness += weight * metricValues[metricName]
	}
	return fitness
}

func directionsOf(objectives []pareto.ObjectiveConfig) []pareto.Direction {
	out := make([]pareto.Direction, len(objectives))
	for i, o := range objectives {
		out[i] = o.Direction
	}
	return out
}

func (e *Engine) toEntry(result *Evaluation) *hallfame.Entry {
	return &hallfame.Entry{
		Genome:     result.Genome,
		AST:        result.AST,
		Signature:  result.Signature,
		Metrics:    result.Metrics,
		Fitness:    result.Fitness,
		Objectives: result.Objectives,
	}
}

func (e *Engine) bestFitness(evaluations []*Evaluation) float64 {
	if len(evaluations) == 0 {
		return 0
	}
	if !e.Cfg.UsePareto {
		best := evaluations[0].Fitness
		for _, ev := range evaluations[1:] {
			if ev.Fitness > best {
				best = ev.Fitness
			}
		}
		return best
	}
	// Pareto mode has no single scalar fitness; report the front-0 count
	// as a proxy so progress consumers still see a monotonic-ish signal.
	individuals := toIndividuals(evaluations)
	fronts := pareto.FastNonDominatedSort(individuals, directionsOf(e.Cfg.Objectives))
	if len(fronts) == 0 {
		return 0
	}
	return float64(len(fronts[0]))
}

func toIndividuals(evaluations []*Evaluation) []*pareto.Individual[*Evaluation] {
	out := make([]*pareto.Individual[*Evaluation], len(evaluations))
	for i, ev := range evaluations {
		out[i] = &pareto.Individual[*Evaluation]{Data: ev, Objectives: ev.Objectives}
	}
	return out
}

// nextGeneration builds the following population: elites copied directly,
// the remainder filled by tournament selection, crossover, and mutation.
func (e *Engine) nextGeneration(evaluations []*Evaluation) []gene.Genome {
	n := len(evaluations)
	better := e.betterFunc(evaluations)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return better(order[a], order[b]) })

	next := make([]gene.Genome, 0, e.Cfg.PopulationSize)
	eliteCount := int(e.Cfg.ElitismRate * float64(e.Cfg.PopulationSize))
	for i := 0; i < eliteCount && i < n; i++ {
		next = append(next, evaluations[order[i]].Genome.Clone())
	}

	for len(next) < e.Cfg.PopulationSize {
		p1 := evaluations[tournamentSelect(e.rng, n, e.Cfg.TournamentSize, better)].Genome
		p2 := evaluations[tournamentSelect(e.rng, n, e.Cfg.TournamentSize, better)].Genome

		var c1, c2 gene.Genome
		if e.rng.Float64() < e.Cfg.CrossoverRate {
			c1, c2 = crossover(e.rng, p1, p2)
		} else {
			c1, c2 = p1.Clone(), p2.Clone()
		}
		mutate(e.rng, c1, e.Cfg)
		mutate(e.rng, c2, e.Cfg)

		next = append(next, c1)
		if len(next) < e.Cfg.PopulationSize {
			next = append(next, c2)
		}
	}

	return next[:e.Cfg.PopulationSize]
}

// betterFunc returns the ordering used by both elitism and tournament
// selection: scalar fitness descending, or Pareto rank/crowding.
func (e *Engine) betterFunc(evaluations []*Evaluation) func(i, j int) bool {
	if !e.Cfg.UsePareto {
		return func(i, j int) bool { return evaluations[i].Fitness > evaluations[j].Fitness }
	}

	individuals := toIndividuals(evaluations)
	fronts := pareto.FastNonDominatedSort(individuals, directionsOf(e.Cfg.Objectives))
	for _, front := range fronts {
		pareto.CalculateCrowdingDistance(individuals, front)
	}
	return func(i, j int) bool {
		return pareto.CrowdedComparison(individuals[i], individuals[j])
	}
}
