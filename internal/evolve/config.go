// Package evolve drives the generational genetic-programming search:
// population initialization, tournament selection, crossover, mutation,
// elitism, and Pareto-or-scalar ranked reproduction.
package evolve

import (
	"github.com/sawpanic/tradebias/internal/pareto"
	"github.com/sawpanic/tradebias/internal/simulate"
)

// Config enumerates every option the generation cycle consults.
type Config struct {
	PopulationSize  int
	Generations     int
	GenomeLength    int
	GeneRangeLo     uint32
	GeneRangeHi     uint32 // half-open
	MutationRate    float64
	CrossoverRate   float64
	ElitismRate     float64
	TournamentSize  int
	UsePareto       bool
	Objectives      []pareto.ObjectiveConfig
	FitnessWeights  map[string]float64
	HallSize        int
	Seed            int64
	MaxDepth        int
	Portfolio       simulate.Config
}

// Validate checks the invariants the generation cycle depends on.
func (c Config) Validate() error {
	switch {
	case c.PopulationSize < 10:
		return configErr("population_size must be >= 10")
	case c.Generations < 1:
		return configErr("generations must be >= 1")
	case c.GenomeLength < 2:
		return configErr("genome_length must be >= 2")
	case c.GeneRangeLo >= c.GeneRangeHi:
		return configErr("gene_range must be non-empty")
	case c.MutationRate < 0 || c.MutationRate > 1:
		return configErr("mutation_rate must be in [0, 1]")
	case c.CrossoverRate < 0 || c.CrossoverRate > 1:
		return configErr("crossover_rate must be in [0, 1]")
	case c.ElitismRate < 0 || c.ElitismRate > 1:
		return configErr("elitism_rate must be in [0, 1]")
	case c.TournamentSize < 1:
		return configErr("tournament_size must be >= 1")
	case c.UsePareto && len(c.Objectives) == 0:
		return configErr("objectives must be non-empty when use_pareto is true")
	case !c.UsePareto && len(c.FitnessWeights) == 0:
		return configErr("fitness_weights must be non-empty when use_pareto is false")
	case c.HallSize < 1:
		return configErr("hall_size must be >= 1")
	}
	return nil
}

// DefaultConfig returns a reasonable single-objective starting point.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		Generations:    50,
		GenomeLength:   64,
		GeneRangeLo:    0,
		GeneRangeHi:    1 << 20,
		MutationRate:   0.05,
		CrossoverRate:  0.7,
		ElitismRate:    0.1,
		TournamentSize: 3,
		UsePareto:      false,
		FitnessWeights: map[string]float64{"return_pct": 1.0},
		HallSize:       50,
		MaxDepth:       4,
		Portfolio:      simulate.DefaultConfig(),
	}
}
