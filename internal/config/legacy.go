package config

import (
	"fmt"
	"os"

	yamlv2 "gopkg.in/yaml.v2"
)

// legacyFile is the flat, pre-objectives config schema used before
// Pareto mode was added: a single fitness-weighted scalar run, no
// objectives list, no portfolio sub-section.
type legacyFile struct {
	PopulationSize   int                `yaml:"population_size"`
	Generations      int                `yaml:"generations"`
	GenomeLength     int                `yaml:"genome_length"`
	MutationRate     float64            `yaml:"mutation_rate"`
	CrossoverRate    float64            `yaml:"crossover_rate"`
	ElitismRate      float64            `yaml:"elitism_rate"`
	TournamentSize   int                `yaml:"tournament_size"`
	FitnessWeights   map[string]float64 `yaml:"fitness_weights"`
	HallSize         int                `yaml:"hall_size"`
	InitialCapital   float64            `yaml:"initial_capital"`
	PositionFraction float64            `yaml:"position_fraction"`
}

// LoadLegacy reads a pre-objectives config file and migrates it to the
// current File shape, filling in the fields the legacy schema never had
// with evolve.DefaultConfig's values.
func LoadLegacy(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy engine config: %w", err)
	}
	var legacy legacyFile
	if err := yamlv2.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to parse legacy engine config YAML: %w", err)
	}

	f := Default()
	f.PopulationSize = legacy.PopulationSize
	f.Generations = legacy.Generations
	f.GenomeLength = legacy.GenomeLength
	f.MutationRate = legacy.MutationRate
	f.CrossoverRate = legacy.CrossoverRate
	f.ElitismRate = legacy.ElitismRate
	f.TournamentSize = legacy.TournamentSize
	if len(legacy.FitnessWeights) > 0 {
		f.FitnessWeights = legacy.FitnessWeights
	}
	f.HallSize = legacy.HallSize
	f.Portfolio.InitialCapital = legacy.InitialCapital
	f.Portfolio.PositionFraction = legacy.PositionFraction
	return f, nil
}
