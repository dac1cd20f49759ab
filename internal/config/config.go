// Package config loads the host-level engine/portfolio configuration
// file. The core engine never touches the filesystem itself (it takes a
// Go struct); this package is the CLI's on-ramp from a YAML file to that
// struct.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/tradebias/internal/evolve"
	"github.com/sawpanic/tradebias/internal/pareto"
	"github.com/sawpanic/tradebias/internal/simulate"
)

// ObjectiveFile is one Pareto objective as written in YAML.
type ObjectiveFile struct {
	Metric    string `yaml:"metric"`
	Direction string `yaml:"direction"` // "maximize" or "minimize"
}

// PortfolioFile mirrors simulate.Config's YAML shape.
type PortfolioFile struct {
	InitialCapital   float64 `yaml:"initial_capital"`
	PositionFraction float64 `yaml:"position_fraction"`
	CommissionRate   float64 `yaml:"commission_rate"`
	SlippageRate     float64 `yaml:"slippage_rate"`
}

// File is the on-disk engine configuration.
type File struct {
	PopulationSize int                `yaml:"population_size"`
	Generations    int                `yaml:"generations"`
	GenomeLength   int                `yaml:"genome_length"`
	GeneRangeLo    uint32             `yaml:"gene_range_lo"`
	GeneRangeHi    uint32             `yaml:"gene_range_hi"`
	MutationRate   float64            `yaml:"mutation_rate"`
	CrossoverRate  float64            `yaml:"crossover_rate"`
	ElitismRate    float64            `yaml:"elitism_rate"`
	TournamentSize int                `yaml:"tournament_size"`
	UsePareto      bool               `yaml:"use_pareto"`
	Objectives     []ObjectiveFile    `yaml:"objectives"`
	FitnessWeights map[string]float64 `yaml:"fitness_weights"`
	HallSize       int                `yaml:"hall_size"`
	Seed           int64              `yaml:"seed"`
	MaxDepth       int                `yaml:"max_depth"`
	Portfolio      PortfolioFile      `yaml:"portfolio"`
}

// Load reads and parses an engine configuration file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse engine config YAML: %w", err)
	}
	return &f, nil
}

// Save writes f to path as YAML.
func Save(f *File, path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal engine config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write engine config: %w", err)
	}
	return nil
}

// ToEngineConfig translates the on-disk shape into the evolve.Config the
// engine actually consumes.
func (f *File) ToEngineConfig() (evolve.Config, error) {
	objectives := make([]pareto.ObjectiveConfig, len(f.Objectives))
	for i, o := range f.Objectives {
		dir, err := parseDirection(o.Direction)
		if err != nil {
			return evolve.Config{}, err
		}
		objectives[i] = pareto.ObjectiveConfig{MetricName: o.Metric, Direction: dir}
	}

	cfg := evolve.Config{
		PopulationSize: f.PopulationSize,
		Generations:    f.Generations,
		GenomeLength:   f.GenomeLength,
		GeneRangeLo:    f.GeneRangeLo,
		GeneRangeHi:    f.GeneRangeHi,
		MutationRate:   f.MutationRate,
		CrossoverRate:  f.CrossoverRate,
		ElitismRate:    f.ElitismRate,
		TournamentSize: f.TournamentSize,
		UsePareto:      f.UsePareto,
		Objectives:     objectives,
		FitnessWeights: f.FitnessWeights,
		HallSize:       f.HallSize,
		Seed:           f.Seed,
		MaxDepth:       f.MaxDepth,
		Portfolio: simulate.Config{
			InitialCapital:   f.Portfolio.InitialCapital,
			PositionFraction: f.Portfolio.PositionFraction,
			CommissionRate:   f.Portfolio.CommissionRate,
			SlippageRate:     f.Portfolio.SlippageRate,
		},
	}
	if err := cfg.Validate(); err != nil {
		return evolve.Config{}, err
	}
	return cfg, nil
}

func parseDirection(s string) (pareto.Direction, error) {
	switch s {
	case "maximize", "":
		return pareto.Maximize, nil
	case "minimize":
		return pareto.Minimize, nil
	default:
		return 0, fmt.Errorf("unknown objective direction %q", s)
	}
}

// Default returns a conservative starting configuration file, mirroring
// evolve.DefaultConfig in its on-disk form.
func Default() *File {
	return &File{
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
		Portfolio: PortfolioFile{
			InitialCapital:   10000,
			PositionFraction: 0.1,
		},
	}
}

// DefaultConfigPath returns the conventional path for the engine config.
func DefaultConfigPath() string {
	return "config/engine.yaml"
}
