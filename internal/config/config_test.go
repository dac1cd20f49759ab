package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/pareto"
)

func TestDefaultRoundTripsThroughToEngineConfig(t *testing.T) {
	f := Default()
	cfg, err := f.ToEngineConfig()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, f.PopulationSize, cfg.PopulationSize)
	assert.Equal(t, f.Portfolio.InitialCapital, cfg.Portfolio.InitialCapital)
	assert.Equal(t, f.Portfolio.PositionFraction, cfg.Portfolio.PositionFraction)
}

func TestSaveThenLoadPreservesValues(t *testing.T) {
	f := Default()
	f.PopulationSize = 250
	f.Seed = 42

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, Save(f, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, loaded.PopulationSize)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, f.Portfolio, loaded.Portfolio)
}

func TestToEngineConfigBuildsObjectivesWithDirections(t *testing.T) {
	f := Default()
	f.UsePareto = true
	f.Objectives = []ObjectiveFile{
		{Metric: "return_pct", Direction: "maximize"},
		{Metric: "max_drawdown_pct", Direction: "minimize"},
	}

	cfg, err := f.ToEngineConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Objectives, 2)
	assert.Equal(t, "return_pct", cfg.Objectives[0].MetricName)
	assert.Equal(t, "max_drawdown_pct", cfg.Objectives[1].MetricName)
}

func TestToEngineConfigRejectsUnknownDirection(t *testing.T) {
	f := Default()
	f.UsePareto = true
	f.Objectives = []ObjectiveFile{{Metric: "return_pct", Direction: "sideways"}}

	_, err := f.ToEngineConfig()
	assert.Error(t, err)
}

func TestToEngineConfigRejectsInvalidEngineConfig(t *testing.T) {
	f := Default()
	f.PopulationSize = 1 // below evolve.Config's minimum of 10

	_, err := f.ToEngineConfig()
	assert.Error(t, err)
}

func TestParseDirectionDefaultsEmptyStringToMaximize(t *testing.T) {
	dir, err := parseDirection("")
	require.NoError(t, err)
	assert.Equal(t, pareto.Maximize, dir)
}

func TestLoadLegacyMigratesFlatSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.yaml")
	content := []byte("population_size: 80\n" +
		"generations: 30\n" +
		"genome_length: 32\n" +
		"mutation_rate: 0.1\n" +
		"crossover_rate: 0.6\n" +
		"elitism_rate: 0.05\n" +
		"tournament_size: 4\n" +
		"hall_size: 20\n" +
		"initial_capital: 5000\n" +
		"position_fraction: 0.2\n" +
		"fitness_weights:\n" +
		"  sharpe_ratio: 1.0\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	f, err := LoadLegacy(path)
	require.NoError(t, err)
	assert.Equal(t, 80, f.PopulationSize)
	assert.Equal(t, 30, f.Generations)
	assert.Equal(t, 5000.0, f.Portfolio.InitialCapital)
	assert.Equal(t, 0.2, f.Portfolio.PositionFraction)
	assert.Equal(t, 1.0, f.FitnessWeights["sharpe_ratio"])

	cfg, err := f.ToEngineConfig()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}
