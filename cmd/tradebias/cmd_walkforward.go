package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/tradebias/internal/catalog"
	"github.com/sawpanic/tradebias/internal/config"
	"github.com/sawpanic/tradebias/internal/eval"
	"github.com/sawpanic/tradebias/internal/evolve"
	"github.com/sawpanic/tradebias/internal/metadata"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/walkforward"
)

func newWalkForwardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk-forward",
		Short: "Run a strategy through time-respecting cross-validation",
		Long:  "Evolves a population against the full bar frame and walk-forward validates the best genome found across sequential out-of-sample folds.",
		RunE:  runWalkForward,
	}

	cmd.Flags().String("bars", "", "path to an OHLCV CSV file (required)")
	cmd.Flags().String("config", config.DefaultConfigPath(), "path to the engine configuration YAML")
	cmd.Flags().Int("folds", 5, "number of walk-forward folds")
	cmd.Flags().Float64("in-sample-pct", 0.7, "fraction of each sliding window used in-sample")
	cmd.Flags().String("splitter", "sliding", "fold scheme: sliding or anchored")
	cmd.MarkFlagRequired("bars")

	return cmd
}

func runWalkForward(cmd *cobra.Command, args []string) error {
	barsPath, _ := cmd.Flags().GetString("bars")
	configPath, _ := cmd.Flags().GetString("config")
	folds, _ := cmd.Flags().GetInt("folds")
	inSamplePct, _ := cmd.Flags().GetFloat64("in-sample-pct")
	splitterName, _ := cmd.Flags().GetString("splitter")

	frame, err := ohlcv.LoadCSV(barsPath)
	if err != nil {
		return fmt.Errorf("loading bars: %w", err)
	}

	file, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading engine config: %w", err)
	}
	engineCfg, err := file.ToEngineConfig()
	if err != nil {
		return fmt.Errorf("translating engine config: %w", err)
	}

	reg := catalog.NewDefault()
	meta := metadata.NewDefault()

	log.Info().Int("bars", frame.Len()).Msg("evolving the search population before walk-forward validation")
	engine, err := evolve.New(reg, meta, engineCfg, evolve.NoopProgress{})
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}
	hof, err := engine.Run(context.Background(), frame)
	if err != nil {
		return fmt.Errorf("evolution run failed: %w", err)
	}
	if hof.Len() == 0 {
		return fmt.Errorf("evolution run produced no strategies to validate")
	}
	best := hof.TopN(1)[0]

	var splitter walkforward.Splitter
	switch splitterName {
	case "sliding":
		splitter = walkforward.SlidingSplitter{NFolds: folds, InSamplePct: inSamplePct}
	case "anchored":
		splitter = walkforward.AnchoredSplitter{NFolds: folds}
	default:
		return fmt.Errorf("unknown splitter %q (want sliding or anchored)", splitterName)
	}

	evalCache := eval.NewCache(eval.DefaultCacheCapacity)
	builder := eval.NewBuilder(reg, evalCache)
	method := walkforward.NewMethod(builder, engineCfg.Portfolio)

	report, err := method.Run(splitter, frame, best.AST)
	if err != nil {
		return fmt.Errorf("walk-forward validation failed: %w", err)
	}

	fmt.Printf("best in-sample strategy: %s\n", best.Signature)
	fmt.Printf("  %s\n\n", best.AST.Formula())
	fmt.Printf("walk-forward consistency score: %.4f (lower std/sharpe is more consistent)\n\n", report.Consistency)
	for name, stat := range report.OutOfSampleStats {
		fmt.Printf("  %-18s mean=%.4f std=%.4f min=%.4f max=%.4f\n", name, stat.Mean, stat.Std, stat.Min, stat.Max)
	}
	return nil
}
