package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/tradebias/internal/cache"
	"github.com/sawpanic/tradebias/internal/catalog"
	"github.com/sawpanic/tradebias/internal/config"
	"github.com/sawpanic/tradebias/internal/evolve"
	"github.com/sawpanic/tradebias/internal/hallfame"
	"github.com/sawpanic/tradebias/internal/metadata"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/store"
	"github.com/sawpanic/tradebias/internal/store/db"
	"github.com/sawpanic/tradebias/internal/telemetry"
)

func newEvolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Run the generational search and report the Hall of Fame",
		Long:  "Loads a bar frame and an engine configuration, then runs the genetic search for the configured number of generations, printing the best distinct strategies found.",
		RunE:  runEvolve,
	}

	cmd.Flags().String("bars", "", "path to an OHLCV CSV file (required)")
	cmd.Flags().String("config", config.DefaultConfigPath(), "path to the engine configuration YAML")
	cmd.Flags().Bool("legacy-config", false, "parse --config using the pre-objectives flat schema")
	cmd.Flags().Int("top-n", 10, "number of Hall of Fame entries to print")
	cmd.Flags().Bool("quiet", false, "suppress the terminal progress display")
	cmd.Flags().String("redis-addr", "", "Redis address for cross-process dedup (empty disables distributed dedup)")
	cmd.Flags().String("db-dsn", "", "Postgres DSN for persisting runs and the Hall of Fame (empty disables persistence)")
	cmd.MarkFlagRequired("bars")

	return cmd
}

func runEvolve(cmd *cobra.Command, args []string) error {
	barsPath, _ := cmd.Flags().GetString("bars")
	configPath, _ := cmd.Flags().GetString("config")
	legacyConfig, _ := cmd.Flags().GetBool("legacy-config")
	topN, _ := cmd.Flags().GetInt("top-n")
	quiet, _ := cmd.Flags().GetBool("quiet")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	dbDSN, _ := cmd.Flags().GetString("db-dsn")

	frame, err := ohlcv.LoadCSV(barsPath)
	if err != nil {
		return fmt.Errorf("loading bars: %w", err)
	}

	var file *config.File
	if legacyConfig {
		file, err = config.LoadLegacy(configPath)
	} else {
		file, err = config.Load(configPath)
	}
	if err != nil {
		return fmt.Errorf("loading engine config: %w", err)
	}
	engineCfg, err := file.ToEngineConfig()
	if err != nil {
		return fmt.Errorf("translating engine config: %w", err)
	}

	runID := uuid.New().String()
	log.Info().Str("run_id", runID).Str("bars", barsPath).Int("bars_count", frame.Len()).Msg("starting evolution run")

	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	progress := newCLIProgress(engineCfg.Generations, quiet)

	engine, err := evolve.New(reg, meta, engineCfg, progress)
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}
	engine.RunID = runID
	engine.Metrics = telemetry.NewMetricsRegistry()

	if redisAddr != "" {
		guard, err := cache.NewDistributedDedupGuard(redisAddr, "", 0, "cli")
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		engine.Dedup = guard
	}

	var manager *db.Manager
	if dbDSN != "" {
		dbCfg := db.DefaultConfig()
		dbCfg.Enabled = true
		dbCfg.DSN = dbDSN
		manager, err = db.NewManager(dbCfg)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer manager.Close()

		record := store.RunRecord{
			RunID:       runID,
			StartedAt:   time.Now(),
			Generations: engineCfg.Generations,
			UsePareto:   engineCfg.UsePareto,
			Seed:        engineCfg.Seed,
		}
		if err := manager.Repository().Runs.Create(context.Background(), record); err != nil {
			log.Warn().Err(err).Msg("failed to record run start")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Warn().Msg("interrupt received, finishing in-flight evaluation")
		cancel()
	}()

	start := time.Now()
	hof, err := engine.Run(ctx, frame)
	progress.finish()
	if err != nil {
		return fmt.Errorf("evolution run failed: %w", err)
	}
	elapsed := time.Since(start)

	log.Info().Dur("elapsed", elapsed).Int("hall_of_fame_size", hof.Len()).Msg("evolution run complete")

	if manager != nil && manager.IsEnabled() {
		rows := toHallOfFameRows(runID, hof.All())
		if err := manager.Repository().HallOfFame.UpsertBatch(context.Background(), rows); err != nil {
			log.Warn().Err(err).Msg("failed to persist hall of fame")
		}
		if err := manager.Repository().Runs.Finish(context.Background(), runID, time.Now()); err != nil {
			log.Warn().Err(err).Msg("failed to record run finish")
		}
	}

	printHallOfFame(hof.TopN(topN))
	return nil
}

func printHallOfFame(entries []*hallfame.Entry) {
	for i, e := range entries {
		fmt.Printf("%d. %s\n", i+1, e.Signature)
		fmt.Printf("   %s\n", e.AST.Formula())
		if e.Fitness != 0 {
			fmt.Printf("   fitness=%.4f\n", e.Fitness)
		}
		fmt.Printf("   return_pct=%.2f sharpe=%.3f max_drawdown=%.2f trades=%.0f\n\n",
			e.Metrics["return_pct"], e.Metrics["sharpe_ratio"], e.Metrics["max_drawdown_pct"], e.Metrics["num_trades"])
	}
}

func toHallOfFameRows(runID string, entries []*hallfame.Entry) []store.HallOfFameRow {
	rows := make([]store.HallOfFameRow, len(entries))
	now := time.Now()
	for i, e := range entries {
		rows[i] = store.HallOfFameRow{
			RunID:      runID,
			Signature:  e.Signature,
			Genome:     e.Genome,
			Metrics:    e.Metrics,
			Objectives: e.Objectives,
			Fitness:    e.Fitness,
			Rank:       e.Rank,
			Crowding:   e.Crowding,
			CreatedAt:  now,
		}
	}
	return rows
}
