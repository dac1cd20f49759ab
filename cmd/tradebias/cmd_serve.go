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

	"github.com/sawpanic/tradebias/internal/api"
	"github.com/sawpanic/tradebias/internal/catalog"
	"github.com/sawpanic/tradebias/internal/config"
	"github.com/sawpanic/tradebias/internal/evolve"
	"github.com/sawpanic/tradebias/internal/metadata"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an evolution and expose its progress over HTTP/WebSocket",
		Long:  "Starts the read-only status server (health, Prometheus metrics, per-run snapshot and live stream) and kicks off one evolution run whose progress the server publishes.",
		RunE:  runServe,
	}

	cmd.Flags().String("bars", "", "path to an OHLCV CSV file (required)")
	cmd.Flags().String("config", config.DefaultConfigPath(), "path to the engine configuration YAML")
	cmd.Flags().String("host", "127.0.0.1", "status server bind host")
	cmd.Flags().Int("port", 8090, "status server bind port")
	cmd.MarkFlagRequired("bars")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	barsPath, _ := cmd.Flags().GetString("bars")
	configPath, _ := cmd.Flags().GetString("config")
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

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

	metricsReg := telemetry.NewMetricsRegistry()
	broadcaster := api.NewBroadcaster()

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = host
	serverCfg.Port = port
	server, err := api.NewServer(serverCfg, broadcaster, metricsReg)
	if err != nil {
		return fmt.Errorf("starting status server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Warn().Msg("interrupt received, shutting down")
		cancel()
	}()

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	runID := uuid.New().String()
	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	progress := api.NewProgressPublisher(runID, broadcaster, engineCfg.Generations, engineCfg.PopulationSize)

	engine, err := evolve.New(reg, meta, engineCfg, progress)
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}
	engine.RunID = runID
	engine.Metrics = metricsReg

	log.Info().Str("run_id", runID).Str("addr", fmt.Sprintf("%s:%d", host, port)).Msg("serving run progress")

	runErr := make(chan error, 1)
	go func() {
		_, err := engine.Run(ctx, frame)
		runErr <- err
	}()

	select {
	case err := <-runErr:
		if err != nil {
			return fmt.Errorf("evolution run failed: %w", err)
		}
		log.Info().Msg("evolution run complete, status server still serving until interrupted")
	case err := <-serverErr:
		return fmt.Errorf("status server stopped: %w", err)
	}

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
