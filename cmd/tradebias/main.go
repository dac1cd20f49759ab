package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "tradebias"
	version = "v0.1.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Genetic-programming trading rule discovery engine",
		Version: version,
		Long: `tradebias evolves trading rules against historical OHLCV bars using a
genetic-programming engine: genomes map deterministically onto a typed
expression tree, each tree is simulated bar-by-bar into a portfolio
result, and a generational loop (tournament selection, crossover,
mutation, optional NSGA-II Pareto ranking) converges a population on a
bounded, deduplicated Hall of Fame of the best distinct strategies found.`,
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	}

	rootCmd.AddCommand(newEvolveCmd())
	rootCmd.AddCommand(newWalkForwardCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
