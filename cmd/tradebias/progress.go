package main

import (
	"fmt"

	applog "github.com/sawpanic/tradebias/internal/log"
)

// cliProgress renders an evolution run's generation cycle to the
// terminal using the same spinner/progress-bar primitives the rest of
// the codebase's pipelines use, rather than the machine-facing JSON
// stream internal/api exposes over HTTP.
type cliProgress struct {
	indicator *applog.ProgressIndicator
}

func newCLIProgress(generations int, quiet bool) *cliProgress {
	cfg := applog.DefaultProgressConfig()
	if quiet {
		cfg = applog.QuietProgressConfig()
	}
	return &cliProgress{indicator: applog.NewProgressIndicator("evolve", generations, cfg)}
}

func (p *cliProgress) OnGenerationStart(gen int) {
	p.indicator.UpdateWithMessage(gen, fmt.Sprintf("generation %d starting", gen+1))
}

func (p *cliProgress) OnStrategyEvaluated(k, n int) {
	// Intentionally not forwarded to the terminal: the per-generation
	// message is enough signal without redrawing on every genome.
}

func (p *cliProgress) OnGenerationComplete(gen int, bestFitness float64, hallSize int) {
	msg := fmt.Sprintf("generation %d complete — best %.4f, hall of fame %d", gen+1, bestFitness, hallSize)
	p.indicator.UpdateWithMessage(gen+1, msg)
}

func (p *cliProgress) finish() {
	p.indicator.Finish()
}
