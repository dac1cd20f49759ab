package api

import "github.com/sawpanic/tradebias/internal/evolve"

// ProgressPublisher adapts a Broadcaster into an evolve.ProgressCallback
// so a running engine's generation events become visible over HTTP/WS
// without the core engine importing this package.
type ProgressPublisher struct {
	RunID       string
	Broadcaster *Broadcaster
	Generations int
	Population  int

	generation int
}

// NewProgressPublisher builds a publisher for one run.
func NewProgressPublisher(runID string, b *Broadcaster, generations, population int) *ProgressPublisher {
	return &ProgressPublisher{RunID: runID, Broadcaster: b, Generations: generations, Population: population}
}

func (p *ProgressPublisher) OnGenerationStart(gen int) {
	p.generation = gen
	p.Broadcaster.Publish(RunStatus{
		RunID:            p.RunID,
		Generation:       gen,
		TotalGenerations: p.Generations,
		StrategiesTotal:  p.Population,
	})
}

func (p *ProgressPublisher) OnStrategyEvaluated(k, n int) {
	p.Broadcaster.Publish(RunStatus{
		RunID:               p.RunID,
		Generation:          p.generation,
		TotalGenerations:    p.Generations,
		StrategiesEvaluated: k,
		StrategiesTotal:     n,
	})
}

func (p *ProgressPublisher) OnGenerationComplete(gen int, bestFitness float64, hallSize int) {
	p.Broadcaster.Publish(RunStatus{
		RunID:               p.RunID,
		Generation:          gen,
		TotalGenerations:    p.Generations,
		StrategiesEvaluated: p.Population,
		StrategiesTotal:     p.Population,
		BestFitness:         bestFitness,
		HallOfFameSize:      hallSize,
		Done:                gen == p.Generations-1,
	})
}

var _ evolve.ProgressCallback = (*ProgressPublisher)(nil)
