// Package telemetry exposes the evolution run's Prometheus metrics and an
// HTTP handler to scrape them.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// MetricsRegistry holds the Prometheus metrics of the evolution engine,
// plus walk-forward gauges set through RecordWalkForward (which neither
// internal/walkforward nor the CLI calls).
type MetricsRegistry struct {
	GenerationDuration *prometheus.HistogramVec
	EvaluationDuration prometheus.Histogram
	EvaluationsTotal   prometheus.Counter
	EvaluationErrors   *prometheus.CounterVec

	HallOfFameSize prometheus.Gauge
	BestFitness    prometheus.Gauge

	CacheHitRatio prometheus.Gauge
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter

	WalkForwardConsistency *prometheus.GaugeVec
	WalkForwardFolds       *prometheus.CounterVec
}

// NewMetricsRegistry builds and registers every metric.
func NewMetricsRegistry() *MetricsRegistry {
	registry := &MetricsRegistry{
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradebias_generation_duration_seconds",
				Help:    "Wall-clock duration of one generation cycle",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"run_id"},
		),
		EvaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradebias_strategy_evaluation_seconds",
				Help:    "Duration of a single genome-to-metrics evaluation",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),
		EvaluationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tradebias_evaluations_total",
				Help: "Total number of strategy evaluations completed",
			},
		),
		EvaluationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradebias_evaluation_errors_total",
				Help: "Total number of strategy evaluations that errored, by kind",
			},
			[]string{"kind"},
		),
		HallOfFameSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradebias_hall_of_fame_size",
				Help: "Current number of entries held in the Hall of Fame",
			},
		),
		BestFitness: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradebias_best_fitness",
				Help: "Best scalar fitness observed in the most recently completed generation",
			},
		),
		CacheHitRatio: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradebias_indicator_cache_hit_ratio",
				Help: "Current indicator cache hit ratio (0.0 to 1.0)",
			},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tradebias_indicator_cache_hits_total",
				Help: "Total number of indicator cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tradebias_indicator_cache_misses_total",
				Help: "Total number of indicator cache misses",
			},
		),
		WalkForwardConsistency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradebias_walk_forward_consistency",
				Help: "Walk-forward consistency score (1 / (1 + sharpe_std)) by run",
			},
			[]string{"run_id"},
		),
		WalkForwardFolds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradebias_walk_forward_folds_total",
				Help: "Total number of walk-forward folds evaluated",
			},
			[]string{"run_id", "splitter"},
		),
	}

	prometheus.MustRegister(
		registry.GenerationDuration,
		registry.EvaluationDuration,
		registry.EvaluationsTotal,
		registry.EvaluationErrors,
		registry.HallOfFameSize,
		registry.BestFitness,
		registry.CacheHitRatio,
		registry.CacheHits,
		registry.CacheMisses,
		registry.WalkForwardConsistency,
		registry.WalkForwardFolds,
	)

	return registry
}

// GenerationTimer times one generation cycle.
type GenerationTimer struct {
	metrics *MetricsRegistry
	runID   string
	start   time.Time
}

// StartGenerationTimer begins timing a generation cycle for runID.
func (m *MetricsRegistry) StartGenerationTimer(runID string) *GenerationTimer {
	return &GenerationTimer{metrics: m, runID: runID, start: time.Now()}
}

// Stop records the generation's duration.
func (gt *GenerationTimer) Stop() {
	duration := time.Since(gt.start)
	gt.metrics.GenerationDuration.WithLabelValues(gt.runID).Observe(duration.Seconds())
	log.Debug().Str("run_id", gt.runID).Dur("duration", duration).Msg("generation completed")
}

// RecordEvaluation records one strategy evaluation's duration and count.
func (m *MetricsRegistry) RecordEvaluation(duration time.Duration) {
	m.EvaluationDuration.Observe(duration.Seconds())
	m.EvaluationsTotal.Inc()
}

// RecordEvaluationError records a failed evaluation by error kind.
func (m *MetricsRegistry) RecordEvaluationError(kind string) {
	m.EvaluationErrors.WithLabelValues(kind).Inc()
	log.Warn().Str("kind", kind).Msg("strategy evaluation failed")
}

// UpdateGenerationSummary records the state at the end of a generation.
func (m *MetricsRegistry) UpdateGenerationSummary(hallSize int, bestFitness float64) {
	m.HallOfFameSize.Set(float64(hallSize))
	m.BestFitness.Set(bestFitness)
}

// RecordCacheStats sets the cache hit ratio from raw hit/miss counters.
func (m *MetricsRegistry) RecordCacheStats(hits, misses int64) {
	m.CacheHits.Add(float64(hits))
	m.CacheMisses.Add(float64(misses))
	total := hits + misses
	if total > 0 {
		m.CacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordWalkForward records the consistency score and fold count for a run.
func (m *MetricsRegistry) RecordWalkForward(runID, splitter string, folds int, consistency float64) {
	m.WalkForwardConsistency.WithLabelValues(runID).Set(consistency)
	m.WalkForwardFolds.WithLabelValues(runID, splitter).Add(float64(folds))
}

// Handler returns the HTTP handler that serves the Prometheus exposition
// format for this registry.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.Handler()
}

// Global metrics registry instance, initialized once at process start.
var DefaultMetrics *MetricsRegistry

// InitializeMetrics initializes the global metrics registry.
func InitializeMetrics() {
	DefaultMetrics = NewMetricsRegistry()
	log.Info().Msg("prometheus metrics registry initialized")
}
