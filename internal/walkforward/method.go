package walkforward

import (
	"math"

	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/ast"
	"github.com/sawpanic/tradebias/internal/eval"
	"github.com/sawpanic/tradebias/internal/metrics"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/simulate"
)

// FoldResult holds a fold's in-sample and out-of-sample metrics.
type FoldResult struct {
	FoldNum     int
	InSample    map[string]float64
	OutOfSample map[string]float64
}

// Stat is one metric's aggregate across a run's out-of-sample folds.
type Stat struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Report is the full walk-forward result: per-fold detail, per-metric
// out-of-sample aggregates, and a single consistency score.
type Report struct {
	Folds            []FoldResult
	OutOfSampleStats map[string]Stat
	Consistency      float64
}

// Method evaluates a single strategy across every fold a Splitter
// produces and aggregates the out-of-sample statistics.
type Method struct {
	Builder   *eval.Builder
	Portfolio simulate.Config
}

// NewMethod builds a Method around builder; builder's indicator cache is
// reset before each fold frame is evaluated.
func NewMethod(builder *eval.Builder, portfolio simulate.Config) *Method {
	return &Method{Builder: builder, Portfolio: portfolio}
}

// Run evaluates strategy against every fold of frame under splitter,
// aggregating the out-of-sample metrics.
func (m *Method) Run(splitter Splitter, frame *ohlcv.Frame, strategy *ast.Node) (*Report, error) {
	folds := splitter.Split(frame)
	if len(folds) == 0 {
		return nil, apperr.New(apperr.Data, "splitter produced no folds for this frame")
	}

	results := make([]FoldResult, 0, len(folds))
	for _, fold := range folds {
		isMetrics, err := m.evaluateFrame(strategy, fold.InSample)
		if err != nil {
			return nil, err
		}
		oosMetrics, err := m.evaluateFrame(strategy, fold.OutSample)
		if err != nil {
			return nil, err
		}
		results = append(results, FoldResult{
			FoldNum:     fold.FoldNum,
			InSample:    isMetrics,
			OutOfSample: oosMetrics,
		})
	}

	stats := aggregateOutOfSample(results)
	consistency := 0.0
	if sharpe, ok := stats["sharpe_ratio"]; ok {
		consistency = 1.0 / (1.0 + sharpe.Std)
	}

	return &Report{Folds: results, OutOfSampleStats: stats, Consistency: consistency}, nil
}

func (m *Method) evaluateFrame(strategy *ast.Node, frame *ohlcv.Frame) (map[string]float64, error) {
	// Each fold's in-sample/out-of-sample frame is a distinct slice of bars;
	// a node signature cached against one frame is meaningless against
	// another, so the shared indicator cache is cleared before every frame.
	m.Builder.Cache.Reset()
	signal, err := m.Builder.EvaluateRule(strategy, frame)
	if err != nil {
		return nil, err
	}
	result, err := simulate.Run(signal, frame, m.Portfolio)
	if err != nil {
		return nil, err
	}
	profitability := metrics.ComputeProfitability(result.Trades, m.Portfolio.InitialCapital)
	risk := metrics.ComputeRisk(result.EquityCurve)
	return map[string]float64{
		"return_pct":       profitability.ReturnPct,
		"win_rate":         profitability.WinRate,
		"avg_win":          profitability.AvgWin,
		"avg_loss":         profitability.AvgLoss,
		"profit_factor":    profitability.ProfitFactor,
		"num_trades":       float64(profitability.NumTrades),
		"max_drawdown_pct": risk.MaxDrawdownPct,
		"volatility":       risk.Volatility,
		"sharpe_ratio":     risk.SharpeRatio,
		"sortino_ratio":    risk.SortinoRatio,
	}, nil
}

func aggregateOutOfSample(results []FoldResult) map[string]Stat {
	byMetric := map[string][]float64{}
	for _, r := range results {
		for name, value := range r.OutOfSample {
			byMetric[name] = append(byMetric[name], value)
		}
	}

	stats := make(map[string]Stat, len(byMetric))
	for name, values := range byMetric {
		stats[name] = statOf(values)
	}
	return stats
}

func statOf(values []float64) Stat {
	n := float64(len(values))
	if n == 0 {
		return Stat{}
	}
	sum, min, max := 0.0, values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / n

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n

	return Stat{Mean: mean, Std: math.Sqrt(variance), Min: min, Max: max}
}
