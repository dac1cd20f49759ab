package indicators

import (
	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

func rsi(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	gains := make([]float64, len(series))
	losses := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		delta := series[i] - series[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	avgGain, avgLoss := 0.0, 0.0
	for i := range series {
		if i == 0 {
			continue
		}
		if i < period {
			avgGain += gains[i]
			avgLoss += losses[i]
			continue
		}
		if i == period {
			avgGain /= float64(period)
			avgLoss /= float64(period)
		} else {
			avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		}
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

type rsiIndicator struct{}

func (rsiIndicator) Alias() string               { return "RSI" }
func (rsiIndicator) Kind() registry.EntryKind     { return registry.KindIndicator }
func (rsiIndicator) Arity() int                   { return 2 }
func (rsiIndicator) Mode() typing.CalculationMode { return typing.Vectorized }
func (rsiIndicator) OutputType() typing.DataType  { return typing.NumericSeries }
func (rsiIndicator) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (rsiIndicator) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[1].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "RSI: period must be positive")
	}
	return column.Numeric(rsi(args[0].Floats, period)), nil
}

func RSI() registry.Entry { return rsiIndicator{} }

// hlcPeriodIndicator is the shared shape of (high, low, close, period) ->
// NumericSeries indicators: Stochastic %K, Williams %R, CCI.
type hlcPeriodIndicator struct {
	alias string
	fn    func(high, low, close []float64, period int) []float64
}

func (i hlcPeriodIndicator) Alias() string               { return i.alias }
func (i hlcPeriodIndicator) Kind() registry.EntryKind     { return registry.KindIndicator }
func (i hlcPeriodIndicator) Arity() int                   { return 4 }
func (i hlcPeriodIndicator) Mode() typing.CalculationMode { return typing.Vectorized }
func (i hlcPeriodIndicator) OutputType() typing.DataType  { return typing.NumericSeries }
func (i hlcPeriodIndicator) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.NumericSeries, typing.NumericSeries, typing.Integer}
}

func (i hlcPeriodIndicator) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[3].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, i.alias+": period must be positive")
	}
	high, low, close := args[0].Floats, args[1].Floats, args[2].Floats
	if len(high) != len(low) || len(low) != len(close) {
		return column.Column{}, apperr.New(apperr.Evaluation, i.alias+": operand length mismatch")
	}
	return column.Numeric(i.fn(high, low, close, period)), nil
}

func stochasticK(high, low, close []float64, period int) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		if i+1 < period {
			continue
		}
		hh := highest(high[i+1-period : i+1])
		ll := lowest(low[i+1-period : i+1])
		if hh == ll {
			continue
		}
		out[i] = (close[i] - ll) / (hh - ll) * 100
	}
	return out
}

func williamsR(high, low, close []float64, period int) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		if i+1 < period {
			continue
		}
		hh := highest(high[i+1-period : i+1])
		ll := lowest(low[i+1-period : i+1])
		if hh == ll {
			continue
		}
		out[i] = (hh - close[i]) / (hh - ll) * -100
	}
	return out
}

func cci(high, low, close []float64, period int) []float64 {
	typical := make([]float64, len(close))
	for i := range close {
		typical[i] = (high[i] + low[i] + close[i]) / 3
	}
	out := make([]float64, len(close))
	for i := range close {
		if i+1 < period {
			continue
		}
		window := typical[i+1-period : i+1]
		m := mean(window)
		meanDev := 0.0
		for _, v := range window {
			meanDev += absf(v - m)
		}
		meanDev /= float64(period)
		if meanDev == 0 {
			continue
		}
		out[i] = (typical[i] - m) / (0.015 * meanDev)
	}
	return out
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func highest(w []float64) float64 {
	m := w[0]
	for _, v := range w[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func lowest(w []float64) float64 {
	m := w[0]
	for _, v := range w[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func mean(w []float64) float64 {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	return sum / float64(len(w))
}

func Stochastic() registry.Entry { return hlcPeriodIndicator{"Stochastic", stochasticK} }
func WilliamsR() registry.Entry  { return hlcPeriodIndicator{"WilliamsR", williamsR} }
func CCI() registry.Entry        { return hlcPeriodIndicator{"CCI", cci} }

// ROC is the percentage rate of change: (series[i] - series[i-period]) / series[i-period] * 100.
type roc struct{}

func (roc) Alias() string               { return "ROC" }
func (roc) Kind() registry.EntryKind     { return registry.KindIndicator }
func (roc) Arity() int                   { return 2 }
func (roc) Mode() typing.CalculationMode { return typing.Vectorized }
func (roc) OutputType() typing.DataType  { return typing.NumericSeries }
func (roc) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (roc) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[1].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "ROC: period must be positive")
	}
	series := args[0].Floats
	out := make([]float64, len(series))
	for i := range series {
		if i-period < 0 || series[i-period] == 0 {
			continue
		}
		out[i] = (series[i] - series[i-period]) / series[i-period] * 100
	}
	return column.Numeric(out), nil
}

func ROC() registry.Entry { return roc{} }
