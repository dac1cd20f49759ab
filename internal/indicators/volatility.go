package indicators

import (
	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

func trueRange(high, low, close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		if i == 0 {
			out[i] = high[i] - low[i]
			continue
		}
		hl := high[i] - low[i]
		hc := absf(high[i] - close[i-1])
		lc := absf(low[i] - close[i-1])
		out[i] = maxf(hl, maxf(hc, lc))
	}
	return out
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func atr(high, low, close []float64, period int) []float64 {
	tr := trueRange(high, low, close)
	return ema(tr, period)
}

type atrIndicator struct{}

func (atrIndicator) Alias() string               { return "ATR" }
func (atrIndicator) Kind() registry.EntryKind     { return registry.KindIndicator }
func (atrIndicator) Arity() int                   { return 4 }
func (atrIndicator) Mode() typing.CalculationMode { return typing.Vectorized }
func (atrIndicator) OutputType() typing.DataType  { return typing.NumericSeries }
func (atrIndicator) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.NumericSeries, typing.NumericSeries, typing.Integer}
}

func (atrIndicator) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[3].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "ATR: period must be positive")
	}
	high, low, close := args[0].Floats, args[1].Floats, args[2].Floats
	if len(high) != len(low) || len(low) != len(close) {
		return column.Column{}, apperr.New(apperr.Evaluation, "ATR: operand length mismatch")
	}
	return column.Numeric(atr(high, low, close, period)), nil
}

func ATR() registry.Entry { return atrIndicator{} }
