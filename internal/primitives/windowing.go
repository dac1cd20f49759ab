package primitives

import (
	"math"

	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

// windowed is the shared shape of every rolling-window primitive: a
// (NumericSeries, Integer) -> NumericSeries function evaluated over a
// trailing window of `period` bars. Bars before the first full window are
// zero-filled rather than NaN, keeping every downstream computation total.
type windowed struct {
	alias string
	fn    func(window []float64) float64
}

func (w windowed) Alias() string               { return w.alias }
func (w windowed) Kind() registry.EntryKind     { return registry.KindPrimitive }
func (w windowed) Arity() int                   { return 2 }
func (w windowed) Mode() typing.CalculationMode { return typing.Vectorized }
func (w windowed) OutputType() typing.DataType  { return typing.NumericSeries }
func (w windowed) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (w windowed) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	series := args[0].Floats
	period := int(args[1].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, w.alias+": period must be positive")
	}
	out := make([]float64, len(series))
	for i := range series {
		if i+1 < period {
			continue
		}
		out[i] = w.fn(series[i+1-period : i+1])
	}
	return column.Numeric(out), nil
}

func mean(w []float64) float64 {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	return sum / float64(len(w))
}

func sum(w []float64) float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

func stdDev(w []float64) float64 {
	m := mean(w)
	variance := 0.0
	for _, v := range w {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(w))
	return math.Sqrt(variance)
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

func MA() registry.Entry       { return windowed{"MA", mean} }
func StdDevP() registry.Entry  { return windowed{"StdDev", stdDev} }
func Sum() registry.Entry      { return windowed{"Sum", sum} }
func Highest() registry.Entry  { return windowed{"Highest", highest} }
func Lowest() registry.Entry   { return windowed{"Lowest", lowest} }

// Momentum is close[i] - close[i-period], a directional offset rather than
// a windowed reduction.
type momentum struct{}

func (momentum) Alias() string               { return "Momentum" }
func (momentum) Kind() registry.EntryKind     { return registry.KindPrimitive }
func (momentum) Arity() int                   { return 2 }
func (momentum) Mode() typing.CalculationMode { return typing.Vectorized }
func (momentum) OutputType() typing.DataType  { return typing.NumericSeries }
func (momentum) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (momentum) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	series := args[0].Floats
	period := int(args[1].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "Momentum: period must be positive")
	}
	out := make([]float64, len(series))
	for i := range series {
		if i-period < 0 {
			continue
		}
		out[i] = series[i] - series[i-period]
	}
	return column.Numeric(out), nil
}

func Momentum() registry.Entry { return momentum{} }

// Shift is series[i-period], the lag operator.
type shift struct{}

func (shift) Alias() string               { return "Shift" }
func (shift) Kind() registry.EntryKind     { return registry.KindPrimitive }
func (shift) Arity() int                   { return 2 }
func (shift) Mode() typing.CalculationMode { return typing.Vectorized }
func (shift) OutputType() typing.DataType  { return typing.NumericSeries }
func (shift) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (shift) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	series := args[0].Floats
	period := int(args[1].Int)
	out := make([]float64, len(series))
	for i := range series {
		if i-period < 0 {
			continue
		}
		out[i] = series[i-period]
	}
	return column.Numeric(out), nil
}

func Shift() registry.Entry { return shift{} }
