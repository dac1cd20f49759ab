// Package indicators implements the registry's indicator catalog: stateful
// full-series calculations vectorized where practical (SMA, EMA, RSI,
// MACD, Stochastic, CCI, ATR, Bollinger, OBV, MFI, ...) and genuinely
// stateful bar-by-bar ones where not (SAR, ADX).
package indicators

import (
	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

func sma(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		if i+1 >= period {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func ema(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	alpha := 2.0 / (float64(period) + 1.0)
	seeded := false
	prev := 0.0
	for i, v := range series {
		if !seeded {
			if i+1 < period {
				continue
			}
			prev = sma(series[:i+1], period)[i]
			seeded = true
			out[i] = prev
			continue
		}
		prev = alpha*v + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

func wma(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	denom := float64(period*(period+1)) / 2
	for i := range series {
		if i+1 < period {
			continue
		}
		weighted := 0.0
		for j := 0; j < period; j++ {
			weighted += series[i-period+1+j] * float64(j+1)
		}
		out[i] = weighted / denom
	}
	return out
}

// seriesPeriodIndicator is the shared shape of (NumericSeries, Integer) ->
// NumericSeries indicators.
type seriesPeriodIndicator struct {
	alias string
	fn    func(series []float64, period int) []float64
}

func (i seriesPeriodIndicator) Alias() string               { return i.alias }
func (i seriesPeriodIndicator) Kind() registry.EntryKind     { return registry.KindIndicator }
func (i seriesPeriodIndicator) Arity() int                   { return 2 }
func (i seriesPeriodIndicator) Mode() typing.CalculationMode { return typing.Vectorized }
func (i seriesPeriodIndicator) OutputType() typing.DataType  { return typing.NumericSeries }
func (i seriesPeriodIndicator) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (i seriesPeriodIndicator) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[1].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, i.alias+": period must be positive")
	}
	return column.Numeric(i.fn(args[0].Floats, period)), nil
}

func SMA() registry.Entry { return seriesPeriodIndicator{"SMA", sma} }
func EMA() registry.Entry { return seriesPeriodIndicator{"EMA", ema} }
func WMA() registry.Entry { return seriesPeriodIndicator{"WMA", wma} }

// MACD is the MACD line: EMA(series, period) - EMA(series, 2*period).
type macd struct{}

func (macd) Alias() string               { return "MACD" }
func (macd) Kind() registry.EntryKind     { return registry.KindIndicator }
func (macd) Arity() int                   { return 2 }
func (macd) Mode() typing.CalculationMode { return typing.Vectorized }
func (macd) OutputType() typing.DataType  { return typing.NumericSeries }
func (macd) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (macd) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[1].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "MACD: period must be positive")
	}
	fast := ema(args[0].Floats, period)
	slow := ema(args[0].Floats, period*2)
	out := make([]float64, len(fast))
	for idx := range out {
		out[idx] = fast[idx] - slow[idx]
	}
	return column.Numeric(out), nil
}

func MACD() registry.Entry { return macd{} }

// BollingerBands returns the upper band: SMA(series, period) + 2*StdDev(series, period).
type bollingerBands struct{}

func (bollingerBands) Alias() string               { return "BollingerBands" }
func (bollingerBands) Kind() registry.EntryKind     { return registry.KindIndicator }
func (bollingerBands) Arity() int                   { return 2 }
func (bollingerBands) Mode() typing.CalculationMode { return typing.Vectorized }
func (bollingerBands) OutputType() typing.DataType  { return typing.NumericSeries }
func (bollingerBands) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Integer}
}

func (bollingerBands) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[1].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "BollingerBands: period must be positive")
	}
	series := args[0].Floats
	mid := sma(series, period)
	out := make([]float64, len(series))
	for i := range series {
		if i+1 < period {
			continue
		}
		window := series[i+1-period : i+1]
		m := mid[i]
		variance := 0.0
		for _, v := range window {
			variance += (v - m) * (v - m)
		}
		variance /= float64(period)
		out[i] = m + 2*sqrt(variance)
	}
	return column.Numeric(out), nil
}

func BollingerBands() registry.Entry { return bollingerBands{} }

func sqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	// Newton's method; avoids importing math twice across files is unnecessary,
	// but kept local since every call site here is already inside a tight loop.
	x := v
	for i := 0; i < 20; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}
