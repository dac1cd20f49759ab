package indicators

import (
	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

// sar is Wilder's parabolic stop-and-reverse. Unlike the windowed
// indicators above, each bar's output depends on the previous bar's
// internal trend/extreme-point state rather than a fixed trailing slice,
// so it is declared Stateful and walked once, in order.
type sar struct{}

func (sar) Alias() string               { return "SAR" }
func (sar) Kind() registry.EntryKind     { return registry.KindIndicator }
func (sar) Arity() int                   { return 2 }
func (sar) Mode() typing.CalculationMode { return typing.Stateful }
func (sar) OutputType() typing.DataType  { return typing.NumericSeries }
func (sar) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.NumericSeries}
}

func (sar) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	high, low := args[0].Floats, args[1].Floats
	n := len(high)
	if len(low) != n {
		return column.Column{}, apperr.New(apperr.Evaluation, "SAR: operand length mismatch")
	}
	out := make([]float64, n)
	if n == 0 {
		return column.Numeric(out), nil
	}
	const (
		accelStart = 0.02
		accelStep  = 0.02
		accelMax   = 0.2
	)
	uptrend := true
	accel := accelStart
	ep := high[0]
	psar := low[0]
	out[0] = psar

	for i := 1; i < n; i++ {
		prev := psar
		psar = prev + accel*(ep-prev)

		if uptrend {
			if i >= 2 {
				psar = minf(psar, low[i-1], low[i-2])
			}
			if low[i] < psar {
				uptrend = false
				psar = ep
				ep = low[i]
				accel = accelStart
			} else if high[i] > ep {
				ep = high[i]
				accel = minf2(accel+accelStep, accelMax)
			}
		} else {
			if i >= 2 {
				psar = maxf(psar, maxf(high[i-1], high[i-2]))
			}
			if high[i] > psar {
				uptrend = true
				psar = ep
				ep = high[i]
				accel = accelStart
			} else if low[i] < ep {
				ep = low[i]
				accel = minf2(accel+accelStep, accelMax)
			}
		}
		out[i] = psar
	}
	return column.Numeric(out), nil
}

func minf(values ...float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func minf2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func SAR() registry.Entry { return sar{} }

// adx is Wilder's average directional index: a doubly-smoothed measure of
// trend strength derived from directional movement, walked bar-by-bar
// because each step's smoothed DM/TR depends on the prior step's.
type adx struct{}

func (adx) Alias() string               { return "ADX" }
func (adx) Kind() registry.EntryKind     { return registry.KindIndicator }
func (adx) Arity() int                   { return 4 }
func (adx) Mode() typing.CalculationMode { return typing.Stateful }
func (adx) OutputType() typing.DataType  { return typing.NumericSeries }
func (adx) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.NumericSeries, typing.NumericSeries, typing.Integer}
}

func (adx) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[3].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "ADX: period must be positive")
	}
	high, low, close := args[0].Floats, args[1].Floats, args[2].Floats
	n := len(close)
	if len(high) != n || len(low) != n {
		return column.Column{}, apperr.New(apperr.Evaluation, "ADX: operand length mismatch")
	}
	if n < 2 {
		return column.Numeric(make([]float64, n)), nil
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := trueRange(high, low, close)

	for i := 1; i < n; i++ {
		upMove := high[i] - high[i-1]
		downMove := low[i-1] - low[i]
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	smoothedTR := wilderSmooth(tr, period)
	smoothedPlusDM := wilderSmooth(plusDM, period)
	smoothedMinusDM := wilderSmooth(minusDM, period)

	dx := make([]float64, n)
	for i := range dx {
		if smoothedTR[i] == 0 {
			continue
		}
		plusDI := 100 * smoothedPlusDM[i] / smoothedTR[i]
		minusDI := 100 * smoothedMinusDM[i] / smoothedTR[i]
		sum := plusDI + minusDI
		if sum == 0 {
			continue
		}
		dx[i] = 100 * absf(plusDI-minusDI) / sum
	}

	return column.Numeric(ema(dx, period)), nil
}

func wilderSmooth(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	running := 0.0
	for i, v := range series {
		if i+1 < period {
			running += v
			continue
		}
		if i+1 == period {
			running += v
			out[i] = running
			continue
		}
		out[i] = out[i-1] - out[i-1]/float64(period) + v
	}
	return out
}

func ADX() registry.Entry { return adx{} }
