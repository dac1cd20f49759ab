package indicators

import (
	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

// OBV accumulates volume signed by the direction of the close-to-close move.
type obv struct{}

func (obv) Alias() string               { return "OBV" }
func (obv) Kind() registry.EntryKind     { return registry.KindIndicator }
func (obv) Arity() int                   { return 2 }
func (obv) Mode() typing.CalculationMode { return typing.Vectorized }
func (obv) OutputType() typing.DataType  { return typing.NumericSeries }
func (obv) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.NumericSeries}
}

func (obv) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	close, volume := args[0].Floats, args[1].Floats
	if len(close) != len(volume) {
		return column.Column{}, apperr.New(apperr.Evaluation, "OBV: operand length mismatch")
	}
	out := make([]float64, len(close))
	for i := range close {
		if i == 0 {
			out[i] = volume[i]
			continue
		}
		switch {
		case close[i] > close[i-1]:
			out[i] = out[i-1] + volume[i]
		case close[i] < close[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return column.Numeric(out), nil
}

func OBV() registry.Entry { return obv{} }

// MFI is the volume-weighted RSI analogue over typical price.
type mfi struct{}

func (mfi) Alias() string               { return "MFI" }
func (mfi) Kind() registry.EntryKind     { return registry.KindIndicator }
func (mfi) Arity() int                   { return 5 }
func (mfi) Mode() typing.CalculationMode { return typing.Vectorized }
func (mfi) OutputType() typing.DataType  { return typing.NumericSeries }
func (mfi) InputTypes() []typing.DataType {
	return []typing.DataType{
		typing.NumericSeries, typing.NumericSeries, typing.NumericSeries,
		typing.NumericSeries, typing.Integer,
	}
}

func (mfi) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	period := int(args[4].Int)
	if period <= 0 {
		return column.Column{}, apperr.New(apperr.Evaluation, "MFI: period must be positive")
	}
	high, low, close, volume := args[0].Floats, args[1].Floats, args[2].Floats, args[3].Floats
	n := len(close)
	if len(high) != n || len(low) != n || len(volume) != n {
		return column.Column{}, apperr.New(apperr.Evaluation, "MFI: operand length mismatch")
	}
	typical := make([]float64, n)
	moneyFlow := make([]float64, n)
	for i := range close {
		typical[i] = (high[i] + low[i] + close[i]) / 3
		moneyFlow[i] = typical[i] * volume[i]
	}
	out := make([]float64, n)
	for i := range close {
		if i+1 < period+1 {
			continue
		}
		posFlow, negFlow := 0.0, 0.0
		for j := i - period + 1; j <= i; j++ {
			if typical[j] > typical[j-1] {
				posFlow += moneyFlow[j]
			} else if typical[j] < typical[j-1] {
				negFlow += moneyFlow[j]
			}
		}
		if negFlow == 0 {
			out[i] = 100
			continue
		}
		ratio := posFlow / negFlow
		out[i] = 100 - 100/(1+ratio)
	}
	return column.Numeric(out), nil
}

func MFI() registry.Entry { return mfi{} }
