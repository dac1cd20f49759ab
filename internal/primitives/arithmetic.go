// Package primitives implements the elementwise arithmetic, comparison,
// logical, moving-average, and windowing functions of the registry.
// All primitives are vectorized and none are memoized by the
// Expression Builder — only indicator results are cached.
package primitives

import (
	"math"

	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

// binaryArith implements Add/Subtract/Multiply/Divide over two
// NumericSeries operands.
type binaryArith struct {
	alias string
	op    func(a, b float64) float64
}

func (p binaryArith) Alias() string                      { return p.alias }
func (p binaryArith) Kind() registry.EntryKind            { return registry.KindPrimitive }
func (p binaryArith) Arity() int                          { return 2 }
func (p binaryArith) Mode() typing.CalculationMode        { return typing.Vectorized }
func (p binaryArith) OutputType() typing.DataType         { return typing.NumericSeries }
func (p binaryArith) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.NumericSeries}
}

func (p binaryArith) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	a, b := args[0].Floats, args[1].Floats
	if len(a) != len(b) {
		return column.Column{}, apperr.New(apperr.Evaluation, p.alias+": operand length mismatch")
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = p.op(a[i], b[i])
	}
	return column.Numeric(out), nil
}

func Add() registry.Entry {
	return binaryArith{"Add", func(a, b float64) float64 { return a + b }}
}
func Subtract() registry.Entry {
	return binaryArith{"Subtract", func(a, b float64) float64 { return a - b }}
}
func Multiply() registry.Entry {
	return binaryArith{"Multiply", func(a, b float64) float64 { return a * b }}
}
func Divide() registry.Entry {
	return binaryArith{"Divide", func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}}
}

// Absolute is a unary NumericSeries -> NumericSeries primitive.
type absolute struct{}

func (absolute) Alias() string                     { return "Absolute" }
func (absolute) Kind() registry.EntryKind           { return registry.KindPrimitive }
func (absolute) Arity() int                         { return 1 }
func (absolute) Mode() typing.CalculationMode       { return typing.Vectorized }
func (absolute) OutputType() typing.DataType        { return typing.NumericSeries }
func (absolute) InputTypes() []typing.DataType      { return []typing.DataType{typing.NumericSeries} }
func (absolute) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	in := args[0].Floats
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = math.Abs(v)
	}
	return column.Numeric(out), nil
}

func Absolute() registry.Entry { return absolute{} }
