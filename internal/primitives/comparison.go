package primitives

import (
	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

// seriesComparison implements the (NumericSeries, NumericSeries) ->
// BoolSeries comparison family.
type seriesComparison struct {
	alias string
	op    func(a, b float64) bool
}

func (p seriesComparison) Alias() string               { return p.alias }
func (p seriesComparison) Kind() registry.EntryKind     { return registry.KindPrimitive }
func (p seriesComparison) Arity() int                   { return 2 }
func (p seriesComparison) Mode() typing.CalculationMode { return typing.Vectorized }
func (p seriesComparison) OutputType() typing.DataType  { return typing.BoolSeries }
func (p seriesComparison) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.NumericSeries}
}

func (p seriesComparison) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	a, b := args[0].Floats, args[1].Floats
	if len(a) != len(b) {
		return column.Column{}, apperr.New(apperr.Evaluation, p.alias+": operand length mismatch")
	}
	out := make([]bool, len(a))
	for i := range a {
		out[i] = p.op(a[i], b[i])
	}
	return column.Boolean(out), nil
}

func GT() registry.Entry  { return seriesComparison{"gt", func(a, b float64) bool { return a > b }} }
func LT() registry.Entry  { return seriesComparison{"lt", func(a, b float64) bool { return a < b }} }
func GTE() registry.Entry { return seriesComparison{"gte", func(a, b float64) bool { return a >= b }} }
func LTE() registry.Entry { return seriesComparison{"lte", func(a, b float64) bool { return a <= b }} }

// scalarComparison implements the terminal (NumericSeries, Float) ->
// BoolSeries family the Semantic Mapper uses at max depth.
type scalarComparison struct {
	alias string
	op    func(a, b float64) bool
}

func (p scalarComparison) Alias() string               { return p.alias }
func (p scalarComparison) Kind() registry.EntryKind     { return registry.KindPrimitive }
func (p scalarComparison) Arity() int                   { return 2 }
func (p scalarComparison) Mode() typing.CalculationMode { return typing.Vectorized }
func (p scalarComparison) OutputType() typing.DataType  { return typing.BoolSeries }
func (p scalarComparison) InputTypes() []typing.DataType {
	return []typing.DataType{typing.NumericSeries, typing.Float}
}

func (p scalarComparison) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	series, threshold := args[0].Floats, args[1].Flt
	out := make([]bool, len(series))
	for i, v := range series {
		out[i] = p.op(v, threshold)
	}
	return column.Boolean(out), nil
}

func GTScalar() registry.Entry {
	return scalarComparison{"gt_scalar", func(a, b float64) bool { return a > b }}
}
func LTScalar() registry.Entry {
	return scalarComparison{"lt_scalar", func(a, b float64) bool { return a < b }}
}
func GTEScalar() registry.Entry {
	return scalarComparison{"gte_scalar", func(a, b float64) bool { return a >= b }}
}
func LTEScalar() registry.Entry {
	return scalarComparison{"lte_scalar", func(a, b float64) bool { return a <= b }}
}

// logical implements And/Or over two BoolSeries operands.
type logical struct {
	alias string
	op    func(a, b bool) bool
}

func (p logical) Alias() string               { return p.alias }
func (p logical) Kind() registry.EntryKind     { return registry.KindPrimitive }
func (p logical) Arity() int                   { return 2 }
func (p logical) Mode() typing.CalculationMode { return typing.Vectorized }
func (p logical) OutputType() typing.DataType  { return typing.BoolSeries }
func (p logical) InputTypes() []typing.DataType {
	return []typing.DataType{typing.BoolSeries, typing.BoolSeries}
}

func (p logical) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	a, b := args[0].Bools, args[1].Bools
	if len(a) != len(b) {
		return column.Column{}, apperr.New(apperr.Evaluation, p.alias+": operand length mismatch")
	}
	out := make([]bool, len(a))
	for i := range a {
		out[i] = p.op(a[i], b[i])
	}
	return column.Boolean(out), nil
}

func And() registry.Entry { return logical{"And", func(a, b bool) bool { return a && b }} }
func Or() registry.Entry  { return logical{"Or", func(a, b bool) bool { return a || b }} }

// not implements the unary BoolSeries negation.
type not struct{}

func (not) Alias() string                   { return "Not" }
func (not) Kind() registry.EntryKind         { return registry.KindPrimitive }
func (not) Arity() int                       { return 1 }
func (not) Mode() typing.CalculationMode     { return typing.Vectorized }
func (not) OutputType() typing.DataType      { return typing.BoolSeries }
func (not) InputTypes() []typing.DataType    { return []typing.DataType{typing.BoolSeries} }
func (not) Evaluate(args []column.Column, _ *ohlcv.Frame) (column.Column, error) {
	in := args[0].Bools
	out := make([]bool, len(in))
	for i, v := range in {
		out[i] = !v
	}
	return column.Boolean(out), nil
}

func Not() registry.Entry { return not{} }
