// Package column is the compiled-value representation the Expression
// Builder passes between registry entries: either a full numeric/boolean
// series over the frame, or a scalar integer/float.
package column

import "github.com/sawpanic/tradebias/internal/typing"

// Column is a tagged union over the four value shapes a compiled AST node
// can produce. Only one field set is meaningful, selected by Kind.
type Column struct {
	Kind   typing.DataType
	Floats []float64 // NumericSeries
	Bools  []bool    // BoolSeries
	Int    int64     // Integer
	Flt    float64   // Float
}

func Numeric(v []float64) Column { return Column{Kind: typing.NumericSeries, Floats: v} }
func Boolean(v []bool) Column    { return Column{Kind: typing.BoolSeries, Bools: v} }
func IntVal(v int64) Column      { return Column{Kind: typing.Integer, Int: v} }
func FloatVal(v float64) Column  { return Column{Kind: typing.Float, Flt: v} }

// Len reports the series length, or 0 for scalar Integer/Float columns.
func (c Column) Len() int {
	switch c.Kind {
	case typing.NumericSeries:
		return len(c.Floats)
	case typing.BoolSeries:
		return len(c.Bools)
	default:
		return 0
	}
}
