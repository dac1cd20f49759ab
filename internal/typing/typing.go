// Package typing holds the type tags shared by the AST and the registry.
package typing

// DataType is the static type tag checked by the registry against every
// call site.
type DataType int

const (
	NumericSeries DataType = iota
	BoolSeries
	Integer
	Float
)

func (t DataType) String() string {
	switch t {
	case NumericSeries:
		return "NumericSeries"
	case BoolSeries:
		return "BoolSeries"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	default:
		return "Unknown"
	}
}

// ScaleClass groups indicators by the shape of the values they produce, so
// the Semantic Mapper can bias threshold generation and downstream callers
// can reject comparisons across incompatible scales.
type ScaleClass int

const (
	Price ScaleClass = iota
	Oscillator0_100
	OscillatorCentered
	Volatility
	Volume
	Ratio
	Index
)

func (s ScaleClass) String() string {
	switch s {
	case Price:
		return "Price"
	case Oscillator0_100:
		return "Oscillator0_100"
	case OscillatorCentered:
		return "OscillatorCentered"
	case Volatility:
		return "Volatility"
	case Volume:
		return "Volume"
	case Ratio:
		return "Ratio"
	case Index:
		return "Index"
	default:
		return "Unknown"
	}
}

// CalculationMode tells the Expression Builder which evaluation path a
// registry entry requires.
type CalculationMode int

const (
	Vectorized CalculationMode = iota
	Stateful
)
