// Package metadata is the static side-table of indicator metadata used
// only by the Semantic Mapper (for period/threshold biasing) and by
// downstream callers wanting to reject cross-scale comparisons.
package metadata

import "github.com/sawpanic/tradebias/internal/typing"

// Info describes one indicator's typical parameterization and value shape.
type Info struct {
	TypicalPeriods []int
	ScaleClass     typing.ScaleClass
	ValueRange     *[2]float64 // nil if unbounded/unknown
}

// Table is the read-only, constructed-once metadata catalog.
type Table struct {
	byAlias map[string]Info
}

// CommonPeriods is the fallback period table the Semantic Mapper draws
// from when an indicator declares no typical periods of its own.
var CommonPeriods = []int{5, 7, 9, 10, 12, 14, 20, 21, 25, 30, 50, 100, 200}

// NewDefault builds the metadata table for the built-in indicator set.
func NewDefault() *Table {
	t := &Table{byAlias: make(map[string]Info)}
	add := func(alias string, periods []int, scale typing.ScaleClass, vr *[2]float64) {
		t.byAlias[alias] = Info{TypicalPeriods: periods, ScaleClass: scale, ValueRange: vr}
	}

	bounded01 := func(lo, hi float64) *[2]float64 { return &[2]float64{lo, hi} }

	add("SMA", []int{5, 10, 14, 20, 50, 100, 200}, typing.Price, nil)
	add("EMA", []int{5, 10, 14, 20, 50, 100, 200}, typing.Price, nil)
	add("WMA", []int{5, 10, 14, 20, 50}, typing.Price, nil)
	add("RSI", []int{9, 14, 21, 25}, typing.Oscillator0_100, bounded01(0, 100))
	add("Stochastic", []int{5, 9, 14}, typing.Oscillator0_100, bounded01(0, 100))
	add("MFI", []int{14, 21}, typing.Oscillator0_100, bounded01(0, 100))
	add("WilliamsR", []int{14, 21}, typing.Ratio, bounded01(-100, 0))
	add("MACD", []int{12, 26, 9}, typing.OscillatorCentered, nil)
	add("Momentum", []int{10, 14, 20}, typing.OscillatorCentered, nil)
	add("ROC", []int{10, 14, 20}, typing.OscillatorCentered, nil)
	add("ATR", []int{7, 14, 21}, typing.Volatility, nil)
	add("StdDev", []int{10, 14, 20}, typing.Volatility, nil)
	add("BollingerBands", []int{20}, typing.Price, nil)
	add("CCI", []int{14, 20}, typing.Index, nil)
	add("ADX", []int{14, 21}, typing.Index, bounded01(0, 100))
	add("OBV", nil, typing.Volume, nil)
	add("SAR", nil, typing.Price, nil)

	return t
}

// Get returns the metadata for alias, if known.
func (t *Table) Get(alias string) (Info, bool) {
	i, ok := t.byAlias[alias]
	return i, ok
}

// AreCompatible reports whether two indicators share a scale class and can
// meaningfully be compared.
func (t *Table) AreCompatible(a, b string) bool {
	ia, ok1 := t.Get(a)
	ib, ok2 := t.Get(b)
	return ok1 && ok2 && ia.ScaleClass == ib.ScaleClass
}

// Threshold draws a scale-appropriate scalar comparison threshold for the
// named indicator from a gene, biasing the Semantic Mapper's BoolSeries
// terminal toward values that are meaningful for that indicator's scale
// instead of a flat [0,100) draw.
func (t *Table) Threshold(alias string, gene uint32) float64 {
	info, ok := t.Get(alias)
	if !ok {
		return float64(gene) / float64(^uint32(0)) * 100
	}
	switch info.ScaleClass {
	case typing.Oscillator0_100:
		bands := []float64{20, 30, 40, 60, 70, 80}
		return bands[int(gene)%len(bands)]
	case typing.OscillatorCentered:
		bands := []float64{-10, -5, 0, 5, 10}
		return bands[int(gene)%len(bands)]
	case typing.Volatility:
		return 0.0001 + (float64(gene)/float64(^uint32(0)))*0.01
	default:
		return float64(gene) / float64(^uint32(0)) * 100
	}
}
