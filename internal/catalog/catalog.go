// Package catalog assembles the default registry: every primitive and
// indicator the module ships, registered once at startup. It exists solely
// to avoid the import cycle that would result from registry depending on
// primitives and indicators while they depend on registry.
package catalog

import (
	"github.com/sawpanic/tradebias/internal/indicators"
	"github.com/sawpanic/tradebias/internal/primitives"
	"github.com/sawpanic/tradebias/internal/registry"
)

// NewDefault builds the registry used by a full run: every built-in
// primitive and indicator, registered in a fixed order so genome-to-AST
// mapping is reproducible across processes.
func NewDefault() *registry.Registry {
	r := registry.New()

	r.Register(primitives.Add())
	r.Register(primitives.Subtract())
	r.Register(primitives.Multiply())
	r.Register(primitives.Divide())
	r.Register(primitives.Absolute())
	r.Register(primitives.GT())
	r.Register(primitives.LT())
	r.Register(primitives.GTE())
	r.Register(primitives.LTE())
	r.Register(primitives.GTScalar())
	r.Register(primitives.LTScalar())
	r.Register(primitives.GTEScalar())
	r.Register(primitives.LTEScalar())
	r.Register(primitives.And())
	r.Register(primitives.Or())
	r.Register(primitives.Not())
	r.Register(primitives.MA())
	r.Register(primitives.StdDevP())
	r.Register(primitives.Sum())
	r.Register(primitives.Highest())
	r.Register(primitives.Lowest())
	r.Register(primitives.Momentum())
	r.Register(primitives.Shift())

	r.Register(indicators.SMA())
	r.Register(indicators.EMA())
	r.Register(indicators.WMA())
	r.Register(indicators.MACD())
	r.Register(indicators.BollingerBands())
	r.Register(indicators.RSI())
	r.Register(indicators.Stochastic())
	r.Register(indicators.WilliamsR())
	r.Register(indicators.CCI())
	r.Register(indicators.ROC())
	r.Register(indicators.ATR())
	r.Register(indicators.OBV())
	r.Register(indicators.MFI())
	r.Register(indicators.SAR())
	r.Register(indicators.ADX())

	return r
}
