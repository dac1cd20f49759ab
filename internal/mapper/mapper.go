// Package mapper implements the Semantic Mapper: the deterministic,
// depth-bounded translation from a raw genome into a typed strategy AST.
package mapper

import (
	"github.com/sawpanic/tradebias/internal/ast"
	"github.com/sawpanic/tradebias/internal/gene"
	"github.com/sawpanic/tradebias/internal/metadata"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

// Accessors are the raw OHLCV columns a NumericSeries terminal may name.
// The mapper represents a column reference as Const(string) rather than a
// zero-arg Call, so the Expression Builder resolves it with a plain map
// lookup instead of a registry dispatch.
var Accessors = []string{"open", "high", "low", "close", "volume"}

// DefaultMaxDepth bounds recursive expression construction so every
// genome, however short, maps to a finite tree.
const DefaultMaxDepth = 4

// Mapper holds the read-only catalog and metadata a mapping run consults.
type Mapper struct {
	Registry *registry.Registry
	Metadata *metadata.Table
	MaxDepth int
}

// New returns a Mapper. maxDepth <= 0 falls back to DefaultMaxDepth.
func New(reg *registry.Registry, meta *metadata.Table, maxDepth int) *Mapper {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Mapper{Registry: reg, Metadata: meta, MaxDepth: maxDepth}
}

// CreateStrategy deterministically maps genome into a Rule(condition,
// action) AST: a BoolSeries condition gating a Float action whose sign
// selects the position direction (positive: long, negative: short).
func (m *Mapper) CreateStrategy(genome gene.Genome) *ast.Node {
	c := gene.New(genome)
	condition := m.buildExpression(c, typing.BoolSeries, 0)
	action := ast.NewConst(ast.Float(m.actionValue(c)))
	return ast.NewRule(condition, action)
}

func (m *Mapper) actionValue(c *gene.Consumer) float64 {
	if c.Choose(2) == 0 {
		return 1.0
	}
	return -1.0
}

func (m *Mapper) buildExpression(c *gene.Consumer, t typing.DataType, depth int) *ast.Node {
	switch t {
	case typing.NumericSeries:
		return m.buildNumericSeries(c, depth)
	case typing.BoolSeries:
		return m.buildBoolSeries(c, depth)
	case typing.Integer:
		return m.buildIntegerTerminal(c)
	case typing.Float:
		return m.buildFloatTerminal(c)
	default:
		return ast.NewConst(ast.Float(0))
	}
}

// buildNumericSeries picks, at each non-terminal node, among three branches:
// an indicator call, a raw column accessor, or a recursive arithmetic
// primitive — matching the grammar's three-way NumericSeries production.
func (m *Mapper) buildNumericSeries(c *gene.Consumer, depth int) *ast.Node {
	if depth >= m.MaxDepth {
		return m.accessorTerminal(c)
	}
	switch c.Choose(3) {
	case 0:
		return m.buildIndicatorCall(c, depth)
	case 1:
		return m.accessorTerminal(c)
	default:
		return m.buildNumericPrimitiveCall(c, depth)
	}
}

func (m *Mapper) accessorTerminal(c *gene.Consumer) *ast.Node {
	name := Accessors[c.Choose(len(Accessors))]
	return ast.NewConst(ast.Str(name))
}

func (m *Mapper) buildIndicatorCall(c *gene.Consumer, depth int) *ast.Node {
	pool := m.Registry.Indicators()
	if len(pool) == 0 {
		return m.accessorTerminal(c)
	}
	entry := pool[c.Choose(len(pool))]
	return ast.NewCall(entry.Alias(), m.buildArgs(c, entry, depth)...)
}

func (m *Mapper) buildNumericPrimitiveCall(c *gene.Consumer, depth int) *ast.Node {
	var pool []registry.Entry
	for _, e := range m.Registry.ByOutputType(typing.NumericSeries) {
		if e.Kind() == registry.KindPrimitive {
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		return m.accessorTerminal(c)
	}
	entry := pool[c.Choose(len(pool))]
	return ast.NewCall(entry.Alias(), m.buildArgs(c, entry, depth)...)
}

func (m *Mapper) buildArgs(c *gene.Consumer, entry registry.Entry, depth int) []*ast.Node {
	inputTypes := entry.InputTypes()
	args := make([]*ast.Node, len(inputTypes))
	for i, it := range inputTypes {
		if it == typing.Integer {
			args[i] = m.buildPeriodArg(c, entry.Alias())
			continue
		}
		args[i] = m.buildExpression(c, it, depth+1)
	}
	return args
}

// buildPeriodArg draws a period from the indicator's own typical-period
// table when metadata knows it, falling back to the common period table —
// keeping the period a genuine typed Integer argument on the AST rather
// than a literal later extracted from a compiled expression.
func (m *Mapper) buildPeriodArg(c *gene.Consumer, alias string) *ast.Node {
	periods := metadata.CommonPeriods
	if info, ok := m.Metadata.Get(alias); ok && len(info.TypicalPeriods) > 0 {
		periods = info.TypicalPeriods
	}
	period := periods[c.Choose(len(periods))]
	return ast.NewConst(ast.Int(int64(period)))
}

// buildBoolSeries recurses through the registry's BoolSeries-producing
// entries (series comparisons, logical combinators, negation) or, at the
// terminal, a scalar comparison whose threshold is biased by the scale
// of the series it compares against.
func (m *Mapper) buildBoolSeries(c *gene.Consumer, depth int) *ast.Node {
	if depth >= m.MaxDepth {
		return m.scalarComparisonTerminal(c, depth)
	}
	pool := m.Registry.ByOutputType(typing.BoolSeries)
	if len(pool) == 0 {
		return m.scalarComparisonTerminal(c, depth)
	}
	entry := pool[c.Choose(len(pool))]
	return m.buildBoolCall(c, entry, depth)
}

func (m *Mapper) scalarComparisonTerminal(c *gene.Consumer, depth int) *ast.Node {
	pool := m.scalarComparisons()
	entry := pool[c.Choose(len(pool))]
	return m.buildBoolCall(c, entry, depth)
}

func (m *Mapper) scalarComparisons() []registry.Entry {
	var out []registry.Entry
	for _, e := range m.Registry.ByOutputType(typing.BoolSeries) {
		if isScalarComparison(e) {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		// No scalar comparison registered; fall back to whatever BoolSeries
		// entries exist so mapping still terminates.
		return m.Registry.ByOutputType(typing.BoolSeries)
	}
	return out
}

func isScalarComparison(e registry.Entry) bool {
	it := e.InputTypes()
	return len(it) == 2 && it[0] == typing.NumericSeries && it[1] == typing.Float
}

func (m *Mapper) buildBoolCall(c *gene.Consumer, entry registry.Entry, depth int) *ast.Node {
	if isScalarComparison(entry) {
		series := m.buildExpression(c, typing.NumericSeries, depth+1)
		threshold := m.buildThreshold(c, series)
		return ast.NewCall(entry.Alias(), series, threshold)
	}
	inputTypes := entry.InputTypes()
	args := make([]*ast.Node, len(inputTypes))
	for i, it := range inputTypes {
		args[i] = m.buildExpression(c, it, depth+1)
	}
	return ast.NewCall(entry.Alias(), args...)
}

// buildThreshold draws a scale-appropriate scalar bound for a comparison
// against series. When series is itself an indicator call, the draw is
// biased toward that indicator's typical value range rather than a flat
// [0,100) draw.
func (m *Mapper) buildThreshold(c *gene.Consumer, series *ast.Node) *ast.Node {
	gene := c.Next()
	alias := ""
	if series.Kind == ast.NodeCall {
		alias = series.Function
	}
	return ast.NewConst(ast.Float(m.Metadata.Threshold(alias, gene)))
}

func (m *Mapper) buildIntegerTerminal(c *gene.Consumer) *ast.Node {
	period := metadata.CommonPeriods[c.Choose(len(metadata.CommonPeriods))]
	return ast.NewConst(ast.Int(int64(period)))
}

func (m *Mapper) buildFloatTerminal(c *gene.Consumer) *ast.Node {
	return ast.NewConst(ast.Float(c.FloatRange(-100, 100)))
}
