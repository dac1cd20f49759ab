// Package eval compiles a strategy AST into columnar values against a bar
// frame, memoizing indicator sub-results by their structural signature.
package eval

import (
	"strconv"

	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/ast"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/registry"
	"github.com/sawpanic/tradebias/internal/typing"
)

// Builder evaluates AST nodes against a registry and a shared cache.
type Builder struct {
	Registry *registry.Registry
	Cache    *Cache
}

// NewBuilder returns a Builder. A nil cache gets a fresh default one.
func NewBuilder(reg *registry.Registry, cache *Cache) *Builder {
	if cache == nil {
		cache = NewCache(DefaultCacheCapacity)
	}
	return &Builder{Registry: reg, Cache: cache}
}

// Evaluate compiles node into a value column against frame. node must not
// be a Rule; evaluate its Condition and Action separately via EvaluateRule.
func (b *Builder) Evaluate(node *ast.Node, frame *ohlcv.Frame) (column.Column, error) {
	if node == nil {
		return column.Column{}, apperr.New(apperr.Evaluation, "cannot evaluate a nil node")
	}
	switch node.Kind {
	case ast.NodeConst:
		return b.evaluateConst(node, frame)
	case ast.NodeCall:
		return b.evaluateCall(node, frame)
	case ast.NodeRule:
		return column.Column{}, apperr.New(apperr.Evaluation, "cannot evaluate a rule node directly; use EvaluateRule")
	default:
		return column.Column{}, apperr.New(apperr.Evaluation, "unrecognized node kind")
	}
}

func (b *Builder) evaluateConst(node *ast.Node, frame *ohlcv.Frame) (column.Column, error) {
	v := node.Const
	switch v.Kind {
	case ast.KindInt:
		return column.IntVal(v.Int), nil
	case ast.KindFloat:
		return column.FloatVal(v.Flt), nil
	case ast.KindString:
		series, err := frame.Column(v.Str)
		if err != nil {
			return column.Column{}, err
		}
		return column.Numeric(series), nil
	case ast.KindBool:
		return column.Boolean([]bool{v.Bool}), nil
	default:
		return column.Column{}, apperr.New(apperr.Evaluation, "unrecognized const kind")
	}
}

func (b *Builder) evaluateCall(node *ast.Node, frame *ohlcv.Frame) (column.Column, error) {
	entry, err := b.Registry.MustGet(node.Function)
	if err != nil {
		return column.Column{}, err
	}
	if len(node.Args) != entry.Arity() {
		return column.Column{}, apperr.New(apperr.TypeArity,
			node.Function+": expected "+strconv.Itoa(entry.Arity())+" arguments, got "+strconv.Itoa(len(node.Args)))
	}

	if entry.Kind() == registry.KindIndicator {
		switch entry.Mode() {
		case typing.Stateful:
			return b.evaluateStateful(entry, node, frame)
		default:
			return b.evaluateVectorized(entry, node, frame)
		}
	}

	args, err := b.evaluateArgs(node, frame)
	if err != nil {
		return column.Column{}, err
	}
	return entry.Evaluate(args, frame)
}

// evaluateVectorized is the path for indicators the registry declares
// Vectorized: they compute their full output column from their argument
// columns alone and are safe to memoize by structural signature.
func (b *Builder) evaluateVectorized(entry registry.Entry, node *ast.Node, frame *ohlcv.Frame) (column.Column, error) {
	signature := node.Signature()
	if cached, ok := b.Cache.get(signature); ok {
		return cached, nil
	}
	args, err := b.evaluateArgs(node, frame)
	if err != nil {
		return column.Column{}, err
	}
	result, err := entry.Evaluate(args, frame)
	if err != nil {
		return column.Column{}, err
	}
	b.Cache.put(signature, result)
	return result, nil
}

// evaluateStateful is the path for indicators the registry declares
// Stateful (SAR, ADX): each output bar depends on the previous bar's
// internal trend/extreme-point state, walked once in frame order. They
// are memoized the same way vectorized indicators are — node.Signature()
// plus the shared frame already fixes the full bar-ordered input each
// entry walks — but kept as a distinct branch so the registry's
// calculation_mode, not the entry's own Evaluate body, is what decides
// which path a call takes.
func (b *Builder) evaluateStateful(entry registry.Entry, node *ast.Node, frame *ohlcv.Frame) (column.Column, error) {
	signature := node.Signature()
	if cached, ok := b.Cache.get(signature); ok {
		return cached, nil
	}
	args, err := b.evaluateArgs(node, frame)
	if err != nil {
		return column.Column{}, err
	}
	result, err := entry.Evaluate(args, frame)
	if err != nil {
		return column.Column{}, err
	}
	b.Cache.put(signature, result)
	return result, nil
}

func (b *Builder) evaluateArgs(node *ast.Node, frame *ohlcv.Frame) ([]column.Column, error) {
	args := make([]column.Column, len(node.Args))
	for i, a := range node.Args {
		v, err := b.Evaluate(a, frame)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// EvaluateRule compiles a Rule node into the three-valued signal column
// `where(cond, action, 0.0)`: action where the condition holds, zero
// elsewhere. The simulator reads the sign of each element to drive entry
// and exit decisions.
func (b *Builder) EvaluateRule(node *ast.Node, frame *ohlcv.Frame) ([]float64, error) {
	if node == nil || node.Kind != ast.NodeRule {
		return nil, apperr.New(apperr.Evaluation, "EvaluateRule requires a rule node")
	}
	cond, err := b.Evaluate(node.Condition, frame)
	if err != nil {
		return nil, err
	}
	if cond.Kind != typing.BoolSeries {
		return nil, apperr.New(apperr.TypeArity, "rule condition did not evaluate to a bool series")
	}
	action, err := b.Evaluate(node.Action, frame)
	if err != nil {
		return nil, err
	}
	signal := make([]float64, len(cond.Bools))
	for i, ok := range cond.Bools {
		if ok {
			signal[i] = action.Flt
		}
	}
	return signal, nil
}
