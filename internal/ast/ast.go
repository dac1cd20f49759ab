// Package ast defines the typed expression tree a genome is mapped into.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sawpanic/tradebias/internal/typing"
)

// ValueKind discriminates the literal payload a Const node carries.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindString
	KindBool
)

// Value is the literal payload of a Const node.
type Value struct {
	Kind ValueKind
	Int  int64
	Flt  float64
	Str  string
	Bool bool
}

func Int(v int64) Value    { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value { return Value{Kind: KindFloat, Flt: v} }
func Str(v string) Value   { return Value{Kind: KindString, Str: v} }
func Bool(v bool) Value    { return Value{Kind: KindBool, Bool: v} }

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "?"
	}
}

// NodeKind discriminates the three tagged variants of Node.
type NodeKind int

const (
	NodeConst NodeKind = iota
	NodeCall
	NodeRule
)

// Node is a strict tree — Const | Call(name, args) | Rule(cond, action).
// There are no back-references and no cycles.
type Node struct {
	Kind NodeKind

	// NodeConst
	Const Value

	// NodeCall
	Function string
	Args     []*Node

	// NodeRule
	Condition *Node
	Action    *Node
}

func NewConst(v Value) *Node { return &Node{Kind: NodeConst, Const: v} }

func NewCall(function string, args ...*Node) *Node {
	return &Node{Kind: NodeCall, Function: function, Args: args}
}

func NewRule(condition, action *Node) *Node {
	return &Node{Kind: NodeRule, Condition: condition, Action: action}
}

// Depth returns the tree's maximum depth, root counted as depth 0.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case NodeConst:
		return 0
	case NodeCall:
		max := 0
		for _, a := range n.Args {
			if d := a.Depth(); d > max {
				max = d
			}
		}
		return max + 1
	case NodeRule:
		cd, ad := n.Condition.Depth(), n.Action.Depth()
		if cd < ad {
			cd = ad
		}
		return cd + 1
	default:
		return 0
	}
}

// Signature produces a deterministic structural serialization of the
// subtree, used both as the Expression Builder's cache key and
// as the Hall of Fame's deduplication signature. Two ASTs
// that differ structurally always differ in signature, and the same AST
// always produces the same signature.
func (n *Node) Signature() string {
	var b strings.Builder
	n.writeSignature(&b)
	return b.String()
}

func (n *Node) writeSignature(b *strings.Builder) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	switch n.Kind {
	case NodeConst:
		fmt.Fprintf(b, "C(%d:%s)", n.Const.Kind, n.Const.String())
	case NodeCall:
		fmt.Fprintf(b, "F(%s;", n.Function)
		for i, a := range n.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			a.writeSignature(b)
		}
		b.WriteByte(')')
	case NodeRule:
		b.WriteString("R(")
		n.Condition.writeSignature(b)
		b.WriteByte(';')
		n.Action.writeSignature(b)
		b.WriteByte(')')
	}
}

// FormulaShort renders a one-line formula, truncated to maxLen runes.
func (n *Node) FormulaShort(maxLen int) string {
	full := []rune(n.Formula())
	if maxLen > 0 && len(full) > maxLen {
		return string(full[:maxLen-3]) + "..."
	}
	return string(full)
}

// Formula renders a full, human-readable (possibly multi-line) formula.
func (n *Node) Formula() string {
	var b strings.Builder
	n.writeFormula(&b, 0)
	return b.String()
}

func (n *Node) writeFormula(b *strings.Builder, indent int) {
	if n == nil {
		return
	}
	pad := strings.Repeat("  ", indent)
	switch n.Kind {
	case NodeConst:
		b.WriteString(n.Const.String())
	case NodeCall:
		fmt.Fprintf(b, "%s(", n.Function)
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.writeFormula(b, indent)
		}
		b.WriteString(")")
	case NodeRule:
		fmt.Fprintf(b, "if ")
		n.Condition.writeFormula(b, indent)
		fmt.Fprintf(b, " then %s\n%s", actionLabel(n.Action), pad)
	}
}

func actionLabel(action *Node) string {
	if action == nil || action.Kind != NodeConst || action.Const.Kind != KindFloat {
		return "?"
	}
	if action.Const.Flt > 0 {
		return "LONG"
	}
	return "SHORT"
}

// InputTypes describes the arity-matched input type vector a registry
// entry declares; kept here (rather than in the registry package) so both
// registry and mapper can depend on it without an import cycle.
type InputTypes = []typing.DataType
