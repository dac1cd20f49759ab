// Package registry catalogs the indicator and primitive functions an AST
// Call node may invoke, keyed by alias.
package registry

import (
	"fmt"

	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/column"
	"github.com/sawpanic/tradebias/internal/ohlcv"
	"github.com/sawpanic/tradebias/internal/typing"
)

// EntryKind distinguishes stateful, full-series indicators from elementwise
// primitives — the Semantic Mapper treats the two pools differently, and
// the Expression Builder only memoizes indicator results.
type EntryKind int

const (
	KindPrimitive EntryKind = iota
	KindIndicator
)

// Entry is the heterogeneous, dynamically-dispatched function a Call node
// names. Composition via a small interface keeps the catalog flat — no
// class hierarchy is needed to represent arity- and type-varying functions.
type Entry interface {
	Alias() string
	Kind() EntryKind
	Arity() int
	InputTypes() []typing.DataType
	OutputType() typing.DataType
	Mode() typing.CalculationMode
	Evaluate(args []column.Column, frame *ohlcv.Frame) (column.Column, error)
}

// Registry is the read-only, once-constructed catalog.
type Registry struct {
	entries map[string]Entry
	order   []string // insertion order, for deterministic iteration
}

// New builds an empty registry; callers add entries via Register.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds an entry. Later registrations with the same alias replace
// earlier ones and keep the alias's original place in iteration order.
func (r *Registry) Register(e Entry) {
	if _, exists := r.entries[e.Alias()]; !exists {
		r.order = append(r.order, e.Alias())
	}
	r.entries[e.Alias()] = e
}

// Get looks up an entry by alias.
func (r *Registry) Get(alias string) (Entry, bool) {
	e, ok := r.entries[alias]
	return e, ok
}

// MustGet looks up an entry, returning an Evaluation error if absent —
// used by the Expression Builder, which should only ever be handed names
// the Semantic Mapper drew from this same registry.
func (r *Registry) MustGet(alias string) (Entry, error) {
	e, ok := r.entries[alias]
	if !ok {
		return nil, apperr.New(apperr.Evaluation, fmt.Sprintf("function %q not found in registry", alias))
	}
	return e, nil
}

// ByOutputType returns every entry (indicator or primitive) whose output
// type matches t, in deterministic registration order.
func (r *Registry) ByOutputType(t typing.DataType) []Entry {
	var out []Entry
	for _, alias := range r.order {
		e := r.entries[alias]
		if e.OutputType() == t {
			out = append(out, e)
		}
	}
	return out
}

// Indicators returns every KindIndicator entry, in registration order — the
// pool the Semantic Mapper's NumericSeries "indicator" branch draws from.
func (r *Registry) Indicators() []Entry {
	var out []Entry
	for _, alias := range r.order {
		e := r.entries[alias]
		if e.Kind() == KindIndicator {
			out = append(out, e)
		}
	}
	return out
}

// Restrict returns a new Registry containing only the named aliases —
// implements the host's optional indicator-selection input.
// Unknown aliases are ignored.
func (r *Registry) Restrict(aliases []string) *Registry {
	restricted := New()
	for _, a := range aliases {
		if e, ok := r.entries[a]; ok {
			restricted.Register(e)
		}
	}
	return restricted
}
