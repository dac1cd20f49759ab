// Package hallfame implements the bounded, deduplicated archive of the
// best distinct strategies an evolution run has found.
package hallfame

import (
	"sort"
	"sync"

	"github.com/sawpanic/tradebias/internal/ast"
	"github.com/sawpanic/tradebias/internal/pareto"
)

// Entry is one archived strategy: its genome, AST, the metrics it scored,
// and (in Pareto mode) its rank/crowding distance.
type Entry struct {
	Genome    []uint32
	AST       *ast.Node
	Signature string
	Metrics   map[string]float64
	Fitness   float64 // scalar mode
	Rank      int     // Pareto mode
	Crowding  float64 // Pareto mode
	Objectives []float64
}

// HallOfFame is a bounded, signature-deduplicated archive. Pareto and
// scalar modes share storage; which resort strategy runs is fixed at
// construction.
type HallOfFame struct {
	mu         sync.Mutex
	capacity   int
	usePareto  bool
	directions []pareto.Direction
	entries    []*Entry
	bySignature map[string]bool
}

// New returns an empty archive. When usePareto is true, directions must
// have one element per objective and Offer expects Entry.Objectives to be
// populated; otherwise Offer ranks by Entry.Fitness descending.
func New(capacity int, usePareto bool, directions []pareto.Direction) *HallOfFame {
	return &HallOfFame{
		capacity:    capacity,
		usePareto:   usePareto,
		directions:  directions,
		bySignature: make(map[string]bool),
	}
}

// Offer inserts entry unless its signature is already archived, then
// resorts and trims to capacity. Returns true if the entry was inserted.
func (h *HallOfFame) Offer(entry *Entry) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bySignature[entry.Signature] {
		return false
	}

	h.entries = append(h.entries, entry)
	h.bySignature[entry.Signature] = true
	h.resort()
	h.trim()
	return true
}

func (h *HallOfFame) resort() {
	if h.usePareto {
		h.resortPareto()
		return
	}
	sort.SliceStable(h.entries, func(i, j int) bool {
		return h.entries[i].Fitness > h.entries[j].Fitness
	})
}

func (h *HallOfFame) resortPareto() {
	individuals := make([]*pareto.Individual[*Entry], len(h.entries))
	for i, e := range h.entries {
		individuals[i] = &pareto.Individual[*Entry]{Data: e, Objectives: e.Objectives}
	}
	fronts := pareto.FastNonDominatedSort(individuals, h.directions)
	for _, front := range fronts {
		pareto.CalculateCrowdingDistance(individuals, front)
	}
	for _, ind := range individuals {
		ind.Data.Rank = ind.Rank
		ind.Data.Crowding = ind.Crowding
	}
	sort.SliceStable(h.entries, func(i, j int) bool {
		if h.entries[i].Rank != h.entries[j].Rank {
			return h.entries[i].Rank < h.entries[j].Rank
		}
		return h.entries[i].Crowding > h.entries[j].Crowding
	})
}

func (h *HallOfFame) trim() {
	if h.capacity <= 0 || len(h.entries) <= h.capacity {
		return
	}
	for _, evicted := range h.entries[h.capacity:] {
		delete(h.bySignature, evicted.Signature)
	}
	h.entries = h.entries[:h.capacity]
}

// All returns every archived entry, best first.
func (h *HallOfFame) All() []*Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// TopN returns the best n entries, or fewer if the archive holds less.
func (h *HallOfFame) TopN(n int) []*Entry {
	all := h.All()
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// Filter returns every entry whose Fitness is at least threshold (scalar
// mode only).
func (h *HallOfFame) Filter(threshold float64) []*Entry {
	all := h.All()
	var out []*Entry
	for _, e := range all {
		if e.Fitness >= threshold {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the current archive size.
func (h *HallOfFame) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
