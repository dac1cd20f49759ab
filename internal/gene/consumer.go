// Package gene wraps a genome (a fixed-length sequence of uint32) with a
// cursor that deterministically yields choices, ranges, and floats, wrapping
// on exhaustion so the Semantic Mapper never fails on a short genome.
package gene

import "math"

// Genome is a vector of genes. Crossover produces new genomes; mutation
// rewrites genes in place, and the engine applies it only to freshly
// produced children, so a parent genome is never modified.
type Genome []uint32

// Clone returns an independent copy.
func (g Genome) Clone() Genome {
	c := make(Genome, len(g))
	copy(c, g)
	return c
}

// Consumer reads genes from a genome in order, wrapping the cursor modulo
// the genome's length on overflow. Identical genomes read through an
// identical sequence of Consumer calls always yield identical results.
type Consumer struct {
	genome   Genome
	position int
}

// New returns a Consumer positioned at the start of genome. genome must be
// non-empty; the mapper never constructs one over an empty genome.
func New(genome Genome) *Consumer {
	return &Consumer{genome: genome}
}

// Next consumes and returns the gene at the cursor, wrapping on overflow.
func (c *Consumer) Next() uint32 {
	if len(c.genome) == 0 {
		return 0
	}
	if c.position >= len(c.genome) {
		c.position = 0
	}
	v := c.genome[c.position]
	c.position++
	return v
}

// Choose consumes a gene and maps it to an index in [0, k). Choose(0)
// returns 0 rather than dividing by zero.
func (c *Consumer) Choose(k int) int {
	if k <= 0 {
		return 0
	}
	return int(c.Next()) % k
}

// IntRange consumes a gene and maps it into [lo, hi). Returns lo if
// lo >= hi.
func (c *Consumer) IntRange(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	span := uint32(hi - lo)
	return lo + int(c.Next()%span)
}

// FloatRange consumes a gene, normalizes it into [0,1), and affine-maps it
// into [lo, hi). Returns lo if lo >= hi.
func (c *Consumer) FloatRange(lo, hi float64) float64 {
	if lo >= hi {
		return lo
	}
	normalized := float64(c.Next()) / (math.MaxUint32 + 1)
	return lo + normalized*(hi-lo)
}

// Position reports the current cursor position (pre-wrap), mostly useful
// for tests asserting determinism.
func (c *Consumer) Position() int { return c.position }
