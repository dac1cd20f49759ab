package evolve

import (
	"math/rand"

	"github.com/sawpanic/tradebias/internal/gene"
)

// randomGenome draws a fresh genome of cfg.GenomeLength genes, each
// uniform in [cfg.GeneRangeLo, cfg.GeneRangeHi).
func randomGenome(rng *rand.Rand, cfg Config) gene.Genome {
	span := cfg.GeneRangeHi - cfg.GeneRangeLo
	g := make(gene.Genome, cfg.GenomeLength)
	for i := range g {
		g[i] = cfg.GeneRangeLo + uint32(rng.Int63n(int64(span)))
	}
	return g
}

// initialPopulation draws cfg.PopulationSize independent random genomes.
func initialPopulation(rng *rand.Rand, cfg Config) []gene.Genome {
	pop := make([]gene.Genome, cfg.PopulationSize)
	for i := range pop {
		pop[i] = randomGenome(rng, cfg)
	}
	return pop
}

// tournamentSelect picks tournamentSize indices uniformly from [0, n) and
// returns the best under better(i, j) — i preferred over j.
func tournamentSelect(rng *rand.Rand, n, tournamentSize int, better func(i, j int) bool) int {
	best := rng.Intn(n)
	for k := 1; k < tournamentSize; k++ {
		candidate := rng.Intn(n)
		if better(candidate, best) {
			best = candidate
		}
	}
	return best
}

// crossover performs single-point crossover on two parents of equal
// length L >= 2, cutting at a uniform point in [1, L).
func crossover(rng *rand.Rand, p1, p2 gene.Genome) (gene.Genome, gene.Genome) {
	l := len(p1)
	if len(p2) < l {
		l = len(p2)
	}
	if l < 2 {
		return p1.Clone(), p2.Clone()
	}
	cut := 1 + rng.Intn(l-1)

	child1 := make(gene.Genome, len(p1))
	copy(child1, p1[:cut])
	copy(child1[cut:], p2[cut:])

	child2 := make(gene.Genome, len(p2))
	copy(child2, p2[:cut])
	copy(child2[cut:], p1[cut:])

	return child1, child2
}

// mutate replaces each gene independently with probability cfg.MutationRate
// with a fresh draw from the gene range, in place.
func mutate(rng *rand.Rand, g gene.Genome, cfg Config) {
	span := cfg.GeneRangeHi - cfg.GeneRangeLo
	for i := range g {
		if rng.Float64() < cfg.MutationRate {
			g[i] = cfg.GeneRangeLo + uint32(rng.Int63n(int64(span)))
		}
	}
}
