package pareto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func individualsFrom(objectives [][]float64) []*Individual[int] {
	out := make([]*Individual[int], len(objectives))
	for i, o := range objectives {
		out[i] = &Individual[int]{Data: i, Objectives: o}
	}
	return out
}

func TestFastNonDominatedSortPeelsFronts(t *testing.T) {
	// Maximize both objectives: (1,5),(3,3),(5,1),(2,2),(1,1).
	// Every point except (1,1) and (2,2) lies on the tradeoff frontier;
	// (1,1) is dominated by everything, (2,2) is dominated by (3,3).
	individuals := individualsFrom([][]float64{
		{1, 5}, {3, 3}, {5, 1}, {2, 2}, {1, 1},
	})
	directions := []Direction{Maximize, Maximize}

	fronts := FastNonDominatedSort(individuals, directions)
	require.NotEmpty(t, fronts)

	front0 := map[int]bool{}
	for _, i := range fronts[0] {
		front0[i] = true
	}
	assert.True(t, front0[0]) // (1,5)
	assert.True(t, front0[1]) // (3,3)
	assert.True(t, front0[2]) // (5,1)
	assert.False(t, front0[3]) // (2,2) dominated by (3,3)
	assert.False(t, front0[4]) // (1,1) dominated by all

	assert.Equal(t, 0, individuals[0].Rank)
	assert.Greater(t, individuals[4].Rank, 0)
}

func TestCrowdingDistanceBoundariesAreInfinite(t *testing.T) {
	individuals := individualsFrom([][]float64{{1, 5}, {3, 3}, {5, 1}})
	front := []int{0, 1, 2}
	CalculateCrowdingDistance(individuals, front)
	assert.True(t, math.IsInf(individuals[0].Crowding, 1))
	assert.True(t, math.IsInf(individuals[2].Crowding, 1))
	assert.False(t, math.IsInf(individuals[1].Crowding, 1))
}

func TestCrowdingDistanceSmallFrontAllInfinite(t *testing.T) {
	individuals := individualsFrom([][]float64{{1, 5}, {3, 3}})
	CalculateCrowdingDistance(individuals, []int{0, 1})
	assert.True(t, math.IsInf(individuals[0].Crowding, 1))
	assert.True(t, math.IsInf(individuals[1].Crowding, 1))
}

func TestCrowdedComparisonPrefersLowerRankThenHigherCrowding(t *testing.T) {
	a := &Individual[int]{Rank: 0, Crowding: 1.0}
	b := &Individual[int]{Rank: 1, Crowding: 100.0}
	assert.True(t, CrowdedComparison(a, b))

	c := &Individual[int]{Rank: 0, Crowding: 5.0}
	d := &Individual[int]{Rank: 0, Crowding: 1.0}
	assert.True(t, CrowdedComparison(c, d))
}

