package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/tradebias/internal/simulate"
)

func TestComputeProfitabilityEmpty(t *testing.T) {
	p := ComputeProfitability(nil, 10000)
	assert.Equal(t, Profitability{}, p)
}

func TestComputeProfitabilityMixedTrades(t *testing.T) {
	trades := []simulate.Trade{
		{RealizedProfit: 100},
		{RealizedProfit: -50},
		{RealizedProfit: 200},
	}
	p := ComputeProfitability(trades, 10000)
	assert.Equal(t, 3, p.NumTrades)
	assert.Equal(t, 2, p.NumWinning)
	assert.Equal(t, 1, p.NumLosing)
	assert.InDelta(t, 2.5, p.ReturnPct, 1e-9)
	assert.InDelta(t, 150.0, p.AvgWin, 1e-9)
	assert.InDelta(t, 50.0, p.AvgLoss, 1e-9)
	assert.InDelta(t, 6.0, p.ProfitFactor, 1e-9)
}

func TestComputeRiskShortCurve(t *testing.T) {
	assert.Equal(t, Risk{}, ComputeRisk([]float64{10000}))
}

func TestComputeRiskDrawdown(t *testing.T) {
	equity := []float64{100, 110, 90, 120}
	r := ComputeRisk(equity)
	assert.InDelta(t, (110.0-90.0)/110.0*100, r.MaxDrawdownPct, 1e-9)
}
