// Package metrics derives profitability and risk statistics from a
// simulator result: per-trade P&L aggregates and equity-curve-derived
// risk ratios.
package metrics

import "github.com/sawpanic/tradebias/internal/simulate"

// Profitability holds the trade-ledger-derived metrics. Fields are zero
// (not omitted) when their precondition doesn't hold, e.g. AvgWin is zero
// with no winning trades — callers check NumTrades/NumWinning/NumLosing
// before trusting a derived ratio.
type Profitability struct {
	ReturnPct    float64
	WinRate      float64
	AvgWin       float64
	AvgLoss      float64
	ProfitFactor float64
	NumTrades    int
	NumWinning   int
	NumLosing    int
}

// ComputeProfitability summarizes trades against initialCapital. Returns
// the zero value if trades is empty.
func ComputeProfitability(trades []simulate.Trade, initialCapital float64) Profitability {
	var p Profitability
	if len(trades) == 0 {
		return p
	}
	p.NumTrades = len(trades)

	var totalProfit, grossProfit, grossLoss float64
	for _, t := range trades {
		totalProfit += t.RealizedProfit
		if t.RealizedProfit > 0 {
			p.NumWinning++
			grossProfit += t.RealizedProfit
		} else {
			p.NumLosing++
			grossLoss += -t.RealizedProfit
		}
	}

	if initialCapital > 0 {
		p.ReturnPct = totalProfit / initialCapital * 100
	}
	p.WinRate = float64(p.NumWinning) / float64(p.NumTrades) * 100
	if p.NumWinning > 0 {
		p.AvgWin = grossProfit / float64(p.NumWinning)
	}
	if p.NumLosing > 0 {
		p.AvgLoss = grossLoss / float64(p.NumLosing)
	}
	if grossLoss > 0 {
		p.ProfitFactor = grossProfit / grossLoss
	}
	return p
}
