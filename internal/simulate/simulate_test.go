package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/ohlcv"
)

func frameOf(close []float64) *ohlcv.Frame {
	n := len(close)
	f := &ohlcv.Frame{Open: make([]float64, n), High: make([]float64, n), Low: make([]float64, n), Close: close, Volume: make([]float64, n)}
	for i, c := range close {
		f.Open[i], f.High[i], f.Low[i] = c, c, c
	}
	return f
}

func TestConstantLongNeverExits(t *testing.T) {
	close := []float64{100, 101, 102, 101.5, 103, 104, 105, 106}
	signal := make([]float64, len(close))
	for i := range signal {
		signal[i] = 1.0
	}
	res, err := Run(signal, frameOf(close), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Trades)
	assert.Greater(t, res.FinalEquity, DefaultConfig().InitialCapital)
}

func TestLongProfitableRoundTrip(t *testing.T) {
	close := []float64{100, 110}
	signal := []float64{1, -1}
	res, err := Run(signal, frameOf(close), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	trade := res.Trades[0]
	assert.Equal(t, Long, trade.Direction)
	assert.InDelta(t, 10.0, trade.Size, 1e-9)
	assert.InDelta(t, 100.0, trade.RealizedProfit, 1e-9)
	assert.InDelta(t, 10100.0, res.FinalCash, 1e-9)
}

func TestShortProfitableRoundTrip(t *testing.T) {
	close := []float64{100, 90}
	signal := []float64{-1, 1}
	res, err := Run(signal, frameOf(close), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	trade := res.Trades[0]
	assert.Equal(t, Short, trade.Direction)
	assert.InDelta(t, 10.0, trade.Size, 1e-9)
	assert.InDelta(t, 100.0, trade.RealizedProfit, 1e-9)
	assert.InDelta(t, 10100.0, res.FinalCash, 1e-9)
	assert.InDelta(t, 10100.0, res.EquityCurve[len(res.EquityCurve)-1], 1e-9)
}

func TestCompoundingSizesGrowBetweenTrades(t *testing.T) {
	close := []float64{100, 110, 110, 121}
	signal := []float64{1, -1, 1, -1}
	res, err := Run(signal, frameOf(close), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Trades, 2)
	first, second := res.Trades[0], res.Trades[1]
	assert.InDelta(t, 9.1818, second.Size, 1e-3)
	assert.Greater(t, second.Size*second.EntryPrice, first.Size*first.EntryPrice)
}

func TestZeroSignalHoldsRatherThanCloses(t *testing.T) {
	close := []float64{100, 100, 100}
	signal := []float64{1, 0, 0}
	res, err := Run(signal, frameOf(close), DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Trades)
}

func TestRejectsMismatchedLengths(t *testing.T) {
	_, err := Run([]float64{1, 0}, frameOf([]float64{100, 101, 102}), DefaultConfig())
	assert.Error(t, err)
}

func TestEquityCurveSeededWithInitialCapital(t *testing.T) {
	close := []float64{100, 101, 102, 103}
	signal := []float64{1, 0, -1, 0}
	cfg := DefaultConfig()
	res, err := Run(signal, frameOf(close), cfg)
	require.NoError(t, err)
	require.Len(t, res.EquityCurve, 1+len(close))
	assert.Equal(t, cfg.InitialCapital, res.EquityCurve[0])
}
