package walkforward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/ohlcv"
)

func frameOfLen(n int) *ohlcv.Frame {
	f := &ohlcv.Frame{
		Open: make([]float64, n), High: make([]float64, n),
		Low: make([]float64, n), Close: make([]float64, n), Volume: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		f.Open[i], f.High[i], f.Low[i], f.Close[i] = 100, 101, 99, 100
		f.Volume[i] = 1
	}
	return f
}

func TestSlidingSplitterMatchesWorkedExample(t *testing.T) {
	frame := frameOfLen(120)
	splitter := SlidingSplitter{NFolds: 3, InSamplePct: 0.7}

	folds := splitter.Split(frame)
	require.Len(t, folds, 3)

	for i, fold := range folds {
		assert.Equal(t, i, fold.FoldNum)
		assert.Len(t, fold.InSample.Close, 21)
		assert.Len(t, fold.OutSample.Close, 9)
	}
}

func TestSlidingSplitterEmptyWhenFrameShorterThanOneWindow(t *testing.T) {
	frame := frameOfLen(3)
	splitter := SlidingSplitter{NFolds: 4, InSamplePct: 0.7} // window = 3/5 = 0
	folds := splitter.Split(frame)
	assert.Empty(t, folds)
}

func TestAnchoredSplitterGrowsInSampleWindow(t *testing.T) {
	frame := frameOfLen(120)
	splitter := AnchoredSplitter{NFolds: 3}
	folds := splitter.Split(frame)
	require.Len(t, folds, 3)

	oosLen := 120 / 4
	for k, fold := range folds {
		assert.Len(t, fold.InSample.Close, (k+1)*oosLen)
		assert.Len(t, fold.OutSample.Close, oosLen)
	}
}

func TestAggregateOutOfSampleComputesMeanStdMinMax(t *testing.T) {
	results := []FoldResult{
		{OutOfSample: map[string]float64{"sharpe_ratio": 1.0}},
		{OutOfSample: map[string]float64{"sharpe_ratio": 2.0}},
		{OutOfSample: map[string]float64{"sharpe_ratio": 3.0}},
	}
	stats := aggregateOutOfSample(results)
	s := stats["sharpe_ratio"]
	assert.InDelta(t, 2.0, s.Mean, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
	assert.InDelta(t, 0.816496580927726, s.Std, 1e-9)
}
