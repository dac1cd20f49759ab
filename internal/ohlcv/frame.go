// Package ohlcv holds the time-ordered bar frame the engine operates on.
package ohlcv

import (
	"strings"
	"time"

	"github.com/sawpanic/tradebias/internal/apperr"
)

// Frame is a columnar, time-ordered table of OHLCV bars. It is read-only
// once constructed.
type Frame struct {
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64
	Timestamp []time.Time // optional, may be nil
}

// Column returns the named column (case-insensitive), or an error if the
// name isn't one of the required OHLCV fields.
func (f *Frame) Column(name string) ([]float64, error) {
	switch strings.ToLower(name) {
	case "open":
		return f.Open, nil
	case "high":
		return f.High, nil
	case "low":
		return f.Low, nil
	case "close":
		return f.Close, nil
	case "volume":
		return f.Volume, nil
	default:
		return nil, apperr.New(apperr.Evaluation, "unknown column "+name)
	}
}

// Len returns the number of bars in the frame.
func (f *Frame) Len() int { return len(f.Close) }

const minRows = 2

// Validate checks the invariants required at ingest.
func (f *Frame) Validate() error {
	n := len(f.Close)
	if n < minRows {
		return apperr.New(apperr.Data, "frame has fewer than the minimum required rows")
	}
	for _, col := range []struct {
		name string
		vals []float64
	}{
		{"open", f.Open}, {"high", f.High}, {"low", f.Low}, {"close", f.Close}, {"volume", f.Volume},
	} {
		if len(col.vals) != n {
			return apperr.New(apperr.Data, "column "+col.name+" has mismatched length")
		}
	}
	for i := 0; i < n; i++ {
		hi, lo, o, c := f.High[i], f.Low[i], f.Open[i], f.Close[i]
		if hi < o || hi < c || hi < lo {
			return apperr.New(apperr.Data, "OHLC invariant violated: high is not the max of open/high/low/close")
		}
		if lo > o || lo > c || lo > hi {
			return apperr.New(apperr.Data, "OHLC invariant violated: low is not the min of open/low/high/close")
		}
	}
	if f.Timestamp != nil && len(f.Timestamp) != n {
		return apperr.New(apperr.Data, "timestamp column has mismatched length")
	}
	return nil
}

// Slice returns a view over [start, start+length) without copying the
// backing arrays — used by the walk-forward splitter to carve IS/OOS folds.
func (f *Frame) Slice(start, length int) *Frame {
	end := start + length
	sliced := &Frame{
		Open:   f.Open[start:end],
		High:   f.High[start:end],
		Low:    f.Low[start:end],
		Close:  f.Close[start:end],
		Volume: f.Volume[start:end],
	}
	if f.Timestamp != nil {
		sliced.Timestamp = f.Timestamp[start:end]
	}
	return sliced
}
