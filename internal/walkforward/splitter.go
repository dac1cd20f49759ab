// Package walkforward wraps a single strategy evaluation into time-respecting
// cross-validation: a splitter carves a frame into sequential in-sample/
// out-of-sample folds, and the method evaluates each fold and aggregates the
// out-of-sample statistics.
package walkforward

import "github.com/sawpanic/tradebias/internal/ohlcv"

// Fold is one in-sample/out-of-sample pair carved from a frame.
type Fold struct {
	FoldNum   int
	InSample  *ohlcv.Frame
	OutSample *ohlcv.Frame
}

// Splitter produces an ordered list of folds over frame.
type Splitter interface {
	Split(frame *ohlcv.Frame) []Fold
}

// SlidingSplitter divides the frame into nFolds+1 equal windows; within
// each window, the leading inSamplePct fraction is in-sample and the
// remainder is out-of-sample. Folds whose window would extend past the
// frame's length are omitted.
type SlidingSplitter struct {
	NFolds      int
	InSamplePct float64
}

func (s SlidingSplitter) Split(frame *ohlcv.Frame) []Fold {
	n := frame.Len()
	window := n / (s.NFolds + 1)
	if window <= 0 {
		return nil
	}
	isLen := int(float64(window) * s.InSamplePct)
	oosLen := window - isLen

	var folds []Fold
	for k := 0; k < s.NFolds; k++ {
		start := k * window
		oosEnd := start + window
		if oosEnd > n {
			break
		}
		folds = append(folds, Fold{
			FoldNum:   k,
			InSample:  frame.Slice(start, isLen),
			OutSample: frame.Slice(start+isLen, oosLen),
		})
	}
	return folds
}

// AnchoredSplitter grows the in-sample window from the start of the frame
// on every fold, always validating against the next fixed-size
// out-of-sample block.
type AnchoredSplitter struct {
	NFolds int
}

func (a AnchoredSplitter) Split(frame *ohlcv.Frame) []Fold {
	n := frame.Len()
	oosLen := n / (a.NFolds + 1)
	if oosLen <= 0 {
		return nil
	}

	var folds []Fold
	for k := 0; k < a.NFolds; k++ {
		isEnd := (k + 1) * oosLen
		oosEnd := (k + 2) * oosLen
		if oosEnd > n {
			break
		}
		folds = append(folds, Fold{
			FoldNum:   k,
			InSample:  frame.Slice(0, isEnd),
			OutSample: frame.Slice(isEnd, oosLen),
		})
	}
	return folds
}
