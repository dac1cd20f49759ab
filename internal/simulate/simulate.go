// Package simulate runs a materialized signal column against a bar frame,
// producing a trade ledger and equity curve via a bar-by-bar position
// state machine.
package simulate

import (
	"github.com/sawpanic/tradebias/internal/apperr"
	"github.com/sawpanic/tradebias/internal/ohlcv"
)

// Direction is the side of an open or closed position.
type Direction int

const (
	Long Direction = iota
	Short
)

func (d Direction) String() string {
	if d == Long {
		return "Long"
	}
	return "Short"
}

// ExitReason classifies why a position was closed. Only Signal is produced
// by the current state machine; StopLoss, TakeProfit, and EndOfData are
// carried in the type for configurations that add those policies later.
type ExitReason int

const (
	Signal ExitReason = iota
	StopLoss
	TakeProfit
	EndOfData
)

func (r ExitReason) String() string {
	switch r {
	case Signal:
		return "Signal"
	case StopLoss:
		return "StopLoss"
	case TakeProfit:
		return "TakeProfit"
	case EndOfData:
		return "EndOfData"
	default:
		return "Unknown"
	}
}

// Trade is a closed position.
type Trade struct {
	EntryBar       int
	ExitBar        int
	EntryPrice     float64
	ExitPrice      float64
	Direction      Direction
	Size           float64
	RealizedProfit float64
	ExitReason     ExitReason
	Fees           float64
}

// Config controls position sizing and transaction cost policy.
type Config struct {
	InitialCapital   float64
	PositionFraction float64 // fraction of cash committed to a new position
	CommissionRate   float64 // multiplicative cost applied at entry and exit
	SlippageRate     float64 // multiplicative adverse price adjustment
}

// DefaultConfig matches the simulator's documented defaults.
func DefaultConfig() Config {
	return Config{InitialCapital: 10000, PositionFraction: 0.1}
}

// Result is the outcome of a full-frame simulation.
type Result struct {
	Trades       []Trade
	EquityCurve  []float64
	FinalCash    float64
	FinalEquity  float64
	PeakEquity   float64
	MaxDrawdown  float64 // as a fraction of peak equity, always >= 0
}

type openPosition struct {
	direction  Direction
	entryBar   int
	entryPrice float64
	size       float64
}

// Run executes signal against frame's close prices, bar by bar. signal and
// frame must have equal length.
func Run(signal []float64, frame *ohlcv.Frame, cfg Config) (*Result, error) {
	if len(signal) != frame.Len() {
		return nil, apperr.New(apperr.Evaluation, "simulate: signal length does not match frame length")
	}
	if cfg.InitialCapital <= 0 {
		return nil, apperr.New(apperr.Configuration, "simulate: initial_capital must be positive")
	}
	if cfg.PositionFraction <= 0 || cfg.PositionFraction > 1 {
		return nil, apperr.New(apperr.Configuration, "simulate: position_fraction must be in (0, 1]")
	}

	s := &state{
		cfg:         cfg,
		cash:        cfg.InitialCapital,
		peakEquity:  cfg.InitialCapital,
		equityCurve: []float64{cfg.InitialCapital},
	}

	close := frame.Close
	for i, sig := range signal {
		s.processBar(i, sig, close[i])
	}

	return &Result{
		Trades:      s.trades,
		EquityCurve: s.equityCurve,
		FinalCash:   s.cash,
		FinalEquity: s.lastEquity(),
		PeakEquity:  s.peakEquity,
		MaxDrawdown: s.maxDrawdown,
	}, nil
}

type state struct {
	cfg         Config
	cash        float64
	position    *openPosition
	trades      []Trade
	equityCurve []float64
	peakEquity  float64
	maxDrawdown float64
}

// processBar implements the state-transition table of §4.F: open on a
// fresh signal, close on a sign flip against an open position, hold
// otherwise.
func (s *state) processBar(bar int, signal, price float64) {
	switch {
	case s.position == nil && signal > 0:
		s.open(bar, Long, price)
	case s.position == nil && signal < 0:
		s.open(bar, Short, price)
	case s.position != nil && s.position.direction == Long && signal < 0:
		s.close(bar, price, Signal)
	case s.position != nil && s.position.direction == Short && signal > 0:
		s.close(bar, price, Signal)
	}
	s.markToMarket(price)
}

func (s *state) open(bar int, direction Direction, price float64) {
	entryPrice := s.adjustedEntryPrice(direction, price)
	size := (s.cash * s.cfg.PositionFraction) / entryPrice
	if direction == Long {
		s.cash -= size * entryPrice
	} else {
		s.cash += size * entryPrice
	}
	s.position = &openPosition{direction: direction, entryBar: bar, entryPrice: entryPrice, size: size}
}

func (s *state) close(bar int, price float64, reason ExitReason) {
	pos := s.position
	exitPrice := s.adjustedExitPrice(pos.direction, price)

	var profit float64
	if pos.direction == Long {
		profit = (exitPrice - pos.entryPrice) * pos.size
		s.cash += exitPrice * pos.size
	} else {
		profit = (pos.entryPrice - exitPrice) * pos.size
		s.cash -= exitPrice * pos.size // buy back to close; opening proceeds are already in cash
	}

	fees := s.commission(pos.entryPrice, pos.size) + s.commission(exitPrice, pos.size)
	s.cash -= fees

	s.trades = append(s.trades, Trade{
		EntryBar:       pos.entryBar,
		ExitBar:        bar,
		EntryPrice:     pos.entryPrice,
		ExitPrice:      exitPrice,
		Direction:      pos.direction,
		Size:           pos.size,
		RealizedProfit: profit - fees,
		ExitReason:     reason,
		Fees:           fees,
	})
	s.position = nil
}

func (s *state) commission(price, size float64) float64 {
	if s.cfg.CommissionRate <= 0 {
		return 0
	}
	return price * size * s.cfg.CommissionRate
}

func (s *state) adjustedEntryPrice(direction Direction, price float64) float64 {
	if s.cfg.SlippageRate <= 0 {
		return price
	}
	if direction == Long {
		return price * (1 + s.cfg.SlippageRate)
	}
	return price * (1 - s.cfg.SlippageRate)
}

func (s *state) adjustedExitPrice(direction Direction, price float64) float64 {
	if s.cfg.SlippageRate <= 0 {
		return price
	}
	if direction == Long {
		return price * (1 - s.cfg.SlippageRate)
	}
	return price * (1 + s.cfg.SlippageRate)
}

func (s *state) markToMarket(price float64) {
	equity := s.cash
	if s.position != nil {
		pos := s.position
		value := pos.size * price
		if pos.direction == Short {
			equity -= value
		} else {
			equity += value
		}
	}
	s.equityCurve = append(s.equityCurve, equity)
	if equity > s.peakEquity {
		s.peakEquity = equity
	}
	if s.peakEquity > 0 {
		dd := (s.peakEquity - equity) / s.peakEquity
		if dd > s.maxDrawdown {
			s.maxDrawdown = dd
		}
	}
}

func (s *state) lastEquity() float64 {
	if len(s.equityCurve) == 0 {
		return s.cash
	}
	return s.equityCurve[len(s.equityCurve)-1]
}
