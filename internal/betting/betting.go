// Package betting provides the interchangeable wager sizing policies a wallet
// can own. Every policy tracks the multiplier it last used and tallies
// outcomes per multiplier for later analysis.
package betting

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/blackjack-sim/internal/deck"
	"github.com/lox/blackjack-sim/internal/statistics"
)

// ErrInvalidBet indicates a policy produced a non-positive wager.
var ErrInvalidBet = errors.New("betting: invalid bet amount")

// ErrUnknownKind indicates a policy name that does not match any variant.
var ErrUnknownKind = errors.New("betting: unknown policy")

// Shoe is the read-only view of the card source a policy may consult.
type Shoe interface {
	Played() map[deck.Card]int
	DecksRemaining() float64
	BlackjackProbability() float64
}

// Context carries what a policy may look at when sizing the next wager.
type Context struct {
	Shoe        Shoe
	HandsPlayed int
}

// Policy sizes wagers and learns from outcomes.
type Policy interface {
	// Kind identifies the variant.
	Kind() Kind
	// BetAmount returns the next wager in money units.
	BetAmount(ctx Context) float64
	// Win records a won hand; natural is true for a paid natural.
	Win(natural bool)
	// Loss records a lost hand.
	Loss()
	// Tie records a push.
	Tie()
	// Reset returns the policy to its initial state.
	Reset()
	// Snapshot reports the policy's current state.
	Snapshot() Snapshot
}

// Kind names a policy variant.
type Kind string

const (
	KindTableMinimum       Kind = "table-minimum"
	KindProgressive        Kind = "progressive"
	KindProgressiveReset   Kind = "progressive-reset"
	KindCount              Kind = "count"
	KindBlackjackOptimized Kind = "blackjack-optimized"
)

// Limits are the table wager bounds a policy operates within.
type Limits struct {
	Min float64
	Max float64
}

// New creates the policy variant named by kind.
func New(kind Kind, limits Limits) (Policy, error) {
	switch kind {
	case KindTableMinimum:
		return NewTableMinimum(limits.Min), nil
	case KindProgressive:
		return NewProgressive(limits, false), nil
	case KindProgressiveReset:
		return NewProgressive(limits, true), nil
	case KindCount:
		return NewCount(limits), nil
	case KindBlackjackOptimized:
		return NewBlackjackOptimized(limits), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Record is the outcome tally for one multiplier value.
type Record struct {
	Multiplier float64            `json:"multiplier"`
	Outcome    statistics.Outcome `json:"outcome"`
}

// Snapshot is a point-in-time view of a policy for reporting.
type Snapshot struct {
	Kind       Kind     `json:"kind"`
	Multiplier float64  `json:"multiplier"`
	Records    []Record `json:"records"`

	// Natural probability figures, in percent. Only the blackjack optimized
	// policy fills these.
	AverageNatural float64 `json:"average_natural,omitempty"`
	HighestNatural float64 `json:"highest_natural,omitempty"`
}

// tracker holds the multiplier and outcome tallies every policy shares.
type tracker struct {
	multiplier float64
	records    map[float64]*statistics.Outcome
}

func newTracker() tracker {
	return tracker{
		multiplier: 1,
		records:    make(map[float64]*statistics.Outcome),
	}
}

func (t *tracker) outcome() *statistics.Outcome {
	o, ok := t.records[t.multiplier]
	if !ok {
		o = &statistics.Outcome{}
		t.records[t.multiplier] = o
	}
	return o
}

func (t *tracker) Win(natural bool) {
	t.outcome().AddWin(natural)
}

func (t *tracker) Loss() {
	t.outcome().AddLoss()
}

func (t *tracker) Tie() {
	t.outcome().AddTie()
}

func (t *tracker) Reset() {
	t.multiplier = 1
	clear(t.records)
}

// Multiplier returns the multiplier last used.
func (t *tracker) Multiplier() float64 {
	return t.multiplier
}

func (t *tracker) snapshot(kind Kind) Snapshot {
	records := make([]Record, 0, len(t.records))
	for m, o := range t.records {
		records = append(records, Record{Multiplier: m, Outcome: *o})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Multiplier < records[j].Multiplier
	})

	return Snapshot{
		Kind:       kind,
		Multiplier: t.multiplier,
		Records:    records,
	}
}
