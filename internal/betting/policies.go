package betting

import (
	"math"

	"github.com/lox/blackjack-sim/internal/deck"
)

// TableMinimum always wagers the table minimum.
type TableMinimum struct {
	tracker
	min float64
}

// NewTableMinimum creates a flat table minimum policy.
func NewTableMinimum(minimum float64) *TableMinimum {
	return &TableMinimum{tracker: newTracker(), min: minimum}
}

func (p *TableMinimum) Kind() Kind { return KindTableMinimum }

func (p *TableMinimum) BetAmount(Context) float64 {
	return p.min
}

func (p *TableMinimum) Snapshot() Snapshot {
	return p.snapshot(p.Kind())
}

// Progressive doubles its stake after every loss and drops back to the
// minimum after a win or a push. When the doubled stake would exceed the table
// maximum it is either held at the maximum or reset to the minimum.
type Progressive struct {
	tracker
	limits        Limits
	resetAfterMax bool
}

// NewProgressive creates a double-after-loss policy.
func NewProgressive(limits Limits, resetAfterMax bool) *Progressive {
	return &Progressive{tracker: newTracker(), limits: limits, resetAfterMax: resetAfterMax}
}

func (p *Progressive) Kind() Kind {
	if p.resetAfterMax {
		return KindProgressiveReset
	}
	return KindProgressive
}

func (p *Progressive) BetAmount(Context) float64 {
	return p.limits.Min * p.multiplier
}

func (p *Progressive) Win(natural bool) {
	p.tracker.Win(natural)
	p.multiplier = 1
}

func (p *Progressive) Tie() {
	p.tracker.Tie()
	p.multiplier = 1
}

func (p *Progressive) Loss() {
	p.tracker.Loss()

	p.multiplier *= 2
	if p.limits.Min*p.multiplier > p.limits.Max {
		if p.resetAfterMax {
			p.multiplier = 1
		} else {
			p.multiplier = p.limits.Max / p.limits.Min
		}
	}
}

func (p *Progressive) Snapshot() Snapshot {
	return p.snapshot(p.Kind())
}

// countWeights is the per-rank weight summed over played cards.
var countWeights = map[deck.Card]int{
	deck.Ace:   1,
	deck.Face:  1,
	deck.Nine:  0,
	deck.Eight: 0,
	deck.Seven: 0,
	deck.Six:   0,
	deck.Five:  -1,
	deck.Four:  -1,
	deck.Three: -1,
	deck.Two:   -1,
}

// RunningCount sums the rank weights of every played card.
func RunningCount(played map[deck.Card]int) int {
	count := 0
	for c, n := range played {
		count += countWeights[c] * n
	}
	return count
}

// Count sizes wagers from the running count normalised by the decks left.
type Count struct {
	tracker
	limits Limits
}

// NewCount creates a count based policy.
func NewCount(limits Limits) *Count {
	return &Count{tracker: newTracker(), limits: limits}
}

func (p *Count) Kind() Kind { return KindCount }

func (p *Count) BetAmount(ctx Context) float64 {
	count := float64(RunningCount(ctx.Shoe.Played()))
	multiplier := math.Max(1, -count/ctx.Shoe.DecksRemaining())

	amount := math.Min(p.limits.Min*multiplier, p.limits.Max)
	p.multiplier = amount / p.limits.Min
	return amount
}

func (p *Count) Snapshot() Snapshot {
	return p.snapshot(p.Kind())
}

const (
	// optimizedScale converts percentage points above the running average
	// into multiplier steps.
	optimizedScale = 5
	// MaxOptimizedMultiplier caps the blackjack optimized multiplier.
	MaxOptimizedMultiplier = 20
)

// BlackjackOptimized raises its stake in proportion to how far the shoe's
// current chance of a natural sits above the running average chance.
type BlackjackOptimized struct {
	tracker
	limits  Limits
	average float64
	highest float64
	samples int
}

// NewBlackjackOptimized creates a natural probability driven policy.
func NewBlackjackOptimized(limits Limits) *BlackjackOptimized {
	return &BlackjackOptimized{tracker: newTracker(), limits: limits}
}

func (p *BlackjackOptimized) Kind() Kind { return KindBlackjackOptimized }

func (p *BlackjackOptimized) BetAmount(ctx Context) float64 {
	percent := ctx.Shoe.BlackjackProbability() * 100

	multiplier := math.Round((percent - p.average) * optimizedScale)
	p.multiplier = math.Min(math.Max(multiplier, 1), MaxOptimizedMultiplier)

	n := float64(p.samples)
	p.average = p.average*(n/(n+1)) + percent*(1/(n+1))
	p.samples++
	if percent > p.highest {
		p.highest = percent
	}

	return math.Min(p.limits.Min*p.multiplier, p.limits.Max)
}

func (p *BlackjackOptimized) Reset() {
	p.tracker.Reset()
	p.average = 0
	p.highest = 0
	p.samples = 0
}

// Average returns the running average natural probability in percent.
func (p *BlackjackOptimized) Average() float64 {
	return p.average
}

// Highest returns the highest natural probability observed in percent.
func (p *BlackjackOptimized) Highest() float64 {
	return p.highest
}

func (p *BlackjackOptimized) Snapshot() Snapshot {
	s := p.snapshot(p.Kind())
	s.AverageNatural = p.average
	s.HighestNatural = p.highest
	return s
}
