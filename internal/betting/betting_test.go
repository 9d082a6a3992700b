package betting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-sim/internal/deck"
)

type fakeShoe struct {
	played      map[deck.Card]int
	decks       float64
	probability float64
}

func (f fakeShoe) Played() map[deck.Card]int     { return f.played }
func (f fakeShoe) DecksRemaining() float64       { return f.decks }
func (f fakeShoe) BlackjackProbability() float64 { return f.probability }

var limits = Limits{Min: 1, Max: 20}

func TestNew(t *testing.T) {
	for _, kind := range []Kind{KindTableMinimum, KindProgressive, KindProgressiveReset, KindCount, KindBlackjackOptimized} {
		p, err := New(kind, limits)
		require.NoError(t, err)
		assert.Equal(t, kind, p.Kind())
	}

	_, err := New("martingale", limits)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestTableMinimum(t *testing.T) {
	p := NewTableMinimum(5)
	assert.Equal(t, 5.0, p.BetAmount(Context{}))

	p.Loss()
	p.Loss()
	assert.Equal(t, 5.0, p.BetAmount(Context{}))
}

func TestProgressive(t *testing.T) {
	t.Run("doubles after loss", func(t *testing.T) {
		p := NewProgressive(limits, false)
		expected := []float64{1, 2, 4, 8, 16}
		for _, want := range expected {
			assert.Equal(t, want, p.BetAmount(Context{}))
			p.Loss()
		}
	})

	t.Run("clamps at max", func(t *testing.T) {
		p := NewProgressive(limits, false)
		for range 5 {
			p.Loss()
		}
		assert.Equal(t, 20.0, p.BetAmount(Context{}))
		p.Loss()
		assert.Equal(t, 20.0, p.BetAmount(Context{}))
	})

	t.Run("resets at max", func(t *testing.T) {
		p := NewProgressive(limits, true)
		for range 4 {
			p.Loss()
		}
		assert.Equal(t, 16.0, p.BetAmount(Context{}))
		p.Loss()
		assert.Equal(t, 1.0, p.BetAmount(Context{}))
	})

	t.Run("win and tie reset", func(t *testing.T) {
		p := NewProgressive(limits, false)
		p.Loss()
		p.Loss()
		p.Win(false)
		assert.Equal(t, 1.0, p.BetAmount(Context{}))

		p.Loss()
		p.Tie()
		assert.Equal(t, 1.0, p.BetAmount(Context{}))
	})

	t.Run("records by multiplier", func(t *testing.T) {
		p := NewProgressive(limits, false)
		p.Loss()
		p.Win(true)

		snap := p.Snapshot()
		require.Len(t, snap.Records, 2)
		assert.Equal(t, 1.0, snap.Records[0].Multiplier)
		assert.Equal(t, 1, snap.Records[0].Outcome.Losses)
		assert.Equal(t, 2.0, snap.Records[1].Multiplier)
		assert.Equal(t, 1, snap.Records[1].Outcome.NaturalWins)
	})
}

func TestRunningCount(t *testing.T) {
	played := map[deck.Card]int{
		deck.Ace:   2,
		deck.Face:  3,
		deck.Seven: 4,
		deck.Two:   6,
		deck.Five:  3,
	}
	assert.Equal(t, 2+3-6-3, RunningCount(played))
}

func TestCount(t *testing.T) {
	tests := []struct {
		name   string
		played map[deck.Card]int
		decks  float64
		want   float64
	}{
		{"negative count doubles", map[deck.Card]int{deck.Two: 4}, 2, 2},
		{"positive count floors at minimum", map[deck.Card]int{deck.Face: 10}, 1, 1},
		{"capped at max", map[deck.Card]int{deck.Three: 30}, 0.5, 20},
		{"half deck amplifies", map[deck.Card]int{deck.Four: 3}, 0.5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewCount(limits)
			got := p.BetAmount(Context{Shoe: fakeShoe{played: tt.played, decks: tt.decks}})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, p.Multiplier())
		})
	}
}

func TestCountScalesWithMinimum(t *testing.T) {
	p := NewCount(Limits{Min: 5, Max: 100})
	got := p.BetAmount(Context{Shoe: fakeShoe{played: map[deck.Card]int{deck.Two: 4}, decks: 2}})
	assert.Equal(t, 10.0, got)
	assert.Equal(t, 2.0, p.Multiplier())
}

func TestBlackjackOptimized(t *testing.T) {
	p := NewBlackjackOptimized(limits)

	// First use: average is zero, so the multiplier saturates.
	got := p.BetAmount(Context{Shoe: fakeShoe{probability: 0.0475}})
	assert.Equal(t, 20.0, got)
	assert.InDelta(t, 4.75, p.Average(), 1e-9)

	// Same probability again: no edge over the average.
	got = p.BetAmount(Context{Shoe: fakeShoe{probability: 0.0475}})
	assert.Equal(t, 1.0, got)
	assert.InDelta(t, 4.75, p.Average(), 1e-9)

	// 0.6 points above average: round(3.0) = 3
	got = p.BetAmount(Context{Shoe: fakeShoe{probability: 0.0535}})
	assert.Equal(t, 3.0, got)
	assert.InDelta(t, (4.75*2+5.35)/3, p.Average(), 1e-9)
	assert.InDelta(t, 5.35, p.Highest(), 1e-9)

	// Below average clamps to 1
	got = p.BetAmount(Context{Shoe: fakeShoe{probability: 0.03}})
	assert.Equal(t, 1.0, got)

	snap := p.Snapshot()
	assert.InDelta(t, 5.35, snap.HighestNatural, 1e-9)

	p.Reset()
	assert.Equal(t, 0.0, p.Average())
	assert.Equal(t, 0.0, p.Highest())
	assert.Empty(t, p.Snapshot().Records)
}

func TestBlackjackOptimizedRespectsTableMax(t *testing.T) {
	p := NewBlackjackOptimized(Limits{Min: 5, Max: 50})
	got := p.BetAmount(Context{Shoe: fakeShoe{probability: 0.05}})
	assert.Equal(t, 50.0, got)
	assert.Equal(t, float64(MaxOptimizedMultiplier), p.Multiplier())
}
