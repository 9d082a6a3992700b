package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-sim/internal/betting"
	"github.com/lox/blackjack-sim/internal/deck"
	"github.com/lox/blackjack-sim/internal/randutil"
	"github.com/lox/blackjack-sim/internal/rules"
	"github.com/lox/blackjack-sim/internal/shoe"
	"github.com/lox/blackjack-sim/internal/strategy"
	"github.com/lox/blackjack-sim/internal/wallet"
)

const basicStrategy = "../../configs/strategy-4deck-h17.hcl"

// stackedShoe deals a fixed sequence of cards from the front.
type stackedShoe struct {
	cards    []deck.Card
	played   map[deck.Card]int
	burned   int
	resets   int
	finished bool
}

func stacked(cards ...deck.Card) *stackedShoe {
	return &stackedShoe{cards: cards, played: make(map[deck.Card]int)}
}

func (s *stackedShoe) Draw() (deck.Card, error) {
	if len(s.cards) == 0 {
		return 0, shoe.ErrInsufficientCards
	}
	c := s.cards[0]
	s.cards = s.cards[1:]
	s.played[c]++
	return c, nil
}

func (s *stackedShoe) Burn(n int) error {
	for range n {
		if _, err := s.Draw(); err != nil {
			return err
		}
		s.burned++
	}
	return nil
}

func (s *stackedShoe) IsFinished() bool { return s.finished || len(s.cards) == 0 }

func (s *stackedShoe) Reset() error {
	s.resets++
	s.finished = false
	return nil
}

func (s *stackedShoe) Played() map[deck.Card]int     { return s.played }
func (s *stackedShoe) DecksRemaining() float64       { return 4 }
func (s *stackedShoe) BlackjackProbability() float64 { return 0.0475 }

func flatRules() rules.Rules {
	r := rules.Default()
	r.Wallets = []rules.Wallet{{Name: "Flat", Policy: betting.KindTableMinimum}}
	return r
}

func basicTable(t *testing.T, r rules.Rules) *strategy.Table {
	t.Helper()
	table, err := strategy.Load(basicStrategy, r)
	require.NoError(t, err)
	return table
}

func newStackedGame(t *testing.T, r rules.Rules, seats int, src Source) *Game {
	t.Helper()
	g, err := New(Config{
		Rules:    r,
		Strategy: basicTable(t, r),
		Seats:    seats,
		Shoe:     src,
		Logger:   log.New(io.Discard),
	})
	require.NoError(t, err)
	return g
}

func flat(t *testing.T, g *Game) *wallet.Wallet {
	t.Helper()
	w, ok := g.Player().Wallet("Flat")
	require.True(t, ok)
	return w
}

func TestNewValidatesSeats(t *testing.T) {
	r := rules.Default()
	table := basicTable(t, r)

	for _, seats := range []int{0, -1, r.MaxSeats + 1} {
		_, err := New(Config{Rules: r, Strategy: table, Seats: seats, Rng: randutil.New(1)})
		assert.ErrorIs(t, err, ErrSeatCount, "seats=%d", seats)
	}

	for _, seats := range []int{1, r.MaxSeats} {
		_, err := New(Config{Rules: r, Strategy: table, Seats: seats, Rng: randutil.New(1)})
		assert.NoError(t, err, "seats=%d", seats)
	}
}

func TestNewRequiresStrategy(t *testing.T) {
	_, err := New(Config{Rules: rules.Default(), Seats: 1, Rng: randutil.New(1)})
	assert.ErrorIs(t, err, ErrNoStrategy)
}

func TestDefaultWallets(t *testing.T) {
	r := rules.Default()
	g, err := New(Config{Rules: r, Strategy: basicTable(t, r), Seats: 1, Rng: randutil.New(1)})
	require.NoError(t, err)

	var names []string
	for _, w := range g.Player().Wallets() {
		names = append(names, w.Name())
	}
	assert.Equal(t, []string{
		"Table Minimum",
		"Progressive",
		"Progressive with Reset",
		"Count Basic",
		"Blackjack Optimized",
	}, names)

	err = g.AddWallet(wallet.New("Progressive", betting.NewTableMinimum(1), 0))
	assert.ErrorIs(t, err, ErrDuplicateWallet)
}

func TestPlayerNaturalPaysBlackjackPayout(t *testing.T) {
	src := stacked(deck.Ace, deck.Face, deck.Face, deck.Seven)
	g := newStackedGame(t, flatRules(), 1, src)

	require.NoError(t, g.PlayRound())

	w := flat(t, g)
	// Stake of 1 returned as 2.5.
	assert.InDelta(t, 1.5, w.Balance(), 1e-9)
	assert.Equal(t, 1, g.Player().Outcome.Wins)
	assert.Equal(t, 1, g.Player().Outcome.NaturalWins)
	assert.Equal(t, 1, g.Dealer().Outcome.Losses)
	assert.Equal(t, 1, g.Stats().Hands)
}

func TestDealerNatural(t *testing.T) {
	t.Run("beats player", func(t *testing.T) {
		src := stacked(deck.Face, deck.Nine, deck.Ace, deck.Face)
		g := newStackedGame(t, flatRules(), 1, src)

		require.NoError(t, g.PlayRound())
		assert.InDelta(t, -1, flat(t, g).Balance(), 1e-9)
		assert.Equal(t, 1, g.Player().Outcome.Losses)
		assert.Equal(t, 1, g.Dealer().Outcome.NaturalWins)
	})

	t.Run("ties player natural", func(t *testing.T) {
		src := stacked(deck.Face, deck.Ace, deck.Ace, deck.Face)
		g := newStackedGame(t, flatRules(), 1, src)

		require.NoError(t, g.PlayRound())
		assert.InDelta(t, 0, flat(t, g).Balance(), 1e-9)
		assert.Equal(t, 1, g.Player().Outcome.Ties)
		assert.Equal(t, 1, g.Player().NaturalTies)
		assert.Equal(t, 1, g.Dealer().NaturalTies)
	})
}

func TestHardFifteenAgainstFaceHits(t *testing.T) {
	src := stacked(deck.Nine, deck.Six, deck.Face, deck.Seven, deck.Face)
	g := newStackedGame(t, flatRules(), 1, src)

	require.NoError(t, g.PlayRound())

	p := g.Player()
	assert.Equal(t, 1, p.Actions.Hit)
	assert.Equal(t, 1, p.Actions.Bust)
	assert.Equal(t, 1, p.Outcome.Losses)
	assert.Equal(t, 1, g.Dealer().Actions.Stand)
	assert.InDelta(t, -1, flat(t, g).Balance(), 1e-9)
}

func TestDealerPlaysAfterPlayerBustByDefault(t *testing.T) {
	cards := []deck.Card{deck.Nine, deck.Six, deck.Face, deck.Six, deck.Face, deck.Two}

	g := newStackedGame(t, flatRules(), 1, stacked(cards...))
	require.NoError(t, g.PlayRound())
	assert.Equal(t, 1, g.Dealer().Actions.Hit)

	r := flatRules()
	src := stacked(cards...)
	g, err := New(Config{
		Rules:                       r,
		Strategy:                    basicTable(t, r),
		Seats:                       1,
		Shoe:                        src,
		SkipDealerWhenNoActiveHands: true,
	})
	require.NoError(t, err)
	require.NoError(t, g.PlayRound())
	assert.Equal(t, 0, g.Dealer().Actions.Hit)
	assert.Equal(t, []deck.Card{deck.Two}, src.cards)
	assert.Equal(t, 1, g.Player().Outcome.Losses)
}

func TestDoubleDown(t *testing.T) {
	// Eleven against a dealer 16 that busts.
	src := stacked(deck.Six, deck.Five, deck.Six, deck.Face, deck.Face, deck.Face)
	g := newStackedGame(t, flatRules(), 1, src)

	require.NoError(t, g.PlayRound())

	p := g.Player()
	assert.Equal(t, 1, p.Actions.Double)
	assert.Equal(t, 0, p.Actions.Stand)
	assert.Equal(t, 1, p.Outcome.Wins)
	assert.Equal(t, 1, g.Dealer().Actions.Bust)
	assert.InDelta(t, 2, flat(t, g).Balance(), 1e-9)
}

func TestDoubleOutsideDoubleOnIsPlayedAsHit(t *testing.T) {
	r := flatRules()
	r.DoubleOn = []int{11}

	// Ten against Five: the chart doubles, the table does not allow it.
	src := stacked(deck.Six, deck.Four, deck.Five, deck.Face, deck.Two, deck.Face)
	g := newStackedGame(t, r, 1, src)

	require.NoError(t, g.PlayRound())

	p := g.Player()
	assert.Equal(t, 0, p.Actions.Double)
	assert.Equal(t, 1, p.Actions.Hit)
	assert.Equal(t, 1, p.Actions.Stand)
	assert.Equal(t, 1, p.Outcome.Wins)
	assert.InDelta(t, 1, flat(t, g).Balance(), 1e-9)
}

func TestSplitPlaysBothHands(t *testing.T) {
	r := flatRules()
	r.AllowSplit = true

	src := stacked(
		deck.Eight, deck.Eight, // player pair
		deck.Six, deck.Face, // dealer 16
		deck.Three, deck.Two, // completes each split hand
		deck.Face, // first hand doubles to 21
		deck.Nine, // second hand doubles to 19
		deck.Face, // dealer busts
	)
	g := newStackedGame(t, r, 1, src)

	require.NoError(t, g.PlayRound())

	p := g.Player()
	assert.Equal(t, 1, p.Actions.Split)
	assert.Equal(t, 2, p.Actions.Double)
	assert.Equal(t, 2, p.Outcome.Wins)
	assert.Empty(t, src.cards)
	// Four units staked across two doubled hands, eight returned.
	assert.InDelta(t, 4, flat(t, g).Balance(), 1e-9)
}

func TestSplitDisabledPlaysPairAsTotal(t *testing.T) {
	// Eight Eight against Six stands as hard 16 when splitting is off.
	src := stacked(deck.Eight, deck.Eight, deck.Six, deck.Face, deck.Face)
	g := newStackedGame(t, flatRules(), 1, src)

	require.NoError(t, g.PlayRound())
	assert.Equal(t, 0, g.Player().Actions.Split)
	assert.Equal(t, 1, g.Player().Actions.Stand)
	assert.Equal(t, 1, g.Player().Outcome.Wins)
}

func TestBurnsForOtherSeats(t *testing.T) {
	burn := []deck.Card{deck.Two, deck.Two, deck.Two, deck.Two}
	cards := append(burn, deck.Face, deck.Seven, deck.Face, deck.Eight, deck.Three, deck.Three)
	src := stacked(cards...)
	g := newStackedGame(t, flatRules(), 3, src)

	require.NoError(t, g.PlayRound())
	assert.Equal(t, 6, src.burned)
	assert.Empty(t, src.cards)
	assert.Equal(t, 1, g.Player().Outcome.Losses)
}

func TestPlayRoundAfterCutCard(t *testing.T) {
	src := stacked(deck.Face, deck.Face, deck.Face, deck.Face)
	src.finished = true
	g := newStackedGame(t, flatRules(), 1, src)

	assert.ErrorIs(t, g.PlayRound(), ErrShoeFinished)
}

func TestPlayRoundPropagatesShoeErrors(t *testing.T) {
	g := newStackedGame(t, flatRules(), 1, stacked(deck.Face, deck.Face, deck.Face))
	assert.ErrorIs(t, g.PlayRound(), shoe.ErrInsufficientCards)
}

func newSeededGame(t *testing.T, seed int64) *Game {
	t.Helper()
	r := rules.Default()
	g, err := New(Config{
		Rules:    r,
		Strategy: basicTable(t, r),
		Seats:    3,
		Rng:      randutil.New(seed),
		Logger:   log.New(io.Discard),
	})
	require.NoError(t, err)
	return g
}

func TestPlayRounds(t *testing.T) {
	g := newSeededGame(t, 42)

	require.NoError(t, g.PlayRounds(500, false))

	stats := g.Stats()
	assert.Equal(t, 500, stats.Hands)
	assert.Positive(t, stats.Shoes)
	assert.Equal(t, stats.Hands, g.Player().Outcome.Total())
	assert.Equal(t, stats.Hands, g.Dealer().Outcome.Total())

	require.NoError(t, g.PlayRounds(10, true))
	assert.Equal(t, 510, g.Stats().Hands)
	assert.Greater(t, g.Stats().Shoes, stats.Shoes)
}

func TestPlayShoes(t *testing.T) {
	g := newSeededGame(t, 7)

	require.NoError(t, g.PlayShoes(3))
	assert.Equal(t, 3, g.Stats().Shoes)
	assert.Positive(t, g.Stats().HandsPerShoe())
}

func TestSameSeedSameReport(t *testing.T) {
	a := newSeededGame(t, 99)
	b := newSeededGame(t, 99)
	require.NoError(t, a.PlayShoes(2))
	require.NoError(t, b.PlayShoes(2))

	ra, rb := a.Report(), b.Report()
	assert.NotEqual(t, ra.ID, rb.ID)
	ra.ID, rb.ID = "", ""
	assert.Equal(t, ra, rb)
}

func TestReset(t *testing.T) {
	g := newSeededGame(t, 3)
	require.NoError(t, g.PlayRounds(50, false))
	require.NoError(t, g.Reset())

	assert.Zero(t, g.Stats())
	assert.Zero(t, g.Player().Outcome)
	assert.Zero(t, g.Dealer().Actions)
	for _, w := range g.Player().Wallets() {
		assert.Zero(t, w.Balance(), w.Name())
		assert.Empty(t, w.Policy().Snapshot().Records, w.Name())
	}
}

func TestReport(t *testing.T) {
	src := stacked(deck.Ace, deck.Face, deck.Face, deck.Seven)
	g := newStackedGame(t, flatRules(), 1, src)
	require.NoError(t, g.PlayRound())

	report := g.Report()
	assert.Equal(t, g.ID(), report.ID)
	assert.Equal(t, 1, report.Game.Hands)
	assert.Equal(t, 4, report.Decks)
	require.Len(t, report.Wallets, 1)

	w := report.Wallets[0]
	assert.Equal(t, "Flat", w.Name)
	assert.Equal(t, betting.KindTableMinimum, w.Policy)
	assert.InDelta(t, 1.5, w.UnitsPerHand, 1e-9)
	assert.InDelta(t, 1, w.HandsPerUnit, 1e-9)
	assert.InDelta(t, 100, report.Percent(report.Player.Outcome.Wins), 1e-9)
	require.Len(t, w.Snapshot.Records, 1)
	assert.Equal(t, 1, w.Snapshot.Records[0].Outcome.NaturalWins)
}
