package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/blackjack-sim/internal/betting"
	"github.com/lox/blackjack-sim/internal/deck"
	"github.com/lox/blackjack-sim/internal/hand"
	"github.com/lox/blackjack-sim/internal/randutil"
	"github.com/lox/blackjack-sim/internal/rules"
	"github.com/lox/blackjack-sim/internal/shoe"
	"github.com/lox/blackjack-sim/internal/statistics"
	"github.com/lox/blackjack-sim/internal/strategy"
	"github.com/lox/blackjack-sim/internal/wallet"
)

var (
	// ErrSeatCount indicates a seat count outside 1..MaxSeats.
	ErrSeatCount = errors.New("game: seat count out of range")

	// ErrDuplicateWallet indicates a second wallet registered under a name.
	ErrDuplicateWallet = errors.New("game: duplicate wallet")

	// ErrNoStrategy indicates a game configured without a strategy table.
	ErrNoStrategy = errors.New("game: strategy is required")

	// ErrShoeFinished indicates a round requested after the cut card.
	ErrShoeFinished = errors.New("game: shoe is finished")
)

// Source is the card source a game deals from. *shoe.Shoe implements it.
type Source interface {
	betting.Shoe
	Draw() (deck.Card, error)
	Burn(n int) error
	IsFinished() bool
	Reset() error
}

var _ Source = (*shoe.Shoe)(nil)

// Config holds configuration for a game.
type Config struct {
	Rules    rules.Rules
	Strategy *strategy.Table

	// Seats is the number of occupied seats, including the simulated player.
	Seats int

	// Rng shuffles the shoe. Ignored when Shoe is set. A time seeded
	// source is used when both are nil.
	Rng  *rand.Rand
	Shoe Source

	// SkipDealerWhenNoActiveHands leaves the dealer's hand unplayed when
	// every player hand has busted. The dealer always plays by default.
	SkipDealerWhenNoActiveHands bool

	Logger *log.Logger
}

// Game is one player and the dealer at a table.
type Game struct {
	id     string
	rules  rules.Rules
	seats  int
	skip   bool
	shoe   Source
	dealer *Dealer
	player *Player
	stats  statistics.Game
	logger *log.Logger
}

// New validates cfg, seats the player with the wallets the rules declare and
// starts the shoe.
func New(cfg Config) (*Game, error) {
	r := cfg.Rules
	if cfg.Seats < 1 || cfg.Seats > r.MaxSeats {
		return nil, fmt.Errorf("%w: must be between 1-%d, got %d", ErrSeatCount, r.MaxSeats, cfg.Seats)
	}
	if cfg.Strategy == nil {
		return nil, ErrNoStrategy
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	src := cfg.Shoe
	if src == nil {
		rng := cfg.Rng
		if rng == nil {
			rng = randutil.New(randutil.Seed(0))
		}
		s, err := shoe.New(r.Decks, rng, r.ShoeOptions()...)
		if err != nil {
			return nil, err
		}
		src = s
	}

	id := uuid.NewString()
	logger = logger.WithPrefix("game").With("game", id[:8])

	g := &Game{
		id:     id,
		rules:  r,
		seats:  cfg.Seats,
		skip:   cfg.SkipDealerWhenNoActiveHands,
		shoe:   src,
		dealer: newDealer(r),
		player: newPlayer(cfg.Strategy, r, logger),
		logger: logger,
	}

	for _, decl := range r.Wallets {
		policy, err := betting.New(decl.Policy, r.Limits())
		if err != nil {
			return nil, fmt.Errorf("wallet %q: %w", decl.Name, err)
		}
		if err := g.AddWallet(wallet.New(decl.Name, policy, r.StartingBalance)); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// ID returns the game's unique identifier.
func (g *Game) ID() string {
	return g.id
}

// AddWallet registers another wallet with the player.
func (g *Game) AddWallet(w *wallet.Wallet) error {
	return g.player.AddWallet(w)
}

// Player returns the simulated player.
func (g *Game) Player() *Player {
	return g.player
}

// Dealer returns the dealer.
func (g *Game) Dealer() *Dealer {
	return g.dealer
}

// Stats returns the rounds and shoes played.
func (g *Game) Stats() statistics.Game {
	return g.stats
}

// Reset clears every counter, restores every wallet and starts a new shoe.
func (g *Game) Reset() error {
	g.player.reset()
	g.dealer.reset()
	g.stats.Reset()
	return g.shoe.Reset()
}

// PlayRounds plays n rounds, moving to a fresh shoe whenever the cut card
// comes out. With reset the shoe is also replaced after the last round.
func (g *Game) PlayRounds(n int, reset bool) error {
	for range n {
		if g.shoe.IsFinished() {
			if err := g.nextShoe(); err != nil {
				return err
			}
		}
		if err := g.PlayRound(); err != nil {
			return err
		}
	}

	if reset || g.shoe.IsFinished() {
		return g.nextShoe()
	}
	return nil
}

// PlayShoe plays rounds until the cut card, then starts a new shoe.
func (g *Game) PlayShoe() error {
	for !g.shoe.IsFinished() {
		if err := g.PlayRound(); err != nil {
			return err
		}
	}
	return g.nextShoe()
}

// PlayShoes plays n complete shoes.
func (g *Game) PlayShoes(n int) error {
	for i := range n {
		if err := g.PlayShoe(); err != nil {
			return fmt.Errorf("shoe %d: %w", i+1, err)
		}
	}
	return nil
}

func (g *Game) nextShoe() error {
	g.stats.Shoes++
	g.logger.Info("Shoe complete", "shoes", g.stats.Shoes, "hands", g.stats.Hands)
	return g.shoe.Reset()
}

// PlayRound plays a single round.
func (g *Game) PlayRound() error {
	if g.shoe.IsFinished() {
		return ErrShoeFinished
	}

	others := g.seats - 1
	if err := g.shoe.Burn(2 * others); err != nil {
		return fmt.Errorf("burn before deal: %w", err)
	}

	// Bet
	player := hand.New(hand.WithSplitting(g.rules.AllowSplit))
	ctx := betting.Context{Shoe: g.shoe, HandsPlayed: g.stats.Hands}
	if err := g.player.placeBets(player, ctx); err != nil {
		return err
	}

	// Deal
	for range 2 {
		if err := drawTo(g.shoe, player); err != nil {
			return fmt.Errorf("deal: %w", err)
		}
	}
	upCard, err := g.shoe.Draw()
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	dealer := hand.New(hand.WithCards(upCard))
	if err := drawTo(g.shoe, dealer); err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	g.stats.Hands++
	g.logger.Debug("Dealt", "player", player, "up", upCard)

	// Check naturals
	if dealer.IsNatural() {
		if player.IsNatural() {
			g.player.tie(player)
			g.dealer.tie(dealer)
		} else {
			g.player.loss(player)
			g.dealer.win(dealer)
		}
		g.logger.Debug("Dealer natural", "player", player)
		return nil
	}

	if err := g.shoe.Burn(others); err != nil {
		return fmt.Errorf("burn after naturals: %w", err)
	}

	if player.IsNatural() {
		g.player.win(player)
		g.dealer.loss()
		g.logger.Debug("Player natural")
		return nil
	}

	// Player turn
	hands, err := g.player.play(g.shoe, player, upCard)
	if err != nil {
		return err
	}

	// Dealer turn
	if !g.skip || anyActive(hands) {
		if err := g.dealer.play(g.shoe, dealer); err != nil {
			return err
		}
	}

	// Settle
	for _, h := range hands {
		g.settle(h, dealer)
	}
	return nil
}

func (g *Game) settle(player, dealer *hand.Hand) {
	switch {
	case player.IsNatural():
		g.player.win(player)
		g.dealer.loss()
	case !player.IsActive():
		g.player.loss(player)
		g.dealer.win(dealer)
	case !dealer.IsActive():
		g.player.win(player)
		g.dealer.loss()
	case player.Value() == dealer.Value():
		g.player.tie(player)
		g.dealer.tie(dealer)
	case player.Value() > dealer.Value():
		g.player.win(player)
		g.dealer.loss()
	default:
		g.player.loss(player)
		g.dealer.win(dealer)
	}
	g.logger.Debug("Settled", "player", player, "dealer", dealer)
}

func anyActive(hands []*hand.Hand) bool {
	for _, h := range hands {
		if h.IsActive() {
			return true
		}
	}
	return false
}
