package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-sim/internal/betting"
	"github.com/lox/blackjack-sim/internal/deck"
	"github.com/lox/blackjack-sim/internal/hand"
	"github.com/lox/blackjack-sim/internal/rules"
	"github.com/lox/blackjack-sim/internal/statistics"
	"github.com/lox/blackjack-sim/internal/strategy"
	"github.com/lox/blackjack-sim/internal/wallet"
)

// Party is the record kept for each side of the table.
type Party struct {
	Outcome     statistics.Outcome
	Actions     statistics.Actions
	NaturalTies int
}

func (p *Party) reset() {
	p.Outcome.Reset()
	p.Actions.Reset()
	p.NaturalTies = 0
}

func (p *Party) win(h *hand.Hand) {
	p.Outcome.AddWin(h.IsNatural())
}

func (p *Party) loss() {
	p.Outcome.AddLoss()
}

func (p *Party) tie(h *hand.Hand) {
	p.Outcome.AddTie()
	if h.IsNatural() {
		p.NaturalTies++
	}
}

// Dealer plays the house rule and holds no money.
type Dealer struct {
	Party
	hitSoft17 bool
}

func newDealer(r rules.Rules) *Dealer {
	return &Dealer{hitSoft17: r.HitSoft17}
}

// play draws until the house rule says stand, or the hand busts.
func (d *Dealer) play(src Source, h *hand.Hand) error {
	for {
		if !h.IsActive() {
			d.Actions.Bust++
			return nil
		}
		if !strategy.DealerHits(h, d.hitSoft17) {
			d.Actions.Stand++
			return nil
		}

		c, err := src.Draw()
		if err != nil {
			return fmt.Errorf("dealer hit: %w", err)
		}
		h.AddCard(c)
		d.Actions.Hit++
	}
}

// Player follows a strategy table and owns wallets in registration order.
type Player struct {
	Party

	strategy *strategy.Table
	rules    rules.Rules
	wallets  []*wallet.Wallet
	byName   map[string]*wallet.Wallet
	logger   *log.Logger
}

func newPlayer(table *strategy.Table, r rules.Rules, logger *log.Logger) *Player {
	return &Player{
		strategy: table,
		rules:    r,
		byName:   make(map[string]*wallet.Wallet),
		logger:   logger,
	}
}

// AddWallet registers w. Names must be unique.
func (p *Player) AddWallet(w *wallet.Wallet) error {
	if _, exists := p.byName[w.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateWallet, w.Name())
	}
	p.wallets = append(p.wallets, w)
	p.byName[w.Name()] = w
	return nil
}

// Wallets returns the wallets in registration order.
func (p *Player) Wallets() []*wallet.Wallet {
	out := make([]*wallet.Wallet, len(p.wallets))
	copy(out, p.wallets)
	return out
}

// Wallet looks up a wallet by name.
func (p *Player) Wallet(name string) (*wallet.Wallet, bool) {
	w, ok := p.byName[name]
	return w, ok
}

func (p *Player) reset() {
	p.Party.reset()
	for _, w := range p.wallets {
		w.Reset(false)
	}
}

// placeBets has every wallet stake the same fresh hand.
func (p *Player) placeBets(h *hand.Hand, ctx betting.Context) error {
	for _, w := range p.wallets {
		bet, err := w.PlaceBet(ctx)
		if err != nil {
			return err
		}
		h.AddBet(bet)
	}
	return nil
}

// play works through the initial hand and every hand split from it, in the
// order they were created, and returns all of them.
func (p *Player) play(src Source, first *hand.Hand, upCard deck.Card) ([]*hand.Hand, error) {
	var done []*hand.Hand
	queue := []*hand.Hand{first}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]

		split, err := p.playHand(src, h, upCard, func() int { return len(done) + len(queue) + 1 })
		if err != nil {
			return nil, err
		}
		done = append(done, h)
		queue = append(queue, split...)
	}
	return done, nil
}

// playHand asks the strategy for actions until h stands, doubles or busts.
// Hands split off h are returned to be played afterwards.
func (p *Player) playHand(src Source, h *hand.Hand, upCard deck.Card, handCount func() int) ([]*hand.Hand, error) {
	var split []*hand.Hand

	for {
		if !h.IsActive() {
			p.Actions.Bust++
			return split, nil
		}

		action, err := p.strategy.GetAction(h, upCard, handCount()+len(split))
		if err != nil {
			return nil, err
		}
		if action == strategy.Double && !p.canDouble(h) {
			action = strategy.Hit
		}
		p.logger.Debug("Player action", "hand", h, "up", upCard, "action", action)

		switch action {
		case strategy.Stand:
			p.Actions.Stand++
			return split, nil

		case strategy.Hit:
			if err := drawTo(src, h); err != nil {
				return nil, err
			}
			p.Actions.Hit++

		case strategy.Double:
			for _, b := range h.Bets() {
				b.Double()
			}
			if err := drawTo(src, h); err != nil {
				return nil, err
			}
			p.Actions.Double++
			if !h.IsActive() {
				p.Actions.Bust++
			}
			return split, nil

		case strategy.Split:
			c, err := h.Split()
			if err != nil {
				return nil, err
			}
			next := hand.New(hand.WithSplitting(h.Splitting()), hand.WithCards(c))
			for _, b := range h.Bets() {
				next.AddBet(b.Duplicate())
			}
			if err := drawTo(src, h); err != nil {
				return nil, err
			}
			if err := drawTo(src, next); err != nil {
				return nil, err
			}
			split = append(split, next)
			p.Actions.Split++

		default:
			return nil, fmt.Errorf("%w: %v", strategy.ErrUnknownAction, action)
		}
	}
}

// canDouble allows a double only as the first action on a two card hand
// whose total the table permits.
func (p *Player) canDouble(h *hand.Hand) bool {
	return h.Len() == 2 && p.rules.CanDouble(h.Value())
}

func (p *Player) win(h *hand.Hand) {
	p.Party.win(h)
	natural := h.IsNatural()
	multiple := 2.0
	if natural {
		multiple = 1 + p.rules.BlackjackPayout
	}
	for _, b := range h.Bets() {
		b.Payout(multiple)
		b.Wallet.Policy().Win(natural)
	}
}

func (p *Player) loss(h *hand.Hand) {
	p.Party.loss()
	for _, b := range h.Bets() {
		b.Wallet.Policy().Loss()
	}
}

func (p *Player) tie(h *hand.Hand) {
	p.Party.tie(h)
	for _, b := range h.Bets() {
		b.Payout(1)
		b.Wallet.Policy().Tie()
	}
}

func drawTo(src Source, h *hand.Hand) error {
	c, err := src.Draw()
	if err != nil {
		return err
	}
	h.AddCard(c)
	return nil
}
