// Package hand evaluates blackjack hands. A hand's value is always derived from
// its cards, never stored.
package hand

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/blackjack-sim/internal/deck"
	"github.com/lox/blackjack-sim/internal/wallet"
)

// ErrNotSplittable indicates Split was called on a hand that cannot split.
var ErrNotSplittable = errors.New("hand: not splittable")

// Bust is the lowest busted total.
const Bust = 22

// Blackjack is the best total.
const Blackjack = 21

// aceBonus is what promoting one Ace from its low to its high value adds.
var aceBonus = deck.Ace.Value() - deck.Ace.AltValue()

// Option configures a Hand during creation.
type Option func(*Hand)

// WithSplitting enables splitting of matching pairs. Splitting is off by
// default.
func WithSplitting(enabled bool) Option {
	return func(h *Hand) {
		h.splitting = enabled
	}
}

// WithCards seeds the hand with cards.
func WithCards(cards ...deck.Card) Option {
	return func(h *Hand) {
		h.cards = append(h.cards, cards...)
	}
}

// Hand is an ordered set of cards and the wagers placed against it.
type Hand struct {
	cards     []deck.Card
	bets      []*wallet.Bet
	splitting bool
}

// New creates an empty hand.
func New(opts ...Option) *Hand {
	h := &Hand{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddCard appends a card to the hand.
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
}

// AddCards appends several cards to the hand.
func (h *Hand) AddCards(cards ...deck.Card) {
	h.cards = append(h.cards, cards...)
}

// Cards returns a copy of the cards in the hand.
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// AddBet places a wager on the hand.
func (h *Hand) AddBet(b *wallet.Bet) {
	h.bets = append(h.bets, b)
}

// Bets returns the wagers placed on the hand.
func (h *Hand) Bets() []*wallet.Bet {
	return h.bets
}

// Splitting reports whether pairs may be split.
func (h *Hand) Splitting() bool {
	return h.splitting
}

// Value returns the hand total. At most one Ace ever counts high, and only
// when doing so does not bust the hand.
func (h *Hand) Value() int {
	aces := 0
	value := 0
	for _, c := range h.cards {
		if c.IsAce() {
			aces++
		}
		value += c.Value()
	}

	switch aces {
	case 0:
		return value
	case 1:
		if value < Bust {
			return value
		}
		return h.altValue()
	default:
		low := h.altValue()
		if high := low + aceBonus; high < Bust {
			return high
		}
		return low
	}
}

// altValue is the total with every card at its alternate value
func (h *Hand) altValue() int {
	value := 0
	for _, c := range h.cards {
		value += c.AltValue()
	}
	return value
}

// IsActive reports whether the hand has not busted.
func (h *Hand) IsActive() bool {
	return h.Value() < Bust
}

// IsNatural reports a two card 21.
func (h *Hand) IsNatural() bool {
	return len(h.cards) == 2 && h.Value() == Blackjack
}

// IsSoft reports whether an Ace is currently counted high.
func (h *Hand) IsSoft() bool {
	if !h.hasAce() {
		return false
	}
	return h.Value() != h.altValue()
}

// IsSoftTotal reports whether the hand is soft and totals exactly value.
func (h *Hand) IsSoftTotal(value int) bool {
	return h.Value() == value && h.IsSoft()
}

func (h *Hand) hasAce() bool {
	for _, c := range h.cards {
		if c.IsAce() {
			return true
		}
	}
	return false
}

// IsSplittable reports whether the hand is a splittable pair. It is always
// false unless splitting was enabled for the hand.
func (h *Hand) IsSplittable() bool {
	return h.splitting && len(h.cards) == 2 && h.cards[0] == h.cards[1]
}

// Split removes and returns one card of the pair, to seed a new hand.
func (h *Hand) Split() (deck.Card, error) {
	if !h.IsSplittable() {
		return 0, fmt.Errorf("%w: %s", ErrNotSplittable, h)
	}

	last := len(h.cards) - 1
	c := h.cards[last]
	h.cards = h.cards[:last]
	return c, nil
}

// String returns the cards and total, e.g. "Ace,Face (21)"
func (h *Hand) String() string {
	names := make([]string, len(h.cards))
	for i, c := range h.cards {
		names[i] = c.String()
	}
	return fmt.Sprintf("%s (%d)", strings.Join(names, ","), h.Value())
}
