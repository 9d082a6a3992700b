// Package shoe implements the multi-deck card source used at a blackjack
// table: a shuffled pool with a cut card, a house burn, and a record of every
// card played since the last shuffle.
package shoe

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/blackjack-sim/internal/deck"
)

var (
	// ErrNotStarted indicates a draw before the shoe was started.
	ErrNotStarted = errors.New("shoe: not started")

	// ErrInsufficientCards indicates more cards were requested than remain.
	ErrInsufficientCards = errors.New("shoe: not enough cards remaining")

	// ErrCardNotFound indicates a specific card is absent from the remaining pool.
	ErrCardNotFound = errors.New("shoe: card not in shoe")

	// ErrNotPlayed indicates a card was returned that was never drawn.
	ErrNotPlayed = errors.New("shoe: card was not played")

	// ErrPenetration indicates an invalid cut card placement or range.
	ErrPenetration = errors.New("shoe: penetration out of range")

	// ErrUnsupported is returned by the state persistence hooks.
	ErrUnsupported = errors.New("shoe: not supported")
)

// Default cut card placement range, in percent of the full shoe.
const (
	DefaultPenetrationMin = 60
	DefaultPenetrationMax = 85
)

// Option configures a Shoe during creation.
type Option func(*Shoe)

// WithPenetration sets the inclusive percentage range the cut card is drawn from.
func WithPenetration(minPercent, maxPercent int) Option {
	return func(s *Shoe) {
		s.penMin = minPercent
		s.penMax = maxPercent
	}
}

// Shoe holds the remaining cards for one game segment. Cards are drawn from the
// end of the slice. The shoe is not safe for concurrent use.
type Shoe struct {
	decks   int
	cards   []deck.Card
	played  map[deck.Card]int
	cutoff  int
	started bool

	penMin int
	penMax int

	rng *rand.Rand
}

// New builds a shoe of the given number of decks, shuffles it, places the cut
// card and burns one card per deck.
func New(decks int, rng *rand.Rand, opts ...Option) (*Shoe, error) {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if decks < 1 {
		return nil, fmt.Errorf("shoe: deck count must be positive, got %d", decks)
	}

	s := &Shoe{
		decks:  decks,
		played: make(map[deck.Card]int, deck.NumRanks),
		penMin: DefaultPenetrationMin,
		penMax: DefaultPenetrationMax,
		rng:    rng,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.penMin < 1 || s.penMax > 100 || s.penMin > s.penMax {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrPenetration, s.penMin, s.penMax)
	}

	s.fill()
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset rebuilds and reshuffles every card, clears the played record, draws a
// new cut card position and burns again.
func (s *Shoe) Reset() error {
	s.fill()
	clear(s.played)
	s.started = false
	return s.start()
}

func (s *Shoe) fill() {
	s.cards = append(s.cards[:0], deck.Decks(s.decks)...)
	s.shuffle()
}

// shuffle is a Fisher-Yates over the remaining cards
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

func (s *Shoe) start() error {
	percent := s.penMin + s.rng.IntN(s.penMax-s.penMin+1)
	if err := s.SetCutoff(percent); err != nil {
		return err
	}
	s.started = true
	return s.Burn(s.decks)
}

// SetCutoff places the cut card at percent of the full shoe. The percentage
// must fall within the configured penetration range.
func (s *Shoe) SetCutoff(percent int) error {
	if percent < s.penMin || percent > s.penMax {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrPenetration, percent, s.penMin, s.penMax)
	}
	s.cutoff = int(float64(percent) / 100.0 * float64(s.Total()))
	return nil
}

// Draw removes and returns the next card.
func (s *Shoe) Draw() (deck.Card, error) {
	if !s.started {
		return 0, ErrNotStarted
	}
	if len(s.cards) == 0 {
		return 0, fmt.Errorf("%w: shoe is empty", ErrInsufficientCards)
	}

	last := len(s.cards) - 1
	c := s.cards[last]
	s.cards = s.cards[:last]
	s.played[c]++
	return c, nil
}

// DrawMany draws n cards in sequence.
func (s *Shoe) DrawMany(n int) ([]deck.Card, error) {
	if n < 0 || n > len(s.cards) {
		return nil, fmt.Errorf("%w: %d requested, %d remaining", ErrInsufficientCards, n, len(s.cards))
	}

	cards := make([]deck.Card, 0, n)
	for range n {
		c, err := s.Draw()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Burn draws and discards n cards.
func (s *Shoe) Burn(n int) error {
	_, err := s.DrawMany(n)
	return err
}

// Return puts a previously drawn card back at a random position.
func (s *Shoe) Return(c deck.Card) error {
	count := s.played[c]
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrNotPlayed, c)
	}

	if count == 1 {
		delete(s.played, c)
	} else {
		s.played[c] = count - 1
	}

	s.cards = slices.Insert(s.cards, s.rng.IntN(len(s.cards)+1), c)
	return nil
}

// Remove takes a specific card out of the remaining pool and records it as
// played.
func (s *Shoe) Remove(c deck.Card) error {
	idx := slices.Index(s.cards, c)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, c)
	}

	s.cards = slices.Delete(s.cards, idx, idx+1)
	s.played[c]++
	return nil
}

// IsFinished reports whether the cut card has come out.
func (s *Shoe) IsFinished() bool {
	return s.NumPlayed() > s.cutoff
}

// NumPlayed returns the number of cards played since the last shuffle.
func (s *Shoe) NumPlayed() int {
	return s.Total() - len(s.cards)
}

// Remaining returns the number of cards left to draw.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Total returns the number of cards the shoe was built with.
func (s *Shoe) Total() int {
	return s.decks * deck.CardsPerDeck
}

// Decks returns the deck count.
func (s *Shoe) Decks() int {
	return s.decks
}

// Cutoff returns the number of played cards after which the shoe is finished.
func (s *Shoe) Cutoff() int {
	return s.cutoff
}

// Started reports whether the shoe is ready to deal.
func (s *Shoe) Started() bool {
	return s.started
}

// PlayedCount returns how many copies of c have been played.
func (s *Shoe) PlayedCount(c deck.Card) int {
	return s.played[c]
}

// Played returns a copy of the played card record. Cards never played are
// absent from the map.
func (s *Shoe) Played() map[deck.Card]int {
	out := make(map[deck.Card]int, len(s.played))
	for c, n := range s.played {
		out[c] = n
	}
	return out
}

// DecksRemaining returns the remaining fraction of the full shoe, rounded to
// the nearest half and never below 0.5.
func (s *Shoe) DecksRemaining() float64 {
	fraction := float64(len(s.cards)) / float64(s.Total())
	return math.Max(math.Round(fraction*2)/2, 0.5)
}

// BlackjackProbability returns the chance that the next two cards form a
// natural (a ten-value card and an Ace in either order), drawn without
// replacement.
func (s *Shoe) BlackjackProbability() float64 {
	n := float64(len(s.cards))
	if n < 2 {
		return 0
	}

	tens := float64(s.decks*deck.Count(deck.Face) - s.played[deck.Face])
	aces := float64(s.decks*deck.Count(deck.Ace) - s.played[deck.Ace])

	return (tens/n)*(aces/(n-1)) + (aces/n)*(tens/(n-1))
}

// SaveState is a hook for persisting a shoe between runs. Persistence is not
// supported.
func (s *Shoe) SaveState() ([]byte, error) {
	return nil, ErrUnsupported
}

// RestoreState is the counterpart of SaveState and is likewise unsupported.
func (s *Shoe) RestoreState([]byte) error {
	return ErrUnsupported
}
