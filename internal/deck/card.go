package deck

import (
	"fmt"
	"strings"
)

// Card identifies a blackjack rank. Suits carry no meaning in blackjack so
// they are not modelled, and Ten, Jack, Queen and King collapse into Face.
type Card uint8

const (
	Ace Card = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Face
)

// Ranks lists every card identity in a fixed order.
var Ranks = [...]Card{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Face}

// NumRanks is the number of distinct card identities.
const NumRanks = len(Ranks)

var cardNames = [...]string{"Ace", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Face"}

// String returns the rank name (e.g. "Ace", "Face")
func (c Card) String() string {
	if int(c) < len(cardNames) {
		return cardNames[c]
	}
	return "?"
}

// Value returns the primary numeric value of the card. Aces are worth 11.
func (c Card) Value() int {
	switch c {
	case Ace:
		return 11
	case Face:
		return 10
	default:
		return int(c) + 1
	}
}

// AltValue returns the alternate value of the card. Only the Ace differs from
// its primary value (1 instead of 11).
func (c Card) AltValue() int {
	if c == Ace {
		return 1
	}
	return c.Value()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c == Ace
}

// IsTenValue returns true for the aggregated ten-value rank
func (c Card) IsTenValue() bool {
	return c == Face
}

// Valid reports whether c is one of the ten known ranks.
func (c Card) Valid() bool {
	return int(c) < NumRanks
}

// ParseCard parses a rank name or its short form. Accepted forms are the full
// names ("Ace", "Seven", "Face"), digits "2"-"10", and the letters A, T, J, Q, K.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	for i, name := range cardNames {
		if strings.EqualFold(s, name) {
			return Card(i), nil
		}
	}

	switch strings.ToUpper(s) {
	case "A", "1", "11":
		return Ace, nil
	case "T", "J", "Q", "K", "10":
		return Face, nil
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return Card(s[0] - '1'), nil
	}
	return 0, fmt.Errorf("invalid card: %q", s)
}

// ParseCards parses a comma or space separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
