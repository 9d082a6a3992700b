package deck

// CardsPerDeck is the size of a standard deck.
const CardsPerDeck = 52

// Count returns how many instances of c a single standard deck holds.
// Face aggregates Ten, Jack, Queen and King across four suits.
func Count(c Card) int {
	if c == Face {
		return 16
	}
	return 4
}

// Standard returns the cards of one standard 52-card deck in rank order.
func Standard() []Card {
	cards := make([]Card, 0, CardsPerDeck)
	for _, c := range Ranks {
		for range Count(c) {
			cards = append(cards, c)
		}
	}
	return cards
}

// Decks returns n standard decks concatenated, unshuffled.
func Decks(n int) []Card {
	cards := make([]Card, 0, n*CardsPerDeck)
	for range n {
		cards = append(cards, Standard()...)
	}
	return cards
}
