// Package strategy holds the player's decision tables and the dealer's fixed
// house rule.
//
// A strategy document has three tables, split, soft and hard, each keyed by
// hand total and then by the dealer's up card value (2 through 11, where 11 is
// an Ace). Documents name the table rules they were computed for and are
// rejected when those do not match the active rules.
package strategy

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack-sim/internal/deck"
	"github.com/lox/blackjack-sim/internal/hand"
	"github.com/lox/blackjack-sim/internal/rules"
)

var (
	// ErrRulesMismatch indicates a strategy computed for different table rules.
	ErrRulesMismatch = errors.New("strategy: does not match table rules")

	// ErrIncomplete indicates a strategy table with missing rows or columns.
	ErrIncomplete = errors.New("strategy: incomplete table")

	// ErrUnknownAction indicates an action outside stand, hit, double and split.
	ErrUnknownAction = errors.New("strategy: unknown action")

	// ErrMissingEntry indicates a lookup with no table entry.
	ErrMissingEntry = errors.New("strategy: no entry")
)

// Dealer up card values, low to high
const (
	minUpCard = 2
	maxUpCard = 11
)

// Totals every document must cover
const (
	minHard = 4
	minSoft = 12
	maxRow  = 21
)

// Chart maps hand total, then dealer up card value, to an action.
type Chart map[int]map[int]Action

// Definition is a decoded strategy document.
type Definition struct {
	HitSoft17 bool
	Decks     int
	Split     Chart
	Soft      Chart
	Hard      Chart
}

// Table is a validated strategy bound to the table rules it matches.
type Table struct {
	def           Definition
	maxSplitHands int
}

// New validates def against r and returns the table.
func New(def Definition, r rules.Rules) (*Table, error) {
	if def.HitSoft17 != r.HitSoft17 || def.Decks != r.Decks {
		return nil, fmt.Errorf("%w: strategy is for %d decks hit_on_soft_17=%t, table has %d decks hit_on_soft_17=%t",
			ErrRulesMismatch, def.Decks, def.HitSoft17, r.Decks, r.HitSoft17)
	}

	if err := requireRows("hard", def.Hard, minHard, maxRow); err != nil {
		return nil, err
	}
	if err := requireRows("soft", def.Soft, minSoft, maxRow); err != nil {
		return nil, err
	}
	for total := range def.Split {
		if err := requireColumns("split", total, def.Split[total]); err != nil {
			return nil, err
		}
	}

	return &Table{def: def, maxSplitHands: r.MaxSplitHands}, nil
}

func requireRows(name string, chart Chart, from, to int) error {
	for total := from; total <= to; total++ {
		row, ok := chart[total]
		if !ok {
			return fmt.Errorf("%w: %s table has no row for %d", ErrIncomplete, name, total)
		}
		if err := requireColumns(name, total, row); err != nil {
			return err
		}
	}
	return nil
}

func requireColumns(name string, total int, row map[int]Action) error {
	for up := minUpCard; up <= maxUpCard; up++ {
		a, ok := row[up]
		if !ok {
			return fmt.Errorf("%w: %s %d has no entry against %d", ErrIncomplete, name, total, up)
		}
		if !a.Valid() {
			return fmt.Errorf("%w: %s %d against %d: %v", ErrUnknownAction, name, total, up, a)
		}
	}
	return nil
}

// Definition returns the decoded document behind the table.
func (t *Table) Definition() Definition {
	return t.def
}

// GetAction returns the next action for h against the dealer's up card.
// activeHands is the number of hands the player currently holds, which gates
// splitting against the table's split limit. A busted hand always stands.
//
// The split table is consulted only when it has a row for the hand's total.
func (t *Table) GetAction(h *hand.Hand, upCard deck.Card, activeHands int) (Action, error) {
	if !h.IsActive() {
		return Stand, nil
	}

	value := h.Value()
	chart, name := t.def.Hard, "hard"
	if _, ok := t.def.Split[value]; ok && h.IsSplittable() && activeHands <= t.maxSplitHands {
		chart, name = t.def.Split, "split"
	} else if h.IsSoft() {
		chart, name = t.def.Soft, "soft"
	}

	action, ok := chart[value][upCard.Value()]
	if !ok {
		return Stand, fmt.Errorf("%w: %s %d against %s", ErrMissingEntry, name, value, upCard)
	}
	if !action.Valid() {
		return Stand, fmt.Errorf("%w: %v", ErrUnknownAction, action)
	}
	return action, nil
}

// DealerHits is the house rule: the dealer draws below 17 and, when the
// table says so, on soft 17.
func DealerHits(h *hand.Hand, hitSoft17 bool) bool {
	if h.Value() < 17 {
		return true
	}
	return hitSoft17 && h.IsSoftTotal(17)
}
