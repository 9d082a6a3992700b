// Package rules describes the fixed configuration of a blackjack table.
package rules

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/blackjack-sim/internal/betting"
	"github.com/lox/blackjack-sim/internal/document"
	"github.com/lox/blackjack-sim/internal/shoe"
)

// ErrInvalid indicates a rules document with out of range values.
var ErrInvalid = errors.New("rules: invalid")

// Rules is the table configuration. It is treated as immutable once loaded.
type Rules struct {
	MinBet          float64 `hcl:"min_bet,optional" yaml:"min_bet"`
	MaxBet          float64 `hcl:"max_bet,optional" yaml:"max_bet"`
	BlackjackPayout float64 `hcl:"blackjack_payout,optional" yaml:"blackjack_payout"`
	HitSoft17       bool    `hcl:"hit_on_soft_17,optional" yaml:"hit_on_soft_17"`
	Decks           int     `hcl:"decks,optional" yaml:"decks"`
	DoubleOn        []int   `hcl:"double_on,optional" yaml:"double_on"`
	MaxSplitHands   int     `hcl:"max_split_hands,optional" yaml:"max_split_hands"`
	MaxSeats        int     `hcl:"max_seats,optional" yaml:"max_seats"`
	AllowSplit      bool    `hcl:"allow_split,optional" yaml:"allow_split"`
	PenetrationMin  int     `hcl:"penetration_min,optional" yaml:"penetration_min"`
	PenetrationMax  int     `hcl:"penetration_max,optional" yaml:"penetration_max"`
	StartingBalance float64 `hcl:"starting_balance,optional" yaml:"starting_balance"`

	Wallets []Wallet `hcl:"wallet,block" yaml:"wallets"`
}

// Wallet declares one wallet the player brings to the table.
type Wallet struct {
	Name   string       `hcl:"name,label" yaml:"name"`
	Policy betting.Kind `hcl:"policy" yaml:"policy"`
}

// DefaultWallets is the wallet set used when a document declares none.
func DefaultWallets() []Wallet {
	return []Wallet{
		{Name: "Table Minimum", Policy: betting.KindTableMinimum},
		{Name: "Progressive", Policy: betting.KindProgressive},
		{Name: "Progressive with Reset", Policy: betting.KindProgressiveReset},
		{Name: "Count Basic", Policy: betting.KindCount},
		{Name: "Blackjack Optimized", Policy: betting.KindBlackjackOptimized},
	}
}

// Default returns the house rules used when no document is given.
func Default() Rules {
	return Rules{
		MinBet:          1,
		MaxBet:          20,
		BlackjackPayout: 1.5,
		HitSoft17:       true,
		Decks:           4,
		DoubleOn:        []int{10, 11},
		MaxSplitHands:   4,
		MaxSeats:        8,
		AllowSplit:      false,
		PenetrationMin:  shoe.DefaultPenetrationMin,
		PenetrationMax:  shoe.DefaultPenetrationMax,
		Wallets:         DefaultWallets(),
	}
}

// Load reads a rules document. Fields the document omits keep their default.
// An empty path returns Default().
func Load(path string) (Rules, error) {
	if path == "" {
		return Default(), nil
	}

	data, format, err := document.Read(path)
	if err != nil {
		return Rules{}, err
	}
	return Parse(data, path, format)
}

// Parse decodes a rules document already in memory.
func Parse(data []byte, filename string, format document.Format) (Rules, error) {
	r := Default()
	r.Wallets = nil

	var err error
	switch format {
	case document.HCL:
		err = document.DecodeHCL(data, filename, &r)
	case document.YAML:
		err = document.DecodeYAML(data, &r)
	default:
		err = fmt.Errorf("%w: %s", document.ErrUnknownFormat, filename)
	}
	if err != nil {
		return Rules{}, err
	}

	if len(r.Wallets) == 0 {
		r.Wallets = DefaultWallets()
	}

	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Validate checks every field is in range.
func (r Rules) Validate() error {
	if r.MinBet <= 0 {
		return fmt.Errorf("%w: min_bet must be positive, got %v", ErrInvalid, r.MinBet)
	}
	if r.MaxBet < r.MinBet {
		return fmt.Errorf("%w: max_bet %v below min_bet %v", ErrInvalid, r.MaxBet, r.MinBet)
	}
	if r.BlackjackPayout <= 0 {
		return fmt.Errorf("%w: blackjack_payout must be positive, got %v", ErrInvalid, r.BlackjackPayout)
	}
	if r.Decks < 1 {
		return fmt.Errorf("%w: decks must be at least 1, got %d", ErrInvalid, r.Decks)
	}
	if r.MaxSeats < 1 {
		return fmt.Errorf("%w: max_seats must be at least 1, got %d", ErrInvalid, r.MaxSeats)
	}
	if r.MaxSplitHands < 1 {
		return fmt.Errorf("%w: max_split_hands must be at least 1, got %d", ErrInvalid, r.MaxSplitHands)
	}
	if r.PenetrationMin < 1 || r.PenetrationMax > 100 || r.PenetrationMin > r.PenetrationMax {
		return fmt.Errorf("%w: penetration range [%d, %d]", ErrInvalid, r.PenetrationMin, r.PenetrationMax)
	}
	for _, total := range r.DoubleOn {
		if total < 4 || total > 21 {
			return fmt.Errorf("%w: double_on total %d out of range", ErrInvalid, total)
		}
	}

	seen := make(map[string]bool, len(r.Wallets))
	for _, w := range r.Wallets {
		if w.Name == "" {
			return fmt.Errorf("%w: wallet name is required", ErrInvalid)
		}
		if seen[w.Name] {
			return fmt.Errorf("%w: wallet %q declared twice", ErrInvalid, w.Name)
		}
		seen[w.Name] = true
		if _, err := betting.New(w.Policy, r.Limits()); err != nil {
			return fmt.Errorf("%w: wallet %q: %w", ErrInvalid, w.Name, err)
		}
	}
	return nil
}

// Limits returns the wager bounds.
func (r Rules) Limits() betting.Limits {
	return betting.Limits{Min: r.MinBet, Max: r.MaxBet}
}

// CanDouble reports whether doubling down is allowed on total.
func (r Rules) CanDouble(total int) bool {
	return slices.Contains(r.DoubleOn, total)
}

// ShoeOptions returns the shoe options these rules imply.
func (r Rules) ShoeOptions() []shoe.Option {
	return []shoe.Option{shoe.WithPenetration(r.PenetrationMin, r.PenetrationMax)}
}
