// Package wallet pairs a balance with a betting policy. A player owns several
// wallets that see the same cards but size and settle their wagers
// independently.
package wallet

import (
	"fmt"

	"github.com/lox/blackjack-sim/internal/betting"
)

// Bet is a wager owned by exactly one hand, drawn from one wallet.
type Bet struct {
	Wallet *Wallet
	Amount float64
}

// Wallet is a named balance with its own betting policy.
type Wallet struct {
	name     string
	policy   betting.Policy
	starting float64
	balance  float64
}

// New creates a wallet holding starting money units.
func New(name string, policy betting.Policy, starting float64) *Wallet {
	return &Wallet{
		name:     name,
		policy:   policy,
		starting: starting,
		balance:  starting,
	}
}

// Name returns the wallet name.
func (w *Wallet) Name() string {
	return w.name
}

// Policy returns the betting policy the wallet owns.
func (w *Wallet) Policy() betting.Policy {
	return w.policy
}

// Balance returns the current balance in money units.
func (w *Wallet) Balance() float64 {
	return w.balance
}

// Net returns the balance change since the wallet was created or reset.
func (w *Wallet) Net() float64 {
	return w.balance - w.starting
}

// PlaceBet asks the policy for a stake and moves it off the balance into a
// new Bet. A non-positive stake is a policy error.
func (w *Wallet) PlaceBet(ctx betting.Context) (*Bet, error) {
	amount := w.policy.BetAmount(ctx)
	if !(amount > 0) {
		return nil, fmt.Errorf("%w: wallet %q bet %v", betting.ErrInvalidBet, w.name, amount)
	}

	w.balance -= amount
	return &Bet{Wallet: w, Amount: amount}, nil
}

// Double charges the wallet the bet's amount again and doubles the bet.
func (b *Bet) Double() {
	b.Wallet.balance -= b.Amount
	b.Amount *= 2
}

// Duplicate charges the wallet for a copy of the bet, used when a hand splits.
func (b *Bet) Duplicate() *Bet {
	b.Wallet.balance -= b.Amount
	return &Bet{Wallet: b.Wallet, Amount: b.Amount}
}

// Payout returns multiple times the stake to the wallet. A push pays back 1,
// an even money win 2.
func (b *Bet) Payout(multiple float64) {
	b.Wallet.balance += b.Amount * multiple
}

// Reset restores the starting balance, or zero when zero is set, and resets
// the policy.
func (w *Wallet) Reset(zero bool) {
	if zero {
		w.balance = 0
	} else {
		w.balance = w.starting
	}
	w.policy.Reset()
}
