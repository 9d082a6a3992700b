package game

import (
	"math"

	"github.com/lox/blackjack-sim/internal/betting"
	"github.com/lox/blackjack-sim/internal/statistics"
	"github.com/lox/blackjack-sim/internal/wallet"
)

// Report is a read-only snapshot of a game's counters.
type Report struct {
	ID      string          `json:"id"`
	Seats   int             `json:"seats"`
	Decks   int             `json:"decks"`
	Game    statistics.Game `json:"game"`
	Dealer  PartyReport     `json:"dealer"`
	Player  PartyReport     `json:"player"`
	Wallets []WalletReport  `json:"wallets"`
}

// PartyReport is the outcome and action record of one side of the table.
type PartyReport struct {
	Outcome     statistics.Outcome `json:"outcome"`
	Actions     statistics.Actions `json:"actions"`
	NaturalTies int                `json:"natural_ties"`
}

// WalletReport summarises one wallet.
type WalletReport struct {
	Name         string           `json:"name"`
	Policy       betting.Kind     `json:"policy"`
	Balance      float64          `json:"balance"`
	Net          float64          `json:"net"`
	UnitsPerHand float64          `json:"units_per_hand"`
	HandsPerUnit float64          `json:"hands_per_unit"`
	Snapshot     betting.Snapshot `json:"snapshot"`
}

// Report returns the current counters. Wallets are listed in registration
// order.
func (g *Game) Report() Report {
	r := Report{
		ID:     g.id,
		Seats:  g.seats,
		Decks:  g.rules.Decks,
		Game:   g.stats,
		Dealer: g.dealer.report(),
		Player: g.player.report(),
	}
	for _, w := range g.player.wallets {
		r.Wallets = append(r.Wallets, walletReport(w, g.stats.Hands))
	}
	return r
}

func (p *Party) report() PartyReport {
	return PartyReport{Outcome: p.Outcome, Actions: p.Actions, NaturalTies: p.NaturalTies}
}

func walletReport(w *wallet.Wallet, hands int) WalletReport {
	wr := WalletReport{
		Name:     w.Name(),
		Policy:   w.Policy().Kind(),
		Balance:  w.Balance(),
		Net:      w.Net(),
		Snapshot: w.Policy().Snapshot(),
	}
	if hands > 0 {
		wr.UnitsPerHand = wr.Net / float64(hands)
	}
	if wr.UnitsPerHand != 0 {
		wr.HandsPerUnit = math.Max(math.Abs(1/wr.UnitsPerHand), 1)
	}
	return wr
}

// Percent returns n as a percentage of the rounds played.
func (r Report) Percent(n int) float64 {
	return statistics.Percent(n, r.Game.Hands)
}
