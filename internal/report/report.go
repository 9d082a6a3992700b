// Package report renders game and batch results for the terminal and exports
// them as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack-sim/internal/fileutil"
	"github.com/lox/blackjack-sim/internal/game"
	"github.com/lox/blackjack-sim/internal/simulator"
	"github.com/lox/blackjack-sim/internal/statistics"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	walletStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// printer accumulates the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) header(title string) {
	p.printf("%s\n", headerStyle.Render("== "+title+" "+strings.Repeat("=", max(0, 24-len(title)))))
}

func (p *printer) row(label, format string, args ...any) {
	p.printf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", label+":")), fmt.Sprintf(format, args...))
}

func signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	switch {
	case v > 0:
		return gainStyle.Render(s)
	case v < 0:
		return lossStyle.Render(s)
	default:
		return s
	}
}

// Game writes the counters of a single game.
func Game(w io.Writer, r game.Report) error {
	p := &printer{w: w}
	if r.Game.Hands == 0 {
		p.printf("No games played. No stats for you.\n")
		return p.err
	}

	p.header("Game Stats")
	p.row("Seats", "%d", r.Seats)
	p.row("Decks", "%d", r.Decks)
	p.row("Hands", "%d", r.Game.Hands)
	p.row("Shoes", "%d", r.Game.Shoes)
	p.row("Rate", "%.1f [hands/shoe]", r.Game.HandsPerShoe())
	p.printf("\n")

	party(p, "Dealer Stats", r.Dealer, r.Game.Hands, false)
	party(p, "Player Stats", r.Player, r.Game.Hands, true)

	p.header("Performance Stats")
	for _, wr := range r.Wallets {
		p.printf("%s\n", walletStyle.Render(wr.Name))
		p.row("Policy", "%s", wr.Policy)
		p.row("Units", "%s", signed(wr.Balance, "%.1f"))
		if wr.HandsPerUnit != 0 {
			p.row("Rate", "~%d [hands/unit]", int(wr.HandsPerUnit))
		}
		p.row("Rate", "%s [units/hand]", signed(wr.UnitsPerHand, "%.3f"))
		if wr.Snapshot.HighestNatural > 0 {
			p.row("Avg", "%.3f [%%]", wr.Snapshot.AverageNatural)
			p.row("Highest", "%.3f [%%]", wr.Snapshot.HighestNatural)
		}
		for _, rec := range wr.Snapshot.Records {
			p.row(fmt.Sprintf("x%g", rec.Multiplier), "%s", rec.Outcome)
		}
	}
	return p.err
}

func party(p *printer, title string, pr game.PartyReport, hands int, player bool) {
	pct := func(n int) float64 { return statistics.Percent(n, hands) }

	p.header(title)
	if player {
		p.row("Win", "%.2f [%%]", pct(pr.Outcome.Wins))
		p.row("Loss", "%.2f [%%]", pct(pr.Outcome.Losses))
		p.row("Tie", "%.2f [%%]", pct(pr.Outcome.Ties))
		p.printf("\n")
	}
	p.row("Natural Win", "%.2f [%%]", pct(pr.Outcome.NaturalWins))
	p.row("Natural Tie", "%.2f [%%]", pct(pr.NaturalTies))
	p.row("Bust", "%.2f [%%]", pct(pr.Actions.Bust))
	p.printf("\n")
	p.row("Stand", "%.2f [%%]", pct(pr.Actions.Stand))
	p.row("Hit", "%.2f [%%]", pct(pr.Actions.Hit))
	if player {
		p.row("Double", "%.2f [%%]", pct(pr.Actions.Double))
		p.row("Split", "%.2f [%%]", pct(pr.Actions.Split))
	}
	p.printf("\n")
}

// Batch writes the summary of a simulator run.
func Batch(w io.Writer, r *simulator.Result) error {
	p := &printer{w: w}

	p.header("Batch")
	p.row("Run", "%s", r.ID)
	p.row("Seed", "%d", r.Seed)
	p.row("Trials", "%d", r.Trials)
	p.row("Seats", "%d", r.Seats)
	p.row("Decks", "%d", r.Decks)
	p.row("Hands", "%d", r.Game.Hands)
	p.row("Shoes", "%d", r.Game.Shoes)
	p.row("Duration", "%s", r.Duration)
	p.row("Player", "%s", r.Player.Outcome)
	p.printf("\n")

	p.header("Wallets")
	for _, wr := range r.Wallets {
		s := wr.UnitsPerHand
		lo, hi := s.ConfidenceInterval95()

		p.printf("%s\n", walletStyle.Render(wr.Name))
		p.row("Units/hand", "%s ± %.4f", signed(s.Mean(), "%.4f"), s.StdError())
		p.row("95% CI", "[%.4f, %.4f]", lo, hi)
		p.row("Std dev", "%.4f", s.StdDev())
		p.row("Median", "%.4f", s.Median())
		p.row("Range", "[%.4f, %.4f]", s.Min, s.Max)
		p.row("Mean net", "%s", signed(wr.Net.Mean(), "%.1f"))
	}
	return p.err
}

// WriteJSON writes v as indented JSON to path, atomically.
func WriteJSON(path string, v any) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	})
}
