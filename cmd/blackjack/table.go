package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack-sim/internal/rules"
	"github.com/lox/blackjack-sim/internal/strategy"
)

// TableFlags are shared by every command that sets up a table.
type TableFlags struct {
	Rules    string `short:"r" type:"existingfile" help:"Table rules document (.hcl or .yaml). Defaults to the house rules."`
	Strategy string `short:"s" type:"existingfile" required:"" help:"Strategy document (.hcl or .yaml) matching the table rules"`
	Seats    int    `default:"1" help:"Occupied seats, including the simulated player"`
	Verbose  bool   `help:"Enable debug logging"`
	NoColor  bool   `help:"Disable colored output"`
}

func (f TableFlags) logger() *log.Logger {
	level := log.WarnLevel
	if f.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: f.Verbose,
	})
}

// load reads the rules, then the strategy validated against them.
func (f TableFlags) load() (rules.Rules, *strategy.Table, error) {
	if f.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	r, err := rules.Load(f.Rules)
	if err != nil {
		return rules.Rules{}, nil, err
	}
	table, err := strategy.Load(f.Strategy, r)
	if err != nil {
		return rules.Rules{}, nil, err
	}
	return r, table, nil
}
