package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack-sim/internal/game"
	"github.com/lox/blackjack-sim/internal/randutil"
	"github.com/lox/blackjack-sim/internal/report"
)

// PlayCmd plays one game and reports on it.
type PlayCmd struct {
	TableFlags `embed:""`

	Rounds      int    `default:"1000" help:"Rounds per batch"`
	Shoes       int    `help:"Play this many complete shoes instead of a round count"`
	Reset       bool   `help:"Start a fresh shoe after each batch of rounds"`
	Interactive bool   `short:"i" help:"Ask whether to keep playing after each batch"`
	SkipDealer  bool   `help:"Leave the dealer's hand unplayed when every player hand busted"`
	Seed        int64  `help:"RNG seed. Zero picks one."`
	Output      string `short:"o" type:"path" help:"Also write the final report as JSON to this file"`
}

func (c *PlayCmd) Run() error {
	logger := c.logger()
	r, table, err := c.load()
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	g, err := game.New(game.Config{
		Rules:                       r,
		Strategy:                    table,
		Seats:                       c.Seats,
		Rng:                         randutil.New(seed),
		SkipDealerWhenNoActiveHands: c.SkipDealer,
		Logger:                      logger,
	})
	if err != nil {
		return err
	}
	logger.Info("Game started", "id", g.ID(), "seed", seed, "seats", c.Seats, "decks", r.Decks)

	rounds := c.Rounds
	for {
		if c.Shoes > 0 {
			err = g.PlayShoes(c.Shoes)
		} else {
			err = g.PlayRounds(rounds, c.Reset)
		}
		if err != nil {
			return err
		}

		if err := report.Game(os.Stdout, g.Report()); err != nil {
			return err
		}
		if !c.Interactive {
			break
		}

		next, ok, err := askContinue(rounds)
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		if !ok {
			break
		}
		rounds = next
	}

	if c.Output != "" {
		if err := report.WriteJSON(c.Output, g.Report()); err != nil {
			return err
		}
		logger.Info("Report written", "path", c.Output)
	}
	return nil
}
