package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/blackjack-sim/internal/report"
	"github.com/lox/blackjack-sim/internal/simulator"
)

// BatchCmd runs independent trials and compares wallets across them.
type BatchCmd struct {
	TableFlags `embed:""`

	Trials     int    `default:"100" help:"Number of independent games"`
	Rounds     int    `default:"10000" help:"Rounds per game"`
	Shoes      int    `help:"Complete shoes per game, used when rounds is zero"`
	Workers    int    `help:"Concurrent games. Defaults to the CPU count, at most 8."`
	Seed       int64  `help:"Batch seed. Zero picks one."`
	SkipDealer bool   `help:"Leave the dealer's hand unplayed when every player hand busted"`
	Output     string `short:"o" type:"path" help:"Write the result as JSON to this file"`
}

func (c *BatchCmd) Run() error {
	logger := c.logger()
	r, table, err := c.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulator.New(simulator.Config{
		Rules:                       r,
		Strategy:                    table,
		Seats:                       c.Seats,
		Trials:                      c.Trials,
		Rounds:                      c.Rounds,
		Shoes:                       c.Shoes,
		Workers:                     c.Workers,
		Seed:                        c.Seed,
		SkipDealerWhenNoActiveHands: c.SkipDealer,
		Logger:                      logger,
	})

	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	if err := report.Batch(os.Stdout, result); err != nil {
		return err
	}

	if c.Output != "" {
		if err := report.WriteJSON(c.Output, result); err != nil {
			return err
		}
		logger.Info("Result written", "path", c.Output)
	}
	return nil
}
