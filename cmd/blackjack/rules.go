package main

import (
	"fmt"

	"github.com/sanity-io/litter"

	"github.com/lox/blackjack-sim/internal/rules"
	"github.com/lox/blackjack-sim/internal/strategy"
)

// RulesCmd prints the rules in effect and, when given, the strategy.
type RulesCmd struct {
	Rules    string `short:"r" type:"existingfile" help:"Table rules document (.hcl or .yaml)"`
	Strategy string `short:"s" type:"existingfile" help:"Strategy document to validate against the rules"`
}

func (c *RulesCmd) Run() error {
	r, err := rules.Load(c.Rules)
	if err != nil {
		return err
	}

	opts := litter.Options{HidePrivateFields: true}
	fmt.Println(opts.Sdump(r))

	if c.Strategy == "" {
		return nil
	}
	table, err := strategy.Load(c.Strategy, r)
	if err != nil {
		return err
	}
	fmt.Println(opts.Sdump(table.Definition()))
	return nil
}
