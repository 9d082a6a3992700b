// Package simulator runs many independent seeded games in parallel and
// summarises how each wallet fared across them.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-sim/internal/betting"
	"github.com/lox/blackjack-sim/internal/game"
	"github.com/lox/blackjack-sim/internal/randutil"
	"github.com/lox/blackjack-sim/internal/rules"
	"github.com/lox/blackjack-sim/internal/statistics"
	"github.com/lox/blackjack-sim/internal/strategy"
)

// ErrNoWork indicates a configuration that would play nothing.
var ErrNoWork = errors.New("simulator: trials and one of rounds or shoes must be positive")

// maxWorkers caps the default worker count
const maxWorkers = 8

// Config holds configuration for a batch of trials.
type Config struct {
	Rules    rules.Rules
	Strategy *strategy.Table
	Seats    int

	// Trials is the number of independent games. Each plays Rounds rounds,
	// or Shoes complete shoes when Rounds is zero.
	Trials int
	Rounds int
	Shoes  int

	// Workers bounds how many trials run at once. Zero uses the CPU count,
	// capped at 8.
	Workers int

	// Seed reproduces a batch. Zero picks a time based seed.
	Seed int64

	SkipDealerWhenNoActiveHands bool

	Clock  quartz.Clock
	Logger *log.Logger
}

// Result summarises a batch.
type Result struct {
	ID       string        `json:"id"`
	Seed     int64         `json:"seed"`
	Trials   int           `json:"trials"`
	Seats    int           `json:"seats"`
	Decks    int           `json:"decks"`
	Duration time.Duration `json:"duration"`

	Game    statistics.Game  `json:"game"`
	Player  game.PartyReport `json:"player"`
	Dealer  game.PartyReport `json:"dealer"`
	Wallets []WalletResult   `json:"wallets"`
}

// WalletResult is one wallet's spread of outcomes across trials.
type WalletResult struct {
	Name         string            `json:"name"`
	Policy       betting.Kind      `json:"policy"`
	UnitsPerHand statistics.Sample `json:"units_per_hand"`
	Net          statistics.Sample `json:"net"`
}

// Simulator runs batches of games.
type Simulator struct {
	config Config
}

// New creates a simulator, filling in defaults.
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = min(runtime.NumCPU(), maxWorkers)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	config.Seed = randutil.Seed(config.Seed)
	return &Simulator{config: config}
}

// Seed returns the seed the batch runs with.
func (s *Simulator) Seed() int64 {
	return s.config.Seed
}

// Run plays every trial and aggregates the reports in trial order, so the
// result depends only on the seed and not on scheduling.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	if cfg.Trials <= 0 || (cfg.Rounds <= 0 && cfg.Shoes <= 0) {
		return nil, ErrNoWork
	}

	id := uuid.NewString()
	logger := cfg.Logger.WithPrefix("simulator").With("run", id[:8])
	start := cfg.Clock.Now()

	logger.Info("Starting batch", "trials", cfg.Trials, "workers", cfg.Workers, "seed", cfg.Seed)

	reports := make([]game.Report, cfg.Trials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for trial := range cfg.Trials {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := s.playTrial(trial)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial+1, err)
			}
			reports[trial] = report
			logger.Debug("Trial complete", "trial", trial+1, "hands", report.Game.Hands)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := aggregate(reports)
	result.ID = id
	result.Seed = cfg.Seed
	result.Seats = cfg.Seats
	result.Decks = cfg.Rules.Decks
	result.Duration = cfg.Clock.Since(start)

	for _, w := range result.Wallets {
		if err := w.UnitsPerHand.Validate(); err != nil {
			return nil, fmt.Errorf("wallet %q: statistics validation failed: %w", w.Name, err)
		}
	}

	logger.Info("Batch complete", "hands", result.Game.Hands, "duration", result.Duration)
	return result, nil
}

func (s *Simulator) playTrial(trial int) (game.Report, error) {
	cfg := s.config
	g, err := game.New(game.Config{
		Rules:                       cfg.Rules,
		Strategy:                    cfg.Strategy,
		Seats:                       cfg.Seats,
		Rng:                         randutil.New(randutil.TrialSeed(cfg.Seed, trial)),
		SkipDealerWhenNoActiveHands: cfg.SkipDealerWhenNoActiveHands,
		Logger:                      cfg.Logger,
	})
	if err != nil {
		return game.Report{}, err
	}

	if cfg.Rounds > 0 {
		err = g.PlayRounds(cfg.Rounds, false)
	} else {
		err = g.PlayShoes(cfg.Shoes)
	}
	if err != nil {
		return game.Report{}, err
	}
	return g.Report(), nil
}

func aggregate(reports []game.Report) *Result {
	result := &Result{Trials: len(reports)}
	index := make(map[string]int)

	for _, r := range reports {
		result.Game.Hands += r.Game.Hands
		result.Game.Shoes += r.Game.Shoes
		addParty(&result.Player, r.Player)
		addParty(&result.Dealer, r.Dealer)

		for _, w := range r.Wallets {
			i, ok := index[w.Name]
			if !ok {
				i = len(result.Wallets)
				index[w.Name] = i
				result.Wallets = append(result.Wallets, WalletResult{Name: w.Name, Policy: w.Policy})
			}
			result.Wallets[i].UnitsPerHand.Add(w.UnitsPerHand)
			result.Wallets[i].Net.Add(w.Net)
		}
	}
	return result
}

func addParty(dst *game.PartyReport, src game.PartyReport) {
	dst.Outcome.Wins += src.Outcome.Wins
	dst.Outcome.NaturalWins += src.Outcome.NaturalWins
	dst.Outcome.Losses += src.Outcome.Losses
	dst.Outcome.Ties += src.Outcome.Ties

	dst.Actions.Stand += src.Actions.Stand
	dst.Actions.Hit += src.Actions.Hit
	dst.Actions.Double += src.Actions.Double
	dst.Actions.Split += src.Actions.Split
	dst.Actions.Bust += src.Actions.Bust

	dst.NaturalTies += src.NaturalTies
}
