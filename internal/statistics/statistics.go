// Package statistics holds the counters a simulation accumulates and the
// summary math used to compare wallets across independent runs.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Outcome tallies wins, losses and ties. NaturalWins is a subset of Wins.
type Outcome struct {
	Wins        int `json:"wins"`
	NaturalWins int `json:"natural_wins"`
	Losses      int `json:"losses"`
	Ties        int `json:"ties"`
}

// AddWin records a win, optionally paid as a natural
func (o *Outcome) AddWin(natural bool) {
	o.Wins++
	if natural {
		o.NaturalWins++
	}
}

// AddLoss records a loss
func (o *Outcome) AddLoss() {
	o.Losses++
}

// AddTie records a push
func (o *Outcome) AddTie() {
	o.Ties++
}

// Reset zeroes every counter
func (o *Outcome) Reset() {
	*o = Outcome{}
}

// Total returns the number of decided hands
func (o Outcome) Total() int {
	return o.Wins + o.Losses + o.Ties
}

// Net returns wins minus losses
func (o Outcome) Net() int {
	return o.Wins - o.Losses
}

// WinPercent returns wins as a percentage of decided hands
func (o Outcome) WinPercent() float64 {
	return percent(o.Wins, o.Total())
}

// LossPercent returns losses as a percentage of decided hands
func (o Outcome) LossPercent() float64 {
	return percent(o.Losses, o.Total())
}

// TiePercent returns ties as a percentage of decided hands
func (o Outcome) TiePercent() float64 {
	return percent(o.Ties, o.Total())
}

// NaturalPercent returns natural wins as a percentage of decided hands
func (o Outcome) NaturalPercent() float64 {
	return percent(o.NaturalWins, o.Total())
}

// String formats as "win/loss/tie win%/loss%/tie% naturals/natural% net"
func (o Outcome) String() string {
	return fmt.Sprintf("%d/%d/%d %d%%/%d%%/%d%% %d/%.2f%% %d",
		o.Wins, o.Losses, o.Ties,
		int(o.WinPercent()), int(o.LossPercent()), int(o.TiePercent()),
		o.NaturalWins, o.NaturalPercent(), o.Net())
}

// Actions counts the decisions a party made.
type Actions struct {
	Stand  int `json:"stand"`
	Hit    int `json:"hit"`
	Double int `json:"double"`
	Split  int `json:"split"`
	Bust   int `json:"bust"`
}

// Reset zeroes every counter
func (a *Actions) Reset() {
	*a = Actions{}
}

// Game counts rounds and shoes played.
type Game struct {
	Hands int `json:"hands"`
	Shoes int `json:"shoes"`
}

// Reset zeroes every counter
func (g *Game) Reset() {
	*g = Game{}
}

// HandsPerShoe returns the average number of rounds dealt per shoe
func (g Game) HandsPerShoe() float64 {
	if g.Shoes == 0 {
		return 0
	}
	return float64(g.Hands) / float64(g.Shoes)
}

// Percent returns n as a percentage of total, zero when total is zero.
func Percent(n, total int) float64 {
	return percent(n, total)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Sample accumulates observations of one metric, typically a wallet's
// units-per-hand rate from each independent trial.
type Sample struct {
	N      int       `json:"n"`
	Sum    float64   `json:"sum"`
	SumSq  float64   `json:"sum_sq"` // Sum of squares for variance calculation
	Values []float64 `json:"values"` // Kept for median/percentile calculation
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
}

// Add incorporates one observation
func (s *Sample) Add(v float64) {
	if s.N == 0 || v < s.Min {
		s.Min = v
	}
	if s.N == 0 || v > s.Max {
		s.Max = v
	}
	s.N++
	s.Sum += v
	s.SumSq += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean
func (s *Sample) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance
func (s *Sample) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.N)*mean*mean) / float64(s.N-1)
}

// StdDev returns the sample standard deviation
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Sample) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Sample) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median observation
func (s *Sample) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p (0.0 to 1.0)
func (s *Sample) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the accumulator is internally consistent
func (s *Sample) Validate() error {
	if s.N <= 0 {
		return fmt.Errorf("invalid sample count: %d", s.N)
	}
	if len(s.Values) != s.N {
		return fmt.Errorf("values length (%d) does not match sample count (%d)", len(s.Values), s.N)
	}

	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	if math.Abs(sum-s.Sum) > 1e-6*math.Max(1, math.Abs(s.Sum)) {
		return fmt.Errorf("sum mismatch: recorded %.6f, values total %.6f", s.Sum, sum)
	}
	return nil
}
