package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	var o Outcome
	o.AddWin(true)
	o.AddWin(false)
	o.AddLoss()
	o.AddTie()

	assert.Equal(t, 4, o.Total())
	assert.Equal(t, 2, o.Wins)
	assert.Equal(t, 1, o.NaturalWins)
	assert.Equal(t, 1, o.Net())
	assert.InDelta(t, 50.0, o.WinPercent(), 1e-9)
	assert.InDelta(t, 25.0, o.NaturalPercent(), 1e-9)
	assert.Equal(t, "2/1/1 50%/25%/25% 1/25.00% 1", o.String())

	o.Reset()
	assert.Equal(t, Outcome{}, o)
}

func TestOutcome_Empty(t *testing.T) {
	var o Outcome
	assert.Equal(t, 0.0, o.WinPercent())
	assert.Equal(t, "0/0/0 0%/0%/0% 0/0.00% 0", o.String())
}

func TestGame_HandsPerShoe(t *testing.T) {
	g := Game{Hands: 90, Shoes: 2}
	assert.Equal(t, 45.0, g.HandsPerShoe())
	assert.Equal(t, 0.0, Game{Hands: 5}.HandsPerShoe())
}

func TestSample_Empty(t *testing.T) {
	s := &Sample{}

	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.Variance())
	assert.Equal(t, 0.0, s.StdError())
	assert.Equal(t, 0.0, s.Median())
	require.Error(t, s.Validate())
}

func TestSample_Moments(t *testing.T) {
	s := &Sample{}
	for _, v := range []float64{1, 3, 5} {
		s.Add(v)
	}

	assert.InDelta(t, 3.0, s.Mean(), 1e-9)
	assert.InDelta(t, 4.0, s.Variance(), 1e-9)
	assert.InDelta(t, 2.0, s.StdDev(), 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	require.NoError(t, s.Validate())

	low, high := s.ConfidenceInterval95()
	assert.InDelta(t, s.Mean(), (low+high)/2, 1e-9)
	assert.InDelta(t, 1.96*2/math.Sqrt(3), high-s.Mean(), 1e-9)
}

func TestSample_Percentiles(t *testing.T) {
	s := &Sample{}
	for i := 5; i >= 1; i-- {
		s.Add(float64(i))
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, s.Percentile(tt.percentile), 1e-9, "p%.2f", tt.percentile)
	}
}

func TestSample_ValidateMismatch(t *testing.T) {
	s := &Sample{N: 2, Values: []float64{1}}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "values length")

	s = &Sample{N: 1, Sum: 3, Values: []float64{1}}
	err = s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum mismatch")
}
