package leagueoutcomes

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDixonColesTau(t *testing.T) {
	lambdaHome, lambdaAway, rho := 1.5, 1.2, -0.1

	assert.InDelta(t, 1-1.5*1.2*(-0.1), DixonColesTau(0, 0, lambdaHome, lambdaAway, rho), 1e-12)
	assert.InDelta(t, 1+1.2*(-0.1), DixonColesTau(1, 0, lambdaHome, lambdaAway, rho), 1e-12)
	assert.InDelta(t, 1+1.5*(-0.1), DixonColesTau(0, 1, lambdaHome, lambdaAway, rho), 1e-12)
	assert.InDelta(t, 1-(-0.1), DixonColesTau(1, 1, lambdaHome, lambdaAway, rho), 1e-12)

	// All other cells are untouched
	assert.Equal(t, 1.0, DixonColesTau(2, 0, lambdaHome, lambdaAway, rho))
	assert.Equal(t, 1.0, DixonColesTau(0, 2, lambdaHome, lambdaAway, rho))
	assert.Equal(t, 1.0, DixonColesTau(3, 3, lambdaHome, lambdaAway, rho))
}

func TestDixonColesTauZeroRho(t *testing.T) {
	for homeGoals := 0; homeGoals <= 2; homeGoals++ {
		for awayGoals := 0; awayGoals <= 2; awayGoals++ {
			assert.Equal(t, 1.0, DixonColesTau(homeGoals, awayGoals, 1.5, 1.2, 0))
		}
	}
}

func TestNewScoreMatrixTotalNearOne(t *testing.T) {
	matrix := NewScoreMatrix(1.5, 1.2, -0.1, 10)

	// Truncation at 10 goals per side loses almost nothing at these rates
	assert.InDelta(t, 1.0, matrix.TotalProbability(), 1e-3)
}

func TestNewScoreMatrixNegativeCellsClamped(t *testing.T) {
	// Extreme rho drives the 0-0 correction below zero for large lambdas
	matrix := NewScoreMatrix(3.0, 3.0, 0.5, 10)

	for homeGoals := 0; homeGoals <= matrix.Bound; homeGoals++ {
		for awayGoals := 0; awayGoals <= matrix.Bound; awayGoals++ {
			assert.GreaterOrEqual(t, matrix.Matrix[homeGoals][awayGoals], 0.0,
				"cell (%d,%d) must not be negative", homeGoals, awayGoals)
		}
	}
}

func TestCorrectScoreNormalized(t *testing.T) {
	matrix := NewScoreMatrix(1.5, 1.2, -0.1, 10)

	sum := 0.0
	for homeGoals := 0; homeGoals <= matrix.Bound; homeGoals++ {
		for awayGoals := 0; awayGoals <= matrix.Bound; awayGoals++ {
			sum += matrix.CorrectScore(homeGoals, awayGoals)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	assert.Equal(t, 0.0, matrix.CorrectScore(-1, 0))
	assert.Equal(t, 0.0, matrix.CorrectScore(0, matrix.Bound+1))
}

func TestMatchOddsSumToOne(t *testing.T) {
	matrix := NewScoreMatrix(1.8, 0.9, -0.1, 10)
	odds := matrix.MatchOdds()

	assert.InDelta(t, 1.0, odds[0]+odds[1]+odds[2], 1e-12)
	// Stronger home side should be favourite
	assert.Greater(t, odds[0], odds[2])
}

func TestSampleDeterministicForFixedSeed(t *testing.T) {
	matrix := NewScoreMatrix(1.5, 1.2, -0.1, 10)

	first := rand.New(rand.NewSource(42))
	second := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		h1, a1 := matrix.Sample(first)
		h2, a2 := matrix.Sample(second)
		require.Equal(t, h1, h2)
		require.Equal(t, a1, a2)
	}
}

func TestSampleStaysOnGrid(t *testing.T) {
	matrix := NewScoreMatrix(2.5, 2.0, -0.1, 5)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		homeGoals, awayGoals := matrix.Sample(rng)
		require.GreaterOrEqual(t, homeGoals, 0)
		require.GreaterOrEqual(t, awayGoals, 0)
		require.LessOrEqual(t, homeGoals, matrix.Bound)
		require.LessOrEqual(t, awayGoals, matrix.Bound)
	}
}

func TestSampleMatchesDistribution(t *testing.T) {
	matrix := NewScoreMatrix(1.2, 1.0, -0.1, 10)
	rng := rand.New(rand.NewSource(99))

	draws := 50000
	zeroZero := 0
	for i := 0; i < draws; i++ {
		homeGoals, awayGoals := matrix.Sample(rng)
		if homeGoals == 0 && awayGoals == 0 {
			zeroZero++
		}
	}

	expected := matrix.CorrectScore(0, 0)
	observed := float64(zeroZero) / float64(draws)
	assert.InDelta(t, expected, observed, 0.01)
}

func TestExpectedGoalsNearLambdas(t *testing.T) {
	matrix := NewScoreMatrix(1.5, 1.2, 0, 10)
	homeExpected, awayExpected := matrix.ExpectedGoals()

	assert.InDelta(t, 1.5, homeExpected, 0.01)
	assert.InDelta(t, 1.2, awayExpected, 0.01)
}

func TestPoissonProb(t *testing.T) {
	// P(X=0) for lambda=1 is e^-1
	assert.InDelta(t, 0.36787944117, PoissonProb(1.0, 0), 1e-9)
	assert.Equal(t, 0.0, PoissonProb(1.0, -1))
	assert.Equal(t, 1.0, PoissonProb(0, 0))
	assert.Equal(t, 0.0, PoissonProb(0, 2))
}
