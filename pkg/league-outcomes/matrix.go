package leagueoutcomes

import (
	"math/rand"
)

// ScoreMatrix represents the joint distribution over (home goals, away
// goals) on a truncated grid, built from two Poisson marginals with the
// Dixon-Coles low-score correction applied
type ScoreMatrix struct {
	Bound  int         // Maximum goals per side on the grid
	Matrix [][]float64 // [homeGoals][awayGoals] -> probability mass
	total  float64     // Sum of all cells, used to normalize sampling
}

// NewScoreMatrix creates a score matrix from Poisson lambdas with Dixon-Coles adjustment
func NewScoreMatrix(lambdaHome, lambdaAway, rho float64, bound int) *ScoreMatrix {
	matrix := make([][]float64, bound+1)
	for i := range matrix {
		matrix[i] = make([]float64, bound+1)
	}

	total := 0.0
	for homeGoals := 0; homeGoals <= bound; homeGoals++ {
		probHome := PoissonProb(lambdaHome, homeGoals)
		for awayGoals := 0; awayGoals <= bound; awayGoals++ {
			probAway := PoissonProb(lambdaAway, awayGoals)

			tau := DixonColesTau(homeGoals, awayGoals, lambdaHome, lambdaAway, rho)
			mass := probHome * probAway * tau
			if mass < 0 {
				// Rho outside the valid range for these lambdas; clamp so
				// the joint distribution stays non-negative
				mass = 0
			}

			matrix[homeGoals][awayGoals] = mass
			total += mass
		}
	}

	return &ScoreMatrix{
		Bound:  bound,
		Matrix: matrix,
		total:  total,
	}
}

// DixonColesTau is the Dixon-Coles correction factor applied to the four
// low-score cells (0-0, 1-0, 0-1, 1-1). Rho is valid when every corrected
// cell stays non-negative: rho >= -1/max(lambdaHome, lambdaAway) roughly,
// and rho <= min(1, 1/(lambdaHome*lambdaAway)); callers outside that range
// get clamped cells rather than a negative mass.
func DixonColesTau(homeGoals, awayGoals int, lambdaHome, lambdaAway, rho float64) float64 {
	switch {
	case homeGoals == 0 && awayGoals == 0:
		return 1 - lambdaHome*lambdaAway*rho
	case homeGoals == 1 && awayGoals == 0:
		return 1 + lambdaAway*rho
	case homeGoals == 0 && awayGoals == 1:
		return 1 + lambdaHome*rho
	case homeGoals == 1 && awayGoals == 1:
		return 1 - rho
	default:
		return 1.0
	}
}

// CorrectScore returns the probability of a specific scoreline
func (m *ScoreMatrix) CorrectScore(homeGoals, awayGoals int) float64 {
	if homeGoals < 0 || awayGoals < 0 || homeGoals > m.Bound || awayGoals > m.Bound {
		return 0.0
	}
	if m.total <= 0 {
		return 0.0
	}
	return m.Matrix[homeGoals][awayGoals] / m.total
}

// Sample draws one scoreline from the matrix by inverse-transform sampling
// over the normalized grid, consuming a single uniform draw from rng. For a
// fixed rng state the result is deterministic.
func (m *ScoreMatrix) Sample(rng *rand.Rand) (homeGoals, awayGoals int) {
	u := rng.Float64() * m.total

	cumulative := 0.0
	for h := 0; h <= m.Bound; h++ {
		for a := 0; a <= m.Bound; a++ {
			cumulative += m.Matrix[h][a]
			if u < cumulative {
				return h, a
			}
		}
	}

	// Floating point slack at the tail of the cumulative walk
	return m.Bound, m.Bound
}

// MatchOdds returns 1X2 probabilities [home_win, draw, away_win],
// normalized over the truncated grid
func (m *ScoreMatrix) MatchOdds() [3]float64 {
	var homeWin, draw, awayWin float64

	for homeGoals := 0; homeGoals <= m.Bound; homeGoals++ {
		for awayGoals := 0; awayGoals <= m.Bound; awayGoals++ {
			prob := m.Matrix[homeGoals][awayGoals]

			if homeGoals > awayGoals {
				homeWin += prob
			} else if homeGoals == awayGoals {
				draw += prob
			} else {
				awayWin += prob
			}
		}
	}

	if m.total > 0 {
		homeWin /= m.total
		draw /= m.total
		awayWin /= m.total
	}

	return [3]float64{homeWin, draw, awayWin}
}

// ExpectedGoals returns expected home and away goals over the grid
func (m *ScoreMatrix) ExpectedGoals() (homeExpected, awayExpected float64) {
	for homeGoals := 0; homeGoals <= m.Bound; homeGoals++ {
		for awayGoals := 0; awayGoals <= m.Bound; awayGoals++ {
			prob := m.CorrectScore(homeGoals, awayGoals)
			homeExpected += float64(homeGoals) * prob
			awayExpected += float64(awayGoals) * prob
		}
	}

	return homeExpected, awayExpected
}

// TotalProbability returns the raw sum of all cells before normalization.
// Should be close to 1.0; the Dixon-Coles correction and grid truncation
// make it slightly off, which Sample corrects for.
func (m *ScoreMatrix) TotalProbability() float64 {
	return m.total
}
