package leagueoutcomes

import (
	"math"
)

// defaultScoringRate is assumed for a team with no matches played yet
const defaultScoringRate = 1.0

// rateBook resolves per-fixture expected goals from the three standings
// tables. It is a pure view over the input tables, which are never mutated.
type rateBook struct {
	overall map[string]float64
	home    map[string]float64
	away    map[string]float64
}

func newRateBook(base, home, away []TeamStanding) *rateBook {
	return &rateBook{
		overall: scoringRates(base),
		home:    scoringRates(home),
		away:    scoringRates(away),
	}
}

// scoringRates maps team name to goals scored per match played
func scoringRates(table []TeamStanding) map[string]float64 {
	rates := make(map[string]float64, len(table))
	for _, standing := range table {
		if standing.Played > 0 {
			rates[standing.Team] = float64(standing.GoalsFor) / float64(standing.Played)
		} else {
			rates[standing.Team] = defaultScoringRate
		}
	}
	return rates
}

// sideRate blends a team's overall scoring average with its home-only or
// away-only split, falling back to the overall rate when no split data
// exists for the team
func (rb *rateBook) sideRate(team string, split map[string]float64) float64 {
	overall, ok := rb.overall[team]
	if !ok {
		overall = defaultScoringRate
	}
	if splitRate, ok := split[team]; ok {
		return (overall + splitRate) / 2
	}
	return overall
}

// expectedGoals computes (lambdaHome, lambdaAway) for a fixture, applying
// the multiplicative home advantage to the home side
func (rb *rateBook) expectedGoals(fixture Fixture, homeAdvantage float64) (float64, float64, error) {
	lambdaHome := rb.sideRate(fixture.HomeTeam, rb.home) * homeAdvantage
	lambdaAway := rb.sideRate(fixture.AwayTeam, rb.away)

	if err := checkRate(fixture.HomeTeam, lambdaHome); err != nil {
		return 0, 0, err
	}
	if err := checkRate(fixture.AwayTeam, lambdaAway); err != nil {
		return 0, 0, err
	}

	return lambdaHome, lambdaAway, nil
}

func checkRate(team string, rate float64) error {
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return InvalidRateError{Team: team, Rate: rate}
	}
	return nil
}

// ExpectedGoals derives the per-fixture scoring rates from the three
// standings tables. Home advantage is multiplicative on the home side
// (1.0 = neutral).
func ExpectedGoals(base, home, away []TeamStanding, fixture Fixture, homeAdvantage float64) (float64, float64, error) {
	return newRateBook(base, home, away).expectedGoals(fixture, homeAdvantage)
}
