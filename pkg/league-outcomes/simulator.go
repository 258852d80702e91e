package leagueoutcomes

import (
	"math/rand"
)

// seasonSimulator resolves the remaining fixtures of one season. The input
// tables are never mutated; each simulation updates a private working copy
// seeded from the base table. One instance is owned by exactly one worker,
// so no internal locking is needed.
type seasonSimulator struct {
	base     []TeamStanding
	index    map[string]int // team name -> base table position
	rates    *rateBook
	fixtures []Fixture
	params   *SimParams

	working []TeamStanding // scratch table reused across simulations
}

func newSeasonSimulator(base, home, away []TeamStanding, fixtures []Fixture, params *SimParams) (*seasonSimulator, error) {
	index := make(map[string]int, len(base))
	for i, standing := range base {
		index[standing.Team] = i
	}

	for _, fixture := range fixtures {
		if _, ok := index[fixture.HomeTeam]; !ok {
			return nil, UnknownTeamError{Team: fixture.HomeTeam}
		}
		if _, ok := index[fixture.AwayTeam]; !ok {
			return nil, UnknownTeamError{Team: fixture.AwayTeam}
		}
	}

	return &seasonSimulator{
		base:     base,
		index:    index,
		rates:    newRateBook(base, home, away),
		fixtures: fixtures,
		params:   params,
		working:  make([]TeamStanding, len(base)),
	}, nil
}

// simulateOnce plays out every remaining fixture exactly once and returns
// the fully resolved, ranked final table. Fixture order does not affect the
// outcome distribution since all standings updates commute.
func (ss *seasonSimulator) simulateOnce(rng *rand.Rand) (*SimulatedTable, error) {
	copy(ss.working, ss.base)

	for _, fixture := range ss.fixtures {
		lambdaHome, lambdaAway, err := ss.rates.expectedGoals(fixture, ss.params.HomeAdvantage)
		if err != nil {
			return nil, err
		}

		matrix := NewScoreMatrix(lambdaHome, lambdaAway, ss.params.Rho, ss.params.GoalGridBound)
		homeGoals, awayGoals := matrix.Sample(rng)

		ss.applyResult(fixture, homeGoals, awayGoals)
	}

	return &SimulatedTable{Teams: RankTable(ss.working)}, nil
}

// applyResult updates the working table for one sampled scoreline:
// win = 3 points, draw = 1, loss = 0
func (ss *seasonSimulator) applyResult(fixture Fixture, homeGoals, awayGoals int) {
	home := &ss.working[ss.index[fixture.HomeTeam]]
	away := &ss.working[ss.index[fixture.AwayTeam]]

	home.Played++
	home.GoalsFor += homeGoals
	home.GoalsAgainst += awayGoals

	away.Played++
	away.GoalsFor += awayGoals
	away.GoalsAgainst += homeGoals

	switch {
	case homeGoals > awayGoals:
		home.Points += 3
	case awayGoals > homeGoals:
		away.Points += 3
	default:
		home.Points++
		away.Points++
	}
}
