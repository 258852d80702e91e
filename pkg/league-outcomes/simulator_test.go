package leagueoutcomes

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStandings() []TeamStanding {
	return []TeamStanding{
		{Team: "Arsenal", Played: 10, Points: 22, GoalsFor: 20, GoalsAgainst: 10},
		{Team: "Chelsea", Played: 10, Points: 18, GoalsFor: 15, GoalsAgainst: 12},
		{Team: "Fulham", Played: 10, Points: 12, GoalsFor: 10, GoalsAgainst: 18},
	}
}

func TestSimulateOnceResolvesAllFixtures(t *testing.T) {
	base := testStandings()
	fixtures := []Fixture{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
		{HomeTeam: "Chelsea", AwayTeam: "Fulham"},
		{HomeTeam: "Fulham", AwayTeam: "Arsenal"},
	}

	sim, err := newSeasonSimulator(base, nil, nil, fixtures, DefaultSimParams())
	require.NoError(t, err)

	table, err := sim.simulateOnce(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, table.Teams, 3)

	seenRanks := make(map[int]bool)
	seenTeams := make(map[string]bool)
	for _, team := range table.Teams {
		// Every team had 10 played plus 2 fixtures here
		assert.Equal(t, 12, team.Played, "team %s", team.Team)
		seenRanks[team.Rank] = true
		seenTeams[team.Team] = true
	}

	// A permutation of the input teams with unique ranks 1..T
	for rank := 1; rank <= 3; rank++ {
		assert.True(t, seenRanks[rank], "rank %d missing", rank)
	}
	for _, standing := range base {
		assert.True(t, seenTeams[standing.Team], "team %s missing", standing.Team)
	}
}

func TestSimulateOncePointsAccounting(t *testing.T) {
	base := testStandings()
	fixtures := []Fixture{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
		{HomeTeam: "Chelsea", AwayTeam: "Fulham"},
	}

	sim, err := newSeasonSimulator(base, nil, nil, fixtures, DefaultSimParams())
	require.NoError(t, err)

	basePoints := 0
	for _, standing := range base {
		basePoints += standing.Points
	}

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		table, err := sim.simulateOnce(rng)
		require.NoError(t, err)

		totalPoints := 0
		for _, team := range table.Teams {
			totalPoints += team.Points
		}
		// Each match adds 3 points for a decisive result or 2 for a draw
		added := totalPoints - basePoints
		assert.GreaterOrEqual(t, added, 2*len(fixtures))
		assert.LessOrEqual(t, added, 3*len(fixtures))
	}
}

func TestSimulateOnceDoesNotMutateBase(t *testing.T) {
	base := testStandings()
	fixtures := []Fixture{{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}}

	sim, err := newSeasonSimulator(base, nil, nil, fixtures, DefaultSimParams())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		_, err := sim.simulateOnce(rng)
		require.NoError(t, err)
	}

	assert.Equal(t, testStandings(), base)
}

func TestSimulateOnceDeterministicForFixedSeed(t *testing.T) {
	base := testStandings()
	fixtures := []Fixture{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
		{HomeTeam: "Chelsea", AwayTeam: "Fulham"},
		{HomeTeam: "Fulham", AwayTeam: "Arsenal"},
	}

	run := func() *SimulatedTable {
		sim, err := newSeasonSimulator(base, nil, nil, fixtures, DefaultSimParams())
		require.NoError(t, err)
		table, err := sim.simulateOnce(rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		return table
	}

	assert.Equal(t, run(), run())
}

func TestNewSeasonSimulatorUnknownTeam(t *testing.T) {
	base := testStandings()
	fixtures := []Fixture{{HomeTeam: "Arsenal", AwayTeam: "Barcelona"}}

	_, err := newSeasonSimulator(base, nil, nil, fixtures, DefaultSimParams())
	require.Error(t, err)

	var unknownErr UnknownTeamError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Barcelona", unknownErr.Team)
}

func TestSimulateOnceAPI(t *testing.T) {
	request := SimulationRequest{
		BaseTable: testStandings(),
		Fixtures:  []Fixture{{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}},
	}

	table, err := SimulateOnce(request, 7)
	require.NoError(t, err)
	require.Len(t, table.Teams, 3)

	// Same seed, same outcome
	again, err := SimulateOnce(request, 7)
	require.NoError(t, err)
	assert.Equal(t, table, again)
}
