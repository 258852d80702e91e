package leagueoutcomes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayoff(t *testing.T) {
	payoff, err := parsePayoff("1|4x0.25|19x0")
	require.NoError(t, err)

	require.Len(t, payoff, 24)
	assert.Equal(t, 1.0, payoff[0])
	for i := 1; i <= 4; i++ {
		assert.Equal(t, 0.25, payoff[i])
	}
	for i := 5; i < 24; i++ {
		assert.Equal(t, 0.0, payoff[i])
	}
}

func TestParsePayoffSingleValue(t *testing.T) {
	payoff, err := parsePayoff("1")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, payoff)
}

func TestParsePayoffInvalid(t *testing.T) {
	_, err := parsePayoff("1|bad")
	assert.Error(t, err)

	_, err = parsePayoff("2x0.5x1")
	assert.Error(t, err)
}

func TestInitMarketsStandard(t *testing.T) {
	teams := []string{"Arsenal", "Chelsea", "Fulham"}
	markets := []Market{{Name: "Winner", Payoff: "1|2x0"}}

	require.NoError(t, InitMarkets(teams, markets))

	assert.Equal(t, teams, markets[0].Teams)
	assert.Equal(t, []float64{1, 0, 0}, markets[0].ParsedPayoff)
}

func TestInitMarketsInclude(t *testing.T) {
	teams := []string{"Arsenal", "Chelsea", "Fulham"}
	markets := []Market{{
		Name:    "Big Two",
		Payoff:  "1|2x0",
		Include: []string{"Arsenal", "Chelsea"},
	}}

	require.NoError(t, InitMarkets(teams, markets))
	assert.Equal(t, []string{"Arsenal", "Chelsea"}, markets[0].Teams)
}

func TestInitMarketsExclude(t *testing.T) {
	teams := []string{"Arsenal", "Chelsea", "Fulham"}
	markets := []Market{{
		Name:    "Best of the Rest",
		Payoff:  "1|2x0",
		Exclude: []string{"Arsenal"},
	}}

	require.NoError(t, InitMarkets(teams, markets))
	assert.Equal(t, []string{"Chelsea", "Fulham"}, markets[0].Teams)
}

func TestInitMarketsErrors(t *testing.T) {
	teams := []string{"Arsenal", "Chelsea", "Fulham"}

	err := InitMarkets(teams, []Market{{Name: "NoPayoff"}})
	assert.ErrorContains(t, err, "no payoff")

	err = InitMarkets(teams, []Market{{
		Name: "Both", Payoff: "1|2x0",
		Include: []string{"Arsenal"}, Exclude: []string{"Fulham"},
	}})
	assert.ErrorContains(t, err, "both include and exclude")

	err = InitMarkets(teams, []Market{{
		Name: "Ghost", Payoff: "1|2x0", Include: []string{"Barcelona"},
	}})
	assert.ErrorContains(t, err, "unknown team")

	err = InitMarkets(teams, []Market{{Name: "Short", Payoff: "1|1x0"}})
	assert.ErrorContains(t, err, "covers 2 positions")
}

func TestCalculateMarkValues(t *testing.T) {
	teams := []string{"Arsenal", "Chelsea", "Fulham"}
	markets := []Market{{Name: "Winner", Payoff: "1|2x0"}}
	require.NoError(t, InitMarkets(teams, markets))

	result := &SimulationResult{
		Probabilities: map[string][]float64{
			"Arsenal": {0.6, 0.3, 0.1},
			"Chelsea": {0.3, 0.4, 0.3},
			"Fulham":  {0.1, 0.3, 0.6},
		},
	}

	marks := CalculateMarkValues(result, markets)
	winner := marks["Winner"]

	assert.InDelta(t, 0.6, winner["Arsenal"], 1e-12)
	assert.InDelta(t, 0.3, winner["Chelsea"], 1e-12)
	assert.InDelta(t, 0.1, winner["Fulham"], 1e-12)
}

func TestCalculateMarkValuesExcludedTeamsNotMarked(t *testing.T) {
	teams := []string{"Arsenal", "Chelsea", "Fulham"}
	markets := []Market{{
		Name: "Rest", Payoff: "1|2x0", Exclude: []string{"Arsenal"},
	}}
	require.NoError(t, InitMarkets(teams, markets))

	result := &SimulationResult{
		Probabilities: map[string][]float64{
			"Arsenal": {0.6, 0.3, 0.1},
			"Chelsea": {0.3, 0.4, 0.3},
			"Fulham":  {0.1, 0.3, 0.6},
		},
	}

	marks := CalculateMarkValues(result, markets)["Rest"]
	assert.NotContains(t, marks, "Arsenal")
	assert.Contains(t, marks, "Chelsea")
	assert.Contains(t, marks, "Fulham")
}
