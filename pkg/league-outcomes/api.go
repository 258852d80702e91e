package leagueoutcomes

import (
	"fmt"
	"math/rand"
)

// RunSimulation runs the Monte Carlo final-position simulation.
// This is the main entry point for the league-outcomes package.
func RunSimulation(request SimulationRequest) (*SimulationResult, error) {
	if err := validateRequest(request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	params := request.Params
	if params == nil {
		params = DefaultSimParams()
	}

	driver := &monteCarloDriver{
		base:     request.BaseTable,
		home:     request.HomeTable,
		away:     request.AwayTable,
		fixtures: request.Fixtures,
		params:   params,
		stopping: request.Stopping,
		logger:   request.Logger,
	}

	result, err := driver.run()
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	return result, nil
}

// SimulateOnce plays out the remaining fixtures of a single season and
// returns the resolved final table. Useful for inspecting individual
// outcomes rather than the position distribution.
func SimulateOnce(request SimulationRequest, seed int64) (*SimulatedTable, error) {
	if request.Stopping.MaxSimulations <= 0 {
		request.Stopping.MaxSimulations = 1
	}
	if err := validateRequest(request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	params := request.Params
	if params == nil {
		params = DefaultSimParams()
	}

	sim, err := newSeasonSimulator(request.BaseTable, request.HomeTable, request.AwayTable, request.Fixtures, params)
	if err != nil {
		return nil, err
	}

	return sim.simulateOnce(rand.New(rand.NewSource(seed)))
}

// MatchProbabilities returns home/draw/away probabilities for one fixture
// under the request's tables and parameters
func MatchProbabilities(request SimulationRequest, fixture Fixture) ([3]float64, error) {
	params := request.Params
	if params == nil {
		params = DefaultSimParams()
	}

	lambdaHome, lambdaAway, err := ExpectedGoals(request.BaseTable, request.HomeTable, request.AwayTable, fixture, params.HomeAdvantage)
	if err != nil {
		return [3]float64{}, err
	}

	matrix := NewScoreMatrix(lambdaHome, lambdaAway, params.Rho, params.GoalGridBound)
	return matrix.MatchOdds(), nil
}
