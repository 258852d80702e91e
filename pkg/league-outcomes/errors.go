package leagueoutcomes

import "fmt"

// InvalidRateError indicates a negative or non-finite expected goals value.
// It aborts the simulation that produced it and is surfaced to the caller.
type InvalidRateError struct {
	Team string  `json:"team"`
	Rate float64 `json:"rate"`
}

func (e InvalidRateError) Error() string {
	return fmt.Sprintf("invalid scoring rate %v for team %q", e.Rate, e.Team)
}

// UnknownTeamError indicates a fixture referencing a team that is absent
// from the base standings table. The whole run is aborted since the input
// is malformed.
type UnknownTeamError struct {
	Team string `json:"team"`
}

func (e UnknownTeamError) Error() string {
	return fmt.Sprintf("fixture references unknown team %q", e.Team)
}

// NoSimulationsCompletedError indicates the run was cancelled before a
// single simulation finished, so position probabilities are undefined.
type NoSimulationsCompletedError struct{}

func (e NoSimulationsCompletedError) Error() string {
	return "cancelled before any simulation completed"
}
