package leagueoutcomes

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// MatchResult represents a completed football match with result
type MatchResult struct {
	Date      string `json:"date"`
	Season    string `json:"season"`
	League    string `json:"league"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

// TeamStanding holds one team's accumulated record in a standings table.
// Three parallel tables exist per league: overall, home-only and away-only,
// all keyed by the same team names.
type TeamStanding struct {
	Team         string `json:"team"`
	Played       int    `json:"played"`
	Points       int    `json:"points"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

// GoalDifference returns goals scored minus goals conceded
func (s TeamStanding) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// Fixture represents a single remaining match to be played
type Fixture struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// RankedTeam is one row of a fully resolved simulated final table
type RankedTeam struct {
	Team         string `json:"team"`
	Rank         int    `json:"rank"` // 1 = champion
	Points       int    `json:"points"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Played       int    `json:"played"`
}

// SimulatedTable is the outcome of one simulated season: every input team
// with a unique final rank 1..T
type SimulatedTable struct {
	Teams []RankedTeam `json:"teams"`
}

// SimParams holds the goal model and scheduling parameterization values
type SimParams struct {
	HomeAdvantage float64 `json:"home_advantage"`  // Multiplicative boost to home expected goals (default: 1.25)
	Rho           float64 `json:"rho"`             // Dixon-Coles low-score correlation (default: -0.1)
	GoalGridBound int     `json:"goal_grid_bound"` // Truncated score grid upper bound per side (default: 10)
	BatchSize     int     `json:"batch_size"`      // Simulations reduced per worker submission (default: 64)
	Workers       int     `json:"workers"`         // Worker goroutines, 0 = one per CPU
	Seed          int64   `json:"seed"`            // Base RNG seed, 0 = time-derived
}

// StoppingConfig controls when a Monte Carlo run stops scheduling new
// simulations. Checks happen at batch boundaries; a small number of
// in-flight simulations may complete after the nominal stop point and are
// still counted.
type StoppingConfig struct {
	MaxSimulations int             `json:"max_simulations"`        // Hard cap on completed simulations (required, >0)
	TimeLimit      time.Duration   `json:"time_limit,omitempty"`   // Optional wall-clock budget
	TargetError    float64         `json:"target_error,omitempty"` // Optional max standard error threshold in (0,1)
	Context        context.Context `json:"-"`                      // Optional cancellation source
}

// SimulationRequest contains all inputs for a Monte Carlo run
type SimulationRequest struct {
	BaseTable []TeamStanding `json:"base_table"`
	HomeTable []TeamStanding `json:"home_table,omitempty"`
	AwayTable []TeamStanding `json:"away_table,omitempty"`
	Fixtures  []Fixture      `json:"fixtures"`
	Params    *SimParams     `json:"params,omitempty"` // Uses defaults if nil
	Stopping  StoppingConfig `json:"stopping"`
	// Logger receives run lifecycle logs; nil disables logging
	Logger *logrus.Logger `json:"-"`
}

// StopReason records which stopping condition ended a run
type StopReason string

const (
	StopMaxSimulations StopReason = "max_simulations"
	StopTimeLimit      StopReason = "time_limit"
	StopTargetError    StopReason = "target_error"
	StopCancelled      StopReason = "cancelled"
	StopNoFixtures     StopReason = "no_fixtures"
)

// SimulationResult contains the output of a Monte Carlo run
type SimulationResult struct {
	// Probabilities maps team name to a probability per final rank
	// (index 0 = champion); each vector sums to 1.
	Probabilities map[string][]float64 `json:"probabilities"`
	// PositionCounts holds the raw per-rank tallies behind Probabilities
	PositionCounts map[string][]int `json:"position_counts"`
	// ExpectedPoints is the mean simulated final points per team
	ExpectedPoints map[string]float64 `json:"expected_points"`
	Completed      int                `json:"completed"`
	StopReason     StopReason         `json:"stop_reason"`
	Error          ErrorEstimate      `json:"error"`
	ProcessingTime time.Duration      `json:"processing_time"`
}

// DefaultSimParams returns default goal model and scheduling values
func DefaultSimParams() *SimParams {
	return &SimParams{
		HomeAdvantage: 1.25, // Multiplicative home boost, 1.0 = neutral
		Rho:           -0.1, // Typical Dixon-Coles correlation value
		GoalGridBound: 10,   // Scores above this are cut from the sampling grid
		BatchSize:     64,   // Amortizes reduction synchronization
		Workers:       0,    // One per CPU
		Seed:          0,    // Time-derived
	}
}
