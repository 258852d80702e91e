package leagueoutcomes

import (
	"sort"
)

// RankTable orders standings best first and assigns final ranks 1..T.
// Comparator: points (descending), then goal difference, then goals
// scored; residual ties keep the input table order (stable sort), so
// identical standings always resolve the same way between runs.
func RankTable(standings []TeamStanding) []RankedTeam {
	ordered := make([]TeamStanding, len(standings))
	copy(ordered, standings)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		return a.GoalsFor > b.GoalsFor
	})

	ranked := make([]RankedTeam, len(ordered))
	for i, standing := range ordered {
		ranked[i] = RankedTeam{
			Team:         standing.Team,
			Rank:         i + 1,
			Points:       standing.Points,
			GoalsFor:     standing.GoalsFor,
			GoalsAgainst: standing.GoalsAgainst,
			Played:       standing.Played,
		}
	}

	return ranked
}
