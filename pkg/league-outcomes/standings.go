package leagueoutcomes

import (
	"sort"
	"strings"
)

// sideFilter restricts standings accumulation to one venue
type sideFilter int

const (
	allMatches sideFilter = iota
	homeMatches
	awayMatches
)

// BuildStandings derives the overall, home-only and away-only standings
// tables from a list of completed matches. Teams appear in all three
// tables, in alphabetical order, even when one of their splits is empty.
func BuildStandings(results []MatchResult) (base, home, away []TeamStanding) {
	names := teamNames(results)

	base = buildTable(names, results, allMatches)
	home = buildTable(names, results, homeMatches)
	away = buildTable(names, results, awayMatches)
	return base, home, away
}

func teamNames(results []MatchResult) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range results {
		if !seen[match.HomeTeam] {
			seen[match.HomeTeam] = true
			names = append(names, match.HomeTeam)
		}
		if !seen[match.AwayTeam] {
			seen[match.AwayTeam] = true
			names = append(names, match.AwayTeam)
		}
	}
	sort.Strings(names)
	return names
}

func buildTable(names []string, results []MatchResult, filter sideFilter) []TeamStanding {
	table := make(map[string]*TeamStanding, len(names))
	for _, name := range names {
		table[name] = &TeamStanding{Team: name}
	}

	for _, match := range results {
		home := table[match.HomeTeam]
		away := table[match.AwayTeam]

		if filter != awayMatches {
			home.Played++
			home.GoalsFor += match.HomeGoals
			home.GoalsAgainst += match.AwayGoals
			home.Points += homePoints(match)
		}
		if filter != homeMatches {
			away.Played++
			away.GoalsFor += match.AwayGoals
			away.GoalsAgainst += match.HomeGoals
			away.Points += awayPoints(match)
		}
	}

	standings := make([]TeamStanding, 0, len(names))
	for _, name := range names {
		standings = append(standings, *table[name])
	}
	return standings
}

func homePoints(match MatchResult) int {
	switch {
	case match.HomeGoals > match.AwayGoals:
		return 3
	case match.HomeGoals == match.AwayGoals:
		return 1
	default:
		return 0
	}
}

func awayPoints(match MatchResult) int {
	switch {
	case match.AwayGoals > match.HomeGoals:
		return 3
	case match.AwayGoals == match.HomeGoals:
		return 1
	default:
		return 0
	}
}

// RemainingFixtures calculates which fixtures remain in a round-robin
// season where each pairing plays the given number of rounds home and away
func RemainingFixtures(teamNames []string, results []MatchResult, rounds int) []Fixture {
	playedCounts := make(map[Fixture]int)
	for _, match := range results {
		playedCounts[Fixture{HomeTeam: match.HomeTeam, AwayTeam: match.AwayTeam}]++
	}

	var remaining []Fixture
	for i, homeTeam := range teamNames {
		for j, awayTeam := range teamNames {
			if i == j {
				continue
			}
			fixture := Fixture{HomeTeam: homeTeam, AwayTeam: awayTeam}
			for k := playedCounts[fixture]; k < rounds; k++ {
				remaining = append(remaining, fixture)
			}
		}
	}
	return remaining
}

// ParseFixtureName splits "Home vs Away" format into a fixture
func ParseFixtureName(name string) (Fixture, bool) {
	parts := strings.Split(name, " vs ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Fixture{}, false
	}
	return Fixture{HomeTeam: parts[0], AwayTeam: parts[1]}, true
}

// FixtureName formats a fixture in "Home vs Away" form
func FixtureName(fixture Fixture) string {
	return fixture.HomeTeam + " vs " + fixture.AwayTeam
}

// LeagueRounds determines the rounds per pairing based on league
// (Scottish leagues play each other twice at home)
func LeagueRounds(league string) int {
	if strings.HasPrefix(league, "SCO") {
		return 2
	}
	return 1
}
