package leagueoutcomes

import (
	"fmt"
	"strconv"
	"strings"
)

// Market defines an outright market settled on final league position.
// Payoff expressions like "1|4x0.25|19x0" mean position 1 pays 1.0, the
// next 4 positions pay 0.25 and the remaining 19 pay nothing.
type Market struct {
	Name         string    `json:"name"`
	Payoff       string    `json:"payoff"`
	Include      []string  `json:"include,omitempty"` // Only these teams get marks
	Exclude      []string  `json:"exclude,omitempty"` // All teams except these get marks
	Teams        []string  `json:"teams,omitempty"`   // Resolved by InitMarkets
	ParsedPayoff []float64 `json:"parsed_payoff,omitempty"`
}

// parsePayoff expands a payoff expression into one value per position
func parsePayoff(payoffExpr string) ([]float64, error) {
	var payoff []float64

	for _, expr := range strings.Split(payoffExpr, "|") {
		tokens := strings.Split(expr, "x")

		var n int
		var v float64
		var err error

		switch len(tokens) {
		case 1:
			n = 1
			v, err = strconv.ParseFloat(tokens[0], 64)
		case 2:
			n, err = strconv.Atoi(tokens[0])
			if err == nil {
				v, err = strconv.ParseFloat(tokens[1], 64)
			}
		default:
			return nil, fmt.Errorf("invalid payoff format: %s", expr)
		}

		if err != nil {
			return nil, fmt.Errorf("invalid payoff format: %s", expr)
		}

		for i := 0; i < n; i++ {
			payoff = append(payoff, v)
		}
	}

	return payoff, nil
}

// InitMarkets resolves each market's team list against the league's teams
// and parses its payoff. The payoff must cover every league position since
// markets settle on final table position.
func InitMarkets(teamNames []string, markets []Market) error {
	known := make(map[string]bool, len(teamNames))
	for _, name := range teamNames {
		known[name] = true
	}

	for i := range markets {
		market := &markets[i]

		if len(market.Include) > 0 && len(market.Exclude) > 0 {
			return fmt.Errorf("market %s cannot have both include and exclude fields", market.Name)
		}
		if market.Payoff == "" {
			return fmt.Errorf("market %s has no payoff defined", market.Name)
		}

		for _, team := range append(append([]string{}, market.Include...), market.Exclude...) {
			if !known[team] {
				return fmt.Errorf("market %s has unknown team %s", market.Name, team)
			}
		}

		switch {
		case len(market.Include) > 0:
			market.Teams = append([]string{}, market.Include...)
		case len(market.Exclude) > 0:
			excluded := make(map[string]bool, len(market.Exclude))
			for _, team := range market.Exclude {
				excluded[team] = true
			}
			market.Teams = nil
			for _, name := range teamNames {
				if !excluded[name] {
					market.Teams = append(market.Teams, name)
				}
			}
		default:
			market.Teams = append([]string{}, teamNames...)
		}

		parsed, err := parsePayoff(market.Payoff)
		if err != nil {
			return fmt.Errorf("error parsing payoff for market %s: %w", market.Name, err)
		}
		if len(parsed) != len(teamNames) {
			return fmt.Errorf("market %s payoff covers %d positions, league has %d",
				market.Name, len(parsed), len(teamNames))
		}
		market.ParsedPayoff = parsed
	}

	return nil
}

// CalculateMarkValues computes each market's expected payoff per team from
// the simulated position probabilities. Teams outside a market's team list
// get no mark.
func CalculateMarkValues(result *SimulationResult, markets []Market) map[string]map[string]float64 {
	markValues := make(map[string]map[string]float64)

	for _, market := range markets {
		teamMarks := make(map[string]float64, len(market.Teams))

		for _, team := range market.Teams {
			probs, ok := result.Probabilities[team]
			if !ok {
				continue
			}

			expectedValue := 0.0
			for position, prob := range probs {
				if position < len(market.ParsedPayoff) {
					expectedValue += prob * market.ParsedPayoff[position]
				}
			}
			teamMarks[team] = expectedValue
		}

		markValues[market.Name] = teamMarks
	}

	return markValues
}
