package leagueoutcomes

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// validateTable checks one standings table for duplicate teams and
// impossible records
func validateTable(field string, table []TeamStanding) []ValidationError {
	var errors []ValidationError

	seen := make(map[string]bool, len(table))
	for i, standing := range table {
		if standing.Team == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "team name must not be empty",
			})
			continue
		}
		if seen[standing.Team] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("duplicate team '%s'", standing.Team),
			})
		}
		seen[standing.Team] = true

		if standing.Played < 0 || standing.Points < 0 || standing.GoalsFor < 0 || standing.GoalsAgainst < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("negative record values for team '%s'", standing.Team),
			})
		}
	}

	return errors
}

// validateRequest checks if the simulation request is valid
func validateRequest(request SimulationRequest) error {
	var errors []ValidationError

	if len(request.BaseTable) == 0 {
		return ValidationErrors{Errors: []ValidationError{{
			Field:   "baseTable",
			Message: "base table is required",
		}}}
	}

	errors = append(errors, validateTable("baseTable", request.BaseTable)...)
	errors = append(errors, validateTable("homeTable", request.HomeTable)...)
	errors = append(errors, validateTable("awayTable", request.AwayTable)...)

	known := make(map[string]bool, len(request.BaseTable))
	for _, standing := range request.BaseTable {
		known[standing.Team] = true
	}

	for i, fixture := range request.Fixtures {
		if !known[fixture.HomeTeam] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("fixtures[%d]", i),
				Message: fmt.Sprintf("fixture references unknown home team '%s'", fixture.HomeTeam),
			})
		}
		if !known[fixture.AwayTeam] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("fixtures[%d]", i),
				Message: fmt.Sprintf("fixture references unknown away team '%s'", fixture.AwayTeam),
			})
		}
		if fixture.HomeTeam == fixture.AwayTeam {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("fixtures[%d]", i),
				Message: fmt.Sprintf("team '%s' cannot play itself", fixture.HomeTeam),
			})
		}
	}

	if request.Stopping.MaxSimulations <= 0 {
		errors = append(errors, ValidationError{
			Field:   "stopping.maxSimulations",
			Message: "max simulations must be positive",
		})
	}
	if request.Stopping.TimeLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "stopping.timeLimit",
			Message: "time limit must not be negative",
		})
	}
	if request.Stopping.TargetError != 0 && (request.Stopping.TargetError <= 0 || request.Stopping.TargetError >= 1) {
		errors = append(errors, ValidationError{
			Field:   "stopping.targetError",
			Message: "target error must lie in (0, 1)",
		})
	}

	if request.Params != nil {
		if request.Params.HomeAdvantage <= 0 {
			errors = append(errors, ValidationError{
				Field:   "params.homeAdvantage",
				Message: "home advantage must be positive",
			})
		}
		if request.Params.GoalGridBound < 1 {
			errors = append(errors, ValidationError{
				Field:   "params.goalGridBound",
				Message: "goal grid bound must be at least 1",
			})
		}
		if request.Params.BatchSize < 0 {
			errors = append(errors, ValidationError{
				Field:   "params.batchSize",
				Message: "batch size must not be negative",
			})
		}
		if request.Params.Workers < 0 {
			errors = append(errors, ValidationError{
				Field:   "params.workers",
				Message: "workers must not be negative",
			})
		}
	}

	if len(errors) > 0 {
		return ValidationErrors{Errors: errors}
	}

	return nil
}
