package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	leagueoutcomes "github.com/jhw/go-league-outcomes/pkg/league-outcomes"
)

// LeagueConfig holds configuration for each league
type LeagueConfig struct {
	Code           string // ENG1, ENG2, ENG3, ENG4
	FootballDataID string // E0, E1, E2, E3
	StartYear      int
	EndYear        int
}

// English leagues, current and previous season
var englandLeagues = []LeagueConfig{
	{Code: "ENG1", FootballDataID: "E0", StartYear: 2023, EndYear: 2024},
	{Code: "ENG2", FootballDataID: "E1", StartYear: 2023, EndYear: 2024},
	{Code: "ENG3", FootballDataID: "E2", StartYear: 2023, EndYear: 2024},
	{Code: "ENG4", FootballDataID: "E3", StartYear: 2023, EndYear: 2024},
}

// FetchAllMatches downloads match results from football-data.co.uk for all
// configured leagues and seasons
func FetchAllMatches() ([]leagueoutcomes.MatchResult, error) {
	var allMatches []leagueoutcomes.MatchResult

	client := &http.Client{Timeout: 30 * time.Second}

	for _, league := range englandLeagues {
		for year := league.StartYear; year <= league.EndYear; year++ {
			season := fmt.Sprintf("%02d%02d", year%100, (year+1)%100)

			matches, err := fetchSeasonMatches(client, league, season)
			if err != nil {
				fmt.Printf("  %s %s: %v (skipped)\n", league.Code, season, err)
				continue
			}

			allMatches = append(allMatches, matches...)
			fmt.Printf("  %s %s: %d matches\n", league.Code, season, len(matches))
		}
	}

	if len(allMatches) == 0 {
		return nil, fmt.Errorf("no matches fetched")
	}

	return allMatches, nil
}

// fetchSeasonMatches downloads and parses results for one league season
func fetchSeasonMatches(client *http.Client, league LeagueConfig, season string) ([]leagueoutcomes.MatchResult, error) {
	url := fmt.Sprintf("https://www.football-data.co.uk/mmz4281/%s/%s.csv", season, league.FootballDataID)

	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s
			time.Sleep(time.Duration(2<<uint(attempt-1)) * time.Second)
		} else {
			// Rate limit between requests
			time.Sleep(1 * time.Second)
		}

		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "text/csv,text/plain,*/*")

		resp, err := client.Do(req)
		if err != nil {
			if attempt < maxRetries-1 {
				continue
			}
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			matches, err := parseCSVMatches(resp.Body, league.Code, season)
			resp.Body.Close()
			return matches, err
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusServiceUnavailable && attempt < maxRetries-1 {
			continue
		}
		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("HTTP %d after %d attempts: %s", resp.StatusCode, maxRetries, url)
		}
	}

	return nil, fmt.Errorf("unexpected end of retry loop")
}

// parseCSVMatches parses the football-data.co.uk CSV format
func parseCSVMatches(reader io.Reader, leagueCode, season string) ([]leagueoutcomes.MatchResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	header := records[0]
	dateCol := findColumn(header, "Date")
	homeTeamCol := findColumn(header, "HomeTeam")
	awayTeamCol := findColumn(header, "AwayTeam")
	homeGoalsCol := findColumn(header, "FTHG")
	awayGoalsCol := findColumn(header, "FTAG")

	if dateCol == -1 || homeTeamCol == -1 || awayTeamCol == -1 || homeGoalsCol == -1 || awayGoalsCol == -1 {
		return nil, fmt.Errorf("required columns not found in CSV header")
	}

	maxCol := dateCol
	for _, col := range []int{homeTeamCol, awayTeamCol, homeGoalsCol, awayGoalsCol} {
		if col > maxCol {
			maxCol = col
		}
	}

	var matches []leagueoutcomes.MatchResult
	for _, record := range records[1:] {
		if len(record) <= maxCol {
			continue
		}

		date, err := parseDate(strings.TrimSpace(record[dateCol]))
		if err != nil {
			continue
		}

		homeTeam := strings.TrimSpace(record[homeTeamCol])
		awayTeam := strings.TrimSpace(record[awayTeamCol])
		if homeTeam == "" || awayTeam == "" {
			continue
		}

		homeGoals, err := strconv.Atoi(strings.TrimSpace(record[homeGoalsCol]))
		if err != nil {
			continue
		}
		awayGoals, err := strconv.Atoi(strings.TrimSpace(record[awayGoalsCol]))
		if err != nil {
			continue
		}

		matches = append(matches, leagueoutcomes.MatchResult{
			Date:      date.Format("2006-01-02"),
			Season:    season,
			League:    leagueCode,
			HomeTeam:  homeTeam,
			AwayTeam:  awayTeam,
			HomeGoals: homeGoals,
			AwayGoals: awayGoals,
		})
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no valid matches parsed from CSV")
	}

	return matches, nil
}

// parseDate handles the date formats used by football-data.co.uk
func parseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	formats := []string{
		"02/01/06",   // DD/MM/YY
		"02/01/2006", // DD/MM/YYYY
	}
	for _, format := range formats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", dateStr)
}

func findColumn(header []string, name string) int {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}
