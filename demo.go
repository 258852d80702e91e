package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	leagueoutcomes "github.com/jhw/go-league-outcomes/pkg/league-outcomes"
)

func main() {
	var (
		league       = flag.String("league", "ENG1", "League code (ENG1, ENG2, ENG3, ENG4)")
		season       = flag.String("season", "2425", "Season identifier (e.g. 2425 for 2024-25)")
		dataFile     = flag.String("data", "", "Path to match data JSON file")
		marketsFile  = flag.String("markets", "", "Path to outright markets JSON file")
		configFile   = flag.String("config", "", "Path to YAML config file")
		fetchMatches = flag.Bool("fetch-matches", false, "Fetch match data from football-data.co.uk and save to fixtures/matches.json")
		showOdds     = flag.Bool("odds", false, "Print match odds for each remaining fixture")
		verbose      = flag.Bool("verbose", false, "Verbose output")

		maxSims       = flag.Int("max-sims", 1000000, "Maximum number of simulations")
		timeLimit     = flag.Duration("time-limit", 10*time.Minute, "Wall-clock budget for the run")
		targetError   = flag.Float64("target-error", 0, "Stop when max position standard error drops below this (0 = disabled)")
		workers       = flag.Int("workers", 0, "Worker goroutines (0 = one per CPU)")
		batchSize     = flag.Int("batch-size", 64, "Simulations per worker batch")
		seed          = flag.Int64("seed", 0, "Base RNG seed (0 = time-derived)")
		homeAdvantage = flag.Float64("home-advantage", 1.25, "Multiplicative home expected-goals boost")
		rho           = flag.Float64("rho", -0.1, "Dixon-Coles low-score correlation")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	config := loadConfig(logger, *configFile)

	// Config supplies values only for flags not set on the command line
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	applyConfig := func(flagName, key string, apply func()) {
		if !setFlags[flagName] && config.IsSet(key) {
			apply()
		}
	}
	applyConfig("max-sims", "max_simulations", func() { *maxSims = config.GetInt("max_simulations") })
	applyConfig("time-limit", "time_limit", func() { *timeLimit = config.GetDuration("time_limit") })
	applyConfig("target-error", "target_error", func() { *targetError = config.GetFloat64("target_error") })
	applyConfig("workers", "workers", func() { *workers = config.GetInt("workers") })
	applyConfig("batch-size", "batch_size", func() { *batchSize = config.GetInt("batch_size") })
	applyConfig("seed", "seed", func() { *seed = config.GetInt64("seed") })
	applyConfig("home-advantage", "home_advantage", func() { *homeAdvantage = config.GetFloat64("home_advantage") })
	applyConfig("rho", "rho", func() { *rho = config.GetFloat64("rho") })

	if *fetchMatches {
		matches, err := FetchAllMatches()
		if err != nil {
			logger.Fatalf("Fetching matches failed: %v", err)
		}
		if err := saveMatchesToFile(matches, "fixtures/matches.json"); err != nil {
			logger.Fatalf("Saving matches failed: %v", err)
		}
		fmt.Printf("Saved %d matches to fixtures/matches.json\n", len(matches))
		return
	}

	if *dataFile == "" {
		*dataFile = config.GetString("data_file")
	}
	if *dataFile == "" {
		*dataFile = "fixtures/matches.json"
	}

	matches, err := loadMatchesFromFile(*dataFile)
	if err != nil {
		logger.Fatalf("Loading match data failed: %v", err)
	}

	matches = filterMatches(matches, *league, *season)
	if len(matches) == 0 {
		logger.Fatalf("No matches for league %s season %s in %s", *league, *season, *dataFile)
	}
	fmt.Printf("Loaded %d matches for %s %s\n", len(matches), *league, *season)

	base, home, away := leagueoutcomes.BuildStandings(matches)

	teamNames := make([]string, 0, len(base))
	for _, standing := range base {
		teamNames = append(teamNames, standing.Team)
	}
	fixtures := leagueoutcomes.RemainingFixtures(teamNames, matches, leagueoutcomes.LeagueRounds(*league))
	fmt.Printf("Teams: %d, remaining fixtures: %d\n", len(base), len(fixtures))

	params := leagueoutcomes.DefaultSimParams()
	params.HomeAdvantage = *homeAdvantage
	params.Rho = *rho
	params.BatchSize = *batchSize
	params.Workers = *workers
	params.Seed = *seed

	request := leagueoutcomes.SimulationRequest{
		BaseTable: base,
		HomeTable: home,
		AwayTable: away,
		Fixtures:  fixtures,
		Params:    params,
		Stopping: leagueoutcomes.StoppingConfig{
			MaxSimulations: *maxSims,
			TimeLimit:      *timeLimit,
			TargetError:    *targetError,
		},
		Logger: logger,
	}

	if *showOdds {
		displayFixtureOdds(request, fixtures)
	}

	result, err := leagueoutcomes.RunSimulation(request)
	if err != nil {
		logger.Fatalf("Simulation failed: %v", err)
	}

	fmt.Printf("\nCompleted %d simulations in %v (stop: %s, max stderr: %.4f)\n\n",
		result.Completed, result.ProcessingTime.Round(time.Millisecond), result.StopReason, result.Error.MaxStdErr)

	displayOutcomeTable(base, result)

	if *marketsFile != "" {
		markets, err := loadMarketsFromFile(*marketsFile)
		if err != nil {
			logger.Fatalf("Loading markets failed: %v", err)
		}
		if err := leagueoutcomes.InitMarkets(teamNames, markets); err != nil {
			logger.Fatalf("Initializing markets failed: %v", err)
		}
		displayMarkValues(markets, leagueoutcomes.CalculateMarkValues(result, markets))
	}
}

// loadConfig reads optional YAML configuration; flags take precedence
func loadConfig(logger *logrus.Logger, path string) *viper.Viper {
	config := viper.New()
	config.SetDefault("data_file", "")
	config.SetEnvPrefix("LEAGUE_OUTCOMES")
	config.AutomaticEnv()

	if path != "" {
		config.SetConfigFile(path)
	} else {
		config.SetConfigName("config")
		config.SetConfigType("yaml")
		config.AddConfigPath(".")
	}

	if err := config.ReadInConfig(); err != nil {
		if path != "" {
			logger.Fatalf("Reading config failed: %v", err)
		}
		logger.Debugf("No config file found, using defaults: %v", err)
	} else {
		logger.Debugf("Loaded config from %s", config.ConfigFileUsed())
	}

	return config
}

// displayOutcomeTable prints the simulated position distribution sorted by
// expected final points
func displayOutcomeTable(base []leagueoutcomes.TeamStanding, result *leagueoutcomes.SimulationResult) {
	ranked := leagueoutcomes.RankTable(base)
	teamCount := len(ranked)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Pos\tTeam\tPts\tGD\tPld\tWin%\tTop4%\tBot3%\tExpPts")

	for _, team := range ranked {
		probs := result.Probabilities[team.Team]

		top4 := 0.0
		for i := 0; i < 4 && i < teamCount; i++ {
			top4 += probs[i]
		}
		bottom3 := 0.0
		for i := teamCount - 3; i < teamCount; i++ {
			if i >= 0 {
				bottom3 += probs[i]
			}
		}

		fmt.Fprintf(writer, "%d\t%s\t%d\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.1f\n",
			team.Rank, team.Team, team.Points, team.GoalsFor-team.GoalsAgainst, team.Played,
			probs[0]*100, top4*100, bottom3*100, result.ExpectedPoints[team.Team])
	}

	writer.Flush()
}

// displayFixtureOdds prints home/draw/away probabilities per fixture
func displayFixtureOdds(request leagueoutcomes.SimulationRequest, fixtures []leagueoutcomes.Fixture) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Fixture\tHome%\tDraw%\tAway%")

	for _, fixture := range fixtures {
		odds, err := leagueoutcomes.MatchProbabilities(request, fixture)
		if err != nil {
			fmt.Fprintf(writer, "%s\terror: %v\n", leagueoutcomes.FixtureName(fixture), err)
			continue
		}
		fmt.Fprintf(writer, "%s\t%.1f\t%.1f\t%.1f\n",
			leagueoutcomes.FixtureName(fixture), odds[0]*100, odds[1]*100, odds[2]*100)
	}

	writer.Flush()
	fmt.Println()
}

// displayMarkValues prints expected payoffs per market
func displayMarkValues(markets []leagueoutcomes.Market, markValues map[string]map[string]float64) {
	for _, market := range markets {
		marks := markValues[market.Name]
		if len(marks) == 0 {
			continue
		}

		fmt.Printf("\nMarket: %s (payoff %s)\n", market.Name, market.Payoff)
		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "Team\tMark")
		for _, team := range market.Teams {
			if mark, ok := marks[team]; ok {
				fmt.Fprintf(writer, "%s\t%.4f\n", team, mark)
			}
		}
		writer.Flush()
	}
}

func filterMatches(matches []leagueoutcomes.MatchResult, league, season string) []leagueoutcomes.MatchResult {
	var filtered []leagueoutcomes.MatchResult
	for _, match := range matches {
		if league != "" && match.League != league {
			continue
		}
		if season != "" && match.Season != season {
			continue
		}
		filtered = append(filtered, match)
	}
	return filtered
}

// loadMatchesFromFile loads match results from a JSON file
func loadMatchesFromFile(filename string) ([]leagueoutcomes.MatchResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	var matches []leagueoutcomes.MatchResult
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	return matches, nil
}

// loadMarketsFromFile loads outright market definitions from a JSON file
func loadMarketsFromFile(filename string) ([]leagueoutcomes.Market, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	var markets []leagueoutcomes.Market
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	return markets, nil
}

// saveMatchesToFile saves match results to a JSON file
func saveMatchesToFile(matches []leagueoutcomes.MatchResult, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling matches: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}

	return nil
}
