package leagueoutcomes

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// simOutcome is one completed season reduced to what aggregation needs
type simOutcome struct {
	positions []int // base table index -> 0-based final position
	points    []int // base table index -> final points
}

// batchMsg carries a worker's completed batch to the aggregator. A non-nil
// err means the worker aborted; outcomes still hold the simulations it
// completed before failing, which are counted normally.
type batchMsg struct {
	outcomes []simOutcome
	err      error
}

// monteCarloDriver coordinates a fixed worker pool of season simulators
// and reduces their results into shared position counts. The counts map is
// only ever touched by the aggregation loop; workers own all other state.
type monteCarloDriver struct {
	base     []TeamStanding
	home     []TeamStanding
	away     []TeamStanding
	fixtures []Fixture
	params   *SimParams
	stopping StoppingConfig
	logger   *logrus.Logger
}

func (d *monteCarloDriver) run() (*SimulationResult, error) {
	startTime := time.Now()

	if len(d.fixtures) == 0 {
		// Nothing left to play: the base table's own ranking is the one
		// possible outcome
		return d.resolvedResult(startTime), nil
	}

	ctx := d.stopping.Context
	if ctx == nil {
		ctx = context.Background()
	}

	workers := d.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > d.stopping.MaxSimulations {
		workers = d.stopping.MaxSimulations
	}
	if workers < 1 {
		workers = 1
	}

	batchSize := d.params.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultSimParams().BatchSize
	}

	baseSeed := d.params.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	if d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"teams":           len(d.base),
			"fixtures":        len(d.fixtures),
			"workers":         workers,
			"batch_size":      batchSize,
			"max_simulations": d.stopping.MaxSimulations,
		}).Info("Starting Monte Carlo season simulation")
	}

	// Tickets cap the number of simulations ever started at
	// MaxSimulations, so a run that hits no other limit completes
	// exactly that many.
	var tickets atomic.Int64
	maxSims := int64(d.stopping.MaxSimulations)

	stop := make(chan struct{})
	batches := make(chan batchMsg, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			d.runWorker(ctx, stop, batches, &tickets, maxSims, batchSize, deriveWorkerSeed(baseSeed, worker))
		}(i)
	}

	go func() {
		wg.Wait()
		close(batches)
	}()

	return d.aggregate(ctx, stop, batches, startTime)
}

// runWorker loops simulate -> accumulate -> submit until it runs out of
// tickets or observes a stop. Each worker owns its simulator, working table
// and RNG stream; the derived seed keeps streams disjoint across workers.
func (d *monteCarloDriver) runWorker(
	ctx context.Context,
	stop <-chan struct{},
	batches chan<- batchMsg,
	tickets *atomic.Int64,
	maxSims int64,
	batchSize int,
	seed int64,
) {
	sim, err := newSeasonSimulator(d.base, d.home, d.away, d.fixtures, d.params)
	if err != nil {
		batches <- batchMsg{err: err}
		return
	}

	rng := newRand(seed)
	batch := make([]simOutcome, 0, batchSize)

	flush := func(err error) {
		if len(batch) > 0 || err != nil {
			batches <- batchMsg{outcomes: batch, err: err}
			batch = make([]simOutcome, 0, batchSize)
		}
	}

	for {
		// Stop checks happen at simulation boundaries only; an already
		// started season always runs to completion and is counted
		select {
		case <-stop:
			flush(nil)
			return
		case <-ctx.Done():
			flush(nil)
			return
		default:
		}

		if tickets.Add(1) > maxSims {
			flush(nil)
			return
		}

		table, err := sim.simulateOnce(rng)
		if err != nil {
			flush(err)
			return
		}

		batch = append(batch, d.reduceTable(sim.index, table))
		if len(batch) >= batchSize {
			flush(nil)
		}
	}
}

// reduceTable converts a ranked table into the compact outcome form
func (d *monteCarloDriver) reduceTable(index map[string]int, table *SimulatedTable) simOutcome {
	outcome := simOutcome{
		positions: make([]int, len(d.base)),
		points:    make([]int, len(d.base)),
	}
	for _, ranked := range table.Teams {
		i := index[ranked.Team]
		outcome.positions[i] = ranked.Rank - 1
		outcome.points[i] = ranked.Points
	}
	return outcome
}

// aggregate reduces worker batches into position counts and evaluates the
// stopping rule after each batch. Once a stop condition fires it closes the
// stop channel and keeps draining so every completed simulation is counted.
func (d *monteCarloDriver) aggregate(
	ctx context.Context,
	stop chan struct{},
	batches <-chan batchMsg,
	startTime time.Time,
) (*SimulationResult, error) {
	teamCount := len(d.base)
	counts := make([][]int, teamCount)
	for i := range counts {
		counts[i] = make([]int, teamCount)
	}
	pointsSum := make([]int64, teamCount)

	completed := 0
	stopped := false
	var reason StopReason
	var firstErr error

	halt := func(r StopReason) {
		if !stopped {
			stopped = true
			reason = r
			close(stop)
		}
	}

	for msg := range batches {
		if msg.err != nil {
			if firstErr == nil {
				firstErr = msg.err
			}
			halt(StopCancelled)
		}

		for _, outcome := range msg.outcomes {
			for i := 0; i < teamCount; i++ {
				counts[i][outcome.positions[i]]++
				pointsSum[i] += int64(outcome.points[i])
			}
		}
		completed += len(msg.outcomes)

		if !stopped {
			if r, ok := d.stopCondition(ctx, completed, startTime, counts); ok {
				halt(r)
			}
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if completed == 0 {
		return nil, NoSimulationsCompletedError{}
	}
	if reason == "" {
		// Workers wound down before the aggregator saw the boundary
		if ctx.Err() != nil {
			reason = StopCancelled
		} else {
			reason = StopMaxSimulations
		}
	}

	result := d.finalize(counts, pointsSum, completed, reason, startTime)

	if d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"completed":   result.Completed,
			"stop_reason": result.StopReason,
			"max_std_err": result.Error.MaxStdErr,
			"elapsed":     result.ProcessingTime,
		}).Info("Monte Carlo season simulation complete")
	}

	return result, nil
}

// stopCondition evaluates the stopping rule against a consistent snapshot
// of the counts. Called only at batch boundaries.
func (d *monteCarloDriver) stopCondition(ctx context.Context, completed int, startTime time.Time, counts [][]int) (StopReason, bool) {
	if ctx.Err() != nil {
		return StopCancelled, true
	}
	if completed >= d.stopping.MaxSimulations {
		return StopMaxSimulations, true
	}
	if d.stopping.TimeLimit > 0 && time.Since(startTime) >= d.stopping.TimeLimit {
		return StopTimeLimit, true
	}
	if d.stopping.TargetError > 0 && completed > 0 {
		estimate := EstimatePositionError(d.namedCounts(counts), completed)
		if estimate.MaxStdErr <= d.stopping.TargetError {
			return StopTargetError, true
		}
	}
	return "", false
}

func (d *monteCarloDriver) namedCounts(counts [][]int) map[string][]int {
	named := make(map[string][]int, len(d.base))
	for i, standing := range d.base {
		named[standing.Team] = counts[i]
	}
	return named
}

// finalize converts the raw counts into normalized probabilities
func (d *monteCarloDriver) finalize(counts [][]int, pointsSum []int64, completed int, reason StopReason, startTime time.Time) *SimulationResult {
	probabilities := make(map[string][]float64, len(d.base))
	expectedPoints := make(map[string]float64, len(d.base))
	namedCounts := d.namedCounts(counts)

	for i, standing := range d.base {
		probs := make([]float64, len(d.base))
		for r, count := range counts[i] {
			probs[r] = float64(count) / float64(completed)
		}
		probabilities[standing.Team] = probs
		expectedPoints[standing.Team] = float64(pointsSum[i]) / float64(completed)
	}

	return &SimulationResult{
		Probabilities:  probabilities,
		PositionCounts: namedCounts,
		ExpectedPoints: expectedPoints,
		Completed:      completed,
		StopReason:     reason,
		Error:          EstimatePositionError(namedCounts, completed),
		ProcessingTime: time.Since(startTime),
	}
}

// resolvedResult handles the zero-fixtures boundary: one deterministic
// outcome, probability 1 at every team's current rank
func (d *monteCarloDriver) resolvedResult(startTime time.Time) *SimulationResult {
	ranked := RankTable(d.base)

	probabilities := make(map[string][]float64, len(d.base))
	positionCounts := make(map[string][]int, len(d.base))
	expectedPoints := make(map[string]float64, len(d.base))

	for _, team := range ranked {
		probs := make([]float64, len(ranked))
		counts := make([]int, len(ranked))
		probs[team.Rank-1] = 1.0
		counts[team.Rank-1] = 1
		probabilities[team.Team] = probs
		positionCounts[team.Team] = counts
		expectedPoints[team.Team] = float64(team.Points)
	}

	return &SimulationResult{
		Probabilities:  probabilities,
		PositionCounts: positionCounts,
		ExpectedPoints: expectedPoints,
		Completed:      1,
		StopReason:     StopNoFixtures,
		Error:          EstimatePositionError(positionCounts, 1),
		ProcessingTime: time.Since(startTime),
	}
}
