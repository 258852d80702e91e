package leagueoutcomes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrorEstimate summarizes the statistical error of the current position
// probability estimates. Each team-rank cell is treated as a binomial
// proportion with standard error sqrt(p(1-p)/n); the cells are aggregated
// into the scalars below. The stopping rule compares MaxStdErr against the
// configured target.
type ErrorEstimate struct {
	MaxStdErr  float64 `json:"max_std_err"`
	MeanStdErr float64 `json:"mean_std_err"`
	P95StdErr  float64 `json:"p95_std_err"`
	Samples    int     `json:"samples"` // Completed simulations behind the estimate
}

// MeanErrorPP reports the mean standard error in percentage points
func (e ErrorEstimate) MeanErrorPP() float64 {
	return e.MeanStdErr * 100
}

// EstimatePositionError computes the aggregate error metric over all
// team-rank cells. Safe for completed = 0 and for proportions of exactly
// 0 or 1 (both give a zero cell error).
func EstimatePositionError(counts map[string][]int, completed int) ErrorEstimate {
	estimate := ErrorEstimate{Samples: completed}
	if completed <= 0 || len(counts) == 0 {
		return estimate
	}

	n := float64(completed)
	cellErrors := make([]float64, 0, len(counts)*len(counts))
	for _, positions := range counts {
		for _, count := range positions {
			p := float64(count) / n
			cellErrors = append(cellErrors, math.Sqrt(p*(1-p)/n))
		}
	}
	if len(cellErrors) == 0 {
		return estimate
	}

	sort.Float64s(cellErrors)
	estimate.MaxStdErr = cellErrors[len(cellErrors)-1]
	estimate.MeanStdErr = stat.Mean(cellErrors, nil)
	estimate.P95StdErr = stat.Quantile(0.95, stat.Empirical, cellErrors, nil)

	return estimate
}
