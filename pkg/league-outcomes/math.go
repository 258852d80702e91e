package leagueoutcomes

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// PoissonProb calculates Poisson probability P(X = k) where X ~ Poisson(lambda)
func PoissonProb(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0
	}

	return distuv.Poisson{Lambda: lambda}.Prob(float64(k))
}

// splitmix64 mixes a 64-bit value into a well-distributed seed. Used to
// derive per-worker RNG streams from one base seed so that concurrent
// workers never share generator state.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// deriveWorkerSeed returns the seed for worker i of a run seeded with base
func deriveWorkerSeed(base int64, worker int) int64 {
	return int64(splitmix64(uint64(base) + uint64(worker)))
}

// newRand builds an independent generator for a single worker
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
