package gamma

import (
	"runtime"

	"github.com/rttools/gammaindex/hwy/contrib/workerpool"
)

// Policy selects how a kernel spreads its per-voxel work across CPU
// resources.
type Policy int

const (
	// Sequential computes every voxel on the calling goroutine with a
	// scalar inner loop.
	Sequential Policy = iota
	// SIMDPolicy computes every voxel on the calling goroutine with a
	// lane-vectorized inner loop.
	SIMDPolicy
	// Threaded spreads voxels across a worker pool with a scalar inner
	// loop per voxel.
	Threaded
	// ThreadedSIMD spreads voxels across a worker pool with a
	// lane-vectorized inner loop per voxel.
	ThreadedSIMD
)

func (p Policy) usesSIMD() bool {
	return p == SIMDPolicy || p == ThreadedSIMD
}

func (p Policy) usesThreads() bool {
	return p == Threaded || p == ThreadedSIMD
}

// execute runs computeRange over gammaVals according to policy.
// computeRange(start, end) must compute every eligible (+Inf sentinel)
// entry of gammaVals[start:end] in place, leaving ineligible (NaN)
// entries untouched.
func execute(policy Policy, gammaVals []float32, computeRange func(start, end int)) {
	if !policy.usesThreads() {
		computeRange(0, len(gammaVals))
		return
	}

	numWorkers := runtime.GOMAXPROCS(0)
	ranges := partitionRanges(gammaVals, numWorkers)

	pool := workerpool.New(numWorkers)
	defer pool.Close()

	pool.ParallelForAtomic(len(ranges), func(i int) {
		r := ranges[i]
		computeRange(r[0], r[1])
	})
}
