package gamma

import "math"

// partitionRanges splits gammaVals into numWorkers contiguous [start,end)
// index ranges, each covering a near-equal share of the voxels still
// marked eligible (the +Inf to-do sentinel), rather than a uniform slice
// of the array. A range may contain interleaved NaN (ineligible) voxels;
// a worker walks its whole range but only computes the eligible entries.
func partitionRanges(gammaVals []float32, numWorkers int) [][2]int {
	if numWorkers < 1 {
		numWorkers = 1
	}
	n := len(gammaVals)
	ranges := make([][2]int, 0, numWorkers)

	nrOfCalcs := 0
	for _, v := range gammaVals {
		if math.IsInf(float64(v), 1) {
			nrOfCalcs++
		}
	}

	perWorker := nrOfCalcs / numWorkers
	remainder := nrOfCalcs % numWorkers

	if nrOfCalcs == n {
		start := 0
		for w := 0; w < numWorkers; w++ {
			amount := perWorker
			if w < remainder {
				amount++
			}
			end := start + amount
			ranges = append(ranges, [2]int{start, end})
			start = end
		}
		return ranges
	}

	start, end := 0, 0
	for w := 0; w < numWorkers; w++ {
		amount := perWorker
		if w < remainder {
			amount++
		}
		counter := 0
		for counter < amount && end < n {
			if math.IsInf(float64(gammaVals[end]), 1) {
				counter++
				if counter == 1 {
					start = end
				}
			}
			end++
		}
		ranges = append(ranges, [2]int{start, end})
		start = end
	}
	return ranges
}
