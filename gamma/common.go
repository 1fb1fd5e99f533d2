package gamma

import (
	"math"

	"github.com/rttools/gammaindex/volume"
)

func isNaN32(x float32) bool {
	return x != x
}

// finalizeGamma converts an accumulated squared-gamma value into the
// reported gamma value: a voxel whose scan never found an eligible
// evaluated dose is left at its +Inf to-do sentinel, which is reported
// as NaN (no value could be computed); everything else is sqrt'd.
func finalizeGamma(minSq float32) float32 {
	if math.IsInf(float64(minSq), 1) {
		return float32(math.NaN())
	}
	return float32(math.Sqrt(float64(minSq)))
}

// premask walks the reference volume and produces the initial gamma
// array: NaN for voxels excluded by the dose cutoff (or, under local
// normalization, voxels at zero dose), +Inf as the "to-do" sentinel for
// every voxel a kernel must still compute.
func premask(ref *volume.Volume, params Parameters) []float32 {
	n := ref.Len()
	vals := make([]float32, n)
	local := params.Normalization == Local
	for i := 0; i < n; i++ {
		dose := ref.GetIndex(i)
		if dose < params.DoseCutoff || (local && dose == 0) {
			vals[i] = float32(math.NaN())
		} else {
			vals[i] = float32(math.Inf(1))
		}
	}
	return vals
}

func indexTo2D(idx int, size volume.Size) (j, i int) {
	j = idx / size.Columns
	i = idx % size.Columns
	return
}

func indexTo3D(idx int, size volume.Size) (k, j, i int) {
	rc := size.Rows * size.Columns
	k = idx / rc
	rem := idx % rc
	j = rem / size.Columns
	i = rem % size.Columns
	return
}
