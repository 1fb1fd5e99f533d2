package gamma

import "github.com/rttools/gammaindex/volume"

// Result holds a computed gamma-index volume, one value (or NaN for an
// excluded voxel) per reference voxel.
type Result struct {
	values *volume.Volume
}

func newResult(vals []float32, size volume.Size, offset volume.Offset, spacing volume.Spacing) (*Result, error) {
	v, err := volume.New(vals, size, offset, spacing)
	if err != nil {
		return nil, err
	}
	return &Result{values: v}, nil
}

// Values returns the underlying gamma-index volume.
func (r *Result) Values() *volume.Volume {
	return r.values
}

// Size returns the number of voxels in the result.
func (r *Result) Size() int {
	return r.values.Len()
}

// NanSize returns the number of voxels holding a gamma value, i.e. the
// count of non-NaN voxels.
func (r *Result) NanSize() int {
	return r.values.NanSize()
}

// PassingRate returns the fraction of evaluated (non-excluded) voxels
// whose gamma value is <= 1.
func (r *Result) PassingRate() float32 {
	total := 0
	passing := 0
	data := r.values.Data()
	for _, g := range data {
		if isNaN32(g) {
			continue
		}
		total++
		if g <= 1 {
			passing++
		}
	}
	if total == 0 {
		return float32(0)
	}
	return float32(passing) / float32(total)
}

// MeanGamma returns the mean gamma value over evaluated voxels.
func (r *Result) MeanGamma() float32 {
	return r.values.NanMean()
}

// MinGamma returns the minimum gamma value over evaluated voxels.
func (r *Result) MinGamma() float32 {
	return r.values.NanMin()
}

// MaxGamma returns the maximum gamma value over evaluated voxels.
func (r *Result) MaxGamma() float32 {
	return r.values.NanMax()
}
