package gamma

import (
	"fmt"
	"math"

	"github.com/rttools/gammaindex/interp"
	"github.com/rttools/gammaindex/volume"
)

// Wendling2D computes the 2-D gamma index using a distance-sorted search
// stencil instead of an exhaustive scan: for each reference voxel, offsets
// are visited in ascending order of distance and the search stops as soon
// as an offset's own distance term alone exceeds the best gamma found so
// far. ref and eval must both be single-frame images.
func Wendling2D(ref, eval *volume.Volume, params Parameters, policy Policy) (*Result, error) {
	if ref.Size().Frames != 1 {
		return nil, fmt.Errorf("%w: reference image is not 2D (frames=%d)", ErrShapeMismatch, ref.Size().Frames)
	}
	if eval.Size().Frames != 1 {
		return nil, fmt.Errorf("%w: evaluated image is not 2D (frames=%d)", ErrShapeMismatch, eval.Size().Frames)
	}
	if err := params.ValidateWendling(); err != nil {
		return nil, err
	}
	if policy.usesSIMD() {
		return nil, fmt.Errorf("%w: SIMD policy not supported for the Wendling stencil search", ErrNotImplemented)
	}

	ddInvSq, dtaInvSq, globalInvSq := params.invSquares()
	gammaVals := premask(ref, params)
	size := ref.Size()
	off := ref.Offset()
	sp := ref.Spacing()
	points := buildStencil2D(params.WendlingSearchRadius, params.WendlingStepSize)

	computeRange := func(start, end int) {
		for idx := start; idx < end; idx++ {
			if isNaN32(gammaVals[idx]) {
				continue
			}
			j, i := indexTo2D(idx, size)
			doseRef := ref.GetIndex(idx)
			ddNormInvSq := ddInvSq * params.normDoseInvSq(globalInvSq, doseRef)
			yr := off.Y + float32(j)*sp.DY
			xr := off.X + float32(i)*sp.DX
			gammaVals[idx] = finalizeGamma(wendlingScan2D(doseRef, 0, yr, xr, eval, points, ddNormInvSq, dtaInvSq))
		}
	}
	execute(policy, gammaVals, computeRange)
	return newResult(gammaVals, size, off, sp)
}

// Wendling2_5D resamples eval onto ref's frame grid along the frame axis,
// matches each reference frame to its resampled counterpart, and runs the
// 2-D search stencil within that matched pair.
func Wendling2_5D(ref, eval *volume.Volume, params Parameters, policy Policy) (*Result, error) {
	if err := params.ValidateWendling(); err != nil {
		return nil, err
	}
	if policy.usesSIMD() {
		return nil, fmt.Errorf("%w: SIMD policy not supported for the Wendling stencil search", ErrNotImplemented)
	}

	evalZ, err := interp.ResampleOntoGridOf(eval, ref, interp.Z)
	if err != nil {
		return nil, err
	}
	kDiff := int(math.Round(float64((evalZ.Offset().Z - ref.Offset().Z) / evalZ.Spacing().DZ)))

	ddInvSq, dtaInvSq, globalInvSq := params.invSquares()
	gammaVals := premask(ref, params)
	size := ref.Size()
	off := ref.Offset()
	sp := ref.Spacing()
	points := buildStencil2D(params.WendlingSearchRadius, params.WendlingStepSize)
	evalFrames := evalZ.Size().Frames

	computeRange := func(start, end int) {
		for idx := start; idx < end; idx++ {
			if isNaN32(gammaVals[idx]) {
				continue
			}
			k, j, i := indexTo3D(idx, size)
			ke := k - kDiff
			if ke < 0 || ke >= evalFrames {
				gammaVals[idx] = float32(math.NaN())
				continue
			}
			doseRef := ref.GetIndex(idx)
			ddNormInvSq := ddInvSq * params.normDoseInvSq(globalInvSq, doseRef)
			yr := off.Y + float32(j)*sp.DY
			xr := off.X + float32(i)*sp.DX
			gammaVals[idx] = finalizeGamma(wendlingScan2D(doseRef, ke, yr, xr, evalZ, points, ddNormInvSq, dtaInvSq))
		}
	}
	execute(policy, gammaVals, computeRange)
	return newResult(gammaVals, size, off, sp)
}

// Wendling3D is the full 3-D counterpart of Wendling2D, searching an
// octant-derived spherical stencil and sampling eval with trilinear
// interpolation.
func Wendling3D(ref, eval *volume.Volume, params Parameters, policy Policy) (*Result, error) {
	if err := params.ValidateWendling(); err != nil {
		return nil, err
	}
	if policy.usesSIMD() {
		return nil, fmt.Errorf("%w: SIMD policy not supported for the Wendling stencil search", ErrNotImplemented)
	}

	ddInvSq, dtaInvSq, globalInvSq := params.invSquares()
	gammaVals := premask(ref, params)
	size := ref.Size()
	off := ref.Offset()
	sp := ref.Spacing()
	points := buildStencil3D(params.WendlingSearchRadius, params.WendlingStepSize)

	computeRange := func(start, end int) {
		for idx := start; idx < end; idx++ {
			if isNaN32(gammaVals[idx]) {
				continue
			}
			k, j, i := indexTo3D(idx, size)
			doseRef := ref.GetIndex(idx)
			ddNormInvSq := ddInvSq * params.normDoseInvSq(globalInvSq, doseRef)
			zr := off.Z + float32(k)*sp.DZ
			yr := off.Y + float32(j)*sp.DY
			xr := off.X + float32(i)*sp.DX
			gammaVals[idx] = finalizeGamma(wendlingScan3D(doseRef, zr, yr, xr, eval, points, ddNormInvSq, dtaInvSq))
		}
	}
	execute(policy, gammaVals, computeRange)
	return newResult(gammaVals, size, off, sp)
}

func wendlingScan2D(doseRef float32, frame int, yr, xr float32, eval *volume.Volume, points []planarPoint, ddNormInvSq, dtaInvSq float32) float32 {
	minSq := float32(math.Inf(1))
	for _, p := range points {
		if p.distSq*dtaInvSq > minSq {
			break
		}
		doseEval, ok := interp.BilinearAtPoint(eval, frame, yr+p.dy, xr+p.dx)
		if !ok {
			continue
		}
		dd := doseEval - doseRef
		gSq := dd*dd*ddNormInvSq + p.distSq*dtaInvSq
		if gSq < minSq {
			minSq = gSq
		}
	}
	return minSq
}

func wendlingScan3D(doseRef, zr, yr, xr float32, eval *volume.Volume, points []volumePoint, ddNormInvSq, dtaInvSq float32) float32 {
	minSq := float32(math.Inf(1))
	for _, p := range points {
		if p.distSq*dtaInvSq > minSq {
			break
		}
		doseEval, ok := interp.TrilinearAtPoint(eval, zr+p.dz, yr+p.dy, xr+p.dx)
		if !ok {
			continue
		}
		dd := doseEval - doseRef
		gSq := dd*dd*ddNormInvSq + p.distSq*dtaInvSq
		if gSq < minSq {
			minSq = gSq
		}
	}
	return minSq
}
