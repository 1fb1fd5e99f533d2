package gamma

import (
	"fmt"
	"math"

	"github.com/rttools/gammaindex/volume"
)

// Classic2D computes the 2-D gamma index of eval against ref by exhaustive
// search: every reference voxel is compared against every evaluated voxel.
// ref and eval must both be single-frame images.
func Classic2D(ref, eval *volume.Volume, params Parameters, policy Policy) (*Result, error) {
	if ref.Size().Frames != 1 {
		return nil, fmt.Errorf("%w: reference image is not 2D (frames=%d)", ErrShapeMismatch, ref.Size().Frames)
	}
	if eval.Size().Frames != 1 {
		return nil, fmt.Errorf("%w: evaluated image is not 2D (frames=%d)", ErrShapeMismatch, eval.Size().Frames)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	ddInvSq, dtaInvSq, globalInvSq := params.invSquares()
	gammaVals := premask(ref, params)
	size := ref.Size()
	off := ref.Offset()
	sp := ref.Spacing()
	simd := policy.usesSIMD()

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

			var minSq float32
			if simd {
				minSq = classicScanSIMD(doseRef, 0, yr, xr, eval, 0, 1, false, ddNormInvSq, dtaInvSq)
			} else {
				minSq = classicScan(doseRef, 0, yr, xr, eval, 0, 1, false, ddNormInvSq, dtaInvSq)
			}
			gammaVals[idx] = finalizeGamma(minSq)
		}
	}
	execute(policy, gammaVals, computeRange)
	return newResult(gammaVals, size, off, sp)
}

// Classic2_5D computes a gamma index where each reference frame is
// compared only against the matching evaluated frame, using the full 3-D
// distance metric. ref and eval must have the same frame count.
func Classic2_5D(ref, eval *volume.Volume, params Parameters, policy Policy) (*Result, error) {
	if ref.Size().Frames != eval.Size().Frames {
		return nil, fmt.Errorf("%w: reference has %d frames, evaluated has %d", ErrShapeMismatch, ref.Size().Frames, eval.Size().Frames)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	ddInvSq, dtaInvSq, globalInvSq := params.invSquares()
	gammaVals := premask(ref, params)
	size := ref.Size()
	off := ref.Offset()
	sp := ref.Spacing()
	simd := policy.usesSIMD()

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

			var minSq float32
			if simd {
				minSq = classicScanSIMD(doseRef, zr, yr, xr, eval, k, k+1, true, ddNormInvSq, dtaInvSq)
			} else {
				minSq = classicScan(doseRef, zr, yr, xr, eval, k, k+1, true, ddNormInvSq, dtaInvSq)
			}
			gammaVals[idx] = finalizeGamma(minSq)
		}
	}
	execute(policy, gammaVals, computeRange)
	return newResult(gammaVals, size, off, sp)
}

// Classic3D computes a full 3-D exhaustive gamma index: every reference
// voxel is compared against every evaluated voxel across all frames.
func Classic3D(ref, eval *volume.Volume, params Parameters, policy Policy) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	ddInvSq, dtaInvSq, globalInvSq := params.invSquares()
	gammaVals := premask(ref, params)
	size := ref.Size()
	off := ref.Offset()
	sp := ref.Spacing()
	simd := policy.usesSIMD()
	evalFrames := eval.Size().Frames

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

			var minSq float32
			if simd {
				minSq = classicScanSIMD(doseRef, zr, yr, xr, eval, 0, evalFrames, true, ddNormInvSq, dtaInvSq)
			} else {
				minSq = classicScan(doseRef, zr, yr, xr, eval, 0, evalFrames, true, ddNormInvSq, dtaInvSq)
			}
			gammaVals[idx] = finalizeGamma(minSq)
		}
	}
	execute(policy, gammaVals, computeRange)
	return newResult(gammaVals, size, off, sp)
}

// classicScan is the scalar exhaustive inner search shared by Classic2D,
// Classic2_5D and Classic3D. It scans every non-NaN voxel of eval's frames
// [frameLo, frameHi) and returns the minimum squared gamma.
func classicScan(doseRef, zr, yr, xr float32, eval *volume.Volume, frameLo, frameHi int, includeZ bool, ddNormInvSq, dtaInvSq float32) float32 {
	minSq := float32(math.Inf(1))
	off := eval.Offset()
	sp := eval.Spacing()
	size := eval.Size()

	for ke := frameLo; ke < frameHi; ke++ {
		var dzSq float32
		if includeZ {
			dz := off.Z + float32(ke)*sp.DZ - zr
			dzSq = dz * dz
		}
		rowBase := ke * size.Rows * size.Columns
		ye := off.Y
		for je := 0; je < size.Rows; je++ {
			dy := ye - yr
			dySq := dy * dy
			xe := off.X
			base := rowBase + je*size.Columns
			for ie := 0; ie < size.Columns; ie++ {
				doseEval := eval.GetIndex(base + ie)
				if !isNaN32(doseEval) {
					dd := doseEval - doseRef
					dx := xe - xr
					distSq := dzSq + dySq + dx*dx
					gSq := dd*dd*ddNormInvSq + distSq*dtaInvSq
					if gSq < minSq {
						minSq = gSq
					}
				}
				xe += sp.DX
			}
			ye += sp.DY
		}
	}
	return minSq
}
