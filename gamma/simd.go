package gamma

import (
	"math"

	"github.com/rttools/gammaindex/hwy"
	"github.com/rttools/gammaindex/volume"
)

// classicScanSIMD is the lane-vectorized counterpart of classicScan: each
// row of eval is processed MaxLanes[float32]() columns at a time, masking
// out lanes whose evaluated dose is NaN before folding them into a
// running per-lane minimum, with a scalar tail for the remaining
// columns. Like classicScan, it visits every candidate and returns the
// minimum squared gamma.
func classicScanSIMD(doseRef, zr, yr, xr float32, eval *volume.Volume, frameLo, frameHi int, includeZ bool, ddNormInvSq, dtaInvSq float32) float32 {
	off := eval.Offset()
	sp := eval.Spacing()
	size := eval.Size()
	lanes := hwy.MaxLanes[float32]()

	refDoseVec := hwy.Set(doseRef)
	ddNormVec := hwy.Set(ddNormInvSq)
	dtaVec := hwy.Set(dtaInvSq)
	infVec := hwy.Set(float32(math.Inf(1)))
	minVec := infVec

	distSqBuf := make([]float32, lanes)
	minSq := float32(math.Inf(1))

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
			dySq := dzSq + dy*dy
			row := eval.Data()[rowBase+je*size.Columns : rowBase+(je+1)*size.Columns]

			ie := 0
			for ; ie+lanes <= size.Columns; ie += lanes {
				evalVec := hwy.Load(row[ie:])
				nanMask := hwy.IsNaN(evalVec)

				for l := 0; l < lanes; l++ {
					dx := off.X + float32(ie+l)*sp.DX - xr
					distSqBuf[l] = dySq + dx*dx
				}
				distVec := hwy.Load(distSqBuf)

				diff := hwy.Sub(evalVec, refDoseVec)
				term := hwy.Add(hwy.Mul(hwy.Mul(diff, diff), ddNormVec), hwy.Mul(distVec, dtaVec))
				term = hwy.IfThenElse(nanMask, infVec, term)
				minVec = hwy.Min(minVec, term)
			}
			for ; ie < size.Columns; ie++ {
				doseEval := row[ie]
				if !isNaN32(doseEval) {
					dd := doseEval - doseRef
					dx := off.X + float32(ie)*sp.DX - xr
					distSq := dySq + dx*dx
					gSq := dd*dd*ddNormInvSq + distSq*dtaInvSq
					if gSq < minSq {
						minSq = gSq
					}
				}
			}
			ye += sp.DY
		}
	}

	laneMin := hwy.ReduceMin(minVec)
	if laneMin < minSq {
		minSq = laneMin
	}
	return minSq
}
