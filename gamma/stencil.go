package gamma

import "sort"

// planarPoint is an offset (in world units) from a reference voxel to a
// candidate evaluated point, paired with its
// squared Euclidean distance.
type planarPoint struct {
	dy, dx float32
	distSq float32
}

// volumePoint is the 3-D analogue of planarPoint.
type volumePoint struct {
	dz, dy, dx float32
	distSq     float32
}

// buildStencil2D enumerates every offset within radius of the origin on a
// step x step grid, across all four quadrants, sorted by ascending
// squared distance. A Wendling kernel walks this stencil once per
// reference voxel and stops as soon as a candidate's own distance term
// alone exceeds the best gamma found so far.
func buildStencil2D(radius, step float32) []planarPoint {
	quarter := sortedQuarterCircle(radius, step)
	points := make([]planarPoint, 0, len(quarter)*4)
	for _, q := range quarter {
		for _, v := range planarVariants(q.dy, q.dx) {
			points = append(points, planarPoint{dy: v[0], dx: v[1], distSq: q.distSq})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].distSq < points[j].distSq })
	return points
}

// buildStencil3D is the 3-D analogue of buildStencil2D, enumerating one
// octant and expanding by sign combination.
func buildStencil3D(radius, step float32) []volumePoint {
	eighth := sortedEighthOfSphere(radius, step)
	points := make([]volumePoint, 0, len(eighth)*8)
	for _, e := range eighth {
		for _, v := range volumeVariants(e.dz, e.dy, e.dx) {
			points = append(points, volumePoint{dz: v[0], dy: v[1], dx: v[2], distSq: e.distSq})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].distSq < points[j].distSq })
	return points
}

func sortedQuarterCircle(radius, step float32) []planarPoint {
	rSq := radius * radius
	var result []planarPoint
	for y := float32(0); y <= radius; y += step {
		for x := float32(0); x <= radius; x += step {
			distSq := y*y + x*x
			if distSq <= rSq {
				result = append(result, planarPoint{dy: y, dx: x, distSq: distSq})
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].distSq < result[j].distSq })
	return result
}

func sortedEighthOfSphere(radius, step float32) []volumePoint {
	rSq := radius * radius
	var result []volumePoint
	for z := float32(0); z <= radius; z += step {
		for y := float32(0); y <= radius; y += step {
			for x := float32(0); x <= radius; x += step {
				distSq := z*z + y*y + x*x
				if distSq <= rSq {
					result = append(result, volumePoint{dz: z, dy: y, dx: x, distSq: distSq})
				}
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].distSq < result[j].distSq })
	return result
}

// planarVariants expands one quadrant point into every sign combination,
// skipping variants that duplicate the original when a coordinate is 0.
func planarVariants(y, x float32) [][2]float32 {
	result := [][2]float32{{y, x}}
	if y != 0 && x != 0 {
		result = append(result, [2]float32{-y, -x})
	}
	if y != 0 {
		result = append(result, [2]float32{-y, x})
	}
	if x != 0 {
		result = append(result, [2]float32{y, -x})
	}
	return result
}

// volumeVariants expands one octant point into every sign combination.
func volumeVariants(z, y, x float32) [][3]float32 {
	result := [][3]float32{{z, y, x}}
	if z != 0 && y != 0 && x != 0 {
		result = append(result, [3]float32{-z, -y, -x})
	}
	if z != 0 && y != 0 {
		result = append(result, [3]float32{-z, -y, x})
	}
	if z != 0 && x != 0 {
		result = append(result, [3]float32{-z, y, -x})
	}
	if y != 0 && x != 0 {
		result = append(result, [3]float32{z, -y, -x})
	}
	if z != 0 {
		result = append(result, [3]float32{-z, y, x})
	}
	if y != 0 {
		result = append(result, [3]float32{z, -y, x})
	}
	if x != 0 {
		result = append(result, [3]float32{z, y, -x})
	}
	return result
}
