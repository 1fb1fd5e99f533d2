// Package interp implements the linear/bilinear/trilinear interpolation
// primitives used on the gamma-index hot path: whole-grid resampling onto
// a new regular spacing (optionally a new grid origin), and single-point
// bi/trilinear queries against an existing grid.
package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/rttools/gammaindex/volume"
)

// epsilon absorbs floating-point round-off when computing a resampled
// axis length from a ratio of spacings.
const epsilon = 3e-6

// ErrInvalidAxis is returned when an unrecognized Axis value is supplied.
var ErrInvalidAxis = errors.New("interp: invalid axis")

// Axis selects which dimension of a volume a 1-D resample runs along.
type Axis int

const (
	Z Axis = iota
	Y
	X
)

// Resample produces a new volume sampled along axis at the given spacing,
// starting at the source volume's existing grid origin along that axis.
// If spacing already equals the source spacing, the source volume is
// returned unchanged.
func Resample(img *volume.Volume, axis Axis, spacing float32) (*volume.Volume, error) {
	return resampleAlongAxis(img, axis, 0, spacing, false)
}

// ResampleOnGrid produces a new volume sampled along axis at the given
// spacing, snapped onto the regular grid defined by gridOffset (i.e. the
// first output sample is the smallest grid point offset+n*spacing that
// falls at or after the source volume's own offset along that axis).
func ResampleOnGrid(img *volume.Volume, axis Axis, gridOffset, spacing float32) (*volume.Volume, error) {
	return resampleAlongAxis(img, axis, gridOffset, spacing, true)
}

// ResampleOntoGridOf is ResampleOnGrid using ref's offset and spacing
// along axis as the target grid — the common case of re-gridding an
// evaluated volume onto a reference volume's axis before a 2.5-D
// comparison.
func ResampleOntoGridOf(img, ref *volume.Volume, axis Axis) (*volume.Volume, error) {
	offset, spacing, err := axisOffsetSpacing(ref, axis)
	if err != nil {
		return nil, err
	}
	return ResampleOnGrid(img, axis, offset, spacing)
}

func axisOffsetSpacing(img *volume.Volume, axis Axis) (offset, spacing float32, err error) {
	switch axis {
	case Z:
		return img.Offset().Z, img.Spacing().DZ, nil
	case Y:
		return img.Offset().Y, img.Spacing().DY, nil
	case X:
		return img.Offset().X, img.Spacing().DX, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidAxis, axis)
	}
}

func resampleAlongAxis(img *volume.Volume, axis Axis, gridOffset, spacing float32, hasOffset bool) (*volume.Volume, error) {
	size := img.Size()
	off := img.Offset()
	sp := img.Spacing()

	switch axis {
	case Z:
		return resampleZ(img, size, off, sp, gridOffset, spacing, hasOffset)
	case Y:
		return resampleY(img, size, off, sp, gridOffset, spacing, hasOffset)
	case X:
		return resampleX(img, size, off, sp, gridOffset, spacing, hasOffset)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidAxis, axis)
	}
}

func resampleZ(img *volume.Volume, size volume.Size, off volume.Offset, sp volume.Spacing, gridOffset, spacing float32, hasOffset bool) (*volume.Volume, error) {
	oldSpacing := sp.DZ
	var newOffsetAbs, offsetRel float32
	if hasOffset {
		newOffsetAbs = gridOffset + float32(math.Ceil(float64((off.Z-gridOffset)/spacing)))*spacing
		offsetRel = newOffsetAbs - off.Z
		if offsetRel == 0 && spacing == oldSpacing {
			return img, nil
		}
	} else {
		newOffsetAbs = off.Z
		if spacing == oldSpacing {
			return img, nil
		}
	}

	newSize := int((oldSpacing*float32(size.Frames-1)-offsetRel)/spacing+1+epsilon)
	data := make([]float32, newSize*size.Rows*size.Columns)

	for j := 0; j < size.Rows; j++ {
		for i := 0; i < size.Columns; i++ {
			z := offsetRel
			for k := 0; k < newSize; k++ {
				ind1 := int(z / oldSpacing)
				ind2 := ind1 + 1
				val1 := img.Get(ind1, j, i)
				var val float32
				if ind2 < size.Frames {
					val2 := img.Get(ind2, j, i)
					val = val1 + (z-float32(ind1)*oldSpacing)*(val2-val1)/oldSpacing
				} else {
					val = val1
				}
				data[(k*size.Rows+j)*size.Columns+i] = val
				z += spacing
			}
		}
	}

	newSizeStruct := volume.Size{Frames: newSize, Rows: size.Rows, Columns: size.Columns}
	newOffset := volume.Offset{Z: newOffsetAbs, Y: off.Y, X: off.X}
	newSpacing := volume.Spacing{DZ: spacing, DY: sp.DY, DX: sp.DX}
	return volume.New(data, newSizeStruct, newOffset, newSpacing)
}

func resampleY(img *volume.Volume, size volume.Size, off volume.Offset, sp volume.Spacing, gridOffset, spacing float32, hasOffset bool) (*volume.Volume, error) {
	oldSpacing := sp.DY
	var newOffsetAbs, offsetRel float32
	if hasOffset {
		newOffsetAbs = gridOffset + float32(math.Ceil(float64((off.Y-gridOffset)/spacing)))*spacing
		offsetRel = newOffsetAbs - off.Y
		if offsetRel == 0 && spacing == oldSpacing {
			return img, nil
		}
	} else {
		newOffsetAbs = off.Y
		if spacing == oldSpacing {
			return img, nil
		}
	}

	newSize := int((oldSpacing*float32(size.Rows-1)-offsetRel)/spacing+1+epsilon)
	data := make([]float32, size.Frames*newSize*size.Columns)

	for k := 0; k < size.Frames; k++ {
		for i := 0; i < size.Columns; i++ {
			y := offsetRel
			for j := 0; j < newSize; j++ {
				ind1 := int(y / oldSpacing)
				ind2 := ind1 + 1
				val1 := img.Get(k, ind1, i)
				var val float32
				if ind2 < size.Rows {
					val2 := img.Get(k, ind2, i)
					val = val1 + (y-float32(ind1)*oldSpacing)*(val2-val1)/oldSpacing
				} else {
					val = val1
				}
				data[(k*newSize+j)*size.Columns+i] = val
				y += spacing
			}
		}
	}

	newSizeStruct := volume.Size{Frames: size.Frames, Rows: newSize, Columns: size.Columns}
	newOffset := volume.Offset{Z: off.Z, Y: newOffsetAbs, X: off.X}
	newSpacing := volume.Spacing{DZ: sp.DZ, DY: spacing, DX: sp.DX}
	return volume.New(data, newSizeStruct, newOffset, newSpacing)
}

func resampleX(img *volume.Volume, size volume.Size, off volume.Offset, sp volume.Spacing, gridOffset, spacing float32, hasOffset bool) (*volume.Volume, error) {
	oldSpacing := sp.DX
	var newOffsetAbs, offsetRel float32
	if hasOffset {
		newOffsetAbs = gridOffset + float32(math.Ceil(float64((off.X-gridOffset)/spacing)))*spacing
		offsetRel = newOffsetAbs - off.X
		if offsetRel == 0 && spacing == oldSpacing {
			return img, nil
		}
	} else {
		newOffsetAbs = off.X
		if spacing == oldSpacing {
			return img, nil
		}
	}

	newSize := int((oldSpacing*float32(size.Columns-1)-offsetRel)/spacing+1+epsilon)
	data := make([]float32, size.Frames*size.Rows*newSize)

	for k := 0; k < size.Frames; k++ {
		for j := 0; j < size.Rows; j++ {
			x := offsetRel
			for i := 0; i < newSize; i++ {
				ind1 := int(x / oldSpacing)
				ind2 := ind1 + 1
				val1 := img.Get(k, j, ind1)
				var val float32
				if ind2 < size.Columns {
					val2 := img.Get(k, j, ind2)
					val = val1 + (x-float32(ind1)*oldSpacing)*(val2-val1)/oldSpacing
				} else {
					val = val1
				}
				data[(k*size.Rows+j)*newSize+i] = val
				x += spacing
			}
		}
	}

	newSizeStruct := volume.Size{Frames: size.Frames, Rows: size.Rows, Columns: newSize}
	newOffset := volume.Offset{Z: off.Z, Y: off.Y, X: newOffsetAbs}
	newSpacing := volume.Spacing{DZ: sp.DZ, DY: sp.DY, DX: spacing}
	return volume.New(data, newSizeStruct, newOffset, newSpacing)
}

// BilinearOnPlane composes two 1-D resamples on the in-plane axes of
// plane, using the source volume's own grid offset (no re-gridding).
func BilinearOnPlane(img *volume.Volume, plane volume.Plane, firstSpacing, secondSpacing float32) (*volume.Volume, error) {
	a1, a2, err := planeAxes(plane)
	if err != nil {
		return nil, err
	}
	mid, err := Resample(img, a1, firstSpacing)
	if err != nil {
		return nil, err
	}
	return Resample(mid, a2, secondSpacing)
}

// Trilinear composes three 1-D resamples (Z, Y, X) using the source
// volume's own grid offset.
func Trilinear(img *volume.Volume, spacing volume.Spacing) (*volume.Volume, error) {
	z, err := Resample(img, Z, spacing.DZ)
	if err != nil {
		return nil, err
	}
	y, err := Resample(z, Y, spacing.DY)
	if err != nil {
		return nil, err
	}
	return Resample(y, X, spacing.DX)
}

// TrilinearOntoGridOf resamples img onto ref's grid offset and spacing
// along all three axes.
func TrilinearOntoGridOf(img, ref *volume.Volume) (*volume.Volume, error) {
	z, err := ResampleOntoGridOf(img, ref, Z)
	if err != nil {
		return nil, err
	}
	y, err := ResampleOntoGridOf(z, ref, Y)
	if err != nil {
		return nil, err
	}
	return ResampleOntoGridOf(y, ref, X)
}

func planeAxes(plane volume.Plane) (first, second Axis, err error) {
	switch plane {
	case volume.Axial: // YX
		return Y, X, nil
	case volume.Coronal: // ZX
		return Z, X, nil
	case volume.Sagittal: // ZY
		return Z, Y, nil
	default:
		return 0, 0, fmt.Errorf("interp: invalid plane %d", plane)
	}
}

// BilinearAtPoint samples img at world point (y,x) within the given
// frame using bilinear interpolation. ok is false when the point falls
// outside the source extent along either in-plane axis.
//
// Boundary policy: when the upper neighbor index along an axis equals
// the axis size, it collapses to the lower neighbor, so a query exactly
// at the far edge still succeeds.
func BilinearAtPoint(img *volume.Volume, frame int, y, x float32) (value float32, ok bool) {
	size := img.Size()
	off := img.Offset()
	sp := img.Spacing()

	if y < off.Y || y > off.Y+float32(size.Rows-1)*sp.DY ||
		x < off.X || x > off.X+float32(size.Columns-1)*sp.DX {
		return 0, false
	}

	indy0 := int((y - off.Y) / sp.DY)
	indx0 := int((x - off.X) / sp.DX)
	indy1 := indy0 + 1
	indx1 := indx0 + 1
	if indy1 == size.Rows {
		indy1 = indy0
	}
	if indx1 == size.Columns {
		indx1 = indx0
	}

	y0 := off.Y + float32(indy0)*sp.DY
	x0 := off.X + float32(indx0)*sp.DX

	c00 := img.Get(frame, indy0, indx0)
	c01 := img.Get(frame, indy1, indx0)
	c10 := img.Get(frame, indy0, indx1)
	c11 := img.Get(frame, indy1, indx1)

	yd := (y - y0) / sp.DY
	xd := (x - x0) / sp.DX

	c0 := c00*(1-xd) + c10*xd
	c1 := c01*(1-xd) + c11*xd
	return c0*(1-yd) + c1*yd, true
}

// TrilinearAtPoint samples img at world point (z,y,x) using trilinear
// interpolation, with the same edge-collapse boundary policy as
// BilinearAtPoint.
func TrilinearAtPoint(img *volume.Volume, z, y, x float32) (value float32, ok bool) {
	size := img.Size()
	off := img.Offset()
	sp := img.Spacing()

	if z < off.Z || z > off.Z+float32(size.Frames-1)*sp.DZ ||
		y < off.Y || y > off.Y+float32(size.Rows-1)*sp.DY ||
		x < off.X || x > off.X+float32(size.Columns-1)*sp.DX {
		return 0, false
	}

	indz0 := int((z - off.Z) / sp.DZ)
	indy0 := int((y - off.Y) / sp.DY)
	indx0 := int((x - off.X) / sp.DX)
	indz1 := indz0 + 1
	indy1 := indy0 + 1
	indx1 := indx0 + 1
	if indz1 == size.Frames {
		indz1 = indz0
	}
	if indy1 == size.Rows {
		indy1 = indy0
	}
	if indx1 == size.Columns {
		indx1 = indx0
	}

	z0 := off.Z + float32(indz0)*sp.DZ
	y0 := off.Y + float32(indy0)*sp.DY
	x0 := off.X + float32(indx0)*sp.DX

	c000 := img.Get(indz0, indy0, indx0)
	c001 := img.Get(indz1, indy0, indx0)
	c010 := img.Get(indz0, indy1, indx0)
	c011 := img.Get(indz1, indy1, indx0)
	c100 := img.Get(indz0, indy0, indx1)
	c101 := img.Get(indz1, indy0, indx1)
	c110 := img.Get(indz0, indy1, indx1)
	c111 := img.Get(indz1, indy1, indx1)

	zd := (z - z0) / sp.DZ
	yd := (y - y0) / sp.DY
	xd := (x - x0) / sp.DX

	c00 := c000*(1-xd) + c100*xd
	c01 := c001*(1-xd) + c101*xd
	c10 := c010*(1-xd) + c110*xd
	c11 := c011*(1-xd) + c111*xd

	c0 := c00*(1-yd) + c10*yd
	c1 := c01*(1-yd) + c11*yd
	return c0*(1-zd) + c1*zd, true
}
