// Package volume implements the dense 3-D dose-grid value type shared by
// every gamma-index kernel: a flat row-major frame/row/column buffer plus
// world-space origin and spacing metadata.
package volume

import (
	"errors"
	"fmt"
	"math"

	"github.com/rttools/gammaindex/hwy/contrib/vec"
)

// ErrInvalidSize is returned by SetSize when the new size does not preserve
// the total element count of the existing buffer.
var ErrInvalidSize = errors.New("volume: invalid size")

// ErrOutOfRange is returned by At when an index falls outside the volume.
var ErrOutOfRange = errors.New("volume: index out of range")

// Size is the extent of a volume in voxels, ordered frame/row/column.
type Size struct {
	Frames  int
	Rows    int
	Columns int
}

// Prod returns the total number of voxels described by the size.
func (s Size) Prod() int {
	return s.Frames * s.Rows * s.Columns
}

// Offset is the world-space coordinate of voxel (0,0,0), ordered Z/Y/X.
type Offset struct {
	Z, Y, X float32
}

// Spacing is the world-space step between adjacent voxel indices along
// each axis, ordered Z/Y/X. A spacing of 0 marks a degenerate axis.
type Spacing struct {
	DZ, DY, DX float32
}

// Plane selects a 2-D slicing orientation through a 3-D volume.
type Plane int

const (
	Axial Plane = iota
	Coronal
	Sagittal
)

// Volume is a dense 3-D grid of 32-bit dose samples in frame-major,
// row-major, column-minor order, with world-space origin and spacing.
//
// A Volume exclusively owns its buffer; callers that want an independent
// copy must copy Data() themselves.
type Volume struct {
	data    []float32
	size    Size
	offset  Offset
	spacing Spacing
}

// New builds a Volume from an owned buffer. len(data) must equal
// size.Prod().
func New(data []float32, size Size, offset Offset, spacing Spacing) (*Volume, error) {
	if len(data) != size.Prod() {
		return nil, fmt.Errorf("%w: data has %d elements, size describes %d", ErrInvalidSize, len(data), size.Prod())
	}
	return &Volume{data: data, size: size, offset: offset, spacing: spacing}, nil
}

// Size returns the volume's extent in voxels.
func (v *Volume) Size() Size { return v.size }

// Offset returns the world coordinate of voxel (0,0,0).
func (v *Volume) Offset() Offset { return v.offset }

// Spacing returns the per-axis world-unit step.
func (v *Volume) Spacing() Spacing { return v.spacing }

// Len returns the number of voxels in the volume.
func (v *Volume) Len() int { return len(v.data) }

// Data returns the underlying buffer. The caller must not retain it past
// the Volume's lifetime if the Volume is later mutated via SetSize.
func (v *Volume) Data() []float32 { return v.data }

// Index returns the flat buffer index for voxel (k,j,i), without bounds
// checking.
func (v *Volume) Index(k, j, i int) int {
	return (k*v.size.Rows+j)*v.size.Columns + i
}

// At returns the dose at voxel (k,j,i), failing with ErrOutOfRange if any
// index is outside the volume's size.
func (v *Volume) At(k, j, i int) (float32, error) {
	if k < 0 || k >= v.size.Frames || j < 0 || j >= v.size.Rows || i < 0 || i >= v.size.Columns {
		return 0, fmt.Errorf("%w: (%d,%d,%d) outside %+v", ErrOutOfRange, k, j, i, v.size)
	}
	return v.Get(k, j, i), nil
}

// Get returns the dose at voxel (k,j,i). The caller guarantees the indices
// are in range.
func (v *Volume) Get(k, j, i int) float32 {
	return v.data[v.Index(k, j, i)]
}

// GetIndex returns the dose at a flat buffer index. The caller guarantees
// the index is in range.
func (v *Volume) GetIndex(idx int) float32 {
	return v.data[idx]
}

// WorldZ returns the world-space Z coordinate of frame index k.
func (v *Volume) WorldZ(k int) float32 { return v.offset.Z + float32(k)*v.spacing.DZ }

// WorldY returns the world-space Y coordinate of row index j.
func (v *Volume) WorldY(j int) float32 { return v.offset.Y + float32(j)*v.spacing.DY }

// WorldX returns the world-space X coordinate of column index i.
func (v *Volume) WorldX(i int) float32 { return v.offset.X + float32(i)*v.spacing.DX }

// SetSize reassigns the volume's size, succeeding only when the new size
// describes the same total element count as the current one.
func (v *Volume) SetSize(size Size) error {
	if size.Prod() != v.size.Prod() {
		return fmt.Errorf("%w: %d elements does not match current %d", ErrInvalidSize, size.Prod(), v.size.Prod())
	}
	v.size = size
	return nil
}

// Slice2D extracts frame (or row/column, depending on plane) as a 2-D
// volume (single frame), reoriented per plane: Axial keeps row/column,
// Coronal reorders to frame/column indexed by row, Sagittal reorders to
// frame/row indexed by column.
func (v *Volume) Slice2D(frame int, plane Plane) (*Volume, error) {
	switch plane {
	case Axial:
		if frame < 0 || frame >= v.size.Frames {
			return nil, fmt.Errorf("%w: frame %d >= frames %d", ErrOutOfRange, frame, v.size.Frames)
		}
		data := make([]float32, v.size.Rows*v.size.Columns)
		copy(data, v.data[frame*v.size.Rows*v.size.Columns:(frame+1)*v.size.Rows*v.size.Columns])
		size := Size{Frames: 1, Rows: v.size.Rows, Columns: v.size.Columns}
		offset := Offset{Z: v.offset.Z + float32(frame)*v.spacing.DZ, Y: v.offset.Y, X: v.offset.X}
		spacing := Spacing{DZ: 0, DY: v.spacing.DY, DX: v.spacing.DX}
		return New(data, size, offset, spacing)

	case Coronal:
		if frame < 0 || frame >= v.size.Rows {
			return nil, fmt.Errorf("%w: frame %d >= rows %d", ErrOutOfRange, frame, v.size.Rows)
		}
		data := make([]float32, v.size.Frames*v.size.Columns)
		idx := 0
		for k := 0; k < v.size.Frames; k++ {
			for i := 0; i < v.size.Columns; i++ {
				data[idx] = v.Get(k, frame, i)
				idx++
			}
		}
		size := Size{Frames: 1, Rows: v.size.Frames, Columns: v.size.Columns}
		offset := Offset{Z: v.offset.Y + float32(frame)*v.spacing.DY, Y: v.offset.Z, X: v.offset.X}
		spacing := Spacing{DZ: 0, DY: v.spacing.DZ, DX: v.spacing.DX}
		return New(data, size, offset, spacing)

	case Sagittal:
		if frame < 0 || frame >= v.size.Columns {
			return nil, fmt.Errorf("%w: frame %d >= columns %d", ErrOutOfRange, frame, v.size.Columns)
		}
		data := make([]float32, v.size.Frames*v.size.Rows)
		idx := 0
		for k := 0; k < v.size.Frames; k++ {
			for j := 0; j < v.size.Rows; j++ {
				data[idx] = v.Get(k, j, frame)
				idx++
			}
		}
		size := Size{Frames: 1, Rows: v.size.Frames, Columns: v.size.Rows}
		offset := Offset{Z: v.offset.X + float32(frame)*v.spacing.DX, Y: v.offset.Z, X: v.offset.Y}
		spacing := Spacing{DZ: 0, DY: v.spacing.DZ, DX: v.spacing.DY}
		return New(data, size, offset, spacing)

	default:
		return nil, fmt.Errorf("volume: invalid plane %d", plane)
	}
}

// Slice3D reorients the whole volume per plane: Axial is the identity,
// Coronal reorders axes to (rows, frames, columns), Sagittal to (columns,
// frames, rows).
func (v *Volume) Slice3D(plane Plane) (*Volume, error) {
	switch plane {
	case Axial:
		data := make([]float32, len(v.data))
		copy(data, v.data)
		return New(data, v.size, v.offset, v.spacing)

	case Coronal:
		size := Size{Frames: v.size.Rows, Rows: v.size.Frames, Columns: v.size.Columns}
		data := make([]float32, size.Prod())
		idx := 0
		for j := 0; j < v.size.Rows; j++ {
			for k := 0; k < v.size.Frames; k++ {
				for i := 0; i < v.size.Columns; i++ {
					data[idx] = v.Get(k, j, i)
					idx++
				}
			}
		}
		offset := Offset{Z: v.offset.Y, Y: v.offset.Z, X: v.offset.X}
		spacing := Spacing{DZ: v.spacing.DY, DY: v.spacing.DZ, DX: v.spacing.DX}
		return New(data, size, offset, spacing)

	case Sagittal:
		size := Size{Frames: v.size.Columns, Rows: v.size.Frames, Columns: v.size.Rows}
		data := make([]float32, size.Prod())
		idx := 0
		for i := 0; i < v.size.Columns; i++ {
			for k := 0; k < v.size.Frames; k++ {
				for j := 0; j < v.size.Rows; j++ {
					data[idx] = v.Get(k, j, i)
					idx++
				}
			}
		}
		offset := Offset{Z: v.offset.X, Y: v.offset.Z, X: v.offset.Y}
		spacing := Spacing{DZ: v.spacing.DX, DY: v.spacing.DZ, DX: v.spacing.DY}
		return New(data, size, offset, spacing)

	default:
		return nil, fmt.Errorf("volume: invalid plane %d", plane)
	}
}

// Min returns the minimum value, or +Inf for an empty volume.
func (v *Volume) Min() float32 {
	if len(v.data) == 0 {
		return float32(math.Inf(1))
	}
	return vec.BaseMin(v.data)
}

// Max returns the maximum value, or -Inf for an empty volume.
func (v *Volume) Max() float32 {
	if len(v.data) == 0 {
		return float32(math.Inf(-1))
	}
	return vec.BaseMax(v.data)
}

// Sum returns the sum of all values, accumulated in double precision.
func (v *Volume) Sum() float64 {
	if len(v.data) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range v.data {
		total += float64(x)
	}
	return total
}

// Mean returns Sum()/Len(), or NaN for an empty volume.
func (v *Volume) Mean() float32 {
	if len(v.data) == 0 {
		return float32(math.NaN())
	}
	return float32(v.Sum() / float64(len(v.data)))
}

// Var returns the population variance, or NaN for an empty volume.
func (v *Volume) Var() float32 {
	if len(v.data) == 0 {
		return float32(math.NaN())
	}
	mean := v.Mean()
	var acc float64
	for _, x := range v.data {
		d := float64(x - mean)
		acc += d * d
	}
	return float32(acc / float64(len(v.data)))
}

// NanMin returns the minimum of all non-NaN values, or +Inf if every value
// is NaN or the volume is empty.
func (v *Volume) NanMin() float32 {
	minV := float32(math.Inf(1))
	for _, x := range v.data {
		if !isNaN(x) && x < minV {
			minV = x
		}
	}
	return minV
}

// NanMax returns the maximum of all non-NaN values, or -Inf if every value
// is NaN or the volume is empty.
func (v *Volume) NanMax() float32 {
	maxV := float32(math.Inf(-1))
	for _, x := range v.data {
		if !isNaN(x) && x > maxV {
			maxV = x
		}
	}
	return maxV
}

// NanSum returns the sum of all non-NaN values.
func (v *Volume) NanSum() float64 {
	var total float64
	for _, x := range v.data {
		if !isNaN(x) {
			total += float64(x)
		}
	}
	return total
}

// NanMean returns NanSum()/NanSize().
func (v *Volume) NanMean() float32 {
	n := v.NanSize()
	if n == 0 {
		return float32(math.NaN())
	}
	return float32(v.NanSum() / float64(n))
}

// NanVar returns the population variance of the non-NaN values.
func (v *Volume) NanVar() float32 {
	n := v.NanSize()
	if n == 0 {
		return float32(math.NaN())
	}
	mean := v.NanMean()
	var acc float64
	for _, x := range v.data {
		if !isNaN(x) {
			d := float64(x - mean)
			acc += d * d
		}
	}
	return float32(acc / float64(n))
}

// NanSize returns the count of non-NaN values.
func (v *Volume) NanSize() int {
	n := 0
	for _, x := range v.data {
		if !isNaN(x) {
			n++
		}
	}
	return n
}

// ContainsNaN reports whether any value is NaN.
func (v *Volume) ContainsNaN() bool {
	for _, x := range v.data {
		if isNaN(x) {
			return true
		}
	}
	return false
}

// ContainsInf reports whether any value is +/-Inf.
func (v *Volume) ContainsInf() bool {
	for _, x := range v.data {
		if math.IsInf(float64(x), 0) {
			return true
		}
	}
	return false
}

func isNaN(x float32) bool {
	return x != x
}
