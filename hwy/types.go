// Package hwy provides portable SIMD operations with runtime CPU dispatch.
//
// It follows the Highway C++ library's design philosophy: write once,
// run optimally everywhere. Operations automatically use the best available
// SIMD width for the current CPU, or fall back to scalar code.
//
// Basic usage:
//
//	import "github.com/rttools/gammaindex/hwy"
//
//	// Load data into vectors
//	a := hwy.Load(data1)
//	b := hwy.Load(data2)
//
//	// Perform SIMD operations
//	result := hwy.Add(a, b)
package hwy

// Floats is a constraint for Go's native floating-point types.
type Floats interface {
	~float32 | ~float64
}

// Lanes is a constraint for all types that can be stored in a vector. This
// package only ever carries dose and gamma values, so it is narrowed to the
// floating-point types the gamma engine actually computes with.
type Lanes interface {
	Floats
}

// Vec is a portable vector handle that wraps SIMD operations.
//
// Vec instances should not be created directly; use Load, Set, or Zero
// instead.
type Vec[T Lanes] struct {
	// data holds the vector elements.
	data []T
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Mask represents the result of a comparison operation. It is used with
// IfThenElse to perform lane-wise conditional selection.
//
// Mask instances should not be created directly; use a comparison
// operation such as IsNaN instead.
type Mask[T Lanes] struct {
	// bits stores which lanes are active (true). bit i is set if lane i
	// is active.
	bits []bool
}
