// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vec

import "github.com/rttools/gammaindex/hwy"

// BaseMin returns the minimum value in a slice using hwy primitives.
//
// Panics if the slice is empty.
//
// Note: For slices containing NaN values, behavior follows standard Go
// comparison semantics where NaN comparisons return false.
//
// Example:
//
//	data := []float32{3, 1, 4, 1, 5}
//	result := BaseMin(data)  // 1
func BaseMin[T hwy.Floats](v []T) T {
	if len(v) == 0 {
		panic("vec: Min called on empty slice")
	}

	lanes := hwy.Zero[T]().NumLanes()

	if len(v) < lanes {
		result := v[0]
		for i := 1; i < len(v); i++ {
			if v[i] < result {
				result = v[i]
			}
		}
		return result
	}

	minVec := hwy.Load(v)

	var i int
	for i = lanes; i+lanes <= len(v); i += lanes {
		va := hwy.Load(v[i:])
		minVec = hwy.Min(minVec, va)
	}

	result := hwy.ReduceMin(minVec)

	for ; i < len(v); i++ {
		if v[i] < result {
			result = v[i]
		}
	}

	return result
}

// BaseMax returns the maximum value in a slice using hwy primitives.
//
// Panics if the slice is empty.
//
// Note: For slices containing NaN values, behavior follows standard Go
// comparison semantics where NaN comparisons return false.
//
// Example:
//
//	data := []float32{3, 1, 4, 1, 5}
//	result := BaseMax(data)  // 5
func BaseMax[T hwy.Lanes](v []T) T {
	if len(v) == 0 {
		panic("vec: Max called on empty slice")
	}

	lanes := hwy.Zero[T]().NumLanes()

	if len(v) < lanes {
		result := v[0]
		for i := 1; i < len(v); i++ {
			if v[i] > result {
				result = v[i]
			}
		}
		return result
	}

	maxVec := hwy.Load(v)

	var i int
	for i = lanes; i+lanes <= len(v); i += lanes {
		va := hwy.Load(v[i:])
		maxVec = hwy.Max(maxVec, va)
	}

	result := hwy.ReduceMax(maxVec)

	for ; i < len(v); i++ {
		if v[i] > result {
			result = v[i]
		}
	}

	return result
}
