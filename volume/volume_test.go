package volume

import (
	"errors"
	"math"
	"testing"
)

func approxEqual32(a, b, eps float32) bool {
	if isNaN(a) && isNaN(b) {
		return true
	}
	if math.IsInf(float64(a), 0) || math.IsInf(float64(b), 0) {
		return a == b
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func mustNew(t *testing.T, data []float32, size Size, offset Offset, spacing Spacing) *Volume {
	t.Helper()
	v, err := New(data, size, offset, spacing)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestNewRejectsSizeMismatch(t *testing.T) {
	_, err := New([]float32{1, 2, 3}, Size{Frames: 1, Rows: 1, Columns: 2}, Offset{}, Spacing{})
	if !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestAtBoundsChecked(t *testing.T) {
	v := mustNew(t, []float32{1, 2, 3, 4}, Size{Frames: 1, Rows: 2, Columns: 2}, Offset{}, Spacing{DZ: 1, DY: 1, DX: 1})

	got, err := v.At(0, 1, 1)
	if err != nil || got != 4 {
		t.Fatalf("At(0,1,1) = %v, %v; want 4, nil", got, err)
	}
	if _, err := v.At(0, 2, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := v.At(1, 0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestGetOrderMatchesFlatLayout(t *testing.T) {
	v := mustNew(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, Size{Frames: 2, Rows: 2, Columns: 2}, Offset{}, Spacing{DZ: 1, DY: 1, DX: 1})
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				want := float32((k*2+j)*2 + i)
				if got := v.Get(k, j, i); got != want {
					t.Fatalf("Get(%d,%d,%d) = %v, want %v", k, j, i, got, want)
				}
			}
		}
	}
}

func TestSetSizePreservesCount(t *testing.T) {
	v := mustNew(t, []float32{1, 2, 3, 4, 5, 6}, Size{Frames: 1, Rows: 2, Columns: 3}, Offset{}, Spacing{})
	if err := v.SetSize(Size{Frames: 1, Rows: 3, Columns: 2}); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if err := v.SetSize(Size{Frames: 1, Rows: 2, Columns: 2}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestReductionsEmpty(t *testing.T) {
	v := mustNew(t, nil, Size{}, Offset{}, Spacing{})
	if got := v.Min(); !math.IsInf(float64(got), 1) {
		t.Errorf("Min() of empty = %v, want +Inf", got)
	}
	if got := v.Max(); !math.IsInf(float64(got), -1) {
		t.Errorf("Max() of empty = %v, want -Inf", got)
	}
	if got := v.Sum(); got != 0 {
		t.Errorf("Sum() of empty = %v, want 0", got)
	}
}

func TestReductionsBasic(t *testing.T) {
	v := mustNew(t, []float32{1, 2, 3, 4}, Size{Frames: 1, Rows: 1, Columns: 4}, Offset{}, Spacing{})
	if got := v.Min(); got != 1 {
		t.Errorf("Min() = %v, want 1", got)
	}
	if got := v.Max(); got != 4 {
		t.Errorf("Max() = %v, want 4", got)
	}
	if got := v.Sum(); got != 10 {
		t.Errorf("Sum() = %v, want 10", got)
	}
	if got := v.Mean(); got != 2.5 {
		t.Errorf("Mean() = %v, want 2.5", got)
	}
	wantVar := float32(1.25) // population variance of {1,2,3,4}
	if got := v.Var(); !approxEqual32(got, wantVar, 1e-5) {
		t.Errorf("Var() = %v, want %v", got, wantVar)
	}
}

func TestNanAwareReductions(t *testing.T) {
	nan := float32(math.NaN())
	v := mustNew(t, []float32{1, nan, 3, nan}, Size{Frames: 1, Rows: 1, Columns: 4}, Offset{}, Spacing{})

	if got := v.NanMin(); got != 1 {
		t.Errorf("NanMin() = %v, want 1", got)
	}
	if got := v.NanMax(); got != 3 {
		t.Errorf("NanMax() = %v, want 3", got)
	}
	if got := v.NanSum(); got != 4 {
		t.Errorf("NanSum() = %v, want 4", got)
	}
	if got := v.NanSize(); got != 2 {
		t.Errorf("NanSize() = %v, want 2", got)
	}
	if !v.ContainsNaN() {
		t.Errorf("ContainsNaN() = false, want true")
	}
	if v.ContainsInf() {
		t.Errorf("ContainsInf() = true, want false")
	}
}

func TestSlice2DAxial(t *testing.T) {
	v := mustNew(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, Size{Frames: 2, Rows: 2, Columns: 2},
		Offset{Z: 10, Y: 20, X: 30}, Spacing{DZ: 1, DY: 2, DX: 3})

	s, err := v.Slice2D(1, Axial)
	if err != nil {
		t.Fatalf("Slice2D: %v", err)
	}
	if s.Size() != (Size{Frames: 1, Rows: 2, Columns: 2}) {
		t.Fatalf("unexpected size %+v", s.Size())
	}
	want := []float32{5, 6, 7, 8}
	for idx, w := range want {
		if got := s.GetIndex(idx); got != w {
			t.Errorf("data[%d] = %v, want %v", idx, got, w)
		}
	}
	if s.Offset().Z != 11 {
		t.Errorf("Offset().Z = %v, want 11", s.Offset().Z)
	}
}

func TestSlice2DOutOfRange(t *testing.T) {
	v := mustNew(t, []float32{1, 2}, Size{Frames: 1, Rows: 1, Columns: 2}, Offset{}, Spacing{})
	if _, err := v.Slice2D(5, Axial); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSlice3DCoronalReordersAxes(t *testing.T) {
	// frames=2, rows=3, columns=1 -> Coronal: frames=3, rows=2, columns=1
	v := mustNew(t, []float32{1, 2, 3, 4, 5, 6}, Size{Frames: 2, Rows: 3, Columns: 1}, Offset{}, Spacing{DZ: 1, DY: 2, DX: 3})
	s, err := v.Slice3D(Coronal)
	if err != nil {
		t.Fatalf("Slice3D: %v", err)
	}
	if s.Size() != (Size{Frames: 3, Rows: 2, Columns: 1}) {
		t.Fatalf("unexpected size %+v", s.Size())
	}
	// new(k=j_old, j=k_old, i) == old(k_old, j_old, i)
	for jOld := 0; jOld < 3; jOld++ {
		for kOld := 0; kOld < 2; kOld++ {
			if got, want := s.Get(jOld, kOld, 0), v.Get(kOld, jOld, 0); got != want {
				t.Errorf("Slice3D(Coronal).Get(%d,%d,0) = %v, want %v", jOld, kOld, got, want)
			}
		}
	}
	if s.Spacing().DZ != 2 || s.Spacing().DY != 1 {
		t.Errorf("unexpected spacing %+v", s.Spacing())
	}
}
