package gamma

import (
	"math"
	"testing"

	"github.com/rttools/gammaindex/volume"
)

func approxEqual32(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func mustVol(t *testing.T, data []float32, size volume.Size, offset volume.Offset, spacing volume.Spacing) *volume.Volume {
	t.Helper()
	v, err := volume.New(data, size, offset, spacing)
	if err != nil {
		t.Fatalf("volume.New: %v", err)
	}
	return v
}

func TestClassic2DWorkedExample1(t *testing.T) {
	ref := mustVol(t, []float32{1, 1, 3, 2}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 2, DX: 2})
	eval := mustVol(t, []float32{2, 1, 2, 3}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 2, DX: 2})
	params, err := NewParameters(3, 3, Global, 3, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}

	res, err := Classic2D(ref, eval, params, Sequential)
	if err != nil {
		t.Fatalf("Classic2D: %v", err)
	}

	want := []float32{0.6667, 0, 0.6667, 0.6667}
	got := res.Values().Data()
	for i := range want {
		if !approxEqual32(got[i], want[i], 1e-3) {
			t.Errorf("gamma[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClassic2DWorkedExample2(t *testing.T) {
	ref := mustVol(t, []float32{0.93, 0.95, 0.97, 1.00}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{X: -1}, volume.Spacing{DY: 1, DX: 1})
	eval := mustVol(t, []float32{0.95, 0.97, 1.00, 1.03}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{Y: -1}, volume.Spacing{DY: 1, DX: 1})
	params, err := NewParameters(3, 3, Global, 1.00, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}

	res, err := Classic2D(ref, eval, params, Sequential)
	if err != nil {
		t.Fatalf("Classic2D: %v", err)
	}

	want := []float32{0.816496, 0.333333, 0.942809, 0.333333}
	got := res.Values().Data()
	for i := range want {
		if !approxEqual32(got[i], want[i], 1e-4) {
			t.Errorf("gamma[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClassic2DIdentity(t *testing.T) {
	img := mustVol(t, []float32{1, 2, 3, 4, 5, 6}, volume.Size{Frames: 1, Rows: 2, Columns: 3}, volume.Offset{}, volume.Spacing{DY: 1, DX: 1})
	params, err := NewParameters(3, 3, Global, 6, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	res, err := Classic2D(img, img, params, Sequential)
	if err != nil {
		t.Fatalf("Classic2D: %v", err)
	}
	for i, g := range res.Values().Data() {
		if g != 0 {
			t.Errorf("gamma[%d] = %v, want 0 for identity input", i, g)
		}
	}
	if rate := res.PassingRate(); rate != 1 {
		t.Errorf("PassingRate() = %v, want 1", rate)
	}
}

func TestClassic2DCutoffMask(t *testing.T) {
	ref := mustVol(t, []float32{10, 1, 10, 10}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 1, DX: 1})
	eval := mustVol(t, []float32{10, 10, 10, 10}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 1, DX: 1})
	params, err := NewParameters(3, 3, Global, 10, 5)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	res, err := Classic2D(ref, eval, params, Sequential)
	if err != nil {
		t.Fatalf("Classic2D: %v", err)
	}
	data := res.Values().Data()
	if !math.IsNaN(float64(data[1])) {
		t.Errorf("gamma[1] = %v, want NaN (below dose cutoff)", data[1])
	}
	for _, i := range []int{0, 2, 3} {
		if math.IsNaN(float64(data[i])) {
			t.Errorf("gamma[%d] = NaN, want a finite value", i)
		}
	}
}

func TestClassic2DLocalDivideByZero(t *testing.T) {
	ref := mustVol(t, []float32{0, 5, 5, 5}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 1, DX: 1})
	eval := mustVol(t, []float32{5, 5, 5, 5}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 1, DX: 1})
	params, err := NewParameters(3, 3, Local, 0, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	res, err := Classic2D(ref, eval, params, Sequential)
	if err != nil {
		t.Fatalf("Classic2D: %v", err)
	}
	data := res.Values().Data()
	if !math.IsNaN(float64(data[0])) {
		t.Errorf("gamma[0] = %v, want NaN for zero reference dose under local normalization", data[0])
	}
}

func TestClassic2DShapeMismatch(t *testing.T) {
	ref := mustVol(t, []float32{1, 2, 3, 4}, volume.Size{Frames: 2, Rows: 1, Columns: 2}, volume.Offset{}, volume.Spacing{DZ: 1, DY: 1, DX: 1})
	eval := mustVol(t, []float32{1, 2}, volume.Size{Frames: 1, Rows: 1, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 1, DX: 1})
	params, err := NewParameters(3, 3, Global, 4, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	if _, err := Classic2D(ref, eval, params, Sequential); err == nil {
		t.Fatal("expected an error for a multi-frame reference image")
	}
}

func TestClassic2DSIMDAndThreadedAgreeWithSequential(t *testing.T) {
	ref := mustVol(t, []float32{1, 1, 3, 2}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 2, DX: 2})
	eval := mustVol(t, []float32{2, 1, 2, 3}, volume.Size{Frames: 1, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DY: 2, DX: 2})
	params, err := NewParameters(3, 3, Global, 3, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}

	seq, err := Classic2D(ref, eval, params, Sequential)
	if err != nil {
		t.Fatalf("Classic2D (Sequential): %v", err)
	}

	for _, policy := range []Policy{SIMDPolicy, Threaded, ThreadedSIMD} {
		res, err := Classic2D(ref, eval, params, policy)
		if err != nil {
			t.Fatalf("Classic2D (policy %d): %v", policy, err)
		}
		seqData := seq.Values().Data()
		gotData := res.Values().Data()
		for i := range seqData {
			if !approxEqual32(gotData[i], seqData[i], 1e-4) {
				t.Errorf("policy %d: gamma[%d] = %v, want %v", policy, i, gotData[i], seqData[i])
			}
		}
	}
}

func TestClassic2_5DRequiresMatchingFrameCounts(t *testing.T) {
	ref := mustVol(t, []float32{1, 2, 3, 4}, volume.Size{Frames: 2, Rows: 1, Columns: 2}, volume.Offset{}, volume.Spacing{DZ: 1, DY: 1, DX: 1})
	eval := mustVol(t, []float32{1, 2}, volume.Size{Frames: 1, Rows: 1, Columns: 2}, volume.Offset{}, volume.Spacing{DZ: 1, DY: 1, DX: 1})
	params, err := NewParameters(3, 3, Global, 4, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	if _, err := Classic2_5D(ref, eval, params, Sequential); err == nil {
		t.Fatal("expected an error for mismatched frame counts")
	}
}

func TestClassic3DIdentity(t *testing.T) {
	img := mustVol(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, volume.Size{Frames: 2, Rows: 2, Columns: 2}, volume.Offset{}, volume.Spacing{DZ: 1, DY: 1, DX: 1})
	params, err := NewParameters(3, 3, Global, 8, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	res, err := Classic3D(img, img, params, Sequential)
	if err != nil {
		t.Fatalf("Classic3D: %v", err)
	}
	for i, g := range res.Values().Data() {
		if g != 0 {
			t.Errorf("gamma[%d] = %v, want 0 for identity input", i, g)
		}
	}
}
