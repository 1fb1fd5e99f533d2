package gamma

import "fmt"

// Normalization selects how the dose-difference term is scaled.
type Normalization int

const (
	// Local normalizes each reference voxel's dose-difference term by its
	// own dose value.
	Local Normalization = iota
	// Global normalizes every voxel's dose-difference term by a single
	// prescribed dose value.
	Global
)

// Parameters holds the tolerances and search bounds governing a gamma
// computation. DDThreshold is a percentage (e.g. 3 means 3%), DTAThreshold
// is in the evaluated volume's spatial units (e.g. millimeters).
type Parameters struct {
	DDThreshold    float32
	DTAThreshold   float32
	Normalization  Normalization
	GlobalNormDose float32
	DoseCutoff     float32

	// WendlingSearchRadius and WendlingStepSize configure the Wendling
	// search-radius kernels; they are ignored by the classic kernels.
	WendlingSearchRadius float32
	WendlingStepSize     float32
}

// NewParameters validates and returns p. It does not validate the Wendling
// fields; call ValidateWendling before using p with a Wendling kernel.
func NewParameters(ddThreshold, dtaThreshold float32, normalization Normalization, globalNormDose, doseCutoff float32) (Parameters, error) {
	p := Parameters{
		DDThreshold:    ddThreshold,
		DTAThreshold:   dtaThreshold,
		Normalization:  normalization,
		GlobalNormDose: globalNormDose,
		DoseCutoff:     doseCutoff,
	}
	if err := p.validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

func (p Parameters) validate() error {
	if p.DDThreshold <= 0 {
		return fmt.Errorf("%w: dose-difference threshold must be positive, got %v", ErrInvalidParameter, p.DDThreshold)
	}
	if p.DTAThreshold <= 0 {
		return fmt.Errorf("%w: distance-to-agreement threshold must be positive, got %v", ErrInvalidParameter, p.DTAThreshold)
	}
	if p.DoseCutoff < 0 {
		return fmt.Errorf("%w: dose cutoff must not be negative, got %v", ErrInvalidParameter, p.DoseCutoff)
	}
	if p.Normalization == Global && p.GlobalNormDose <= 0 {
		return fmt.Errorf("%w: global normalization dose must be positive, got %v", ErrInvalidParameter, p.GlobalNormDose)
	}
	return nil
}

// ValidateWendling additionally validates the Wendling search fields. Call
// it before passing p to a Wendling kernel.
func (p Parameters) ValidateWendling() error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.WendlingSearchRadius <= 0 {
		return fmt.Errorf("%w: Wendling search radius must be positive, got %v", ErrInvalidParameter, p.WendlingSearchRadius)
	}
	if p.WendlingStepSize <= 0 || p.WendlingStepSize > p.WendlingSearchRadius {
		return fmt.Errorf("%w: Wendling step size must be positive and not exceed the search radius, got %v", ErrInvalidParameter, p.WendlingStepSize)
	}
	return nil
}

func (p Parameters) invSquares() (ddInvSq, dtaInvSq, globalNormInvSq float32) {
	ddFrac := p.DDThreshold / 100
	ddInvSq = 1 / (ddFrac * ddFrac)
	dtaInvSq = 1 / (p.DTAThreshold * p.DTAThreshold)
	if p.Normalization == Global {
		globalNormInvSq = 1 / (p.GlobalNormDose * p.GlobalNormDose)
	}
	return
}

func (p Parameters) normDoseInvSq(globalNormInvSq, doseRef float32) float32 {
	if p.Normalization == Global {
		return globalNormInvSq
	}
	return 1 / (doseRef * doseRef)
}
