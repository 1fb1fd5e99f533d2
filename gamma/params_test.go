package gamma

import (
	"errors"
	"testing"
)

func TestNewParametersRejectsNonPositiveThresholds(t *testing.T) {
	if _, err := NewParameters(0, 3, Local, 0, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for zero DD threshold, got %v", err)
	}
	if _, err := NewParameters(3, -1, Local, 0, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for negative DTA threshold, got %v", err)
	}
}

func TestNewParametersRequiresGlobalNormDose(t *testing.T) {
	if _, err := NewParameters(3, 3, Global, 0, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for missing global norm dose, got %v", err)
	}
	if _, err := NewParameters(3, 3, Global, 50, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateWendlingRequiresSearchFields(t *testing.T) {
	p, err := NewParameters(3, 3, Local, 0, 0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	if err := p.ValidateWendling(); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for missing search radius, got %v", err)
	}
	p.WendlingSearchRadius = 9
	p.WendlingStepSize = 0.3
	if err := p.ValidateWendling(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.WendlingStepSize = 10
	if err := p.ValidateWendling(); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for step size exceeding radius, got %v", err)
	}
}
