package gamma

import "errors"

// ErrInvalidParameter is returned when a Parameters value fails eager
// validation (non-positive DD/DTA, missing global normalization dose,
// or an invalid Wendling search radius/step).
var ErrInvalidParameter = errors.New("gamma: invalid parameter")

// ErrShapeMismatch is returned when a kernel's dimensionality contract on
// its inputs is violated, e.g. a 2.5-D call whose reference and evaluated
// volumes have different frame counts.
var ErrShapeMismatch = errors.New("gamma: shape mismatch")

// ErrNotImplemented is returned for a policy or dimensionality the build
// does not provide.
var ErrNotImplemented = errors.New("gamma: not implemented")
