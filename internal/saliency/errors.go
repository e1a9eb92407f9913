package saliency

import "errors"

var (
	// ErrInvalidParameter is returned for out-of-range arguments such as a
	// non-positive bin count, a non-positive scale or a NaN percentile.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrShapeMismatch is returned when cooperating images or filters disagree
	// on channel count or when an image is too small for the filter bank.
	ErrShapeMismatch = errors.New("shape mismatch")
)
