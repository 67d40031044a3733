package carver

import "github.com/pkg/errors"

var (
	// ErrInvalidDimensions is returned when a target width or height is zero
	// or bigger than the corresponding source dimension. The carver only shrinks.
	ErrInvalidDimensions = errors.New("invalid target dimensions")

	// ErrEmptyImage is returned when the source image has no pixels.
	ErrEmptyImage = errors.New("empty image")

	// ErrInvariantViolation signals a broken internal contract, e.g. a seam
	// which does not fit the image it is applied to. It is never retried.
	ErrInvariantViolation = errors.New("invariant violation")
)
