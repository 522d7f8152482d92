package artifact

import "errors"

// Sentinel errors for artifact package operations.
// These errors enable reliable error classification using errors.Is().

// Configuration errors, reported eagerly at construction time. Strength
// parameters outside their documented range are rejected, never clamped.
var (
	// ErrInvalidQuality indicates a compression quality outside [1, 100].
	ErrInvalidQuality = errors.New("quality must be between 1 and 100")

	// ErrInvalidBlockSize indicates a block size outside the supported
	// set, or an empty block size list.
	ErrInvalidBlockSize = errors.New("invalid block size selection")

	// ErrInvalidDepth indicates a target bit depth outside [1, 16].
	ErrInvalidDepth = errors.New("target depth must be between 1 and 16")

	// ErrInvalidAmplitude indicates a negative dither amplitude.
	ErrInvalidAmplitude = errors.New("dither amplitude must not be negative")

	// ErrUnknownDitherMode indicates a dither mode outside the closed set.
	ErrUnknownDitherMode = errors.New("unknown dither mode")
)

// Application errors, reported when an artifact meets a buffer.
var (
	// ErrNilBuffer indicates a nil input buffer.
	ErrNilBuffer = errors.New("input buffer cannot be nil")

	// ErrMaskShape indicates a motion mask whose dimensions do not match
	// the buffer's luma plane.
	ErrMaskShape = errors.New("motion mask shape does not match buffer")
)
