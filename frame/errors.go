package frame

import "errors"

// Sentinel errors for frame package operations.
// These errors enable reliable error classification using errors.Is().

// Configuration errors, reported eagerly at construction time.
var (
	// ErrInvalidDimensions indicates a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrInvalidFormat indicates an unsupported pixel format combination.
	ErrInvalidFormat = errors.New("invalid pixel format")

	// ErrSubsampleAlignment indicates dimensions that do not divide evenly
	// by the format's chroma subsampling factors.
	ErrSubsampleAlignment = errors.New("dimensions not aligned to chroma subsampling")

	// ErrInvalidChannelCount indicates a channel count other than 1 or 3.
	ErrInvalidChannelCount = errors.New("invalid channel count")
)

// Bridge errors, reported when a buffer meets a host frame.
var (
	// ErrShapeMismatch indicates a buffer whose plane layout matches none of
	// the accepted layouts for the target frame.
	ErrShapeMismatch = errors.New("buffer shape does not match frame format")

	// ErrNilBuffer indicates a nil buffer argument.
	ErrNilBuffer = errors.New("buffer cannot be nil")

	// ErrNilFrame indicates a nil frame argument.
	ErrNilFrame = errors.New("frame cannot be nil")

	// ErrNilImage indicates a nil image argument.
	ErrNilImage = errors.New("image cannot be nil")
)
