package y4m

import "errors"

// Sentinel errors for y4m stream writing.
// These errors enable reliable error classification using errors.Is().
var (
	// ErrInvalidHeader indicates unusable stream parameters.
	ErrInvalidHeader = errors.New("invalid y4m header")

	// ErrUnsupportedFormat indicates a pixel format the YUV4MPEG2
	// container cannot express.
	ErrUnsupportedFormat = errors.New("format not expressible in y4m")

	// ErrFrameMismatch indicates a frame whose format or dimensions do
	// not match the stream header.
	ErrFrameMismatch = errors.New("frame does not match stream header")

	// ErrNilFrame indicates a nil frame argument.
	ErrNilFrame = errors.New("frame cannot be nil")
)
