package signal

import "errors"

// Sentinel errors for signal package operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrInvalidConfig indicates non-positive dimensions or frame count.
	ErrInvalidConfig = errors.New("invalid signal configuration")

	// ErrFrameOutOfRange indicates a frame index outside [0, Frames).
	ErrFrameOutOfRange = errors.New("frame index out of range")

	// ErrInvalidParameter indicates a pattern parameter outside its
	// documented range.
	ErrInvalidParameter = errors.New("invalid pattern parameter")

	// ErrUnknownKind indicates a pattern kind outside the closed set.
	ErrUnknownKind = errors.New("unknown pattern kind")
)
