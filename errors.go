package vssamples

import "errors"

// Sentinel errors for clip assembly and rendering.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrNilSignal indicates a clip was constructed without a source.
	ErrNilSignal = errors.New("signal source cannot be nil")

	// ErrInvalidSettings indicates clip settings that cannot describe a
	// renderable clip: bad frame rate, negative crop, misaligned output
	// dimensions, or a format the source cannot feed.
	ErrInvalidSettings = errors.New("invalid clip settings")

	// ErrFrameOutOfRange indicates a frame index outside [0, Frames).
	ErrFrameOutOfRange = errors.New("frame index out of range")

	// ErrNilWriter indicates a render call without a destination writer.
	ErrNilWriter = errors.New("stream writer cannot be nil")
)
