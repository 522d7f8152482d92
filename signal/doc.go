// Package signal generates synthetic video test patterns as normalized
// numeric buffers.
//
// Every generator is a pure function of its configuration and a frame
// index: the same index always produces the same samples, no state
// survives between calls, and all samples lie in [0, 1]. Grayscale
// patterns fill one plane, color patterns three luma-sized planes.
//
// # Pattern Set
//
// The supported patterns form a closed set enumerated by Kind:
//
//	ramps        horizontal-ramp, vertical-ramp, corner-ramp, circular-ramp
//	geometry     checkerboard, diamond, spiral
//	plasma       rotating-gradients, vortex (RGB channel order)
//	broadcast    colorbars (YCbCr studio-swing codes)
//
// # Usage
//
// Construct a generator, then pull frames by index:
//
//	ramp, err := signal.NewHorizontalRamp(signal.Config{
//	    Width:  1920,
//	    Height: 1080,
//	    Frames: 240,
//	})
//	if err != nil {
//	    return fmt.Errorf("configuring ramp: %w", err)
//	}
//
//	buf, err := ramp.Generate(120)
//
// Animated patterns scale with n/(Frames-1). Static configurations and
// single-frame runs evaluate every index at the canonical phase, so a
// static ramp shows its full excursion on every frame.
//
// # Channel Semantics
//
// Buffers carry no color family tag. The plasma patterns emit RGB
// channel order and the color bars emit YCbCr; pair each pattern with a
// frame format of the matching family when bridging.
//
// # Known Limitations
//
//   - Color bars render the SDR layout only; PQ and HLG bar variants
//     follow a different layout standard and are not generated.
//   - The -I/+Q chip values use computed 33 degree UV-plane rotations
//     rather than tabulated broadcast generator codes.
package signal
