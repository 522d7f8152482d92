// Package artifact simulates compression and quantization defects on
// numeric frame buffers.
//
// Every simulator is pure: it takes a buffer of normalized [0, 1]
// samples, returns a fresh degraded buffer of the same shape, and
// yields the same output for the same input every time. Randomness is
// seeded or replaced with position hashes, so rendered clips are
// reproducible frame by frame.
//
// # Simulators
//
// Three simulators cover the common codec defects:
//
//   - JPEG: 8x8 DCT requantization with the ITU-T T.81 Annex K tables
//     and the libjpeg quality curve. Produces classic blocking and
//     ringing.
//   - BlockJPEG: the same transform with per-macroblock block sizes of
//     4, 8, or 16, selected by motion or position, mimicking AVC
//     partitioning.
//   - Depth: bit-depth reduction with a closed set of dither modes,
//     from plain rounding through Bayer ordering to error diffusion.
//
// # Usage
//
// Simulators compose through a Chain:
//
//	jpeg, err := artifact.NewJPEG(30)
//	if err != nil {
//		return err
//	}
//	depth, err := artifact.NewDepth(4, artifact.WithDither(artifact.DitherOrdered))
//	if err != nil {
//		return err
//	}
//	chain := artifact.NewChain(jpeg, depth)
//	degraded, err := chain.Apply(buf)
//
// Parameters are validated at construction. An out-of-range quality or
// depth is an error, never a silent clamp, so a misconfigured chain
// fails before the first frame renders.
//
// # Plane Conventions
//
// Buffers with three planes are treated as luma plus two chroma planes:
// chroma planes center on 0.5, take the chroma quantization tables, and
// anchor at the mid-scale neutral during depth reduction. Single-plane
// buffers are all luma.
//
// # Known Limitations
//
// The JPEG simulators requantize coefficients but perform no entropy
// coding, so they model the visible loss of a codec without producing
// a decodable bitstream. Quantization tables for the 4x4 and 16x16
// transforms are interpolated from the 8x8 references rather than
// taken from any particular encoder, and the dither kernels implement
// the classic published coefficient sets only.
package artifact
