// Package frame defines the data model shared by every generator and
// simulator: pixel formats, normalized numeric buffers, planar host
// frames, and the bridge adapter that converts between them.
//
// # Data Flow
//
// Signal functions and artifact simulators work exclusively on Buffer
// values, dense float64 planes normalized to [0, 1]. Host frames store
// native integer or float samples in planar layout. The bridge is the
// single crossing point:
//
//	Generate → Buffer → artifact chain → Write → Frame → host
//	                                     Read  ←
//
// Scaling between [0, 1] and a format's native range happens inside
// Write and Read and nowhere else. Keeping one scaling site rules out
// double-scaling defects when buffers pass through several transforms.
//
// # Formats
//
// A Format is a value describing family, bit depth, sample type, and
// chroma subsampling. Presets cover the common planar layouts:
//
//	f, err := frame.NewFrame(1920, 1080, frame.YUV420P10)
//	if err != nil {
//	    return fmt.Errorf("allocating frame: %w", err)
//	}
//
// Integer samples above 8 bits occupy two bytes little-endian, float
// samples four bytes little-endian. Chroma planes of integer formats
// treat the mid-range code as neutral; float chroma planes are signed
// around zero while buffers keep chroma centered on 0.5. Write and
// Read translate between the two conventions.
//
// # Accepted Write Layouts
//
// Write resolves the buffer's plane layout against the target format:
// native per-plane shapes, a single luma-sized plane (chroma fills with
// the neutral value), or three luma-sized planes into a subsampled
// format (chroma area-averaged down). Any other combination returns
// ErrShapeMismatch.
//
// # Known Limitations
//
// - Subsampling factors are limited to 4:4:4, 4:2:2, and 4:2:0.
// - Interlaced frames carry no field metadata at this layer; field
//   handling lives with the clip generator.
// - ToImage reduces high-depth samples to the stdlib image types'
//   ranges, which is lossy for 10-bit and wider formats.
package frame
