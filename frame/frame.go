package frame

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Frame is the host frame object: planar sample storage with per-plane
// strides. Integer samples above 8 bits occupy two bytes little-endian;
// float samples occupy four bytes little-endian. The bridge borrows a
// frame only for the duration of one Write or Read call.
type Frame struct {
	width   int
	height  int
	format  Format
	planes  [][]byte
	strides []int
}

// NewFrame allocates a tightly packed frame for the given geometry.
// Dimensions must be positive and, for subsampled formats, divide evenly
// by the chroma subsampling factors.
func NewFrame(width, height int, format Format) (*Frame, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width%(1<<format.SubsampleW) != 0 || height%(1<<format.SubsampleH) != 0 {
		return nil, fmt.Errorf("%w: %dx%d with %s", ErrSubsampleAlignment, width, height, format)
	}

	n := format.Planes()
	bps := format.BytesPerSample()
	planes := make([][]byte, n)
	strides := make([]int, n)
	for p := 0; p < n; p++ {
		pw, ph := format.PlaneDims(p, width, height)
		strides[p] = pw * bps
		planes[p] = make([]byte, strides[p]*ph)
	}

	return &Frame{
		width:   width,
		height:  height,
		format:  format,
		planes:  planes,
		strides: strides,
	}, nil
}

// Width returns the luma width in samples.
func (f *Frame) Width() int { return f.width }

// Height returns the luma height in samples.
func (f *Frame) Height() int { return f.height }

// Format returns the frame's pixel format.
func (f *Frame) Format() Format { return f.format }

// NumPlanes returns the number of planes.
func (f *Frame) NumPlanes() int { return len(f.planes) }

// Plane returns the raw bytes of plane p.
func (f *Frame) Plane(p int) []byte { return f.planes[p] }

// Stride returns the byte stride of plane p.
func (f *Frame) Stride(p int) int { return f.strides[p] }

// PlaneDims returns the sample dimensions of plane p.
func (f *Frame) PlaneDims(p int) (int, int) {
	return f.format.PlaneDims(p, f.width, f.height)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	planes := make([][]byte, len(f.planes))
	for i, p := range f.planes {
		planes[i] = append([]byte(nil), p...)
	}
	return &Frame{
		width:   f.width,
		height:  f.height,
		format:  f.format,
		planes:  planes,
		strides: append([]int(nil), f.strides...),
	}
}

// Uint16At returns the integer code at (x, y) of plane p. Valid only for
// integer formats; 8-bit samples are widened.
func (f *Frame) Uint16At(p, x, y int) uint16 {
	row := f.planes[p][y*f.strides[p]:]
	if f.format.BytesPerSample() == 1 {
		return uint16(row[x])
	}
	return binary.LittleEndian.Uint16(row[x*2:])
}

// SetUint16 stores an integer code at (x, y) of plane p. Valid only for
// integer formats; the caller keeps codes within the format's range.
func (f *Frame) SetUint16(p, x, y int, v uint16) {
	row := f.planes[p][y*f.strides[p]:]
	if f.format.BytesPerSample() == 1 {
		row[x] = byte(v)
		return
	}
	binary.LittleEndian.PutUint16(row[x*2:], v)
}

// Float32At returns the float sample at (x, y) of plane p. Valid only
// for float formats.
func (f *Frame) Float32At(p, x, y int) float32 {
	row := f.planes[p][y*f.strides[p]:]
	return math.Float32frombits(binary.LittleEndian.Uint32(row[x*4:]))
}

// SetFloat32 stores a float sample at (x, y) of plane p. Valid only for
// float formats.
func (f *Frame) SetFloat32(p, x, y int, v float32) {
	row := f.planes[p][y*f.strides[p]:]
	binary.LittleEndian.PutUint32(row[x*4:], math.Float32bits(v))
}
