package frame

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Buffer is the numeric frame buffer: one or three dense float64 planes
// holding normalized samples in [0, 1]. Chroma planes center on 0.5.
// A buffer belongs to a single generation call; generators allocate a
// fresh one per frame and nothing retains it across frames.
type Buffer struct {
	planes []*mat.Dense
}

// NewBuffer allocates a zeroed buffer of luma-sized planes. channels is
// 1 for grayscale patterns and 3 for color patterns.
func NewBuffer(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}

	planes := make([]*mat.Dense, channels)
	for i := range planes {
		planes[i] = mat.NewDense(height, width, nil)
	}
	return &Buffer{planes: planes}, nil
}

// NewBufferPlanes wraps explicit planes, which may differ in shape for
// subsampled native layouts. The planes are adopted, not copied.
func NewBufferPlanes(planes ...*mat.Dense) (*Buffer, error) {
	if len(planes) != 1 && len(planes) != 3 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, len(planes))
	}
	for i, p := range planes {
		if p == nil {
			return nil, fmt.Errorf("%w: plane %d is nil", ErrNilBuffer, i)
		}
	}
	return &Buffer{planes: append([]*mat.Dense(nil), planes...)}, nil
}

// NumPlanes returns the number of planes in the buffer.
func (b *Buffer) NumPlanes() int {
	return len(b.planes)
}

// Plane returns the i-th plane. The returned matrix is the buffer's own
// storage, not a copy.
func (b *Buffer) Plane(i int) *mat.Dense {
	return b.planes[i]
}

// Dims returns the width and height of the first plane.
func (b *Buffer) Dims() (width, height int) {
	rows, cols := b.planes[0].Dims()
	return cols, rows
}

// PlaneDims returns the width and height of the i-th plane.
func (b *Buffer) PlaneDims(i int) (width, height int) {
	rows, cols := b.planes[i].Dims()
	return cols, rows
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	planes := make([]*mat.Dense, len(b.planes))
	for i, p := range b.planes {
		planes[i] = mat.DenseCopyOf(p)
	}
	return &Buffer{planes: planes}
}

// Fill sets every sample of one plane to v.
func (b *Buffer) Fill(plane int, v float64) {
	raw := b.planes[plane].RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for i := range row {
			row[i] = v
		}
	}
}

// lumaSized reports whether every plane matches the first plane's shape.
func (b *Buffer) lumaSized() bool {
	r0, c0 := b.planes[0].Dims()
	for _, p := range b.planes[1:] {
		r, c := p.Dims()
		if r != r0 || c != c0 {
			return false
		}
	}
	return true
}
