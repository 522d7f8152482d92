// Package artifact simulates compression and quantization defects on
// numeric frame buffers.
//
// This file implements the bit-depth reduction artifact with its dither
// modes: ordered, random, and four error diffusion kernels.
package artifact

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/frame"
)

// DitherMode selects how quantization error is shaped during bit-depth
// reduction. The set is closed; there is no plugin dispatch.
type DitherMode uint8

const (
	// DitherNone rounds to the nearest level.
	DitherNone DitherMode = iota
	// DitherOrdered thresholds against an 8x8 Bayer matrix.
	DitherOrdered
	// DitherRandom adds seeded uniform noise before rounding.
	DitherRandom
	// DitherFloydSteinberg diffuses error over four neighbors.
	DitherFloydSteinberg
	// DitherSierraLite diffuses error with the Sierra-2-4A kernel.
	DitherSierraLite
	// DitherStucki diffuses error over two rows ahead.
	DitherStucki
	// DitherAtkinson diffuses three quarters of the error, leaving the
	// rest in place for a lighter, higher-contrast texture.
	DitherAtkinson
)

var ditherNames = map[DitherMode]string{
	DitherNone:           "none",
	DitherOrdered:        "ordered",
	DitherRandom:         "random",
	DitherFloydSteinberg: "floyd-steinberg",
	DitherSierraLite:     "sierra-lite",
	DitherStucki:         "stucki",
	DitherAtkinson:       "atkinson",
}

// String returns the mode's canonical name.
func (m DitherMode) String() string {
	if name, ok := ditherNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DitherMode(%d)", uint8(m))
}

// ParseDitherMode resolves a canonical mode name.
func ParseDitherMode(name string) (DitherMode, error) {
	for m, n := range ditherNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDitherMode, name)
}

// diffTap is one neighbor of an error diffusion kernel, relative to the
// current pixel in scan direction.
type diffTap struct {
	dx, dy int
	w      float64
}

// diffusionKernel returns the taps and divisor of an error diffusion
// mode, or ok=false for the non-diffusing modes.
func diffusionKernel(mode DitherMode) (taps []diffTap, div float64, ok bool) {
	switch mode {
	case DitherFloydSteinberg:
		return []diffTap{
			{1, 0, 7},
			{-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
		}, 16, true
	case DitherSierraLite:
		return []diffTap{
			{1, 0, 2},
			{-1, 1, 1}, {0, 1, 1},
		}, 4, true
	case DitherStucki:
		return []diffTap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
			{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
		}, 42, true
	case DitherAtkinson:
		return []diffTap{
			{1, 0, 1}, {2, 0, 1},
			{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
			{0, 2, 1},
		}, 8, true
	default:
		return nil, 0, false
	}
}

// bayer8 is the 8x8 Bayer index matrix with entries 0..63.
var bayer8 = [8][8]float64{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

// Depth quantizes samples onto the level grid of a lower bit depth and
// re-normalizes, so the banding or dither texture of the reduction
// survives any later processing at full precision. Three-plane buffers
// are treated as one luma plane followed by two chroma planes.
type Depth struct {
	bits      int
	colorRng  ColorRange
	mode      DitherMode
	seed      int64
	amplitude float64
}

// DepthOption adjusts the bit-depth reduction.
type DepthOption func(*Depth)

// WithRange selects the code span of the target grid. The default is
// limited range.
func WithRange(r ColorRange) DepthOption {
	return func(d *Depth) { d.colorRng = r }
}

// WithDither selects the dither mode. The default is Sierra-2-4A error
// diffusion.
func WithDither(mode DitherMode) DepthOption {
	return func(d *Depth) { d.mode = mode }
}

// WithSeed fixes the noise seed of the random mode. The same seed
// always reproduces the same pattern.
func WithSeed(seed int64) DepthOption {
	return func(d *Depth) { d.seed = seed }
}

// WithAmplitude scales the dither pattern in quantization steps.
func WithAmplitude(amp float64) DepthOption {
	return func(d *Depth) { d.amplitude = amp }
}

// NewDepth creates a bit-depth reduction to bits in [1, 16].
func NewDepth(bits int, opts ...DepthOption) (*Depth, error) {
	if bits < 1 || bits > 16 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, bits)
	}

	d := &Depth{
		bits:      bits,
		colorRng:  RangeLimited,
		mode:      DitherSierraLite,
		amplitude: math.NaN(), // resolved per mode below
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.mode > DitherAtkinson {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDitherMode, d.mode)
	}
	if math.IsNaN(d.amplitude) {
		// Ordered dither needs a stronger pattern to break up banding.
		if d.mode == DitherOrdered {
			d.amplitude = 1.5
		} else {
			d.amplitude = 1.0
		}
	}
	if d.amplitude < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidAmplitude, d.amplitude)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "NewDepth",
		"package":   "artifact",
		"bits":      bits,
		"range":     d.colorRng.String(),
		"dither":    d.mode.String(),
		"amplitude": d.amplitude,
	}).Debug("created depth reduction")

	return d, nil
}

// Apply quantizes every plane of the buffer.
func (d *Depth) Apply(buf *frame.Buffer) (*frame.Buffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}

	rng := rand.New(rand.NewSource(d.seed))

	planes := make([]*mat.Dense, buf.NumPlanes())
	for i := 0; i < buf.NumPlanes(); i++ {
		chroma := i > 0
		qp, err := QuantizationParams(frame.SampleInteger, d.bits, d.colorRng, chroma)
		if err != nil {
			return nil, err
		}
		planes[i] = d.quantizePlane(buf.Plane(i), qp, chroma, rng)
	}
	return frame.NewBufferPlanes(planes...)
}

// Name returns the artifact name.
func (d *Depth) Name() string {
	return fmt.Sprintf("Depth(bits=%d, dither=%s)", d.bits, d.mode)
}

// quantizePlane maps one plane onto the code grid and back. Luma
// anchors at the grid floor, chroma at its neutral.
func (d *Depth) quantizePlane(plane *mat.Dense, qp QuantParams, chroma bool, rng *rand.Rand) *mat.Dense {
	rows, cols := plane.Dims()
	out := mat.NewDense(rows, cols, nil)

	span := qp.Range()
	toCode := func(v float64) float64 {
		if chroma {
			return qp.Neutral + (v-0.5)*span
		}
		return qp.Floor + v*span
	}
	fromCode := func(code float64) float64 {
		if chroma {
			return 0.5 + (code-qp.Neutral)/span
		}
		return (code - qp.Floor) / span
	}
	snap := func(target float64) float64 {
		code := math.Round(target)
		if code < qp.Floor {
			code = qp.Floor
		} else if code > qp.Ceil {
			code = qp.Ceil
		}
		return code
	}

	if taps, div, ok := diffusionKernel(d.mode); ok {
		d.diffusePlane(plane, out, toCode, fromCode, snap, taps, div)
		return out
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			target := toCode(plane.At(r, c))
			switch d.mode {
			case DitherOrdered:
				target += d.amplitude * ((bayer8[r%8][c%8]+0.5)/64 - 0.5)
			case DitherRandom:
				target += d.amplitude * (rng.Float64() - 0.5)
			}
			out.Set(r, c, fromCode(snap(target)))
		}
	}
	return out
}

// diffusePlane runs serpentine error diffusion over one plane: even
// rows scan left to right, odd rows right to left with the kernel
// mirrored.
func (d *Depth) diffusePlane(plane, out *mat.Dense, toCode, fromCode, snap func(float64) float64, taps []diffTap, div float64) {
	rows, cols := plane.Dims()
	carry := mat.NewDense(rows, cols, nil)

	for r := 0; r < rows; r++ {
		x0, x1, step := 0, cols, 1
		mirror := 1
		if r%2 == 1 {
			x0, x1, step = cols-1, -1, -1
			mirror = -1
		}
		for c := x0; c != x1; c += step {
			target := toCode(plane.At(r, c)) + carry.At(r, c)
			code := snap(target)
			out.Set(r, c, fromCode(code))

			diff := d.amplitude * (target - code) / div
			for _, tap := range taps {
				nc := c + mirror*tap.dx
				nr := r + tap.dy
				if nc < 0 || nc >= cols || nr >= rows {
					continue
				}
				carry.Set(nr, nc, carry.At(nr, nc)+diff*tap.w)
			}
		}
	}
}
