package frame

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Bridge adapter between numeric buffers and host frames. This is the
// only place sample values are scaled between the normalized [0, 1]
// domain and a format's native range; generators and artifact
// simulators never scale.
//
// Write accepts three source layouts, checked in order:
//
//  1. Native: plane count and every plane shape match the frame format.
//  2. Luma only: a single luma-sized plane for a three-plane format.
//     The remaining planes are filled with the format's neutral value.
//  3. Luma-sized color: three luma-sized planes for a subsampled format.
//     Chroma planes are area-averaged down to their native shape.
//
// Anything else is a shape mismatch.

// Write scales src into dst's native sample range and per-plane layout.
// dst is borrowed for the duration of the call only.
func Write(dst *Frame, src *Buffer) error {
	if dst == nil {
		return ErrNilFrame
	}
	if src == nil || src.NumPlanes() == 0 {
		return ErrNilBuffer
	}

	plan, layout, err := resolveLayout(dst, src)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Write",
		"package":  "frame",
		"format":   dst.format.String(),
		"width":    dst.width,
		"height":   dst.height,
		"layout":   layout,
	}).Debug("bridging buffer into host frame")

	for p := 0; p < dst.format.Planes(); p++ {
		if plan[p] == nil {
			fillNeutral(dst, p)
			continue
		}
		writePlane(dst, p, plan[p])
	}
	return nil
}

// Read produces a normalized buffer from src's native samples, one plane
// per frame plane at native shapes. The inverse of Write up to one
// quantization step for integer formats.
func Read(src *Frame) (*Buffer, error) {
	if src == nil {
		return nil, ErrNilFrame
	}

	logrus.WithFields(logrus.Fields{
		"function": "Read",
		"package":  "frame",
		"format":   src.format.String(),
		"width":    src.width,
		"height":   src.height,
	}).Debug("bridging host frame into buffer")

	planes := make([]*mat.Dense, src.format.Planes())
	for p := range planes {
		planes[p] = readPlane(src, p)
	}
	return NewBufferPlanes(planes...)
}

// resolveLayout maps buffer planes onto frame planes, returning one
// matrix per frame plane; nil entries mean neutral fill. The layout tag
// names which accepted layout matched.
func resolveLayout(dst *Frame, src *Buffer) ([]*mat.Dense, string, error) {
	n := dst.format.Planes()

	// Native per-plane shapes.
	if src.NumPlanes() == n && planesMatch(dst, src) {
		plan := make([]*mat.Dense, n)
		for p := 0; p < n; p++ {
			plan[p] = src.Plane(p)
		}
		return plan, "native", nil
	}

	sw, sh := src.Dims()
	if sw != dst.width || sh != dst.height {
		return nil, "", shapeError(dst, src)
	}

	// Single luma-sized plane into a multi-plane format.
	if src.NumPlanes() == 1 && n == 3 {
		return []*mat.Dense{src.Plane(0), nil, nil}, "luma", nil
	}

	// Three luma-sized planes into a subsampled format.
	if src.NumPlanes() == 3 && n == 3 && src.lumaSized() &&
		(dst.format.SubsampleW > 0 || dst.format.SubsampleH > 0) {
		fx := 1 << dst.format.SubsampleW
		fy := 1 << dst.format.SubsampleH
		plan := []*mat.Dense{
			src.Plane(0),
			downsamplePlane(src.Plane(1), fx, fy),
			downsamplePlane(src.Plane(2), fx, fy),
		}
		return plan, "downsampled", nil
	}

	return nil, "", shapeError(dst, src)
}

func shapeError(dst *Frame, src *Buffer) error {
	sw, sh := src.Dims()
	return fmt.Errorf("%w: %d plane(s) of %dx%d against %s %dx%d",
		ErrShapeMismatch, src.NumPlanes(), sw, sh, dst.format, dst.width, dst.height)
}

// planesMatch reports whether every buffer plane has its frame plane's
// native shape.
func planesMatch(dst *Frame, src *Buffer) bool {
	for p := 0; p < src.NumPlanes(); p++ {
		pw, ph := dst.PlaneDims(p)
		bw, bh := src.PlaneDims(p)
		if bw != pw || bh != ph {
			return false
		}
	}
	return true
}

// writePlane scales one normalized plane into native codes. Chroma
// planes of float formats shift from the buffer's 0.5-neutral convention
// to the host's signed zero-neutral convention.
func writePlane(dst *Frame, p int, m *mat.Dense) {
	pw, ph := dst.PlaneDims(p)

	if dst.format.Sample == SampleFloat {
		offset := 0.0
		if dst.format.IsChroma(p) {
			offset = -0.5
		}
		for y := 0; y < ph; y++ {
			for x := 0; x < pw; x++ {
				dst.SetFloat32(p, x, y, float32(clamp01(m.At(y, x))+offset))
			}
		}
		return
	}

	maxVal := float64(dst.format.MaxValue())
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			code := math.Round(clamp01(m.At(y, x)) * maxVal)
			dst.SetUint16(p, x, y, uint16(code))
		}
	}
}

// readPlane produces one normalized plane from native codes.
func readPlane(src *Frame, p int) *mat.Dense {
	pw, ph := src.PlaneDims(p)
	out := mat.NewDense(ph, pw, nil)

	if src.format.Sample == SampleFloat {
		offset := 0.0
		if src.format.IsChroma(p) {
			offset = 0.5
		}
		for y := 0; y < ph; y++ {
			for x := 0; x < pw; x++ {
				out.Set(y, x, clamp01(float64(src.Float32At(p, x, y))+offset))
			}
		}
		return out
	}

	maxVal := float64(src.format.MaxValue())
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			out.Set(y, x, float64(src.Uint16At(p, x, y))/maxVal)
		}
	}
	return out
}

// fillNeutral writes the format's neutral code across plane p.
func fillNeutral(dst *Frame, p int) {
	pw, ph := dst.PlaneDims(p)

	if dst.format.Sample == SampleFloat {
		for y := 0; y < ph; y++ {
			for x := 0; x < pw; x++ {
				dst.SetFloat32(p, x, y, 0)
			}
		}
		return
	}

	code := uint16(dst.format.NeutralChroma())
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			dst.SetUint16(p, x, y, code)
		}
	}
}

// downsamplePlane area-averages m by integer factors. Callers guarantee
// the dimensions divide evenly; NewFrame enforces the alignment.
func downsamplePlane(m *mat.Dense, fx, fy int) *mat.Dense {
	rows, cols := m.Dims()
	outRows := rows / fy
	outCols := cols / fx
	out := mat.NewDense(outRows, outCols, nil)
	norm := float64(fx * fy)

	for r := 0; r < outRows; r++ {
		for c := 0; c < outCols; c++ {
			sum := 0.0
			for dy := 0; dy < fy; dy++ {
				for dx := 0; dx < fx; dx++ {
					sum += m.At(r*fy+dy, c*fx+dx)
				}
			}
			out.Set(r, c, sum/norm)
		}
	}
	return out
}

// clamp01 clamps v to [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
