// Package artifact simulates compression and quantization defects on
// numeric frame buffers.
//
// This file implements the quantization parameter grid shared by the
// bit-depth reduction artifact and anything else that needs the code
// values of a bit depth and color range.
package artifact

import (
	"fmt"

	"github.com/OpusGang/vs-samples/frame"
)

// ColorRange selects the code value span of an integer bit depth.
type ColorRange uint8

const (
	// RangeLimited is studio swing: luma 16-235 and chroma 16-240 at
	// 8 bits, shifted with depth.
	RangeLimited ColorRange = iota
	// RangeFull uses every code from 0 to 2^depth-1.
	RangeFull
)

// String returns the range name.
func (r ColorRange) String() string {
	if r == RangeFull {
		return "full"
	}
	return "limited"
}

// QuantParams are the anchor codes of one plane kind at one bit depth.
// Luma planes anchor at Floor; chroma planes anchor at Neutral, which
// sits mid-scale regardless of range.
type QuantParams struct {
	Floor   float64
	Neutral float64
	Ceil    float64
}

// Range returns the usable code span.
func (q QuantParams) Range() float64 {
	return q.Ceil - q.Floor
}

// QuantizationParams computes the anchor codes for a sample type, bit
// depth, color range, and plane kind. Integer grids scale the 8-bit
// reference codes by the depth difference; float grids are the unit
// ranges [0, 1] for luma and [-0.5, 0.5] for chroma.
func QuantizationParams(sample frame.Sample, depth int, r ColorRange, chroma bool) (QuantParams, error) {
	if depth < 1 {
		return QuantParams{}, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}

	if sample == frame.SampleFloat {
		if chroma {
			return QuantParams{Floor: -0.5, Neutral: 0, Ceil: 0.5}, nil
		}
		return QuantParams{Floor: 0, Neutral: 0, Ceil: 1}, nil
	}

	qp := QuantParams{}
	if r == RangeFull {
		qp.Ceil = float64(uint64(1)<<depth) - 1
	} else {
		qp.Floor = shiftCode(16, depth)
		if chroma {
			qp.Ceil = shiftCode(240, depth)
		} else {
			qp.Ceil = shiftCode(235, depth)
		}
	}

	// Luma has no neutral of its own; it reuses the floor. Chroma
	// centers mid-scale even in full range.
	qp.Neutral = qp.Floor
	if chroma {
		qp.Neutral = shiftCode(128, depth)
	}
	return qp, nil
}

// shiftCode rescales an 8-bit reference code to the given depth.
func shiftCode(code, depth int) float64 {
	if depth >= 8 {
		return float64(code << (depth - 8))
	}
	return float64(code >> (8 - depth))
}
