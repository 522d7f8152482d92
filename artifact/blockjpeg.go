// Package artifact simulates compression and quantization defects on
// numeric frame buffers.
//
// This file implements the variable-block-size JPEG simulator that
// mimics AVC-style macroblock partitioning.
package artifact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/frame"
)

// BlockSize is one transform size of the block-size set.
type BlockSize int

const (
	Block4x4   BlockSize = 4
	Block8x8   BlockSize = 8
	Block16x16 BlockSize = 16
)

// BlockJPEG requantizes planes like JPEG but partitions each macroblock
// into one of several transform sizes, the way AVC encoders split flat
// and detailed regions differently.
//
// With a motion mask, low-motion macroblocks get the small transforms
// and high-motion macroblocks the large ones. Without a mask the size
// is picked by a position hash, so the partitioning is stable across
// runs and frames.
type BlockJPEG struct {
	quality int
	sizes   []int // ascending
	macro   int

	dct  map[int]*mat.Dense
	idct map[int]*mat.Dense

	lumaQ   map[int]*mat.Dense
	chromaQ map[int]*mat.Dense
}

// NewBlockJPEG creates a block JPEG simulator. quality follows the
// JPEG scale in [1, 100]; sizes is the non-empty set of transform sizes
// drawn from {4, 8, 16}, duplicates ignored.
func NewBlockJPEG(quality int, sizes ...BlockSize) (*BlockJPEG, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: no block sizes given", ErrInvalidBlockSize)
	}

	seen := make(map[int]bool)
	var vals []int
	for _, bs := range sizes {
		switch bs {
		case Block4x4, Block8x8, Block16x16:
		default:
			return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, bs)
		}
		if !seen[int(bs)] {
			seen[int(bs)] = true
			vals = append(vals, int(bs))
		}
	}
	sort.Ints(vals)

	b := &BlockJPEG{
		quality: quality,
		sizes:   vals,
		macro:   vals[len(vals)-1],
		dct:     make(map[int]*mat.Dense),
		idct:    make(map[int]*mat.Dense),
		lumaQ:   make(map[int]*mat.Dense),
		chromaQ: make(map[int]*mat.Dense),
	}
	for _, n := range vals {
		t := dctMatrix(n)
		b.dct[n] = t
		b.idct[n] = mat.DenseCopyOf(t.T())

		luma, err := resizeQuantTable(mat.NewDense(8, 8, lumaQuantBase), n)
		if err != nil {
			return nil, err
		}
		chroma, err := resizeQuantTable(mat.NewDense(8, 8, chromaQuantBase), n)
		if err != nil {
			return nil, err
		}
		b.lumaQ[n] = scaleQuantTable(luma, quality)
		b.chromaQ[n] = scaleQuantTable(chroma, quality)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewBlockJPEG",
		"package":  "artifact",
		"quality":  quality,
		"sizes":    vals,
	}).Debug("created block JPEG simulator")

	return b, nil
}

// Apply requantizes every plane, choosing transform sizes by position
// hash.
func (b *BlockJPEG) Apply(buf *frame.Buffer) (*frame.Buffer, error) {
	return b.apply(buf, nil)
}

// ApplyWithMask requantizes with motion-adaptive size selection on the
// luma plane. mask holds one plane of [0, 1] motion amounts with the
// same shape as the buffer's first plane; chroma planes keep the hash
// selection. A nil mask behaves like Apply.
func (b *BlockJPEG) ApplyWithMask(buf *frame.Buffer, mask *frame.Buffer) (*frame.Buffer, error) {
	return b.apply(buf, mask)
}

func (b *BlockJPEG) apply(buf *frame.Buffer, mask *frame.Buffer) (*frame.Buffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}

	var maskPlane *mat.Dense
	if mask != nil {
		maskPlane = mask.Plane(0)
		mr, mc := maskPlane.Dims()
		br, bc := buf.Plane(0).Dims()
		if mr != br || mc != bc {
			return nil, fmt.Errorf("%w: mask %dx%d, luma %dx%d", ErrMaskShape, mc, mr, bc, br)
		}
	}

	planes := make([]*mat.Dense, buf.NumPlanes())
	for i := 0; i < buf.NumPlanes(); i++ {
		var m *mat.Dense
		if i == 0 {
			m = maskPlane
		}
		planes[i] = b.requantizeBlocks(buf.Plane(i), m, i)
	}
	return frame.NewBufferPlanes(planes...)
}

// Name returns the artifact name.
func (b *BlockJPEG) Name() string {
	parts := make([]string, len(b.sizes))
	for i, n := range b.sizes {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("BlockJPEG(q=%d, sizes=%s)", b.quality, strings.Join(parts, "/"))
}

// requantizeBlocks runs the macroblock loop over one plane. The plane
// is padded to a macroblock multiple; each macroblock picks one
// transform size and is requantized tile by tile.
func (b *BlockJPEG) requantizeBlocks(plane, maskPlane *mat.Dense, planeIdx int) *mat.Dense {
	rows, cols := plane.Dims()
	padRows := (b.macro - rows%b.macro) % b.macro
	padCols := (b.macro - cols%b.macro) % b.macro

	work := padCentered(plane, padRows, padCols)
	var maskWork *mat.Dense
	if maskPlane != nil {
		maskWork = padReplicate(maskPlane, padRows, padCols)
	}

	scratch := make(map[int]*blockScratch, len(b.sizes))
	for _, n := range b.sizes {
		scratch[n] = newBlockScratch(n)
	}

	ph, pw := work.Dims()
	for r := 0; r < ph; r += b.macro {
		for c := 0; c < pw; c += b.macro {
			n := b.chooseSize(maskWork, planeIdx, r, c)

			q := b.lumaQ[n]
			if planeIdx > 0 {
				q = b.chromaQ[n]
			}
			for sr := 0; sr < b.macro; sr += n {
				for sc := 0; sc < b.macro; sc += n {
					scratch[n].requantize(work, r+sr, c+sc, b.dct[n], b.idct[n], q)
				}
			}
		}
	}

	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, clip01((work.At(r, c)+128)/255))
		}
	}
	return out
}

// chooseSize picks the transform size for the macroblock at (r, c).
// With a mask, the mean motion selects size i once it stays at or below
// (i+1)/len(sizes); without one, a position hash decides.
func (b *BlockJPEG) chooseSize(maskWork *mat.Dense, planeIdx, r, c int) int {
	if maskWork == nil {
		h := positionHash(planeIdx, r, c)
		return b.sizes[h%uint64(len(b.sizes))]
	}

	var sum float64
	for i := 0; i < b.macro; i++ {
		for j := 0; j < b.macro; j++ {
			sum += maskWork.At(r+i, c+j)
		}
	}
	mean := sum / float64(b.macro*b.macro)

	for i := 0; i < len(b.sizes)-1; i++ {
		if mean <= float64(i+1)/float64(len(b.sizes)) {
			return b.sizes[i]
		}
	}
	return b.sizes[len(b.sizes)-1]
}

// positionHash mixes plane and macroblock coordinates through a
// splitmix64 finalizer.
func positionHash(plane, r, c int) uint64 {
	x := uint64(r)*0x9e3779b97f4a7c15 ^ uint64(c)*0xbf58476d1ce4e5b9 ^ uint64(plane)*0x94d049bb133111eb
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// padReplicate pads a plane to the given extra rows and columns by edge
// replication, without any value mapping.
func padReplicate(plane *mat.Dense, padRows, padCols int) *mat.Dense {
	rows, cols := plane.Dims()
	out := mat.NewDense(rows+padRows, cols+padCols, nil)
	for r := 0; r < rows+padRows; r++ {
		sr := min(r, rows-1)
		for c := 0; c < cols+padCols; c++ {
			out.Set(r, c, plane.At(sr, min(c, cols-1)))
		}
	}
	return out
}

// resizeQuantTable maps an 8x8 base table onto an n x n grid with
// separable natural cubic interpolation over the table's index range.
func resizeQuantTable(base *mat.Dense, n int) (*mat.Dense, error) {
	rows, cols := base.Dims()
	if rows == n && cols == n {
		return base, nil
	}

	xs := make([]float64, cols)
	for i := range xs {
		xs[i] = float64(i)
	}
	targets := sampleIndexRange(cols, n)

	// Rows first, then columns of the intermediate.
	horiz := mat.NewDense(rows, n, nil)
	var spline interp.NaturalCubic
	for r := 0; r < rows; r++ {
		if err := spline.Fit(xs, mat.Row(nil, r, base)); err != nil {
			return nil, fmt.Errorf("resize quant table: %w", err)
		}
		for j, t := range targets {
			horiz.Set(r, j, spline.Predict(t))
		}
	}

	ys := make([]float64, rows)
	for i := range ys {
		ys[i] = float64(i)
	}
	vtargets := sampleIndexRange(rows, n)

	out := mat.NewDense(n, n, nil)
	for c := 0; c < n; c++ {
		if err := spline.Fit(ys, mat.Col(nil, c, horiz)); err != nil {
			return nil, fmt.Errorf("resize quant table: %w", err)
		}
		for i, t := range vtargets {
			out.Set(i, c, spline.Predict(t))
		}
	}
	return out, nil
}

// sampleIndexRange spreads n sample positions evenly across the index
// range [0, m-1].
func sampleIndexRange(m, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	step := float64(m-1) / float64(n-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}
