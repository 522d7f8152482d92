// Package artifact simulates compression and quantization defects on
// numeric frame buffers.
//
// This file implements the JPEG simulator: 8x8 DCT-domain
// requantization with the ITU-T T.81 Annex K base tables.
package artifact

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/frame"
)

// Base quantization tables from ITU-T T.81 Annex K, stored row-major.
var (
	lumaQuantBase = []float64{
		16, 11, 10, 16, 24, 40, 51, 61,
		12, 12, 14, 19, 26, 58, 60, 55,
		14, 13, 16, 24, 40, 57, 69, 56,
		14, 17, 22, 29, 51, 87, 80, 62,
		18, 22, 37, 56, 68, 109, 103, 77,
		24, 35, 55, 64, 81, 104, 113, 92,
		49, 64, 78, 87, 103, 121, 120, 101,
		72, 92, 95, 98, 112, 100, 103, 99,
	}

	chromaQuantBase = []float64{
		17, 18, 24, 47, 99, 99, 99, 99,
		18, 21, 26, 66, 99, 99, 99, 99,
		24, 26, 56, 99, 99, 99, 99, 99,
		47, 66, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	}
)

// dctMatrix builds the orthonormal type-II DCT basis of order n:
// row 0 is 1/sqrt(n), row i is sqrt(2/n)*cos((2j+1)*i*pi/(2n)).
func dctMatrix(n int) *mat.Dense {
	t := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == 0 {
				t.Set(i, j, 1/math.Sqrt(float64(n)))
			} else {
				t.Set(i, j, math.Sqrt(2/float64(n))*math.Cos(float64(2*j+1)*float64(i)*math.Pi/float64(2*n)))
			}
		}
	}
	return t
}

// scaleQuantTable applies the libjpeg quality curve to a base table:
// S = 5000/q below 50, 200-2q at or above, each entry floored through
// (base*S+50)/100 and clamped to [1, 255].
func scaleQuantTable(base *mat.Dense, quality int) *mat.Dense {
	var s float64
	if quality < 50 {
		s = 5000 / float64(quality)
	} else {
		s = 200 - 2*float64(quality)
	}

	rows, cols := base.Dims()
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := math.Floor((base.At(r, c)*s + 50) / 100)
			if v < 1 {
				v = 1
			} else if v > 255 {
				v = 255
			}
			out.Set(r, c, v)
		}
	}
	return out
}

// JPEG requantizes each plane in the 8x8 DCT domain, reproducing the
// blocking and ringing of low-quality JPEG compression. Plane 0 uses
// the luma table; any further planes use the chroma table.
type JPEG struct {
	quality int
	lumaQ   *mat.Dense
	chromaQ *mat.Dense
	dct     *mat.Dense
	idct    *mat.Dense
}

// NewJPEG creates a JPEG simulator with the given quality in [1, 100].
// Lower quality means coarser quantization and stronger artifacts.
func NewJPEG(quality int) (*JPEG, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}

	dct := dctMatrix(8)
	j := &JPEG{
		quality: quality,
		lumaQ:   scaleQuantTable(mat.NewDense(8, 8, lumaQuantBase), quality),
		chromaQ: scaleQuantTable(mat.NewDense(8, 8, chromaQuantBase), quality),
		dct:     dct,
		idct:    mat.DenseCopyOf(dct.T()),
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewJPEG",
		"package":  "artifact",
		"quality":  quality,
	}).Debug("created JPEG simulator")

	return j, nil
}

// Apply requantizes every plane of the buffer.
func (j *JPEG) Apply(buf *frame.Buffer) (*frame.Buffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}

	planes := make([]*mat.Dense, buf.NumPlanes())
	for i := 0; i < buf.NumPlanes(); i++ {
		q := j.lumaQ
		if i > 0 {
			q = j.chromaQ
		}
		planes[i] = requantizePlane(buf.Plane(i), 8, j.dct, j.idct, q)
	}
	return frame.NewBufferPlanes(planes...)
}

// Name returns the artifact name.
func (j *JPEG) Name() string {
	return fmt.Sprintf("JPEG(q=%d)", j.quality)
}

// requantizePlane runs the DCT round trip over one plane: map the
// normalized samples onto the centered 8-bit domain, pad to a block
// multiple by edge replication, requantize each block, then crop and
// map back to [0, 1].
func requantizePlane(plane *mat.Dense, blockSize int, dct, idct, q *mat.Dense) *mat.Dense {
	rows, cols := plane.Dims()
	padRows := (blockSize - rows%blockSize) % blockSize
	padCols := (blockSize - cols%blockSize) % blockSize

	work := padCentered(plane, padRows, padCols)

	scratch := newBlockScratch(blockSize)
	ph, pw := work.Dims()
	for r := 0; r < ph; r += blockSize {
		for c := 0; c < pw; c += blockSize {
			scratch.requantize(work, r, c, dct, idct, q)
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

// padCentered copies a normalized plane into a padded matrix on the
// centered 8-bit scale, replicating the last row and column into the
// padding.
func padCentered(plane *mat.Dense, padRows, padCols int) *mat.Dense {
	rows, cols := plane.Dims()
	work := mat.NewDense(rows+padRows, cols+padCols, nil)
	for r := 0; r < rows+padRows; r++ {
		sr := min(r, rows-1)
		for c := 0; c < cols+padCols; c++ {
			work.Set(r, c, plane.At(sr, min(c, cols-1))*255-128)
		}
	}
	return work
}

// blockScratch holds the per-block working matrices so the block loop
// allocates nothing.
type blockScratch struct {
	n     int
	block *mat.Dense
	tmp   *mat.Dense
	coef  *mat.Dense
}

func newBlockScratch(n int) *blockScratch {
	return &blockScratch{
		n:     n,
		block: mat.NewDense(n, n, nil),
		tmp:   mat.NewDense(n, n, nil),
		coef:  mat.NewDense(n, n, nil),
	}
}

// requantize transforms the n x n block at (r, c) of work in place:
// forward DCT, round each coefficient to a multiple of its table entry,
// inverse DCT.
func (s *blockScratch) requantize(work *mat.Dense, r, c int, dct, idct, q *mat.Dense) {
	s.block.Copy(work.Slice(r, r+s.n, c, c+s.n))

	s.tmp.Mul(dct, s.block)
	s.coef.Mul(s.tmp, idct)

	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			step := q.At(i, j)
			s.coef.Set(i, j, math.Round(s.coef.At(i, j)/step)*step)
		}
	}

	s.tmp.Mul(idct, s.coef)
	s.block.Mul(s.tmp, dct)

	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			work.Set(r+i, c+j, s.block.At(i, j))
		}
	}
}

// clip01 clamps v to [0, 1].
func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
