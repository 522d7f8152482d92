package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/frame"
)

func TestNewBlockJPEG_Validation(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		sizes   []BlockSize
		wantErr error
	}{
		{"zero quality", 0, []BlockSize{Block8x8}, ErrInvalidQuality},
		{"above maximum quality", 101, []BlockSize{Block8x8}, ErrInvalidQuality},
		{"no sizes", 50, nil, ErrInvalidBlockSize},
		{"unsupported size", 50, []BlockSize{BlockSize(5)}, ErrInvalidBlockSize},
		{"single size", 50, []BlockSize{Block4x4}, nil},
		{"full set", 50, []BlockSize{Block4x4, Block8x8, Block16x16}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBlockJPEG(tt.quality, tt.sizes...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, b)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, b)
			}
		})
	}
}

func TestNewBlockJPEG_DeduplicatesAndSorts(t *testing.T) {
	b, err := NewBlockJPEG(50, Block16x16, Block4x4, Block16x16)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 16}, b.sizes)
	assert.Equal(t, 16, b.macro)
	assert.Equal(t, "BlockJPEG(q=50, sizes=4/16)", b.Name())
}

func TestResizeQuantTable(t *testing.T) {
	base := mat.NewDense(8, 8, lumaQuantBase)

	t.Run("same size passes through", func(t *testing.T) {
		out, err := resizeQuantTable(base, 8)
		require.NoError(t, err)
		assert.True(t, mat.Equal(base, out))
	})

	t.Run("corners are spline nodes", func(t *testing.T) {
		for _, n := range []int{4, 16} {
			out, err := resizeQuantTable(base, n)
			require.NoError(t, err)

			rows, cols := out.Dims()
			require.Equal(t, n, rows)
			require.Equal(t, n, cols)

			assert.InDelta(t, base.At(0, 0), out.At(0, 0), 1e-9, "size %d", n)
			assert.InDelta(t, base.At(0, 7), out.At(0, n-1), 1e-9, "size %d", n)
			assert.InDelta(t, base.At(7, 0), out.At(n-1, 0), 1e-9, "size %d", n)
			assert.InDelta(t, base.At(7, 7), out.At(n-1, n-1), 1e-9, "size %d", n)
		}
	})
}

func TestBlockJPEG_SingleSizeMatchesJPEG(t *testing.T) {
	// With only the 8x8 transform, the macroblock loop degenerates to
	// plain JPEG.
	bj, err := NewBlockJPEG(30, Block8x8)
	require.NoError(t, err)
	j, err := NewJPEG(30)
	require.NoError(t, err)

	src := testBuffer(t, 24, 16, 3)
	fromBlock, err := bj.Apply(src)
	require.NoError(t, err)
	fromJPEG, err := j.Apply(src)
	require.NoError(t, err)

	for p := 0; p < 3; p++ {
		assert.True(t, mat.EqualApprox(fromJPEG.Plane(p), fromBlock.Plane(p), 1e-12), "plane %d", p)
	}
}

func TestBlockJPEG_Deterministic(t *testing.T) {
	bj, err := NewBlockJPEG(25, Block4x4, Block8x8, Block16x16)
	require.NoError(t, err)

	src := testBuffer(t, 48, 48, 3)
	a, err := bj.Apply(src)
	require.NoError(t, err)
	b, err := bj.Apply(src)
	require.NoError(t, err)

	for p := 0; p < 3; p++ {
		assert.True(t, mat.Equal(a.Plane(p), b.Plane(p)), "plane %d", p)
	}
}

func TestBlockJPEG_MaskDrivesSelection(t *testing.T) {
	bj, err := NewBlockJPEG(20, Block4x4, Block16x16)
	require.NoError(t, err)

	src := testBuffer(t, 32, 32, 1)

	flat := func(v float64) *frame.Buffer {
		m, err := frame.NewBuffer(32, 32, 1)
		require.NoError(t, err)
		m.Fill(0, v)
		return m
	}

	// Zero motion selects the fine transform, full motion the coarse
	// one; on a busy pattern the two partitionings differ.
	still, err := bj.ApplyWithMask(src, flat(0))
	require.NoError(t, err)
	moving, err := bj.ApplyWithMask(src, flat(1))
	require.NoError(t, err)

	assert.False(t, mat.Equal(still.Plane(0), moving.Plane(0)))

	// The mask is reproducible too.
	again, err := bj.ApplyWithMask(src, flat(0))
	require.NoError(t, err)
	assert.True(t, mat.Equal(still.Plane(0), again.Plane(0)))
}

func TestBlockJPEG_MaskShapeChecked(t *testing.T) {
	bj, err := NewBlockJPEG(50, Block8x8)
	require.NoError(t, err)

	src := testBuffer(t, 32, 32, 1)
	mask, err := frame.NewBuffer(16, 16, 1)
	require.NoError(t, err)

	out, err := bj.ApplyWithMask(src, mask)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrMaskShape)
}

func TestBlockJPEG_NilMaskEqualsApply(t *testing.T) {
	bj, err := NewBlockJPEG(35, Block4x4, Block8x8)
	require.NoError(t, err)

	src := testBuffer(t, 16, 16, 1)
	plain, err := bj.Apply(src)
	require.NoError(t, err)
	masked, err := bj.ApplyWithMask(src, nil)
	require.NoError(t, err)

	assert.True(t, mat.Equal(plain.Plane(0), masked.Plane(0)))
}

func TestBlockJPEG_ShapePreservedOddDims(t *testing.T) {
	bj, err := NewBlockJPEG(40, Block16x16)
	require.NoError(t, err)

	src := testBuffer(t, 33, 19, 1)
	out, err := bj.Apply(src)
	require.NoError(t, err)

	w, h := out.PlaneDims(0)
	assert.Equal(t, 33, w)
	assert.Equal(t, 19, h)
	assert.GreaterOrEqual(t, mat.Min(out.Plane(0)), 0.0)
	assert.LessOrEqual(t, mat.Max(out.Plane(0)), 1.0)
}

func TestBlockJPEG_NilBuffer(t *testing.T) {
	bj, err := NewBlockJPEG(50, Block8x8)
	require.NoError(t, err)

	out, err := bj.Apply(nil)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNilBuffer)
}

func BenchmarkBlockJPEG_Apply(b *testing.B) {
	bj, err := NewBlockJPEG(30, Block4x4, Block8x8, Block16x16)
	if err != nil {
		b.Fatal(err)
	}
	buf, err := frame.NewBuffer(640, 360, 3)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bj.Apply(buf); err != nil {
			b.Fatal(err)
		}
	}
}
