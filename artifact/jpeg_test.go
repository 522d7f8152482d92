package artifact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/frame"
)

func TestNewJPEG_QualityValidation(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		wantErr bool
	}{
		{"zero quality", 0, true},
		{"negative quality", -5, true},
		{"above maximum", 101, true},
		{"minimum quality", 1, false},
		{"default quality", 50, false},
		{"maximum quality", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := NewJPEG(tt.quality)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuality)
				assert.Nil(t, j)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, j)
			}
		})
	}
}

func TestScaleQuantTable(t *testing.T) {
	base := mat.NewDense(8, 8, lumaQuantBase)

	t.Run("quality 50 keeps the base table", func(t *testing.T) {
		scaled := scaleQuantTable(base, 50)
		assert.True(t, mat.Equal(base, scaled))
	})

	t.Run("quality 1 saturates at 255", func(t *testing.T) {
		scaled := scaleQuantTable(base, 1)
		assert.Equal(t, 255.0, mat.Min(scaled))
		assert.Equal(t, 255.0, mat.Max(scaled))
	})

	t.Run("quality 100 floors at 1", func(t *testing.T) {
		scaled := scaleQuantTable(base, 100)
		assert.Equal(t, 1.0, mat.Min(scaled))
		assert.Equal(t, 1.0, mat.Max(scaled))
	})
}

func TestJPEG_ShapePreserved(t *testing.T) {
	j, err := NewJPEG(30)
	require.NoError(t, err)

	t.Run("luma sized planes", func(t *testing.T) {
		buf := testBuffer(t, 20, 14, 3)
		out, err := j.Apply(buf)
		require.NoError(t, err)
		require.Equal(t, 3, out.NumPlanes())
		for p := 0; p < 3; p++ {
			w, h := out.PlaneDims(p)
			assert.Equal(t, 20, w)
			assert.Equal(t, 14, h)
		}
	})

	t.Run("subsampled planes keep their own shape", func(t *testing.T) {
		luma := mat.NewDense(8, 12, nil)
		cb := mat.NewDense(4, 6, nil)
		cr := mat.NewDense(4, 6, nil)
		buf, err := frame.NewBufferPlanes(luma, cb, cr)
		require.NoError(t, err)

		out, err := j.Apply(buf)
		require.NoError(t, err)

		w, h := out.PlaneDims(0)
		assert.Equal(t, 12, w)
		assert.Equal(t, 8, h)
		w, h = out.PlaneDims(1)
		assert.Equal(t, 6, w)
		assert.Equal(t, 4, h)
	})
}

func TestJPEG_UniformMidGrayExact(t *testing.T) {
	// 128/255 maps onto the centered 8-bit scale as exactly zero, so
	// every DCT coefficient is zero and requantization changes nothing.
	j, err := NewJPEG(25)
	require.NoError(t, err)

	buf, err := frame.NewBuffer(16, 16, 3)
	require.NoError(t, err)
	for p := 0; p < 3; p++ {
		buf.Fill(p, 128.0/255)
	}

	out, err := j.Apply(buf)
	require.NoError(t, err)
	for p := 0; p < 3; p++ {
		assert.True(t, mat.EqualApprox(buf.Plane(p), out.Plane(p), 1e-12), "plane %d", p)
	}
}

func TestJPEG_QualityMonotonicity(t *testing.T) {
	src := testBuffer(t, 32, 32, 1)

	errAt := func(quality int) float64 {
		j, err := NewJPEG(quality)
		require.NoError(t, err)
		out, err := j.Apply(src)
		require.NoError(t, err)
		return mse(src, out)
	}

	low := errAt(10)
	high := errAt(90)
	assert.Greater(t, low, high, "low quality should lose more signal")
	assert.Greater(t, low, 0.0)
}

func TestJPEG_HighQualityNearIdentity(t *testing.T) {
	j, err := NewJPEG(100)
	require.NoError(t, err)

	src := testBuffer(t, 24, 24, 1)
	out, err := j.Apply(src)
	require.NoError(t, err)

	var maxDiff float64
	rows, cols := src.Plane(0).Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			maxDiff = math.Max(maxDiff, math.Abs(src.Plane(0).At(r, c)-out.Plane(0).At(r, c)))
		}
	}
	assert.Less(t, maxDiff, 0.03, "quality 100 should be close to lossless")
}

func TestJPEG_Deterministic(t *testing.T) {
	j, err := NewJPEG(40)
	require.NoError(t, err)

	src := testBuffer(t, 17, 11, 3)
	a, err := j.Apply(src)
	require.NoError(t, err)
	b, err := j.Apply(src)
	require.NoError(t, err)

	for p := 0; p < 3; p++ {
		assert.True(t, mat.Equal(a.Plane(p), b.Plane(p)), "plane %d", p)
	}
}

func TestJPEG_OutputStaysNormalized(t *testing.T) {
	j, err := NewJPEG(5)
	require.NoError(t, err)

	out, err := j.Apply(testBuffer(t, 32, 32, 3))
	require.NoError(t, err)
	for p := 0; p < 3; p++ {
		assert.GreaterOrEqual(t, mat.Min(out.Plane(p)), 0.0)
		assert.LessOrEqual(t, mat.Max(out.Plane(p)), 1.0)
	}
}

func TestJPEG_NilBuffer(t *testing.T) {
	j, err := NewJPEG(50)
	require.NoError(t, err)

	out, err := j.Apply(nil)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNilBuffer)
}

func TestJPEG_Name(t *testing.T) {
	j, err := NewJPEG(35)
	require.NoError(t, err)
	assert.Equal(t, "JPEG(q=35)", j.Name())
}

func BenchmarkJPEG_Apply(b *testing.B) {
	j, err := NewJPEG(30)
	if err != nil {
		b.Fatal(err)
	}
	buf, err := frame.NewBuffer(640, 360, 3)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := j.Apply(buf); err != nil {
			b.Fatal(err)
		}
	}
}
