package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/frame"
)

func TestNewDepth_Validation(t *testing.T) {
	tests := []struct {
		name    string
		bits    int
		opts    []DepthOption
		wantErr error
	}{
		{"zero bits", 0, nil, ErrInvalidDepth},
		{"too many bits", 17, nil, ErrInvalidDepth},
		{"unknown mode", 8, []DepthOption{WithDither(DitherMode(99))}, ErrUnknownDitherMode},
		{"negative amplitude", 8, []DepthOption{WithAmplitude(-0.5)}, ErrInvalidAmplitude},
		{"one bit", 1, nil, nil},
		{"sixteen bits", 16, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDepth(tt.bits, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, d)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, d)
			}
		})
	}
}

func TestDitherMode_ParseRoundTrip(t *testing.T) {
	modes := []DitherMode{
		DitherNone, DitherOrdered, DitherRandom, DitherFloydSteinberg,
		DitherSierraLite, DitherStucki, DitherAtkinson,
	}
	for _, m := range modes {
		parsed, err := ParseDitherMode(m.String())
		require.NoError(t, err, m.String())
		assert.Equal(t, m, parsed)
	}

	_, err := ParseDitherMode("bayer")
	assert.ErrorIs(t, err, ErrUnknownDitherMode)
}

// distinctValues counts the unique samples of one plane.
func distinctValues(p *mat.Dense) int {
	seen := make(map[float64]bool)
	rows, cols := p.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			seen[p.At(r, c)] = true
		}
	}
	return len(seen)
}

func TestDepth_LevelCount(t *testing.T) {
	// A smooth gradient exercises every level; the output may never
	// hold more distinct values than the target depth allows.
	src, err := frame.NewBuffer(64, 64, 1)
	require.NoError(t, err)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.Plane(0).Set(y, x, float64(y*64+x)/4095)
		}
	}

	modes := []DitherMode{
		DitherNone, DitherOrdered, DitherRandom, DitherFloydSteinberg,
		DitherSierraLite, DitherStucki, DitherAtkinson,
	}
	for _, mode := range modes {
		for _, bits := range []int{1, 2, 4} {
			d, err := NewDepth(bits, WithDither(mode), WithRange(RangeFull))
			require.NoError(t, err)

			out, err := d.Apply(src)
			require.NoError(t, err)

			assert.LessOrEqual(t, distinctValues(out.Plane(0)), 1<<bits,
				"%s at %d bits", mode, bits)
		}
	}
}

func TestDepth_NonePlainRounding(t *testing.T) {
	d, err := NewDepth(8, WithDither(DitherNone), WithRange(RangeFull))
	require.NoError(t, err)

	src, err := frame.NewBuffer(2, 1, 1)
	require.NoError(t, err)
	src.Plane(0).Set(0, 0, 0.5)
	src.Plane(0).Set(0, 1, 1.0)

	out, err := d.Apply(src)
	require.NoError(t, err)

	assert.InDelta(t, 128.0/255, out.Plane(0).At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, out.Plane(0).At(0, 1), 1e-12)
}

func TestDepth_ChromaNeutralFixedPoint(t *testing.T) {
	// Neutral chroma must survive the reduction exactly: 0.5 maps to
	// the mid-scale code and back.
	for _, r := range []ColorRange{RangeLimited, RangeFull} {
		d, err := NewDepth(8, WithDither(DitherNone), WithRange(r))
		require.NoError(t, err)

		src, err := frame.NewBuffer(8, 8, 3)
		require.NoError(t, err)
		src.Fill(0, 0.3)
		src.Fill(1, 0.5)
		src.Fill(2, 0.5)

		out, err := d.Apply(src)
		require.NoError(t, err)
		for _, p := range []int{1, 2} {
			assert.InDelta(t, 0.5, out.Plane(p).At(3, 3), 1e-12, "range %s plane %d", r, p)
		}
	}
}

func TestDepth_SeededReproducible(t *testing.T) {
	src := testBuffer(t, 32, 32, 1)

	apply := func(seed int64) *frame.Buffer {
		d, err := NewDepth(2, WithDither(DitherRandom), WithSeed(seed))
		require.NoError(t, err)
		out, err := d.Apply(src)
		require.NoError(t, err)
		return out
	}

	a := apply(42)
	b := apply(42)
	c := apply(7)

	assert.True(t, mat.Equal(a.Plane(0), b.Plane(0)), "same seed, same noise")
	assert.False(t, mat.Equal(a.Plane(0), c.Plane(0)), "different seed, different noise")
}

func TestDepth_ErrorDiffusionPreservesMean(t *testing.T) {
	// Error diffusion trades levels for texture but keeps the local
	// average; a uniform 0.37 plane must still average near 0.37 at two
	// bits. Atkinson is excluded: it deliberately drops a quarter of
	// the error.
	src, err := frame.NewBuffer(64, 64, 1)
	require.NoError(t, err)
	src.Fill(0, 0.37)

	for _, mode := range []DitherMode{DitherFloydSteinberg, DitherSierraLite, DitherStucki} {
		d, err := NewDepth(2, WithDither(mode), WithRange(RangeFull))
		require.NoError(t, err)

		out, err := d.Apply(src)
		require.NoError(t, err)

		assert.InDelta(t, 0.37, mat.Sum(out.Plane(0))/(64*64), 0.02, mode.String())
	}
}

func TestDepth_OrderedDiffersFromNone(t *testing.T) {
	src := testBuffer(t, 32, 32, 1)

	plain, err := NewDepth(3, WithDither(DitherNone))
	require.NoError(t, err)
	ordered, err := NewDepth(3, WithDither(DitherOrdered))
	require.NoError(t, err)

	a, err := plain.Apply(src)
	require.NoError(t, err)
	b, err := ordered.Apply(src)
	require.NoError(t, err)

	assert.False(t, mat.Equal(a.Plane(0), b.Plane(0)))
}

func TestDepth_OutputStaysNormalized(t *testing.T) {
	src := testBuffer(t, 32, 32, 3)

	modes := []DitherMode{
		DitherNone, DitherOrdered, DitherRandom, DitherFloydSteinberg,
		DitherSierraLite, DitherStucki, DitherAtkinson,
	}
	for _, mode := range modes {
		for _, r := range []ColorRange{RangeLimited, RangeFull} {
			d, err := NewDepth(2, WithDither(mode), WithRange(r))
			require.NoError(t, err)

			out, err := d.Apply(src)
			require.NoError(t, err)
			for p := 0; p < 3; p++ {
				assert.GreaterOrEqual(t, mat.Min(out.Plane(p)), 0.0, "%s %s plane %d", mode, r, p)
				assert.LessOrEqual(t, mat.Max(out.Plane(p)), 1.0, "%s %s plane %d", mode, r, p)
			}
		}
	}
}

func TestDepth_NilBuffer(t *testing.T) {
	d, err := NewDepth(8)
	require.NoError(t, err)

	out, err := d.Apply(nil)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNilBuffer)
}

func TestDepth_Name(t *testing.T) {
	d, err := NewDepth(4, WithDither(DitherAtkinson))
	require.NoError(t, err)
	assert.Equal(t, "Depth(bits=4, dither=atkinson)", d.Name())
}

func BenchmarkDepth_FloydSteinberg(b *testing.B) {
	d, err := NewDepth(4, WithDither(DitherFloydSteinberg))
	if err != nil {
		b.Fatal(err)
	}
	buf, err := frame.NewBuffer(640, 360, 1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Apply(buf); err != nil {
			b.Fatal(err)
		}
	}
}
