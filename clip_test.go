package vssamples

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/artifact"
	"github.com/OpusGang/vs-samples/frame"
	"github.com/OpusGang/vs-samples/signal"
	"github.com/OpusGang/vs-samples/y4m"
)

// rampSource builds a horizontal ramp generator for clip tests.
func rampSource(t *testing.T, w, h, frames int, static bool) signal.Signal {
	t.Helper()
	src, err := signal.New(signal.KindHorizontalRamp, signal.Config{
		Width:  w,
		Height: h,
		Frames: frames,
		Static: static,
	})
	require.NoError(t, err)
	return src
}

// colorSource builds a three-channel generator for clip tests.
func colorSource(t *testing.T, w, h, frames int) signal.Signal {
	t.Helper()
	src, err := signal.New(signal.KindVortex, signal.Config{
		Width:  w,
		Height: h,
		Frames: frames,
	})
	require.NoError(t, err)
	return src
}

// failArtifact always fails, for chain error propagation tests.
type failArtifact struct{ err error }

func (f *failArtifact) Apply(*frame.Buffer) (*frame.Buffer, error) { return nil, f.err }
func (f *failArtifact) Name() string                               { return "Fail" }

func TestNewClip_Defaults(t *testing.T) {
	gray, err := NewClip(rampSource(t, 32, 8, 4, false))
	require.NoError(t, err)

	s := gray.Settings()
	assert.Equal(t, frame.Gray16, s.Format)
	assert.Equal(t, y4m.Rational{Num: 25, Den: 1}, s.FPS)
	assert.Equal(t, y4m.Progressive, s.FieldOrder)
	assert.Equal(t, 4, gray.Frames())
	assert.Equal(t, 32, gray.Width())
	assert.Equal(t, 8, gray.Height())

	color, err := NewClip(colorSource(t, 16, 8, 2))
	require.NoError(t, err)
	assert.Equal(t, frame.YUV444P16, color.Settings().Format)
}

func TestNewClip_NilSignal(t *testing.T) {
	_, err := NewClip(nil)
	assert.ErrorIs(t, err, ErrNilSignal)

	_, err = NewClipWithSettings(nil, Settings{})
	assert.ErrorIs(t, err, ErrNilSignal)
}

func TestNewClipWithSettings_Validation(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		settings Settings
		wantErr  error
	}{
		{
			name:     "gray format for color source",
			channels: 3,
			settings: Settings{Format: frame.Gray8},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "rgb format for gray source",
			channels: 1,
			settings: Settings{Format: frame.RGB24},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "invalid format",
			channels: 1,
			settings: Settings{Format: frame.Format{Family: frame.FamilyGray, Bits: 8, SubsampleW: 1}},
			wantErr:  frame.ErrInvalidFormat,
		},
		{
			name:     "zero denominator frame rate",
			channels: 1,
			settings: Settings{FPS: y4m.Rational{Num: 30000, Den: 0}},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "negative frame rate",
			channels: 1,
			settings: Settings{FPS: y4m.Rational{Num: -24, Den: 1}},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "unknown field order",
			channels: 1,
			settings: Settings{FieldOrder: y4m.FieldOrder(9)},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "negative frame count",
			channels: 1,
			settings: Settings{Frames: -3},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "more frames than the source has",
			channels: 1,
			settings: Settings{Frames: 5},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "negative crop",
			channels: 1,
			settings: Settings{Crop: Crop{Left: -1}},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "crop swallows the raster",
			channels: 1,
			settings: Settings{Crop: Crop{Left: 16, Right: 16}},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "crop misaligns subsampled width",
			channels: 1,
			settings: Settings{Format: frame.YUV420P8, Crop: Crop{Left: 1}},
			wantErr:  ErrInvalidSettings,
		},
		{
			name:     "crop misaligns subsampled height",
			channels: 1,
			settings: Settings{Format: frame.YUV420P8, Crop: Crop{Top: 1, Bottom: 2}},
			wantErr:  ErrInvalidSettings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var src signal.Signal
			if tt.channels == 1 {
				src = rampSource(t, 32, 8, 4, false)
			} else {
				src = colorSource(t, 32, 8, 4)
			}
			_, err := NewClipWithSettings(src, tt.settings)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClip_PartialSettingsGetDefaults(t *testing.T) {
	c, err := NewClipWithSettings(rampSource(t, 32, 8, 4, false), Settings{Frames: 2})
	require.NoError(t, err)

	s := c.Settings()
	assert.Equal(t, 2, c.Frames())
	assert.Equal(t, frame.Gray16, s.Format)
	assert.Equal(t, y4m.Rational{Num: 25, Den: 1}, s.FPS)
}

func TestClip_FrameBridgesRamp(t *testing.T) {
	c, err := NewClipWithSettings(rampSource(t, 32, 8, 1, true), Settings{Format: frame.Gray8})
	require.NoError(t, err)

	f, err := c.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, frame.Gray8, f.Format())
	assert.Equal(t, 32, f.Width())
	assert.Equal(t, 8, f.Height())

	assert.Equal(t, uint16(0), f.Uint16At(0, 0, 3))
	assert.Equal(t, uint16(255), f.Uint16At(0, 31, 3))
}

func TestClip_FrameOutOfRange(t *testing.T) {
	c, err := NewClip(rampSource(t, 16, 8, 3, false))
	require.NoError(t, err)

	for _, n := range []int{-1, 3, 99} {
		_, err := c.Frame(n)
		assert.ErrorIs(t, err, ErrFrameOutOfRange, "frame %d", n)
		_, err = c.MotionMask(n)
		assert.ErrorIs(t, err, ErrFrameOutOfRange, "mask %d", n)
	}
}

func TestClip_CropWindow(t *testing.T) {
	// 16-wide static ramp: sample x carries x/15, which lands on exact
	// 16-bit codes of x*4369.
	c, err := NewClipWithSettings(rampSource(t, 16, 8, 1, true), Settings{
		Format: frame.Gray16,
		Crop:   Crop{Left: 2, Right: 2, Top: 1, Bottom: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, c.Width())
	assert.Equal(t, 6, c.Height())

	f, err := c.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, 12, f.Width())
	assert.Equal(t, 6, f.Height())
	assert.Equal(t, uint16(2*4369), f.Uint16At(0, 0, 0))
	assert.Equal(t, uint16(13*4369), f.Uint16At(0, 11, 5))
}

func TestClip_HorizontalBlur(t *testing.T) {
	t.Run("rows of constant value pass through", func(t *testing.T) {
		// A vertical ramp is constant along each row, so the horizontal
		// kernel changes nothing.
		src, err := signal.New(signal.KindVerticalRamp, signal.Config{
			Width: 16, Height: 8, Frames: 1, Static: true,
		})
		require.NoError(t, err)

		plain, err := NewClipWithSettings(src, Settings{Format: frame.Gray16})
		require.NoError(t, err)
		blurred, err := NewClipWithSettings(src, Settings{Format: frame.Gray16, HorizontalBlur: true})
		require.NoError(t, err)

		pf, err := plain.Frame(0)
		require.NoError(t, err)
		bf, err := blurred.Frame(0)
		require.NoError(t, err)
		assert.Equal(t, pf.Plane(0), bf.Plane(0))
	})

	t.Run("edges replicate, interior linear samples survive", func(t *testing.T) {
		src := rampSource(t, 16, 8, 1, true)
		plain, err := NewClipWithSettings(src, Settings{Format: frame.Gray16})
		require.NoError(t, err)
		blurred, err := NewClipWithSettings(src, Settings{Format: frame.Gray16, HorizontalBlur: true})
		require.NoError(t, err)

		pf, err := plain.Frame(0)
		require.NoError(t, err)
		bf, err := blurred.Frame(0)
		require.NoError(t, err)

		// Replicated edge samples pull the leftmost value up from 0.
		assert.Equal(t, uint16(0), pf.Uint16At(0, 0, 0))
		assert.Greater(t, bf.Uint16At(0, 0, 0), uint16(0))
		// The symmetric kernel reproduces a linear ramp away from edges.
		assert.Equal(t, pf.Uint16At(0, 8, 0), bf.Uint16At(0, 8, 0))
	})
}

func TestClip_ArtifactChain(t *testing.T) {
	src, err := signal.New(signal.KindCheckerboard, signal.Config{
		Width: 32, Height: 16, Frames: 1, Static: true,
	})
	require.NoError(t, err)

	jpeg, err := artifact.NewJPEG(10)
	require.NoError(t, err)

	clean, err := NewClipWithSettings(src, Settings{Format: frame.Gray8})
	require.NoError(t, err)
	degraded, err := NewClipWithSettings(src, Settings{
		Format:    frame.Gray8,
		Artifacts: artifact.NewChain(jpeg),
	})
	require.NoError(t, err)

	cf, err := clean.Frame(0)
	require.NoError(t, err)
	df, err := degraded.Frame(0)
	require.NoError(t, err)
	assert.NotEqual(t, cf.Plane(0), df.Plane(0))
}

func TestClip_ArtifactErrorPropagates(t *testing.T) {
	sentinel := errors.New("boom")
	c, err := NewClipWithSettings(rampSource(t, 16, 8, 2, false), Settings{
		Artifacts: artifact.NewChain(&failArtifact{err: sentinel}),
	})
	require.NoError(t, err)

	_, err = c.Frame(0)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "artifact 0 (Fail)")
}

func TestClip_MotionMask(t *testing.T) {
	// Animated ramp over 4 frames: sample x holds (x/31)*n/3 at frame n.
	c, err := NewClip(rampSource(t, 32, 8, 4, false))
	require.NoError(t, err)

	t.Run("interior frame sums both neighbor deltas", func(t *testing.T) {
		mask, err := c.MotionMask(1)
		require.NoError(t, err)

		w, h := mask.Dims()
		assert.Equal(t, 32, w)
		assert.Equal(t, 8, h)
		// Full-swing column moves by 1/3 per side; the gain saturates it.
		assert.Equal(t, 1.0, mask.Plane(0).At(0, 31))
		// Near-zero column stays proportional: 5 * 2 * (1/31) / 3.
		assert.InDelta(t, 10.0/93.0, mask.Plane(0).At(4, 1), 1e-12)
		assert.Equal(t, 0.0, mask.Plane(0).At(0, 0))
	})

	t.Run("first frame clamps its previous neighbor to itself", func(t *testing.T) {
		mask, err := c.MotionMask(0)
		require.NoError(t, err)
		// Only the next-frame delta contributes: 5 * (1/31) / 3.
		assert.InDelta(t, 5.0/93.0, mask.Plane(0).At(0, 1), 1e-12)
	})

	t.Run("static source yields a zero mask", func(t *testing.T) {
		sc, err := NewClip(rampSource(t, 16, 8, 3, true))
		require.NoError(t, err)
		mask, err := sc.MotionMask(1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, mat.Sum(mask.Plane(0)))
	})
}

func TestClip_MotionAdaptiveMatchesExplicitMask(t *testing.T) {
	src := rampSource(t, 32, 8, 4, false)
	bj, err := artifact.NewBlockJPEG(40, artifact.Block4x4, artifact.Block8x8)
	require.NoError(t, err)

	c, err := NewClipWithSettings(src, Settings{
		Format:         frame.Gray8,
		Artifacts:      artifact.NewChain(bj),
		MotionAdaptive: true,
	})
	require.NoError(t, err)

	got, err := c.Frame(1)
	require.NoError(t, err)

	buf, err := src.Generate(1)
	require.NoError(t, err)
	mask, err := c.MotionMask(1)
	require.NoError(t, err)
	degraded, err := bj.ApplyWithMask(buf, mask)
	require.NoError(t, err)

	want, err := frame.NewFrame(32, 8, frame.Gray8)
	require.NoError(t, err)
	require.NoError(t, frame.Write(want, degraded))

	assert.Equal(t, want.Plane(0), got.Plane(0))
}

func TestClip_Y4MHeader(t *testing.T) {
	c, err := NewClipWithSettings(colorSource(t, 64, 32, 3), Settings{
		Format:     frame.YUV422P10,
		FPS:        y4m.Rational{Num: 30000, Den: 1001},
		FieldOrder: y4m.TopFieldFirst,
		Crop:       Crop{Left: 2, Right: 2},
	})
	require.NoError(t, err)

	h := c.Y4MHeader()
	assert.Equal(t, 60, h.Width)
	assert.Equal(t, 32, h.Height)
	assert.Equal(t, y4m.Rational{Num: 30000, Den: 1001}, h.FPS)
	assert.Equal(t, y4m.TopFieldFirst, h.FieldOrder)
	assert.Equal(t, frame.YUV422P10, h.Format)
}

func TestClip_FrameIsDeterministic(t *testing.T) {
	jpeg, err := artifact.NewJPEG(35)
	require.NoError(t, err)
	c, err := NewClipWithSettings(colorSource(t, 24, 16, 3), Settings{
		Format:    frame.YUV444P8,
		Artifacts: artifact.NewChain(jpeg),
	})
	require.NoError(t, err)

	a, err := c.Frame(2)
	require.NoError(t, err)
	b, err := c.Frame(2)
	require.NoError(t, err)
	for p := 0; p < 3; p++ {
		assert.Equal(t, a.Plane(p), b.Plane(p), "plane %d", p)
	}
}

func BenchmarkClipFrame(b *testing.B) {
	src, err := signal.New(signal.KindVortex, signal.Config{
		Width: 640, Height: 360, Frames: 120,
	})
	if err != nil {
		b.Fatal(err)
	}
	jpeg, err := artifact.NewJPEG(50)
	if err != nil {
		b.Fatal(err)
	}
	c, err := NewClipWithSettings(src, Settings{
		Format:         frame.YUV420P8,
		Artifacts:      artifact.NewChain(jpeg),
		HorizontalBlur: true,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Frame(i % c.Frames()); err != nil {
			b.Fatal(err)
		}
	}
}

// Ensures the failArtifact stub stays a valid chain member.
var _ artifact.Artifact = (*failArtifact)(nil)

func ExampleClip_Frame() {
	src, err := signal.New(signal.KindHorizontalRamp, signal.Config{
		Width: 8, Height: 2, Frames: 1, Static: true,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	clip, err := NewClipWithSettings(src, Settings{Format: frame.Gray8})
	if err != nil {
		fmt.Println(err)
		return
	}
	f, err := clip.Frame(0)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(f.Format(), f.Width(), f.Height(), f.Uint16At(0, 7, 0))
	// Output: Gray8 8 2 255
}
