package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRotatingGradients_NormalizesJointly(t *testing.T) {
	s, err := NewRotatingGradients(Config{Width: 32, Height: 32, Frames: 20})
	require.NoError(t, err)

	buf, err := s.Generate(10)
	require.NoError(t, err)
	require.Equal(t, 3, buf.NumPlanes())

	// Joint min-max normalization: the global extremes across all three
	// channels touch 0 and 1 (up to the epsilon guard).
	minV, maxV := 1.0, 0.0
	for p := 0; p < 3; p++ {
		minV = min(minV, mat.Min(buf.Plane(p)))
		maxV = max(maxV, mat.Max(buf.Plane(p)))
	}
	assert.InDelta(t, 0.0, minV, 1e-6)
	assert.InDelta(t, 1.0, maxV, 1e-6)
}

func TestRotatingGradients_ChannelsDiffer(t *testing.T) {
	s, err := NewRotatingGradients(Config{Width: 24, Height: 24, Frames: 20})
	require.NoError(t, err)

	buf, err := s.Generate(5)
	require.NoError(t, err)

	assert.False(t, mat.Equal(buf.Plane(0), buf.Plane(1)), "R and G should differ")
	assert.False(t, mat.Equal(buf.Plane(1), buf.Plane(2)), "G and B should differ")
}

func TestVortex_MaskDarkensCorners(t *testing.T) {
	s, err := NewVortex(Config{Width: 33, Height: 33, Frames: 10})
	require.NoError(t, err)

	buf, err := s.Generate(9)
	require.NoError(t, err)

	// The gaussian falloff mask crushes the corners toward black while
	// the center keeps visible signal on at least one channel.
	cornerMax := 0.0
	centerMax := 0.0
	for p := 0; p < 3; p++ {
		cornerMax = max(cornerMax, buf.Plane(p).At(0, 0))
		centerMax = max(centerMax, buf.Plane(p).At(16, 16))
	}
	assert.Less(t, cornerMax, 0.05)
	assert.Greater(t, centerMax, 0.2)
}

func TestVortex_PhaseShiftedChannels(t *testing.T) {
	s, err := NewVortex(Config{Width: 16, Height: 16, Frames: 4})
	require.NoError(t, err)

	buf, err := s.Generate(3)
	require.NoError(t, err)
	assert.False(t, mat.Equal(buf.Plane(0), buf.Plane(1)))
	assert.False(t, mat.Equal(buf.Plane(0), buf.Plane(2)))
}
