package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			parsed, err := ParseKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		})
	}

	_, err := ParseKind("plasma-storm")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Width: 16, Height: 9, Frames: 10}, false},
		{"single frame", Config{Width: 16, Height: 9, Frames: 1}, false},
		{"zero width", Config{Width: 0, Height: 9, Frames: 10}, true},
		{"negative height", Config{Width: 16, Height: -9, Frames: 10}, true},
		{"zero frames", Config{Width: 16, Height: 9, Frames: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_EveryKind(t *testing.T) {
	cfg := Config{Width: 28, Height: 24, Frames: 5}

	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			s, err := New(k, cfg)
			require.NoError(t, err)
			assert.Equal(t, k, s.Kind())

			buf, err := s.Generate(2)
			require.NoError(t, err)
			require.Equal(t, s.Channels(), buf.NumPlanes())

			w, h := buf.Dims()
			assert.Equal(t, cfg.Width, w)
			assert.Equal(t, cfg.Height, h)
		})
	}
}

// Every pattern must keep its samples inside [0, 1] on every frame; the
// bridge owns range scaling and expects normalized input.
func TestGenerate_SamplesStayNormalized(t *testing.T) {
	cfg := Config{Width: 28, Height: 24, Frames: 7}

	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			s, err := New(k, cfg)
			require.NoError(t, err)

			for n := 0; n < cfg.Frames; n++ {
				buf, err := s.Generate(n)
				require.NoError(t, err)
				for p := 0; p < buf.NumPlanes(); p++ {
					plane := buf.Plane(p)
					rows, cols := plane.Dims()
					for y := 0; y < rows; y++ {
						for x := 0; x < cols; x++ {
							v := plane.At(y, x)
							assert.GreaterOrEqual(t, v, 0.0, "frame %d plane %d (%d,%d)", n, p, x, y)
							assert.LessOrEqual(t, v, 1.0, "frame %d plane %d (%d,%d)", n, p, x, y)
						}
					}
				}
			}
		})
	}
}

// Static generators must produce identical output for every index.
func TestGenerate_StaticIgnoresIndex(t *testing.T) {
	cfg := Config{Width: 28, Height: 24, Frames: 9, Static: true}

	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			s, err := New(k, cfg)
			require.NoError(t, err)

			first, err := s.Generate(0)
			require.NoError(t, err)
			last, err := s.Generate(cfg.Frames - 1)
			require.NoError(t, err)

			for p := 0; p < first.NumPlanes(); p++ {
				assert.True(t, mat.Equal(first.Plane(p), last.Plane(p)),
					"plane %d differs between static frames", p)
			}
		})
	}
}

func TestGenerate_IndexOutOfRange(t *testing.T) {
	s, err := NewHorizontalRamp(Config{Width: 8, Height: 8, Frames: 4})
	require.NoError(t, err)

	_, err = s.Generate(-1)
	assert.ErrorIs(t, err, ErrFrameOutOfRange)

	_, err = s.Generate(4)
	assert.ErrorIs(t, err, ErrFrameOutOfRange)
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := Config{Width: 20, Height: 12, Frames: 6}

	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			s1, err := New(k, cfg)
			require.NoError(t, err)
			s2, err := New(k, cfg)
			require.NoError(t, err)

			a, err := s1.Generate(3)
			require.NoError(t, err)
			b, err := s2.Generate(3)
			require.NoError(t, err)

			for p := 0; p < a.NumPlanes(); p++ {
				assert.True(t, mat.Equal(a.Plane(p), b.Plane(p)), "plane %d not deterministic", p)
			}
		})
	}
}
