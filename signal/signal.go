package signal

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/OpusGang/vs-samples/frame"
)

// Kind names one pattern in the closed generator set. Patterns resolve
// through this tagged set rather than open-ended dispatch; the supported
// patterns are small in number and fixed.
type Kind uint8

const (
	KindHorizontalRamp Kind = iota
	KindVerticalRamp
	KindCornerRamp
	KindCircularRamp
	KindSpiral
	KindCheckerboard
	KindDiamond
	KindRotatingGradients
	KindVortex
	KindColorBars
)

var kindNames = map[Kind]string{
	KindHorizontalRamp:    "horizontal-ramp",
	KindVerticalRamp:      "vertical-ramp",
	KindCornerRamp:        "corner-ramp",
	KindCircularRamp:      "circular-ramp",
	KindSpiral:            "spiral",
	KindCheckerboard:      "checkerboard",
	KindDiamond:           "diamond",
	KindRotatingGradients: "rotating-gradients",
	KindVortex:            "vortex",
	KindColorBars:         "colorbars",
}

// String returns the kind's canonical name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a canonical pattern name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Kinds returns every kind in the closed set, in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindHorizontalRamp, KindVerticalRamp, KindCornerRamp, KindCircularRamp,
		KindSpiral, KindCheckerboard, KindDiamond, KindRotatingGradients,
		KindVortex, KindColorBars,
	}
}

// Config carries the geometry shared by every pattern. Static patterns
// produce the same canonical frame for every index; animated patterns
// evolve across [0, Frames).
type Config struct {
	Width  int
	Height int
	Frames int
	Static bool
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Frames < 1 {
		return fmt.Errorf("%w: frame count %d", ErrInvalidConfig, c.Frames)
	}
	return nil
}

// checkIndex validates a frame index against the configuration.
func (c Config) checkIndex(n int) error {
	if n < 0 || n >= c.Frames {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, n, c.Frames)
	}
	return nil
}

// phase resolves the effective frame index and time scale for index n.
// Static configurations and single-frame runs evaluate every index at
// the canonical phase: index 0 with full time scale, so a static ramp
// shows its complete excursion rather than a black frame.
func (c Config) phase(n int) (int, float64) {
	if c.Static || c.Frames <= 1 {
		return 0, 1
	}
	return n, float64(n) / float64(c.Frames-1)
}

// Signal generates one numeric frame buffer per index. Implementations
// are pure: the same index always yields the same samples, and every
// sample lies in [0, 1].
type Signal interface {
	// Generate computes the buffer for frame n. n must lie in
	// [0, Frames); anything else is a configuration error.
	Generate(n int) (*frame.Buffer, error)

	// Channels returns 1 for grayscale patterns and 3 for color patterns.
	Channels() int

	// Kind identifies the pattern.
	Kind() Kind

	// Config returns the geometry the pattern was constructed with.
	Config() Config
}

// New constructs the named pattern with default parameters. Patterns
// with tunable parameters expose richer constructors alongside.
func New(kind Kind, cfg Config) (Signal, error) {
	switch kind {
	case KindHorizontalRamp:
		return NewHorizontalRamp(cfg)
	case KindVerticalRamp:
		return NewVerticalRamp(cfg)
	case KindCornerRamp:
		return NewCornerRamp(cfg)
	case KindCircularRamp:
		return NewCircularRamp(cfg)
	case KindSpiral:
		return NewSpiral(cfg)
	case KindCheckerboard:
		return NewCheckerboard(cfg, 1)
	case KindDiamond:
		return NewDiamond(cfg)
	case KindRotatingGradients:
		return NewRotatingGradients(cfg)
	case KindVortex:
		return NewVortex(cfg)
	case KindColorBars:
		return NewColorBars(cfg, DefaultBarsOptions())
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// logNew emits the shared constructor log entry.
func logNew(kind Kind, cfg Config) {
	logrus.WithFields(logrus.Fields{
		"function": "New" + kindGoName(kind),
		"package":  "signal",
		"width":    cfg.Width,
		"height":   cfg.Height,
		"frames":   cfg.Frames,
		"static":   cfg.Static,
	}).Debug("created pattern generator")
}

func kindGoName(k Kind) string {
	switch k {
	case KindHorizontalRamp:
		return "HorizontalRamp"
	case KindVerticalRamp:
		return "VerticalRamp"
	case KindCornerRamp:
		return "CornerRamp"
	case KindCircularRamp:
		return "CircularRamp"
	case KindSpiral:
		return "Spiral"
	case KindCheckerboard:
		return "Checkerboard"
	case KindDiamond:
		return "Diamond"
	case KindRotatingGradients:
		return "RotatingGradients"
	case KindVortex:
		return "Vortex"
	case KindColorBars:
		return "ColorBars"
	default:
		return "Signal"
	}
}

// linspace fills n equally spaced points from lo to hi inclusive.
// A single point degenerates to lo; floats.Span requires two or more.
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
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
