// Package signal generates synthetic video test patterns.
//
// This file implements the hard-edged geometric patterns: checkerboard,
// diamond, and spiral.
package signal

import (
	"fmt"
	"math"

	"github.com/OpusGang/vs-samples/frame"
)

// Checkerboard alternates full-white and full-black cells. Cell (0, 0)
// is white. The pattern does not animate.
type Checkerboard struct {
	cfg      Config
	cellSize int
}

// NewCheckerboard creates a checkerboard generator. cellSize is the
// width and height of one cell in samples and must be at least 1.
func NewCheckerboard(cfg Config, cellSize int) (*Checkerboard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cellSize < 1 {
		return nil, fmt.Errorf("%w: cell size %d", ErrInvalidParameter, cellSize)
	}
	logNew(KindCheckerboard, cfg)
	return &Checkerboard{cfg: cfg, cellSize: cellSize}, nil
}

// Generate computes frame n.
func (s *Checkerboard) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 1)
	if err != nil {
		return nil, err
	}

	plane := buf.Plane(0)
	for y := 0; y < s.cfg.Height; y++ {
		for x := 0; x < s.cfg.Width; x++ {
			if (x/s.cellSize+y/s.cellSize)%2 == 0 {
				plane.Set(y, x, 1)
			}
		}
	}
	return buf, nil
}

// Channels returns 1.
func (s *Checkerboard) Channels() int { return 1 }

// Kind identifies the pattern.
func (s *Checkerboard) Kind() Kind { return KindCheckerboard }

// Config returns the generator geometry.
func (s *Checkerboard) Config() Config { return s.cfg }

// Diamond fades from a bright diamond at the center to black at the
// edges, scaled by the time scale when animated.
type Diamond struct {
	cfg Config
}

// NewDiamond creates a diamond generator.
func NewDiamond(cfg Config) (*Diamond, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindDiamond, cfg)
	return &Diamond{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *Diamond) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}
	_, ts := s.cfg.phase(n)

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 1)
	if err != nil {
		return nil, err
	}

	xs := linspace(-1, 1, s.cfg.Width)
	ys := linspace(-1, 1, s.cfg.Height)
	plane := buf.Plane(0)
	for y, vy := range ys {
		for x, vx := range xs {
			plane.Set(y, x, clip01(1-math.Abs(vx)-math.Abs(vy))*ts)
		}
	}
	return buf, nil
}

// Channels returns 1.
func (s *Diamond) Channels() int { return 1 }

// Kind identifies the pattern.
func (s *Diamond) Kind() Kind { return KindDiamond }

// Config returns the generator geometry.
func (s *Diamond) Config() Config { return s.cfg }

// Spiral draws concentric sine rings that contract toward the center as
// the frame index advances. Ring values span the full [0, 1] range.
type Spiral struct {
	cfg Config
}

// NewSpiral creates a spiral generator.
func NewSpiral(cfg Config) (*Spiral, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindSpiral, cfg)
	return &Spiral{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *Spiral) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}
	idx, _ := s.cfg.phase(n)

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 1)
	if err != nil {
		return nil, err
	}

	xs := linspace(-10, 10, s.cfg.Width)
	ys := linspace(-10, 10, s.cfg.Height)
	plane := buf.Plane(0)
	for y, vy := range ys {
		for x, vx := range xs {
			r := math.Hypot(vx, vy)
			plane.Set(y, x, (math.Sin(r-float64(idx))+1)/2)
		}
	}
	return buf, nil
}

// Channels returns 1.
func (s *Spiral) Channels() int { return 1 }

// Kind identifies the pattern.
func (s *Spiral) Kind() Kind { return KindSpiral }

// Config returns the generator geometry.
func (s *Spiral) Config() Config { return s.cfg }
