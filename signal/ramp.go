// Package signal generates synthetic video test patterns.
//
// This file implements the ramp family: linear luminance sweeps across
// one or two axes, the first patterns to reach for when hunting scaling
// and banding defects.
package signal

import (
	"math"

	"github.com/OpusGang/vs-samples/frame"
)

// HorizontalRamp sweeps 0..1 left to right, scaled by the time scale
// when animated.
type HorizontalRamp struct {
	cfg Config
}

// NewHorizontalRamp creates a horizontal ramp generator.
func NewHorizontalRamp(cfg Config) (*HorizontalRamp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindHorizontalRamp, cfg)
	return &HorizontalRamp{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *HorizontalRamp) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}
	_, ts := s.cfg.phase(n)

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 1)
	if err != nil {
		return nil, err
	}

	row := linspace(0, 1, s.cfg.Width)
	plane := buf.Plane(0)
	for y := 0; y < s.cfg.Height; y++ {
		for x, v := range row {
			plane.Set(y, x, v*ts)
		}
	}
	return buf, nil
}

// Channels returns 1.
func (s *HorizontalRamp) Channels() int { return 1 }

// Kind identifies the pattern.
func (s *HorizontalRamp) Kind() Kind { return KindHorizontalRamp }

// Config returns the generator geometry.
func (s *HorizontalRamp) Config() Config { return s.cfg }

// VerticalRamp sweeps 0..1 top to bottom.
type VerticalRamp struct {
	cfg Config
}

// NewVerticalRamp creates a vertical ramp generator.
func NewVerticalRamp(cfg Config) (*VerticalRamp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindVerticalRamp, cfg)
	return &VerticalRamp{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *VerticalRamp) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}
	_, ts := s.cfg.phase(n)

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 1)
	if err != nil {
		return nil, err
	}

	col := linspace(0, 1, s.cfg.Height)
	plane := buf.Plane(0)
	for y, v := range col {
		for x := 0; x < s.cfg.Width; x++ {
			plane.Set(y, x, v*ts)
		}
	}
	return buf, nil
}

// Channels returns 1.
func (s *VerticalRamp) Channels() int { return 1 }

// Kind identifies the pattern.
func (s *VerticalRamp) Kind() Kind { return KindVerticalRamp }

// Config returns the generator geometry.
func (s *VerticalRamp) Config() Config { return s.cfg }

// CornerRamp is the outer product of the two axis ramps: dark at the
// top-left corner, bright at the bottom-right.
type CornerRamp struct {
	cfg Config
}

// NewCornerRamp creates a corner ramp generator.
func NewCornerRamp(cfg Config) (*CornerRamp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindCornerRamp, cfg)
	return &CornerRamp{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *CornerRamp) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}
	_, ts := s.cfg.phase(n)

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 1)
	if err != nil {
		return nil, err
	}

	xs := linspace(0, 1, s.cfg.Width)
	ys := linspace(0, 1, s.cfg.Height)
	plane := buf.Plane(0)
	for y, vy := range ys {
		for x, vx := range xs {
			plane.Set(y, x, vx*vy*ts)
		}
	}
	return buf, nil
}

// Channels returns 1.
func (s *CornerRamp) Channels() int { return 1 }

// Kind identifies the pattern.
func (s *CornerRamp) Kind() Kind { return KindCornerRamp }

// Config returns the generator geometry.
func (s *CornerRamp) Config() Config { return s.cfg }

// CircularRamp sweeps radially from the center outward, normalized so
// the nearest sample to the center is 0 and the far corner is 1.
type CircularRamp struct {
	cfg Config
}

// NewCircularRamp creates a circular ramp generator.
func NewCircularRamp(cfg Config) (*CircularRamp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindCircularRamp, cfg)
	return &CircularRamp{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *CircularRamp) Generate(n int) (*frame.Buffer, error) {
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

	minR := math.Inf(1)
	maxR := math.Inf(-1)
	for y, vy := range ys {
		for x, vx := range xs {
			r := math.Hypot(vx, vy)
			plane.Set(y, x, r)
			minR = math.Min(minR, r)
			maxR = math.Max(maxR, r)
		}
	}

	span := maxR - minR
	if span == 0 {
		span = 1
	}
	for y := 0; y < s.cfg.Height; y++ {
		for x := 0; x < s.cfg.Width; x++ {
			plane.Set(y, x, (plane.At(y, x)-minR)/span*ts)
		}
	}
	return buf, nil
}

// Channels returns 1.
func (s *CircularRamp) Channels() int { return 1 }

// Kind identifies the pattern.
func (s *CircularRamp) Kind() Kind { return KindCircularRamp }

// Config returns the generator geometry.
func (s *CircularRamp) Config() Config { return s.cfg }
