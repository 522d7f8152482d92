// Package signal generates synthetic video test patterns.
//
// This file implements the color plasma patterns: smooth multi-channel
// gradients built to provoke banding and chroma artifacts.
package signal

import (
	"math"

	"github.com/OpusGang/vs-samples/frame"
)

// RotatingGradients renders four soft color blobs, red, green, blue,
// and white, orbiting the center. The gradients sharpen toward the
// middle of the run and relax again, which makes low-bit-depth banding
// sweep across the frame. Channel order is RGB.
type RotatingGradients struct {
	cfg Config
}

// NewRotatingGradients creates a rotating gradients generator.
func NewRotatingGradients(cfg Config) (*RotatingGradients, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindRotatingGradients, cfg)
	return &RotatingGradients{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *RotatingGradients) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}
	idx, _ := s.cfg.phase(n)

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 3)
	if err != nil {
		return nil, err
	}

	angle := float64(idx) * math.Pi / 180

	// Sharpness peaks at the middle frame and eases back out.
	nf := float64(idx)
	if !s.cfg.Static && s.cfg.Frames > 1 {
		peak := float64(s.cfg.Frames) / 10
		peakFrame := s.cfg.Frames / 2
		if idx < peakFrame {
			nf = peak * float64(idx) / float64(peakFrame)
		} else {
			nf = peak * float64(s.cfg.Frames-idx) / float64(s.cfg.Frames-peakFrame)
		}
	}
	c := nf / 10

	colors := [4][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}
	var cx, cy [4]float64
	for k := 0; k < 4; k++ {
		a := angle + float64(k)*math.Pi/2
		cx[k] = c / 3 * math.Sin(a)
		cy[k] = c / 3 * math.Cos(a)
	}

	xs := linspace(-1, 1, s.cfg.Width)
	ys := linspace(-1, 1, s.cfg.Height)

	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for y, vy := range ys {
		for x, vx := range xs {
			var rgb [3]float64
			for k := 0; k < 4; k++ {
				dx := vx - cx[k]
				dy := vy - cy[k]
				g := math.Exp(-nf * (dx*dx + dy*dy))
				rgb[0] += g * colors[k][0]
				rgb[1] += g * colors[k][1]
				rgb[2] += g * colors[k][2]
			}
			for ch := 0; ch < 3; ch++ {
				buf.Plane(ch).Set(y, x, rgb[ch])
				minV = math.Min(minV, rgb[ch])
				maxV = math.Max(maxV, rgb[ch])
			}
		}
	}

	// Joint min-max normalization across all three channels; the epsilon
	// keeps a flat frame at zero instead of dividing by zero.
	span := maxV - minV + 1e-8
	for ch := 0; ch < 3; ch++ {
		plane := buf.Plane(ch)
		for y := 0; y < s.cfg.Height; y++ {
			for x := 0; x < s.cfg.Width; x++ {
				plane.Set(y, x, (plane.At(y, x)-minV)/span)
			}
		}
	}
	return buf, nil
}

// Channels returns 3.
func (s *RotatingGradients) Channels() int { return 3 }

// Kind identifies the pattern.
func (s *RotatingGradients) Kind() Kind { return KindRotatingGradients }

// Config returns the generator geometry.
func (s *RotatingGradients) Config() Config { return s.cfg }

// Vortex renders three phase-shifted sine spirals, one per RGB channel,
// swirling around the center under a gaussian falloff mask.
type Vortex struct {
	cfg Config
}

// NewVortex creates a vortex generator.
func NewVortex(cfg Config) (*Vortex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logNew(KindVortex, cfg)
	return &Vortex{cfg: cfg}, nil
}

// Generate computes frame n.
func (s *Vortex) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}
	idx, ts := s.cfg.phase(n)

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 3)
	if err != nil {
		return nil, err
	}

	phases := [3]float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3}
	xs := linspace(-1, 1, s.cfg.Width)
	ys := linspace(-1, 1, s.cfg.Height)

	for y, vy := range ys {
		for x, vx := range xs {
			angle := math.Atan2(vy, vx)
			radius := math.Hypot(vx, vy)
			mask := math.Exp(-radius * radius * 5)
			base := angle*5 + radius*10 - float64(idx)/10
			for ch := 0; ch < 3; ch++ {
				v := (math.Sin(base+phases[ch]) + 1) / 2
				buf.Plane(ch).Set(y, x, v*ts*mask)
			}
		}
	}
	return buf, nil
}

// Channels returns 3.
func (s *Vortex) Channels() int { return 3 }

// Kind identifies the pattern.
func (s *Vortex) Kind() Kind { return KindVortex }

// Config returns the generator geometry.
func (s *Vortex) Config() Config { return s.cfg }
