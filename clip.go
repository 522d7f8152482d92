// Package vssamples assembles synthetic test clips.
//
// This file implements the clip generator: a pattern source bound to an
// artifact chain, output geometry, and a host frame format.
package vssamples

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/OpusGang/vs-samples/artifact"
	"github.com/OpusGang/vs-samples/frame"
	"github.com/OpusGang/vs-samples/signal"
	"github.com/OpusGang/vs-samples/y4m"
)

// Crop trims columns and rows from the generated raster, after artifacts
// and before the bandwidth blur. SD bar rasters use it to discard the
// blanking columns the generator paints.
type Crop struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// empty reports whether the crop removes nothing.
func (c Crop) empty() bool {
	return c == Crop{}
}

// Settings describes how a clip turns pattern buffers into host frames.
// The zero value of Format, FPS, and Frames selects a default derived
// from the source; the remaining zero values mean off.
type Settings struct {
	// Format is the host frame format frames are bridged into. Zero
	// selects Gray16 for single-channel sources and YUV444P16 for
	// three-channel sources.
	Format frame.Format

	// FPS is the stream frame rate. Zero selects 25/1.
	FPS y4m.Rational

	// FieldOrder tags the stream's scan order. The samples themselves
	// are untouched; interlaced delivery is a downstream concern.
	FieldOrder y4m.FieldOrder

	// Frames is the clip length. Zero selects the full source length;
	// anything longer than the source is a configuration error.
	Frames int

	// Artifacts is applied to every generated buffer before crop and
	// blur. Nil means pass-through.
	Artifacts *artifact.Chain

	// Crop trims the raster after artifacts.
	Crop Crop

	// HorizontalBlur applies a 5-tap [1 2 4 2 1]/10 horizontal low-pass
	// after the crop, approximating analog bandwidth limiting.
	HorizontalBlur bool

	// MotionAdaptive drives mask-capable artifacts with a per-frame
	// motion mask computed from the source luma plane.
	MotionAdaptive bool
}

// maskDriven is the subset of artifacts that accept a motion mask.
type maskDriven interface {
	ApplyWithMask(buf, mask *frame.Buffer) (*frame.Buffer, error)
}

var _ maskDriven = (*artifact.BlockJPEG)(nil)

// Clip binds a pattern source to output geometry. A clip is immutable
// after construction and safe for concurrent Frame calls.
type Clip struct {
	src      signal.Signal
	settings Settings
	outW     int
	outH     int
}

// DefaultSettings returns the settings NewClip applies to src: a
// high-precision full-resolution bridge of every source frame at 25
// fps, progressive, with no artifacts, crop, or blur.
func DefaultSettings(src signal.Signal) Settings {
	s := Settings{
		FPS: y4m.Rational{Num: 25, Den: 1},
	}
	if src != nil {
		s.Format = defaultFormat(src.Channels())
		s.Frames = src.Config().Frames
	}
	return s
}

// NewClip creates a clip with default settings.
func NewClip(src signal.Signal) (*Clip, error) {
	return NewClipWithSettings(src, DefaultSettings(src))
}

// NewClipWithSettings creates a clip with explicit settings. All
// validation happens here; Frame and the render loops only ever see a
// consistent configuration.
func NewClipWithSettings(src signal.Signal, s Settings) (*Clip, error) {
	if src == nil {
		return nil, ErrNilSignal
	}
	cfg := src.Config()

	if s.Format == (frame.Format{}) {
		s.Format = defaultFormat(src.Channels())
	}
	if err := s.Format.Validate(); err != nil {
		return nil, err
	}
	switch s.Format.Family {
	case frame.FamilyGray:
		if src.Channels() != 1 {
			return nil, fmt.Errorf("%w: %d-channel source into gray format %s",
				ErrInvalidSettings, src.Channels(), s.Format)
		}
	case frame.FamilyRGB:
		if src.Channels() != 3 {
			return nil, fmt.Errorf("%w: %d-channel source into RGB format %s",
				ErrInvalidSettings, src.Channels(), s.Format)
		}
	}

	if s.FPS == (y4m.Rational{}) {
		s.FPS = y4m.Rational{Num: 25, Den: 1}
	}
	if s.FPS.Num < 1 || s.FPS.Den < 1 {
		return nil, fmt.Errorf("%w: frame rate %d/%d", ErrInvalidSettings, s.FPS.Num, s.FPS.Den)
	}
	if s.FieldOrder > y4m.BottomFieldFirst {
		return nil, fmt.Errorf("%w: field order %d", ErrInvalidSettings, s.FieldOrder)
	}

	if s.Frames == 0 {
		s.Frames = cfg.Frames
	}
	if s.Frames < 1 {
		return nil, fmt.Errorf("%w: frame count %d", ErrInvalidSettings, s.Frames)
	}
	if s.Frames > cfg.Frames {
		return nil, fmt.Errorf("%w: %d frames from a %d frame source",
			ErrInvalidSettings, s.Frames, cfg.Frames)
	}

	cr := s.Crop
	if cr.Left < 0 || cr.Right < 0 || cr.Top < 0 || cr.Bottom < 0 {
		return nil, fmt.Errorf("%w: negative crop", ErrInvalidSettings)
	}
	outW := cfg.Width - cr.Left - cr.Right
	outH := cfg.Height - cr.Top - cr.Bottom
	if outW < 1 || outH < 1 {
		return nil, fmt.Errorf("%w: crop leaves %dx%d of %dx%d",
			ErrInvalidSettings, outW, outH, cfg.Width, cfg.Height)
	}
	if fx := 1 << s.Format.SubsampleW; outW%fx != 0 {
		return nil, fmt.Errorf("%w: width %d not aligned for %s",
			ErrInvalidSettings, outW, s.Format)
	}
	if fy := 1 << s.Format.SubsampleH; outH%fy != 0 {
		return nil, fmt.Errorf("%w: height %d not aligned for %s",
			ErrInvalidSettings, outH, s.Format)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewClipWithSettings",
		"package":  "vssamples",
		"kind":     src.Kind().String(),
		"width":    outW,
		"height":   outH,
		"frames":   s.Frames,
		"format":   s.Format.String(),
		"fps":      s.FPS.String(),
	}).Debug("created clip")

	return &Clip{src: src, settings: s, outW: outW, outH: outH}, nil
}

// defaultFormat picks the high-precision host format for a channel count.
func defaultFormat(channels int) frame.Format {
	if channels == 1 {
		return frame.Gray16
	}
	return frame.YUV444P16
}

// Width returns the output raster width after cropping.
func (c *Clip) Width() int { return c.outW }

// Height returns the output raster height after cropping.
func (c *Clip) Height() int { return c.outH }

// Frames returns the clip length in frames.
func (c *Clip) Frames() int { return c.settings.Frames }

// Settings returns the validated settings the clip was built with.
func (c *Clip) Settings() Settings { return c.settings }

// Source returns the pattern generator driving the clip.
func (c *Clip) Source() signal.Signal { return c.src }

// Y4MHeader returns the stream header a writer for this clip needs.
func (c *Clip) Y4MHeader() y4m.Header {
	return y4m.Header{
		Width:      c.outW,
		Height:     c.outH,
		FPS:        c.settings.FPS,
		FieldOrder: c.settings.FieldOrder,
		Format:     c.settings.Format,
	}
}

// checkIndex validates a frame index against the clip length.
func (c *Clip) checkIndex(n int) error {
	if n < 0 || n >= c.settings.Frames {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, n, c.settings.Frames)
	}
	return nil
}

// Frame computes host frame n: generate, degrade, crop, blur, bridge.
// Every call allocates a fresh frame; calls are independent and safe to
// run concurrently.
func (c *Clip) Frame(n int) (*frame.Frame, error) {
	if err := c.checkIndex(n); err != nil {
		return nil, err
	}

	buf, err := c.src.Generate(n)
	if err != nil {
		return nil, err
	}

	buf, err = c.applyArtifacts(n, buf)
	if err != nil {
		return nil, err
	}

	buf, err = cropBuffer(buf, c.settings.Crop)
	if err != nil {
		return nil, err
	}

	if c.settings.HorizontalBlur {
		for i := 0; i < buf.NumPlanes(); i++ {
			blurPlane(buf.Plane(i))
		}
	}

	f, err := frame.NewFrame(c.outW, c.outH, c.settings.Format)
	if err != nil {
		return nil, err
	}
	if err := frame.Write(f, buf); err != nil {
		return nil, err
	}
	return f, nil
}

// applyArtifacts runs the chain over buf. In motion-adaptive mode
// mask-capable stages receive the frame's motion mask; the mask is
// computed at most once per frame and derives from the clean source,
// not from earlier stages' output.
func (c *Clip) applyArtifacts(n int, buf *frame.Buffer) (*frame.Buffer, error) {
	chain := c.settings.Artifacts
	if chain == nil || chain.Len() == 0 {
		return buf, nil
	}
	if !c.settings.MotionAdaptive {
		return chain.Apply(buf)
	}

	var mask *frame.Buffer
	out := buf
	for i, a := range chain.Artifacts() {
		md, ok := a.(maskDriven)
		if !ok {
			next, err := a.Apply(out)
			if err != nil {
				return nil, fmt.Errorf("artifact %d (%s): %w", i, a.Name(), err)
			}
			out = next
			continue
		}
		if mask == nil {
			m, err := c.motionMask(n, buf)
			if err != nil {
				return nil, err
			}
			mask = m
		}
		next, err := md.ApplyWithMask(out, mask)
		if err != nil {
			return nil, fmt.Errorf("artifact %d (%s): %w", i, a.Name(), err)
		}
		out = next
	}
	return out, nil
}

// motionGain scales the summed neighbor differences before clamping, so
// moderate motion already saturates the mask.
const motionGain = 5.0

// MotionMask computes the motion mask for frame n: the clamped, scaled
// sum of absolute luma differences against both neighbor frames.
// Neighbor indices clamp at the clip edges, so the first and last frame
// compare against themselves on one side. Static sources yield an
// all-zero mask.
func (c *Clip) MotionMask(n int) (*frame.Buffer, error) {
	if err := c.checkIndex(n); err != nil {
		return nil, err
	}
	cur, err := c.src.Generate(n)
	if err != nil {
		return nil, err
	}
	return c.motionMask(n, cur)
}

// motionMask computes the mask for frame n given its already generated
// buffer.
func (c *Clip) motionMask(n int, cur *frame.Buffer) (*frame.Buffer, error) {
	prev := n - 1
	if prev < 0 {
		prev = 0
	}
	next := n + 1
	if next >= c.settings.Frames {
		next = c.settings.Frames - 1
	}

	pb, err := c.src.Generate(prev)
	if err != nil {
		return nil, err
	}
	nb, err := c.src.Generate(next)
	if err != nil {
		return nil, err
	}

	w, h := cur.Dims()
	mask, err := frame.NewBuffer(w, h, 1)
	if err != nil {
		return nil, err
	}

	cp, pp, np := cur.Plane(0), pb.Plane(0), nb.Plane(0)
	mp := mask.Plane(0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := cp.At(y, x)
			d := math.Abs(v-pp.At(y, x)) + math.Abs(v-np.At(y, x))
			d *= motionGain
			if d > 1 {
				d = 1
			}
			mp.Set(y, x, d)
		}
	}
	return mask, nil
}

// cropBuffer copies the cropped window out of every plane. Planes must
// be luma-sized; artifacts preserve that shape.
func cropBuffer(buf *frame.Buffer, cr Crop) (*frame.Buffer, error) {
	if cr.empty() {
		return buf, nil
	}

	w, h := buf.Dims()
	planes := make([]*mat.Dense, buf.NumPlanes())
	for i := range planes {
		pw, ph := buf.PlaneDims(i)
		if pw != w || ph != h {
			return nil, fmt.Errorf("%w: cropping plane %d of %dx%d against luma %dx%d",
				frame.ErrShapeMismatch, i, pw, ph, w, h)
		}
		view := buf.Plane(i).Slice(cr.Top, h-cr.Bottom, cr.Left, w-cr.Right)
		planes[i] = mat.DenseCopyOf(view)
	}
	return frame.NewBufferPlanes(planes...)
}

// blurTaps is the horizontal bandwidth-limiting kernel.
var blurTaps = [5]float64{1, 2, 4, 2, 1}

// blurPlane convolves each row with blurTaps in place, replicating edge
// samples.
func blurPlane(m *mat.Dense) {
	rows, cols := m.Dims()
	row := make([]float64, cols)
	for r := 0; r < rows; r++ {
		copy(row, m.RawRowView(r))
		for x := 0; x < cols; x++ {
			sum := 0.0
			for k := -2; k <= 2; k++ {
				xx := x + k
				if xx < 0 {
					xx = 0
				} else if xx >= cols {
					xx = cols - 1
				}
				sum += blurTaps[k+2] * row[xx]
			}
			m.Set(r, x, sum/10)
		}
	}
}
