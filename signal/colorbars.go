// Package signal generates synthetic video test patterns.
//
// This file implements the SMPTE RP 219 style color bars: a four-row
// layout of 75% bars, a reverse-blue row, an I/Q row with a luminance
// ramp, and a bottom pluge row. Values are studio-swing YCbCr codes
// expressed on the normalized scale of a target bit depth.
package signal

import (
	"fmt"
	"math"

	"github.com/OpusGang/vs-samples/frame"
)

// Gamut selects the RGB to YCbCr matrix coefficients.
type Gamut uint8

const (
	GamutBT601 Gamut = iota
	GamutBT709
	GamutBT2020
)

// String returns the gamut name.
func (g Gamut) String() string {
	switch g {
	case GamutBT601:
		return "bt601"
	case GamutBT709:
		return "bt709"
	case GamutBT2020:
		return "bt2020"
	default:
		return fmt.Sprintf("Gamut(%d)", uint8(g))
	}
}

// lumaWeights returns the Kr and Kb coefficients for the gamut.
func (g Gamut) lumaWeights() (kr, kb float64) {
	switch g {
	case GamutBT601:
		return 0.299, 0.114
	case GamutBT2020:
		return 0.2627, 0.0593
	default:
		return 0.2126, 0.0722
	}
}

// IQMode selects the second patch of the middle rows.
type IQMode uint8

const (
	// IQWhite75 puts 75% white above 0% black.
	IQWhite75 IQMode = iota
	// IQNegIPosQ puts the -I chip above the +Q chip.
	IQNegIPosQ
	// IQPosIBlack puts the +I chip above 0% black.
	IQPosIBlack
	// IQWhite100 puts 100% white above 0% black.
	IQWhite100
)

// Compatibility controls bar edge rounding.
type Compatibility uint8

const (
	// CompatIdeal rounds bar edges to the nearest sample.
	CompatIdeal Compatibility = iota
	// CompatEven rounds bar edges to even samples so later 4:2:2 or
	// 4:2:0 conversions land on clean chroma boundaries.
	CompatEven
)

// BarsOptions tunes the color bars beyond the shared Config.
type BarsOptions struct {
	// Depth is the bit depth whose studio-swing code grid the bars
	// target; bridging the buffer into a frame of the same depth
	// reproduces the codes exactly.
	Depth int
	Gamut Gamut
	IQ    IQMode
	// SubBlack draws a below-black ramp in the middle third of the
	// first 0% patch of the bottom row.
	SubBlack bool
	// SuperWhite draws an above-white ramp in the middle third of the
	// 100% white chip of the bottom row.
	SuperWhite bool
	Compatibility Compatibility
	// Blanking blacks out this many columns on each side, for SD
	// rasters where the digital line is wider than the active picture.
	Blanking int
}

// DefaultBarsOptions returns the options the plain factory uses.
func DefaultBarsOptions() BarsOptions {
	return BarsOptions{
		Depth:         10,
		Gamut:         GamutBT709,
		IQ:            IQNegIPosQ,
		SubBlack:      true,
		SuperWhite:    true,
		Compatibility: CompatEven,
	}
}

// ColorBars renders the static bar pattern. Output planes are YCbCr.
type ColorBars struct {
	cfg Config
	opt BarsOptions
}

// NewColorBars creates a color bars generator.
func NewColorBars(cfg Config, opt BarsOptions) (*ColorBars, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opt.Depth < 8 || opt.Depth > 16 {
		return nil, fmt.Errorf("%w: bars depth %d outside 8..16", ErrInvalidParameter, opt.Depth)
	}
	if opt.Gamut > GamutBT2020 {
		return nil, fmt.Errorf("%w: unknown gamut %d", ErrInvalidParameter, opt.Gamut)
	}
	if opt.IQ > IQWhite100 {
		return nil, fmt.Errorf("%w: unknown IQ mode %d", ErrInvalidParameter, opt.IQ)
	}
	// The I and Q chips are defined against Rec.601/709 axes only.
	if opt.Gamut == GamutBT2020 && (opt.IQ == IQNegIPosQ || opt.IQ == IQPosIBlack) {
		return nil, fmt.Errorf("%w: I/Q chips are not defined for BT.2020", ErrInvalidParameter)
	}
	if opt.Blanking < 0 || 2*opt.Blanking >= cfg.Width {
		return nil, fmt.Errorf("%w: blanking %d columns on a %d wide raster", ErrInvalidParameter, opt.Blanking, cfg.Width)
	}
	logNew(KindColorBars, cfg)
	return &ColorBars{cfg: cfg, opt: opt}, nil
}

// Channels returns 3.
func (s *ColorBars) Channels() int { return 3 }

// Kind identifies the pattern.
func (s *ColorBars) Kind() Kind { return KindColorBars }

// Config returns the generator geometry.
func (s *ColorBars) Config() Config { return s.cfg }

// ycc is one patch color: luma as a 0..1 fraction of the 0-100% range
// and chroma as signed fractions of full excursion.
type ycc struct {
	y, cb, cr float64
}

// span is one horizontal patch of a row. A nil ramp paints the flat
// color; otherwise ramp(t) supplies the color at relative position t.
type span struct {
	x0, x1 int
	col    ycc
	ramp   func(t float64) ycc
}

// rgb converts an RGB fraction triple through the gamut matrix.
func (s *ColorBars) rgb(r, g, b float64) ycc {
	kr, kb := s.opt.Gamut.lumaWeights()
	y := kr*r + (1-kr-kb)*g + kb*b
	return ycc{
		y:  y,
		cb: (b - y) / (2 * (1 - kb)),
		cr: (r - y) / (2 * (1 - kr)),
	}
}

// The -I and +Q chips sit on the NTSC I/Q axes: the UV plane rotated by
// 33 degrees, drawn at 25% amplitude with 0% luma.
const iqAngle = 33 * math.Pi / 180

func chipNegI() ycc {
	return ycc{y: 0, cb: 0.25 * math.Sin(iqAngle), cr: -0.25 * math.Cos(iqAngle)}
}

func chipPosI() ycc {
	return ycc{y: 0, cb: -0.25 * math.Sin(iqAngle), cr: 0.25 * math.Cos(iqAngle)}
}

func chipPosQ() ycc {
	return ycc{y: 0, cb: 0.25 * math.Cos(iqAngle), cr: 0.25 * math.Sin(iqAngle)}
}

// Generate computes frame n. Bars do not animate; every index yields
// the same buffer.
func (s *ColorBars) Generate(n int) (*frame.Buffer, error) {
	if err := s.cfg.checkIndex(n); err != nil {
		return nil, err
	}

	buf, err := frame.NewBuffer(s.cfg.Width, s.cfg.Height, 3)
	if err != nil {
		return nil, err
	}

	// Row boundaries at 7/12, 8/12, and 9/12 of the height.
	h := s.cfg.Height
	r1 := (7 * h) / 12
	r2 := (8 * h) / 12
	r3 := (9 * h) / 12

	black := ycc{y: 0}
	for _, band := range []struct {
		y0, y1 int
		spans  []span
	}{
		{0, r1, s.mainBars()},
		{r1, r2, s.reverseRow()},
		{r2, r3, s.rampRow()},
		{r3, h, s.plugeRow()},
	} {
		for _, sp := range band.spans {
			s.paint(buf, sp, band.y0, band.y1)
		}
	}

	// SD blanking columns override every row.
	if s.opt.Blanking > 0 {
		s.paint(buf, span{x0: 0, x1: s.opt.Blanking, col: black}, 0, h)
		s.paint(buf, span{x0: s.cfg.Width - s.opt.Blanking, x1: s.cfg.Width, col: black}, 0, h)
	}
	return buf, nil
}

// paint fills one span across the given scanline range.
func (s *ColorBars) paint(buf *frame.Buffer, sp span, y0, y1 int) {
	width := sp.x1 - sp.x0
	for x := sp.x0; x < sp.x1; x++ {
		col := sp.col
		if sp.ramp != nil && width > 1 {
			col = sp.ramp(float64(x-sp.x0) / float64(width-1))
		}
		yv := s.lumaCode(col.y)
		cb := s.chromaCode(col.cb)
		cr := s.chromaCode(col.cr)
		for y := y0; y < y1; y++ {
			buf.Plane(0).Set(y, x, yv)
			buf.Plane(1).Set(y, x, cb)
			buf.Plane(2).Set(y, x, cr)
		}
	}
}

// lumaCode maps a 0..1 luma fraction onto the normalized studio-swing
// grid of the target depth. Fractions outside 0..1 reach into the
// sub-black and super-white headroom.
func (s *ColorBars) lumaCode(y float64) float64 {
	shift := s.opt.Depth - 8
	code := float64(int(16)<<shift) + float64(int(219)<<shift)*y
	return code / float64((int(1)<<s.opt.Depth)-1)
}

// chromaCode maps a signed chroma fraction onto the normalized grid.
func (s *ColorBars) chromaCode(c float64) float64 {
	shift := s.opt.Depth - 8
	code := float64(int(128)<<shift) + float64(int(224)<<shift)*c
	return code / float64((int(1)<<s.opt.Depth)-1)
}

// edges translates cumulative width fractions of the active picture
// into sample positions, honoring the rounding compatibility mode.
func (s *ColorBars) edges(fracs []float64) []int {
	x0 := s.opt.Blanking
	active := float64(s.cfg.Width - 2*s.opt.Blanking)

	out := make([]int, len(fracs)+2)
	out[0] = x0
	for i, f := range fracs {
		pos := float64(x0) + active*f
		if s.opt.Compatibility == CompatEven {
			out[i+1] = 2 * int(math.Round(pos/2))
		} else {
			out[i+1] = int(math.Round(pos))
		}
	}
	out[len(out)-1] = s.cfg.Width - s.opt.Blanking
	return out
}

// mainBars builds the top row: 40% gray flanking seven 75% bars.
func (s *ColorBars) mainBars() []span {
	gray := s.rgb(0.4, 0.4, 0.4)
	bars := []ycc{
		s.rgb(0.75, 0.75, 0.75),
		s.rgb(0.75, 0.75, 0),
		s.rgb(0, 0.75, 0.75),
		s.rgb(0, 0.75, 0),
		s.rgb(0.75, 0, 0.75),
		s.rgb(0.75, 0, 0),
		s.rgb(0, 0, 0.75),
	}

	fracs := make([]float64, 8)
	fracs[0] = 1.0 / 8
	for i := 1; i < 8; i++ {
		fracs[i] = fracs[i-1] + 3.0/28
	}
	e := s.edges(fracs)

	spans := []span{{x0: e[0], x1: e[1], col: gray}}
	for i, col := range bars {
		spans = append(spans, span{x0: e[i+1], x1: e[i+2], col: col})
	}
	return append(spans, span{x0: e[8], x1: e[9], col: gray})
}

// reverseRow builds the second row: cyan, the upper I/Q patch, 75%
// white, blue.
func (s *ColorBars) reverseRow() []span {
	var patch ycc
	switch s.opt.IQ {
	case IQNegIPosQ:
		patch = chipNegI()
	case IQPosIBlack:
		patch = chipPosI()
	case IQWhite100:
		patch = s.rgb(1, 1, 1)
	default:
		patch = s.rgb(0.75, 0.75, 0.75)
	}

	e := s.edges([]float64{1.0 / 8, 1.0/8 + 3.0/28, 7.0 / 8})
	return []span{
		{x0: e[0], x1: e[1], col: s.rgb(0, 1, 1)},
		{x0: e[1], x1: e[2], col: patch},
		{x0: e[2], x1: e[3], col: s.rgb(0.75, 0.75, 0.75)},
		{x0: e[3], x1: e[4], col: s.rgb(0, 0, 1)},
	}
}

// rampRow builds the third row: yellow, the lower I/Q patch, a 0-100%
// luminance ramp, red.
func (s *ColorBars) rampRow() []span {
	patch := ycc{y: 0}
	if s.opt.IQ == IQNegIPosQ {
		patch = chipPosQ()
	}

	e := s.edges([]float64{1.0 / 8, 1.0/8 + 3.0/28, 7.0 / 8})
	return []span{
		{x0: e[0], x1: e[1], col: s.rgb(1, 1, 0)},
		{x0: e[1], x1: e[2], col: patch},
		{x0: e[2], x1: e[3], ramp: func(t float64) ycc { return ycc{y: t} }},
		{x0: e[3], x1: e[4], col: s.rgb(1, 0, 0)},
	}
}

// plugeRow builds the bottom row: 15% gray sides, black and 100% white
// chips, and the -2% / 0% / +2% pluge trio. SubBlack and SuperWhite
// draw their ramps in the middle thirds of the first black patch and
// the white chip.
func (s *ColorBars) plugeRow() []span {
	gray := s.rgb(0.15, 0.15, 0.15)
	black := ycc{y: 0}
	c := 3.0 / 28
	d := 1.0 / 8

	fracs := []float64{
		d,
		d + 1.5*c,
		d + 3.5*c,
		d + (3.5+5.0/6)*c,
		d + (3.5+5.0/6+1.0/3)*c,
		d + (3.5+5.0/6+2.0/3)*c,
		d + (3.5+5.0/6+1.0)*c,
		1 - d,
	}
	e := s.edges(fracs)

	firstBlack := span{x0: e[1], x1: e[2], col: black}
	if s.opt.SubBlack {
		firstBlack.ramp = middleThirdRamp(-0.02, 0)
	}
	white := span{x0: e[2], x1: e[3], col: ycc{y: 1}}
	if s.opt.SuperWhite {
		white.ramp = middleThirdRamp(1, 1.04)
	}

	return []span{
		{x0: e[0], x1: e[1], col: gray},
		firstBlack,
		white,
		{x0: e[3], x1: e[4], col: black},
		{x0: e[4], x1: e[5], col: ycc{y: -0.02}},
		{x0: e[5], x1: e[6], col: black},
		{x0: e[6], x1: e[7], col: ycc{y: 0.02}},
		{x0: e[7], x1: e[8], col: black},
		{x0: e[8], x1: e[9], col: gray},
	}
}

// middleThirdRamp sweeps luma from lo to hi across the middle third of
// a span and holds the base level elsewhere.
func middleThirdRamp(lo, hi float64) func(t float64) ycc {
	base := lo
	if lo < 0 {
		base = 0
	}
	if hi > 1 {
		base = 1
	}
	return func(t float64) ycc {
		if t < 1.0/3 || t > 2.0/3 {
			return ycc{y: base}
		}
		return ycc{y: lo + (hi-lo)*(t-1.0/3)*3}
	}
}
