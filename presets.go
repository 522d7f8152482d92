// Package vssamples assembles synthetic test clips.
//
// This file implements the color bars presets: broadcast rasters with
// their frame rates, field orders, gamuts, and SD blanking handled, all
// delivered as 10-bit 4:2:2 streams with the bandwidth blur applied.
package vssamples

import (
	"github.com/OpusGang/vs-samples/frame"
	"github.com/OpusGang/vs-samples/signal"
	"github.com/OpusGang/vs-samples/y4m"
)

// presetSeconds is the duration of every bars preset.
const presetSeconds = 60

// ColorBarsNTSC returns 60 seconds of SMPTE bars on the 525-line
// raster: 720x486 with 4 blanking columns per side painted and then
// cropped away, 30000/1001 fps, bottom field first, BT.601 matrix.
func ColorBarsNTSC() (*Clip, error) {
	opt := signal.BarsOptions{
		Depth:         10,
		Gamut:         signal.GamutBT601,
		IQ:            signal.IQNegIPosQ,
		SubBlack:      true,
		SuperWhite:    true,
		Compatibility: signal.CompatIdeal,
		Blanking:      4,
	}
	return barsClip(720, 486, opt,
		y4m.Rational{Num: 30000, Den: 1001},
		y4m.BottomFieldFirst,
		Crop{Left: 4, Right: 4})
}

// ColorBarsPAL returns 60 seconds of bars on the 625-line raster:
// 720x576, 25 fps, top field first, BT.601 matrix.
func ColorBarsPAL() (*Clip, error) {
	opt := signal.BarsOptions{
		Depth:         10,
		Gamut:         signal.GamutBT601,
		IQ:            signal.IQNegIPosQ,
		SubBlack:      true,
		SuperWhite:    true,
		Compatibility: signal.CompatIdeal,
	}
	return barsClip(720, 576, opt,
		y4m.Rational{Num: 25, Den: 1},
		y4m.TopFieldFirst,
		Crop{})
}

// ColorBarsHD1080p returns 60 seconds of progressive 1920x1080 bars at
// 24000/1001 fps, BT.709 matrix, bar edges rounded to even samples.
func ColorBarsHD1080p() (*Clip, error) {
	return barsClip(1920, 1080, hdBarsOptions(),
		y4m.Rational{Num: 24000, Den: 1001},
		y4m.Progressive,
		Crop{})
}

// ColorBarsHD1080i returns 60 seconds of interlaced 1920x1080 bars at
// 30000/1001 fps, top field first, BT.709 matrix.
func ColorBarsHD1080i() (*Clip, error) {
	return barsClip(1920, 1080, hdBarsOptions(),
		y4m.Rational{Num: 30000, Den: 1001},
		y4m.TopFieldFirst,
		Crop{})
}

// ColorBarsUHD returns 60 seconds of progressive 3840x2160 bars at
// 60000/1001 fps on the BT.2020 matrix. The I/Q chips are undefined in
// BT.2020, so the middle rows carry 75% white over 0% black instead.
func ColorBarsUHD() (*Clip, error) {
	opt := hdBarsOptions()
	opt.Gamut = signal.GamutBT2020
	opt.IQ = signal.IQWhite75
	return barsClip(3840, 2160, opt,
		y4m.Rational{Num: 60000, Den: 1001},
		y4m.Progressive,
		Crop{})
}

// hdBarsOptions returns the options shared by the HD and UHD presets.
func hdBarsOptions() signal.BarsOptions {
	return signal.BarsOptions{
		Depth:         10,
		Gamut:         signal.GamutBT709,
		IQ:            signal.IQNegIPosQ,
		SubBlack:      true,
		SuperWhite:    true,
		Compatibility: signal.CompatEven,
	}
}

// barsClip assembles one preset: a static bars source spanning the full
// clip length, bridged to 10-bit 4:2:2 with the bandwidth blur on.
func barsClip(w, h int, opt signal.BarsOptions, fps y4m.Rational, fo y4m.FieldOrder, cr Crop) (*Clip, error) {
	frames := presetSeconds * fps.Num / fps.Den
	src, err := signal.NewColorBars(signal.Config{
		Width:  w,
		Height: h,
		Frames: frames,
		Static: true,
	}, opt)
	if err != nil {
		return nil, err
	}
	return NewClipWithSettings(src, Settings{
		Format:         frame.YUV422P10,
		FPS:            fps,
		FieldOrder:     fo,
		Frames:         frames,
		Crop:           cr,
		HorizontalBlur: true,
	})
}
