// Command vssamples renders synthetic video test clips.
//
// This file implements the YAML configuration schema and the flag
// surface. A run resolves its clip description by layering three
// sources, lowest priority first: built-in defaults, the config file,
// then any flags set on the command line.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	vssamples "github.com/OpusGang/vs-samples"
	"github.com/OpusGang/vs-samples/artifact"
	"github.com/OpusGang/vs-samples/frame"
	"github.com/OpusGang/vs-samples/signal"
	"github.com/OpusGang/vs-samples/y4m"
)

// defaultConfigFile is searched in the working directory when no
// -config flag is given.
const defaultConfigFile = "vssamples.yaml"

// Config is the root of the YAML schema. Zero values defer to the
// library defaults wherever the library defines one.
type Config struct {
	// Pattern describes the generator. Ignored when Preset is set.
	Pattern PatternConfig `yaml:"pattern"`
	// Preset selects a broadcast color bars preset by name: ntsc, pal,
	// hd1080p, hd1080i, or uhd. A preset fixes geometry, format, and
	// frame rate; artifacts and motion adaptivity still apply on top.
	Preset string `yaml:"preset"`
	// Clip holds the bridge settings: output format, frame rate, field
	// order, crop, and the blur and motion toggles.
	Clip ClipConfig `yaml:"clip"`
	// Artifacts lists the degradation stages in application order.
	Artifacts []ArtifactConfig `yaml:"artifacts"`
	// Output names the render target.
	Output OutputConfig `yaml:"output"`
	// Log controls diagnostics.
	Log LogConfig `yaml:"log"`
}

// PatternConfig selects and sizes a pattern generator.
type PatternConfig struct {
	Kind   string `yaml:"kind"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Frames int    `yaml:"frames"`
	Static bool   `yaml:"static"`
	// CellSize tunes the checkerboard pattern. Zero means one sample
	// per cell.
	CellSize int `yaml:"cell_size"`
	// Bars tunes the colorbars pattern.
	Bars BarsConfig `yaml:"bars"`
}

// BarsConfig mirrors the color bars options with string enums. Empty
// strings and nil booleans keep the library defaults.
type BarsConfig struct {
	Depth         int    `yaml:"depth"`
	Gamut         string `yaml:"gamut"`
	IQ            string `yaml:"iq"`
	SubBlack      *bool  `yaml:"sub_black"`
	SuperWhite    *bool  `yaml:"super_white"`
	Compatibility string `yaml:"compatibility"`
	Blanking      int    `yaml:"blanking"`
}

// ClipConfig holds the numeric-to-frame bridge settings.
type ClipConfig struct {
	Format     string     `yaml:"format"`
	FPS        string     `yaml:"fps"`
	FieldOrder string     `yaml:"field_order"`
	Frames     int        `yaml:"frames"`
	Crop       CropConfig `yaml:"crop"`
	// HorizontalBlur band-limits each row with a 5-tap kernel.
	HorizontalBlur bool `yaml:"horizontal_blur"`
	// MotionAdaptive feeds a per-frame motion mask to the artifacts
	// that accept one.
	MotionAdaptive bool `yaml:"motion_adaptive"`
}

// CropConfig trims columns and rows from the generated buffer.
type CropConfig struct {
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
}

// ArtifactConfig describes one stage of the degradation chain. Type is
// one of jpeg, blockjpeg, or depth; the remaining fields apply to the
// types that use them.
type ArtifactConfig struct {
	Type string `yaml:"type"`
	// Quality is the JPEG quality scale for jpeg and blockjpeg.
	Quality int `yaml:"quality"`
	// Sizes is the blockjpeg transform size set, drawn from 4, 8, 16.
	// Empty means all three.
	Sizes []int `yaml:"sizes"`
	// Bits is the depth target bit depth.
	Bits      int      `yaml:"bits"`
	Dither    string   `yaml:"dither"`
	Range     string   `yaml:"range"`
	Seed      int64    `yaml:"seed"`
	Amplitude *float64 `yaml:"amplitude"`
}

// OutputConfig names the render target. Path "-" streams to stdout.
// A non-empty Snapshot switches the run to PNG export of one frame.
type OutputConfig struct {
	Path     string `yaml:"path"`
	Workers  int    `yaml:"workers"`
	Snapshot string `yaml:"snapshot"`
	Frame    int    `yaml:"frame"`
	MaxDim   int    `yaml:"max_dim"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in configuration: a short animated vortex
// clip in YUV420P8 at 24 fps.
func Default() *Config {
	return &Config{
		Pattern: PatternConfig{
			Kind:   "vortex",
			Width:  640,
			Height: 360,
			Frames: 240,
		},
		Clip: ClipConfig{
			Format: "YUV420P8",
			FPS:    "24/1",
		},
		Output: OutputConfig{
			Path: "out.y4m",
		},
	}
}

// options holds the raw flag values. applyFlags copies only the flags
// that were actually set onto the Config, so unset flags never clobber
// file values with their defaults.
type options struct {
	configPath string

	pattern string
	preset  string
	width   int
	height  int
	frames  int
	static  bool

	format     string
	fps        string
	fieldOrder string
	crop       string
	blur       bool
	motion     bool

	jpegQuality  int
	blockQuality int
	blockSizes   string
	depthBits    int
	dither       string

	out      string
	snapshot string
	frame    int
	maxDim   int
	workers  int

	preview bool
	verbose bool
}

// newFlagSet binds the command line surface to o. The set uses
// ContinueOnError so tests can parse argument slices directly.
func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("vssamples", flag.ContinueOnError)

	fs.StringVar(&o.configPath, "config", "", "YAML config `file` (default ./"+defaultConfigFile+" if present)")

	fs.StringVar(&o.pattern, "pattern", "", "pattern `kind`: horizontal-ramp, vertical-ramp, corner-ramp, circular-ramp, spiral, checkerboard, diamond, rotating-gradients, vortex, colorbars")
	fs.StringVar(&o.preset, "preset", "", "color bars `preset`: ntsc, pal, hd1080p, hd1080i, uhd (overrides pattern and clip geometry)")
	fs.IntVar(&o.width, "width", 0, "pattern width in samples")
	fs.IntVar(&o.height, "height", 0, "pattern height in samples")
	fs.IntVar(&o.frames, "frames", 0, "frame count")
	fs.BoolVar(&o.static, "static", false, "freeze animated patterns on their canonical frame")

	fs.StringVar(&o.format, "format", "", "output `format` name, such as YUV420P8 or Gray16")
	fs.StringVar(&o.fps, "fps", "", "frame `rate` as num/den or a bare integer")
	fs.StringVar(&o.fieldOrder, "field-order", "", "field `order`: progressive, tff, or bff")
	fs.StringVar(&o.crop, "crop", "", "crop as `left,right,top,bottom` samples")
	fs.BoolVar(&o.blur, "blur", false, "band-limit rows with a 5-tap horizontal blur")
	fs.BoolVar(&o.motion, "motion-adaptive", false, "drive mask-aware artifacts with a motion mask")

	fs.IntVar(&o.jpegQuality, "jpeg", 0, "add a JPEG artifact at `quality` 1-100")
	fs.IntVar(&o.blockQuality, "blockjpeg", 0, "add a block JPEG artifact at `quality` 1-100")
	fs.StringVar(&o.blockSizes, "blocks", "", "block JPEG transform `sizes`, such as 4,8,16")
	fs.IntVar(&o.depthBits, "depth", 0, "add a bit-depth reduction to `bits` 1-16")
	fs.StringVar(&o.dither, "dither", "", "depth dither `mode`: none, ordered, random, floyd-steinberg, sierra-lite, stucki, atkinson")

	fs.StringVar(&o.out, "o", "", "output `path` for the YUV4MPEG2 stream, - for stdout")
	fs.StringVar(&o.snapshot, "snapshot", "", "write one frame as a PNG to `path` instead of rendering")
	fs.IntVar(&o.frame, "frame", 0, "frame `index` for -snapshot")
	fs.IntVar(&o.maxDim, "max-dim", 0, "bound the snapshot's longer side to `n` pixels")
	fs.IntVar(&o.workers, "workers", 0, "parallel render workers, 0 for GOMAXPROCS")

	fs.BoolVar(&o.preview, "preview", false, "play the clip in the terminal instead of rendering")
	fs.BoolVar(&o.verbose, "v", false, "enable debug logging")

	return fs
}

// Load resolves the effective configuration from defaults, the config
// file, and the flags set on fs, in that priority order.
func Load(o *options, fs *flag.FlagSet) (*Config, error) {
	cfg := Default()

	path := o.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyFlags(o, fs); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges one YAML file over the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "loadFile",
		"package":  "main",
		"path":     path,
	}).Debug("loaded config file")

	return nil
}

// applyFlags overlays the flags that were set on fs. Artifact flags
// replace the configured chain wholesale, in jpeg, blockjpeg, depth
// order, so a command line always describes its chain completely.
func (c *Config) applyFlags(o *options, fs *flag.FlagSet) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["pattern"] {
		c.Pattern.Kind = o.pattern
	}
	if set["preset"] {
		c.Preset = o.preset
	}
	if set["width"] {
		c.Pattern.Width = o.width
	}
	if set["height"] {
		c.Pattern.Height = o.height
	}
	if set["frames"] {
		c.Pattern.Frames = o.frames
	}
	if set["static"] {
		c.Pattern.Static = o.static
	}

	if set["format"] {
		c.Clip.Format = o.format
	}
	if set["fps"] {
		c.Clip.FPS = o.fps
	}
	if set["field-order"] {
		c.Clip.FieldOrder = o.fieldOrder
	}
	if set["crop"] {
		cr, err := parseCrop(o.crop)
		if err != nil {
			return err
		}
		c.Clip.Crop = cr
	}
	if set["blur"] {
		c.Clip.HorizontalBlur = o.blur
	}
	if set["motion-adaptive"] {
		c.Clip.MotionAdaptive = o.motion
	}

	var chain []ArtifactConfig
	if set["jpeg"] {
		chain = append(chain, ArtifactConfig{Type: "jpeg", Quality: o.jpegQuality})
	}
	if set["blockjpeg"] {
		sizes, err := parseBlockSizes(o.blockSizes)
		if err != nil {
			return err
		}
		chain = append(chain, ArtifactConfig{Type: "blockjpeg", Quality: o.blockQuality, Sizes: sizes})
	}
	if set["depth"] {
		chain = append(chain, ArtifactConfig{Type: "depth", Bits: o.depthBits, Dither: o.dither})
	}
	if len(chain) > 0 {
		c.Artifacts = chain
	}

	if set["o"] {
		c.Output.Path = o.out
	}
	if set["snapshot"] {
		c.Output.Snapshot = o.snapshot
	}
	if set["frame"] {
		c.Output.Frame = o.frame
	}
	if set["max-dim"] {
		c.Output.MaxDim = o.maxDim
	}
	if set["workers"] {
		c.Output.Workers = o.workers
	}

	if set["v"] {
		c.Log.Verbose = o.verbose
	}
	return nil
}

// BuildClip turns the resolved configuration into a clip.
func (c *Config) BuildClip() (*vssamples.Clip, error) {
	if c.Preset != "" {
		return c.buildPreset()
	}

	src, err := c.buildSignal()
	if err != nil {
		return nil, err
	}
	settings, err := c.buildSettings()
	if err != nil {
		return nil, err
	}
	return vssamples.NewClipWithSettings(src, settings)
}

// buildPreset resolves a named preset and overlays the artifact chain
// and motion toggle. Everything else about a preset stays fixed.
func (c *Config) buildPreset() (*vssamples.Clip, error) {
	var (
		clip *vssamples.Clip
		err  error
	)
	switch c.Preset {
	case "ntsc":
		clip, err = vssamples.ColorBarsNTSC()
	case "pal":
		clip, err = vssamples.ColorBarsPAL()
	case "hd1080p":
		clip, err = vssamples.ColorBarsHD1080p()
	case "hd1080i":
		clip, err = vssamples.ColorBarsHD1080i()
	case "uhd":
		clip, err = vssamples.ColorBarsUHD()
	default:
		return nil, fmt.Errorf("unknown preset %q", c.Preset)
	}
	if err != nil {
		return nil, err
	}

	if len(c.Artifacts) == 0 && !c.Clip.MotionAdaptive {
		return clip, nil
	}

	chain, err := buildChain(c.Artifacts)
	if err != nil {
		return nil, err
	}
	settings := clip.Settings()
	settings.Artifacts = chain
	settings.MotionAdaptive = c.Clip.MotionAdaptive
	return vssamples.NewClipWithSettings(clip.Source(), settings)
}

// buildSignal constructs the pattern generator.
func (c *Config) buildSignal() (signal.Signal, error) {
	kind, err := signal.ParseKind(c.Pattern.Kind)
	if err != nil {
		return nil, err
	}

	cfg := signal.Config{
		Width:  c.Pattern.Width,
		Height: c.Pattern.Height,
		Frames: c.Pattern.Frames,
		Static: c.Pattern.Static,
	}

	switch kind {
	case signal.KindCheckerboard:
		cell := c.Pattern.CellSize
		if cell == 0 {
			cell = 1
		}
		return signal.NewCheckerboard(cfg, cell)
	case signal.KindColorBars:
		opt, err := c.Pattern.Bars.options()
		if err != nil {
			return nil, err
		}
		return signal.NewColorBars(cfg, opt)
	default:
		return signal.New(kind, cfg)
	}
}

// options maps the string enums onto bars options, starting from the
// library defaults.
func (b BarsConfig) options() (signal.BarsOptions, error) {
	opt := signal.DefaultBarsOptions()
	if b.Depth > 0 {
		opt.Depth = b.Depth
	}
	if b.Gamut != "" {
		g, err := parseGamut(b.Gamut)
		if err != nil {
			return signal.BarsOptions{}, err
		}
		opt.Gamut = g
	}
	if b.IQ != "" {
		iq, err := parseIQMode(b.IQ)
		if err != nil {
			return signal.BarsOptions{}, err
		}
		opt.IQ = iq
	}
	if b.SubBlack != nil {
		opt.SubBlack = *b.SubBlack
	}
	if b.SuperWhite != nil {
		opt.SuperWhite = *b.SuperWhite
	}
	if b.Compatibility != "" {
		compat, err := parseCompatibility(b.Compatibility)
		if err != nil {
			return signal.BarsOptions{}, err
		}
		opt.Compatibility = compat
	}
	opt.Blanking = b.Blanking
	return opt, nil
}

// buildSettings maps the clip section onto bridge settings.
func (c *Config) buildSettings() (vssamples.Settings, error) {
	var s vssamples.Settings

	if c.Clip.Format != "" {
		f, err := frame.ParseFormat(c.Clip.Format)
		if err != nil {
			return vssamples.Settings{}, err
		}
		s.Format = f
	}
	if c.Clip.FPS != "" {
		fps, err := y4m.ParseRational(c.Clip.FPS)
		if err != nil {
			return vssamples.Settings{}, err
		}
		s.FPS = fps
	}

	order, err := parseFieldOrder(c.Clip.FieldOrder)
	if err != nil {
		return vssamples.Settings{}, err
	}
	s.FieldOrder = order

	s.Frames = c.Clip.Frames
	s.Crop = vssamples.Crop{
		Left:   c.Clip.Crop.Left,
		Right:  c.Clip.Crop.Right,
		Top:    c.Clip.Crop.Top,
		Bottom: c.Clip.Crop.Bottom,
	}
	s.HorizontalBlur = c.Clip.HorizontalBlur
	s.MotionAdaptive = c.Clip.MotionAdaptive

	chain, err := buildChain(c.Artifacts)
	if err != nil {
		return vssamples.Settings{}, err
	}
	s.Artifacts = chain
	return s, nil
}

// buildChain constructs the degradation chain in listed order. An
// empty list yields a nil chain.
func buildChain(specs []ArtifactConfig) (*artifact.Chain, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	chain := artifact.NewChain()
	for i, spec := range specs {
		a, err := buildArtifact(spec)
		if err != nil {
			return nil, fmt.Errorf("artifact %d: %w", i, err)
		}
		chain.Add(a)
	}
	return chain, nil
}

// buildArtifact constructs one chain stage from its description.
func buildArtifact(spec ArtifactConfig) (artifact.Artifact, error) {
	switch spec.Type {
	case "jpeg":
		return artifact.NewJPEG(spec.Quality)

	case "blockjpeg":
		sizes := []artifact.BlockSize{artifact.Block4x4, artifact.Block8x8, artifact.Block16x16}
		if len(spec.Sizes) > 0 {
			sizes = sizes[:0]
			for _, n := range spec.Sizes {
				sizes = append(sizes, artifact.BlockSize(n))
			}
		}
		return artifact.NewBlockJPEG(spec.Quality, sizes...)

	case "depth":
		var opts []artifact.DepthOption
		if spec.Dither != "" {
			mode, err := artifact.ParseDitherMode(spec.Dither)
			if err != nil {
				return nil, err
			}
			opts = append(opts, artifact.WithDither(mode))
		}
		if spec.Range != "" {
			r, err := parseColorRange(spec.Range)
			if err != nil {
				return nil, err
			}
			opts = append(opts, artifact.WithRange(r))
		}
		if spec.Seed != 0 {
			opts = append(opts, artifact.WithSeed(spec.Seed))
		}
		if spec.Amplitude != nil {
			opts = append(opts, artifact.WithAmplitude(*spec.Amplitude))
		}
		return artifact.NewDepth(spec.Bits, opts...)

	default:
		return nil, fmt.Errorf("unknown artifact type %q", spec.Type)
	}
}

// parseFieldOrder accepts the canonical names and broadcast shorthand.
// Empty means progressive.
func parseFieldOrder(name string) (y4m.FieldOrder, error) {
	switch name {
	case "", "progressive":
		return y4m.Progressive, nil
	case "tff", "top-field-first":
		return y4m.TopFieldFirst, nil
	case "bff", "bottom-field-first":
		return y4m.BottomFieldFirst, nil
	}
	return 0, fmt.Errorf("unknown field order %q", name)
}

func parseGamut(name string) (signal.Gamut, error) {
	switch name {
	case "bt601":
		return signal.GamutBT601, nil
	case "bt709":
		return signal.GamutBT709, nil
	case "bt2020":
		return signal.GamutBT2020, nil
	}
	return 0, fmt.Errorf("unknown gamut %q", name)
}

func parseIQMode(name string) (signal.IQMode, error) {
	switch name {
	case "white75":
		return signal.IQWhite75, nil
	case "neg-i-pos-q":
		return signal.IQNegIPosQ, nil
	case "pos-i-black":
		return signal.IQPosIBlack, nil
	case "white100":
		return signal.IQWhite100, nil
	}
	return 0, fmt.Errorf("unknown IQ mode %q", name)
}

func parseCompatibility(name string) (signal.Compatibility, error) {
	switch name {
	case "ideal":
		return signal.CompatIdeal, nil
	case "even":
		return signal.CompatEven, nil
	}
	return 0, fmt.Errorf("unknown compatibility mode %q", name)
}

func parseColorRange(name string) (artifact.ColorRange, error) {
	switch name {
	case "limited":
		return artifact.RangeLimited, nil
	case "full":
		return artifact.RangeFull, nil
	}
	return 0, fmt.Errorf("unknown color range %q", name)
}

// parseBlockSizes parses a comma-separated transform size list. Empty
// means the full set.
func parseBlockSizes(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid block sizes %q", s)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// parseCrop parses "left,right,top,bottom".
func parseCrop(s string) (CropConfig, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return CropConfig{}, fmt.Errorf("invalid crop %q, want left,right,top,bottom", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return CropConfig{}, fmt.Errorf("invalid crop %q, want left,right,top,bottom", s)
		}
		vals[i] = n
	}
	return CropConfig{Left: vals[0], Right: vals[1], Top: vals[2], Bottom: vals[3]}, nil
}
