package frame

import "fmt"

// Family identifies the color model of a pixel format.
type Family uint8

const (
	// FamilyGray holds a single luminance plane.
	FamilyGray Family = iota
	// FamilyYUV holds luma plus two chroma planes, optionally subsampled.
	FamilyYUV
	// FamilyRGB holds three full-resolution color planes.
	FamilyRGB
)

// String returns the family name.
func (fam Family) String() string {
	switch fam {
	case FamilyGray:
		return "Gray"
	case FamilyYUV:
		return "YUV"
	case FamilyRGB:
		return "RGB"
	default:
		return fmt.Sprintf("Family(%d)", uint8(fam))
	}
}

// Sample identifies the storage type of individual samples.
type Sample uint8

const (
	// SampleInteger stores samples as unsigned integers of Format.Bits width.
	SampleInteger Sample = iota
	// SampleFloat stores samples as 32-bit floats.
	SampleFloat
)

// Format describes the memory representation of a host frame: color
// family, sample type and depth, and chroma subsampling. Formats are
// plain values; the zero value is not valid, use a preset or construct
// all fields and call Validate.
type Format struct {
	Family Family
	// Bits is the significant bit depth per sample: 8..16 for integer
	// samples, 32 for float samples.
	Bits   int
	Sample Sample
	// SubsampleW and SubsampleH are log2 chroma subsampling factors.
	// Only YUV formats may subsample: 4:2:0 is (1,1), 4:2:2 is (1,0).
	SubsampleW int
	SubsampleH int
}

// Format presets covering the layouts the generators drive hosts with.
var (
	Gray8     = Format{Family: FamilyGray, Bits: 8, Sample: SampleInteger}
	Gray10    = Format{Family: FamilyGray, Bits: 10, Sample: SampleInteger}
	Gray12    = Format{Family: FamilyGray, Bits: 12, Sample: SampleInteger}
	Gray16    = Format{Family: FamilyGray, Bits: 16, Sample: SampleInteger}
	GrayFloat = Format{Family: FamilyGray, Bits: 32, Sample: SampleFloat}

	YUV420P8  = Format{Family: FamilyYUV, Bits: 8, Sample: SampleInteger, SubsampleW: 1, SubsampleH: 1}
	YUV420P10 = Format{Family: FamilyYUV, Bits: 10, Sample: SampleInteger, SubsampleW: 1, SubsampleH: 1}
	YUV420P12 = Format{Family: FamilyYUV, Bits: 12, Sample: SampleInteger, SubsampleW: 1, SubsampleH: 1}
	YUV422P8  = Format{Family: FamilyYUV, Bits: 8, Sample: SampleInteger, SubsampleW: 1}
	YUV422P10 = Format{Family: FamilyYUV, Bits: 10, Sample: SampleInteger, SubsampleW: 1}
	YUV422P12 = Format{Family: FamilyYUV, Bits: 12, Sample: SampleInteger, SubsampleW: 1}
	YUV444P8  = Format{Family: FamilyYUV, Bits: 8, Sample: SampleInteger}
	YUV444P10 = Format{Family: FamilyYUV, Bits: 10, Sample: SampleInteger}
	YUV444P12 = Format{Family: FamilyYUV, Bits: 12, Sample: SampleInteger}
	YUV444P16 = Format{Family: FamilyYUV, Bits: 16, Sample: SampleInteger}
	YUV444PF  = Format{Family: FamilyYUV, Bits: 32, Sample: SampleFloat}

	RGB24    = Format{Family: FamilyRGB, Bits: 8, Sample: SampleInteger}
	RGB30    = Format{Family: FamilyRGB, Bits: 10, Sample: SampleInteger}
	RGB36    = Format{Family: FamilyRGB, Bits: 12, Sample: SampleInteger}
	RGBFloat = Format{Family: FamilyRGB, Bits: 32, Sample: SampleFloat}
)

// formatNames maps canonical names to presets. The set of named formats
// is closed; callers needing other combinations construct Format values
// directly.
var formatNames = map[string]Format{
	"Gray8":     Gray8,
	"Gray10":    Gray10,
	"Gray12":    Gray12,
	"Gray16":    Gray16,
	"GrayFloat": GrayFloat,
	"YUV420P8":  YUV420P8,
	"YUV420P10": YUV420P10,
	"YUV420P12": YUV420P12,
	"YUV422P8":  YUV422P8,
	"YUV422P10": YUV422P10,
	"YUV422P12": YUV422P12,
	"YUV444P8":  YUV444P8,
	"YUV444P10": YUV444P10,
	"YUV444P12": YUV444P12,
	"YUV444P16": YUV444P16,
	"YUV444PF":  YUV444PF,
	"RGB24":     RGB24,
	"RGB30":     RGB30,
	"RGB36":     RGB36,
	"RGBFloat":  RGBFloat,
}

// ParseFormat resolves a canonical format name such as "YUV420P10".
func ParseFormat(name string) (Format, error) {
	f, ok := formatNames[name]
	if !ok {
		return Format{}, fmt.Errorf("%w: unknown format name %q", ErrInvalidFormat, name)
	}
	return f, nil
}

// String returns the canonical name for preset formats and a descriptive
// form for everything else.
func (f Format) String() string {
	for name, preset := range formatNames {
		if f == preset {
			return name
		}
	}
	return fmt.Sprintf("%s/%dbit/ss%d%d", f.Family, f.Bits, f.SubsampleW, f.SubsampleH)
}

// Validate reports whether the format is internally consistent.
func (f Format) Validate() error {
	switch f.Family {
	case FamilyGray, FamilyYUV, FamilyRGB:
	default:
		return fmt.Errorf("%w: unknown family %d", ErrInvalidFormat, f.Family)
	}

	switch f.Sample {
	case SampleInteger:
		if f.Bits < 8 || f.Bits > 16 {
			return fmt.Errorf("%w: integer bit depth %d outside 8..16", ErrInvalidFormat, f.Bits)
		}
	case SampleFloat:
		if f.Bits != 32 {
			return fmt.Errorf("%w: float formats are 32-bit, got %d", ErrInvalidFormat, f.Bits)
		}
	default:
		return fmt.Errorf("%w: unknown sample type %d", ErrInvalidFormat, f.Sample)
	}

	if f.SubsampleW < 0 || f.SubsampleW > 1 || f.SubsampleH < 0 || f.SubsampleH > 1 {
		return fmt.Errorf("%w: subsampling factors %d,%d outside 0..1", ErrInvalidFormat, f.SubsampleW, f.SubsampleH)
	}
	if f.Family != FamilyYUV && (f.SubsampleW != 0 || f.SubsampleH != 0) {
		return fmt.Errorf("%w: %s formats cannot subsample chroma", ErrInvalidFormat, f.Family)
	}
	return nil
}

// Planes returns the number of planes the format stores.
func (f Format) Planes() int {
	if f.Family == FamilyGray {
		return 1
	}
	return 3
}

// BytesPerSample returns the storage width of one sample.
func (f Format) BytesPerSample() int {
	if f.Sample == SampleFloat {
		return 4
	}
	if f.Bits > 8 {
		return 2
	}
	return 1
}

// MaxValue returns the largest integer code the format can store.
// Meaningless for float formats, which are normalized.
func (f Format) MaxValue() int {
	return (1 << f.Bits) - 1
}

// NeutralChroma returns the code meaning "no color" on chroma planes:
// the mid-range code for integer formats, 0.0 for float formats.
func (f Format) NeutralChroma() float64 {
	if f.Sample == SampleFloat {
		return 0.0
	}
	return float64(int(1) << (f.Bits - 1))
}

// PlaneDims returns the sample dimensions of one plane for a frame of
// the given luma dimensions.
func (f Format) PlaneDims(plane, width, height int) (int, int) {
	if f.Family == FamilyYUV && plane > 0 {
		return width >> f.SubsampleW, height >> f.SubsampleH
	}
	return width, height
}

// IsChroma reports whether the given plane carries color difference
// samples, which center on the neutral value rather than zero.
func (f Format) IsChroma(plane int) bool {
	return f.Family == FamilyYUV && plane > 0
}
