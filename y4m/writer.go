// Package y4m writes YUV4MPEG2 streams, the uncompressed interchange
// format most video tools accept on stdin. A Writer emits the stream
// header once, then one FRAME section of packed planes per frame.
// Samples wider than 8 bits are little-endian, matching the p10/p12/p16
// colorspace tags.
package y4m

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OpusGang/vs-samples/frame"
)

// Rational is an exact frame rate as a ratio, such as 30000/1001.
type Rational struct {
	Num int
	Den int
}

// String formats the rational as "num/den".
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// FrameDuration returns the wall-clock duration of one frame.
func (r Rational) FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) * float64(r.Den) / float64(r.Num))
}

// ParseRational parses "num/den" or a bare integer frame rate.
func ParseRational(s string) (Rational, error) {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Rational{}, fmt.Errorf("%w: frame rate %q", ErrInvalidHeader, s)
	}
	d := 1
	if found {
		d, err = strconv.Atoi(strings.TrimSpace(den))
		if err != nil {
			return Rational{}, fmt.Errorf("%w: frame rate %q", ErrInvalidHeader, s)
		}
	}
	if n <= 0 || d <= 0 {
		return Rational{}, fmt.Errorf("%w: frame rate %q", ErrInvalidHeader, s)
	}
	return Rational{Num: n, Den: d}, nil
}

// FieldOrder is the interlacing of the stream, written as the I tag.
type FieldOrder uint8

const (
	Progressive FieldOrder = iota
	TopFieldFirst
	BottomFieldFirst
)

// String returns the field order name.
func (o FieldOrder) String() string {
	switch o {
	case TopFieldFirst:
		return "top-field-first"
	case BottomFieldFirst:
		return "bottom-field-first"
	default:
		return "progressive"
	}
}

// tag returns the I tag letter.
func (o FieldOrder) tag() byte {
	switch o {
	case TopFieldFirst:
		return 't'
	case BottomFieldFirst:
		return 'b'
	default:
		return 'p'
	}
}

// Header fixes the stream geometry. Every frame written must match it.
type Header struct {
	Width      int
	Height     int
	FPS        Rational
	FieldOrder FieldOrder
	Format     frame.Format
}

// colorspaceTag maps a format onto the C tag, or reports that y4m
// cannot carry it. Only integer Gray and YUV layouts at the tagged bit
// depths fit the container.
func colorspaceTag(f frame.Format) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	if f.Sample != frame.SampleInteger {
		return "", fmt.Errorf("%w: float samples", ErrUnsupportedFormat)
	}

	var suffix string
	switch f.Bits {
	case 8:
		suffix = ""
	case 10:
		suffix = "p10"
	case 12:
		suffix = "p12"
	case 16:
		suffix = "p16"
	default:
		return "", fmt.Errorf("%w: %d-bit samples have no colorspace tag", ErrUnsupportedFormat, f.Bits)
	}

	switch f.Family {
	case frame.FamilyGray:
		return "mono" + strings.TrimPrefix(suffix, "p"), nil
	case frame.FamilyYUV:
		switch {
		case f.SubsampleW == 1 && f.SubsampleH == 1:
			return "420" + suffix, nil
		case f.SubsampleW == 1 && f.SubsampleH == 0:
			return "422" + suffix, nil
		case f.SubsampleW == 0 && f.SubsampleH == 0:
			return "444" + suffix, nil
		default:
			return "", fmt.Errorf("%w: subsampling %d,%d", ErrUnsupportedFormat, f.SubsampleW, f.SubsampleH)
		}
	default:
		return "", fmt.Errorf("%w: %s planes", ErrUnsupportedFormat, f.Family)
	}
}

// Writer emits one YUV4MPEG2 stream. Create it with NewWriter, which
// writes the stream header, then call WriteFrame once per frame in
// presentation order.
type Writer struct {
	w      io.Writer
	header Header
	frames int
}

// NewWriter validates the header, writes it to w, and returns a Writer
// for the frame sections.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	if h.Width <= 0 || h.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidHeader, h.Width, h.Height)
	}
	if h.FPS.Num <= 0 || h.FPS.Den <= 0 {
		return nil, fmt.Errorf("%w: frame rate %s", ErrInvalidHeader, h.FPS)
	}
	if h.FieldOrder > BottomFieldFirst {
		return nil, fmt.Errorf("%w: field order %d", ErrInvalidHeader, h.FieldOrder)
	}

	tag, err := colorspaceTag(h.Format)
	if err != nil {
		return nil, err
	}
	if h.Format.Family == frame.FamilyYUV {
		if h.Width%(1<<h.Format.SubsampleW) != 0 || h.Height%(1<<h.Format.SubsampleH) != 0 {
			return nil, fmt.Errorf("%w: %dx%d not aligned for C%s", ErrInvalidHeader, h.Width, h.Height, tag)
		}
	}

	_, err = fmt.Fprintf(w, "YUV4MPEG2 W%d H%d F%d:%d I%c A0:0 C%s\n",
		h.Width, h.Height, h.FPS.Num, h.FPS.Den, h.FieldOrder.tag(), tag)
	if err != nil {
		return nil, fmt.Errorf("write stream header: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewWriter",
		"package":    "y4m",
		"width":      h.Width,
		"height":     h.Height,
		"fps":        h.FPS.String(),
		"colorspace": tag,
	}).Debug("started y4m stream")

	return &Writer{w: w, header: h}, nil
}

// Header returns the stream header.
func (wr *Writer) Header() Header {
	return wr.header
}

// Frames returns the number of frames written so far.
func (wr *Writer) Frames() int {
	return wr.frames
}

// WriteFrame appends one frame section. The frame must match the stream
// header exactly.
func (wr *Writer) WriteFrame(f *frame.Frame) error {
	if f == nil {
		return ErrNilFrame
	}
	if f.Format() != wr.header.Format {
		return fmt.Errorf("%w: frame format %s, stream %s", ErrFrameMismatch, f.Format(), wr.header.Format)
	}
	if f.Width() != wr.header.Width || f.Height() != wr.header.Height {
		return fmt.Errorf("%w: frame %dx%d, stream %dx%d",
			ErrFrameMismatch, f.Width(), f.Height(), wr.header.Width, wr.header.Height)
	}

	if _, err := io.WriteString(wr.w, "FRAME\n"); err != nil {
		return fmt.Errorf("write frame marker: %w", err)
	}
	for i := 0; i < f.NumPlanes(); i++ {
		if _, err := wr.w.Write(f.Plane(i)); err != nil {
			return fmt.Errorf("write plane %d: %w", i, err)
		}
	}
	wr.frames++
	return nil
}
