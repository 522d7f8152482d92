package frame

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// ToImage converts a frame to a stdlib image for inspection and
// snapshot export. Gray formats map to image.Gray or image.Gray16, YUV
// formats to image.YCbCr at the matching subsample ratio, RGB formats
// to image.NRGBA. Samples above 8 bits are rescaled into the image
// type's range; this is presentation scaling for export, the bridge
// remains the only normalization boundary.
func ToImage(f *Frame) (image.Image, error) {
	if f == nil {
		return nil, ErrNilFrame
	}

	switch f.format.Family {
	case FamilyGray:
		return grayImage(f), nil
	case FamilyYUV:
		return ycbcrImage(f), nil
	case FamilyRGB:
		return rgbImage(f), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, f.format)
	}
}

func grayImage(f *Frame) image.Image {
	rect := image.Rect(0, 0, f.width, f.height)

	if f.format.Sample == SampleInteger && f.format.Bits == 8 {
		img := image.NewGray(rect)
		for y := 0; y < f.height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+f.width], f.planes[0][y*f.strides[0]:])
		}
		return img
	}

	img := image.NewGray16(rect)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: gray16At(f, x, y)})
		}
	}
	return img
}

func gray16At(f *Frame, x, y int) uint16 {
	if f.format.Sample == SampleFloat {
		return uint16(math.Round(clamp01(float64(f.Float32At(0, x, y))) * 65535))
	}
	maxVal := f.format.MaxValue()
	return uint16((int(f.Uint16At(0, x, y))*65535 + maxVal/2) / maxVal)
}

func ycbcrImage(f *Frame) image.Image {
	var ratio image.YCbCrSubsampleRatio
	switch {
	case f.format.SubsampleW == 1 && f.format.SubsampleH == 1:
		ratio = image.YCbCrSubsampleRatio420
	case f.format.SubsampleW == 1:
		ratio = image.YCbCrSubsampleRatio422
	default:
		ratio = image.YCbCrSubsampleRatio444
	}

	img := image.NewYCbCr(image.Rect(0, 0, f.width, f.height), ratio)
	planes := [][]uint8{img.Y, img.Cb, img.Cr}
	strides := []int{img.YStride, img.CStride, img.CStride}

	for p := 0; p < 3; p++ {
		pw, ph := f.PlaneDims(p)
		for y := 0; y < ph; y++ {
			for x := 0; x < pw; x++ {
				planes[p][y*strides[p]+x] = sample8(f, p, x, y)
			}
		}
	}
	return img
}

func rgbImage(f *Frame) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			i := y*img.Stride + x*4
			img.Pix[i+0] = sample8(f, 0, x, y)
			img.Pix[i+1] = sample8(f, 1, x, y)
			img.Pix[i+2] = sample8(f, 2, x, y)
			img.Pix[i+3] = 255
		}
	}
	return img
}

// sample8 reduces one sample to the 8-bit export range.
func sample8(f *Frame, p, x, y int) uint8 {
	if f.format.Sample == SampleFloat {
		v := float64(f.Float32At(p, x, y))
		if f.format.IsChroma(p) {
			v += 0.5
		}
		return uint8(math.Round(clamp01(v) * 255))
	}
	maxVal := f.format.MaxValue()
	return uint8((int(f.Uint16At(p, x, y))*255 + maxVal/2) / maxVal)
}

// FromImage converts a decoded image into a host frame, inverting the
// ToImage mappings: image.Gray becomes Gray8, image.Gray16 becomes
// Gray16, image.YCbCr becomes the 8-bit YUV format at its subsample
// ratio, image.NRGBA becomes RGB24. Any other image type is read through
// the NRGBA color model into RGB24. YCbCr ratios other than 4:2:0,
// 4:2:2, and 4:4:4 are rejected, as are subsampled images whose
// dimensions do not divide evenly.
func FromImage(img image.Image) (*Frame, error) {
	if img == nil {
		return nil, ErrNilImage
	}

	switch src := img.(type) {
	case *image.Gray:
		return fromGray(src)
	case *image.Gray16:
		return fromGray16(src)
	case *image.YCbCr:
		return fromYCbCr(src)
	case *image.NRGBA:
		return fromNRGBA(src)
	default:
		return fromGeneric(img)
	}
}

func fromGray(src *image.Gray) (*Frame, error) {
	b := src.Bounds()
	f, err := NewFrame(b.Dx(), b.Dy(), Gray8)
	if err != nil {
		return nil, err
	}
	for y := 0; y < f.height; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(f.planes[0][y*f.strides[0]:y*f.strides[0]+f.width], row[:f.width])
	}
	return f, nil
}

func fromGray16(src *image.Gray16) (*Frame, error) {
	b := src.Bounds()
	f, err := NewFrame(b.Dx(), b.Dy(), Gray16)
	if err != nil {
		return nil, err
	}
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			f.SetUint16(0, x, y, src.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return f, nil
}

func fromYCbCr(src *image.YCbCr) (*Frame, error) {
	var format Format
	switch src.SubsampleRatio {
	case image.YCbCrSubsampleRatio420:
		format = YUV420P8
	case image.YCbCrSubsampleRatio422:
		format = YUV422P8
	case image.YCbCrSubsampleRatio444:
		format = YUV444P8
	default:
		return nil, fmt.Errorf("%w: YCbCr ratio %v", ErrInvalidFormat, src.SubsampleRatio)
	}

	b := src.Bounds()
	f, err := NewFrame(b.Dx(), b.Dy(), format)
	if err != nil {
		return nil, err
	}
	for y := 0; y < f.height; y++ {
		row := src.Y[src.YOffset(b.Min.X, b.Min.Y+y):]
		copy(f.planes[0][y*f.strides[0]:y*f.strides[0]+f.width], row[:f.width])
	}
	cw, ch := f.PlaneDims(1)
	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			off := src.COffset(b.Min.X+(cx<<format.SubsampleW), b.Min.Y+(cy<<format.SubsampleH))
			f.planes[1][cy*f.strides[1]+cx] = src.Cb[off]
			f.planes[2][cy*f.strides[2]+cx] = src.Cr[off]
		}
	}
	return f, nil
}

func fromNRGBA(src *image.NRGBA) (*Frame, error) {
	b := src.Bounds()
	f, err := NewFrame(b.Dx(), b.Dy(), RGB24)
	if err != nil {
		return nil, err
	}
	for y := 0; y < f.height; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < f.width; x++ {
			f.planes[0][y*f.strides[0]+x] = row[x*4+0]
			f.planes[1][y*f.strides[1]+x] = row[x*4+1]
			f.planes[2][y*f.strides[2]+x] = row[x*4+2]
		}
	}
	return f, nil
}

func fromGeneric(img image.Image) (*Frame, error) {
	b := img.Bounds()
	f, err := NewFrame(b.Dx(), b.Dy(), RGB24)
	if err != nil {
		return nil, err
	}
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			f.planes[0][y*f.strides[0]+x] = c.R
			f.planes[1][y*f.strides[1]+x] = c.G
			f.planes[2][y*f.strides[2]+x] = c.B
		}
	}
	return f, nil
}
