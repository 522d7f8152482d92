package vssamples

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/OpusGang/vs-samples/frame"
)

// Snapshot renders frame n and converts it to a stdlib image for
// inspection. High bit depths are rescaled into the image type's range;
// see frame.ToImage.
func (c *Clip) Snapshot(n int) (image.Image, error) {
	f, err := c.Frame(n)
	if err != nil {
		return nil, err
	}
	return frame.ToImage(f)
}

// SavePNG writes frame n to path as a PNG. A positive maxDim bounds the
// longer image side, downscaling with a Lanczos filter when the frame
// exceeds it; zero keeps the native size.
func (c *Clip) SavePNG(n int, path string, maxDim int) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return fmt.Errorf("%w: snapshot path %q needs a .png extension", ErrInvalidSettings, path)
	}

	img, err := c.Snapshot(n)
	if err != nil {
		return err
	}
	if maxDim > 0 {
		b := img.Bounds()
		if b.Dx() > maxDim || b.Dy() > maxDim {
			img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		}
	}
	return imaging.Save(img, path)
}
