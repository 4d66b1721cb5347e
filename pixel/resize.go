package pixel

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gopixel/phototune"
)

// Scale resamples the image to width x height with Catmull-Rom
// interpolation. Matching dimensions return the input buffer unchanged.
func Scale(img *phototune.ImageBuffer, width, height int) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: scale target %dx%d", phototune.ErrInvalidParameters, width, height)
	}
	if width == img.Width && height == img.Height {
		return img, nil
	}

	src := img.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return phototune.FromImage(dst), nil
}

// FitWithin scales the image down so both dimensions fit within maxSize,
// preserving aspect ratio. Images already small enough are returned
// unchanged.
func FitWithin(img *phototune.ImageBuffer, maxSize int) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: max size %d", phototune.ErrInvalidParameters, maxSize)
	}
	if img.Width <= maxSize && img.Height <= maxSize {
		return img, nil
	}

	w, h := img.Width, img.Height
	if w >= h {
		h = h * maxSize / w
		w = maxSize
	} else {
		w = w * maxSize / h
		h = maxSize
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Scale(img, w, h)
}
