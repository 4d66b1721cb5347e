package pixel

import (
	"fmt"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/internal/colormath"
)

// Filter is a named parameterless filter applied by ApplyFilter.
type Filter string

const (
	FilterGrayscale Filter = "grayscale"
	FilterInvert    Filter = "invert"
	FilterSepia     Filter = "sepia"
)

// ApplyFilter applies a named filter. Unrecognized names return
// ErrUnknownOperation.
func ApplyFilter(img *phototune.ImageBuffer, f Filter) (*phototune.ImageBuffer, error) {
	switch f {
	case FilterGrayscale:
		return Grayscale(img)
	case FilterInvert:
		return Invert(img)
	case FilterSepia:
		return Sepia(img)
	default:
		return nil, fmt.Errorf("%w: filter %q", phototune.ErrUnknownOperation, f)
	}
}

// Grayscale converts to grayscale using BT.601 luminance weights; the
// output has R == G == B for every pixel.
func Grayscale(img *phototune.ImageBuffer) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		gray := colormath.RoundByte(colormath.Luminance(float32(r), float32(g), float32(b)))
		return gray, gray, gray
	})
	return out, nil
}

// Invert replaces every color channel with 255-c, exactly. Alpha is
// preserved, so inverting twice restores the original image byte for byte.
func Invert(img *phototune.ImageBuffer) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return 255 - r, 255 - g, 255 - b
	})
	return out, nil
}

// Sepia applies the standard sepia tone matrix.
func Sepia(img *phototune.ImageBuffer) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		fr, fg, fb := float32(r), float32(g), float32(b)
		return colormath.RoundByte(0.393*fr + 0.769*fg + 0.189*fb),
			colormath.RoundByte(0.349*fr + 0.686*fg + 0.168*fb),
			colormath.RoundByte(0.272*fr + 0.534*fg + 0.131*fb)
	})
	return out, nil
}
