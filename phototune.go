// Package phototune provides photographic image adjustments with two
// interchangeable engines: a CPU pixel engine (package pixel) and a GPU
// compute engine (package gpu). Both consume the same parameter types
// defined here and produce equivalent RGBA output.
//
// The package itself holds only the boundary types exchanged between the
// engines and their callers: ImageBuffer, the adjustment parameter structs,
// Histogram, and the error taxonomy.
package phototune

import (
	"fmt"
	"image"
	"image/color"
)

// ImageBuffer is a raw RGBA8 pixel buffer.
//
// Pixels are row-major with a top-left origin, 4 bytes per pixel, alpha not
// premultiplied. The invariant len(Pix) == Width*Height*4 holds for every
// buffer produced by this module.
type ImageBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImageBuffer allocates a zeroed buffer with the given dimensions.
// Returns ErrInvalidParameters if either dimension is not positive.
func NewImageBuffer(width, height int) (*ImageBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameters, width, height)
	}
	return &ImageBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// FromPix wraps existing pixel data without copying.
// Returns ErrInvalidParameters if len(pix) != width*height*4.
func FromPix(pix []uint8, width, height int) (*ImageBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameters, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: pixel data length %d, want %d",
			ErrInvalidParameters, len(pix), width*height*4)
	}
	return &ImageBuffer{Width: width, Height: height, Pix: pix}, nil
}

// Validate checks the buffer invariant. Engines call this at their entry
// points so a malformed buffer is reported instead of causing a bounds panic.
func (b *ImageBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil image buffer", ErrInvalidParameters)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameters, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("%w: pixel data length %d, want %d",
			ErrInvalidParameters, len(b.Pix), b.Width*b.Height*4)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *ImageBuffer) Clone() *ImageBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &ImageBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// At returns the RGBA bytes of the pixel at (x, y).
// Out-of-bounds coordinates return a zero pixel.
func (b *ImageBuffer) At(x, y int) (r, g, bl, a uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return 0, 0, 0, 0
	}
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes the RGBA bytes of the pixel at (x, y).
// Out-of-bounds coordinates are ignored.
func (b *ImageBuffer) Set(x, y int, r, g, bl, a uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = r, g, bl, a
}

// ToImage converts the buffer to a standard library image.RGBA.
func (b *ImageBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// FromImage converts any image.Image into an ImageBuffer.
// The fast path copies *image.RGBA data directly.
func FromImage(img image.Image) *ImageBuffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	buf := &ImageBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 {
		copy(buf.Pix, rgba.Pix)
		return buf
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			i := (y*width + x) * 4
			buf.Pix[i+0] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
			buf.Pix[i+3] = c.A
		}
	}
	return buf
}

// Histogram holds fixed 256-bin counts for the red, green and blue channels
// plus perceptual luminance. Each channel sums to Width*Height of the
// source image.
type Histogram struct {
	R   [256]uint32 `json:"r"`
	G   [256]uint32 `json:"g"`
	B   [256]uint32 `json:"b"`
	Lum [256]uint32 `json:"lum"`
}
