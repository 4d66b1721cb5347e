package pixel

import (
	"fmt"

	"github.com/gopixel/phototune"
)

// Rotation is a quarter-turn rotation angle.
type Rotation int

const (
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Rotate rotates the image clockwise by a quarter-turn multiple. 90 and
// 270 degree rotations swap width and height. The remapping is an exact
// index permutation; no interpolation is involved.
func Rotate(img *phototune.ImageBuffer, angle Rotation) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	w, h := img.Width, img.Height

	switch angle {
	case Rotate90:
		out := &phototune.ImageBuffer{Width: h, Height: w, Pix: make([]uint8, len(img.Pix))}
		forEachRowBand(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					// (x, y) -> (h-1-y, x) in the rotated image.
					copyPixel(out, img, h-1-y, x, x, y)
				}
			}
		})
		return out, nil

	case Rotate180:
		out := &phototune.ImageBuffer{Width: w, Height: h, Pix: make([]uint8, len(img.Pix))}
		forEachRowBand(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					copyPixel(out, img, w-1-x, h-1-y, x, y)
				}
			}
		})
		return out, nil

	case Rotate270:
		out := &phototune.ImageBuffer{Width: h, Height: w, Pix: make([]uint8, len(img.Pix))}
		forEachRowBand(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					copyPixel(out, img, y, w-1-x, x, y)
				}
			}
		})
		return out, nil

	default:
		return nil, fmt.Errorf("%w: rotation angle %d", phototune.ErrInvalidParameters, angle)
	}
}

// FlipHorizontal mirrors the image across its vertical axis.
func FlipHorizontal(img *phototune.ImageBuffer) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	w, h := img.Width, img.Height
	out := &phototune.ImageBuffer{Width: w, Height: h, Pix: make([]uint8, len(img.Pix))}
	forEachRowBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				copyPixel(out, img, w-1-x, y, x, y)
			}
		}
	})
	return out, nil
}

// FlipVertical mirrors the image across its horizontal axis by reversing
// row order.
func FlipVertical(img *phototune.ImageBuffer) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	w, h := img.Width, img.Height
	rowBytes := w * 4
	out := &phototune.ImageBuffer{Width: w, Height: h, Pix: make([]uint8, len(img.Pix))}
	forEachRowBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			src := img.Pix[y*rowBytes : (y+1)*rowBytes]
			dst := out.Pix[(h-1-y)*rowBytes : (h-y)*rowBytes]
			copy(dst, src)
		}
	})
	return out, nil
}

// copyPixel copies the 4 bytes of src pixel (sx, sy) to dst pixel (dx, dy).
// Both buffers must be valid; no bounds checks.
func copyPixel(dst, src *phototune.ImageBuffer, dx, dy, sx, sy int) {
	di := (dy*dst.Width + dx) * 4
	si := (sy*src.Width + sx) * 4
	dst.Pix[di+0] = src.Pix[si+0]
	dst.Pix[di+1] = src.Pix[si+1]
	dst.Pix[di+2] = src.Pix[si+2]
	dst.Pix[di+3] = src.Pix[si+3]
}
