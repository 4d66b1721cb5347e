package pixel

import (
	"sync"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/internal/colormath"
	"github.com/gopixel/phototune/internal/kernel"
)

// GaussianBlur applies a separable Gaussian blur: one horizontal and one
// vertical 1D pass, equivalent to the full 2D kernel at O(w*h*k) cost
// instead of O(w*h*k²).
//
// radius <= 0 is the documented no-op and returns the input buffer itself.
func GaussianBlur(img *phototune.ImageBuffer, radius float64) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	k := kernel.CachedGaussian(radius)
	if k == nil {
		return img, nil
	}

	out := &phototune.ImageBuffer{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]uint8, len(img.Pix)),
	}
	convolveSeparable(img, out, k)
	return out, nil
}

// UnsharpMask sharpens by amplifying the difference between the image and
// a Gaussian-blurred copy: out = orig + amount*(orig - blurred). Pixels
// whose difference is below p.Threshold are left untouched, which keeps
// noise in flat areas from being amplified.
func UnsharpMask(img *phototune.ImageBuffer, p phototune.Sharpen) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	amount := colormath.Clamp(float32(p.Amount), 0, 100) / 100
	threshold := colormath.Clamp255(float32(p.Threshold))
	radius := p.Radius
	if radius <= 0 {
		radius = 1
	}
	if amount == 0 {
		return img.Clone(), nil
	}

	blurred, err := GaussianBlur(img, radius)
	if err != nil {
		return nil, err
	}

	out := &phototune.ImageBuffer{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]uint8, len(img.Pix)),
	}
	forEachRowBand(img.Height, func(y0, y1 int) {
		for i := y0 * img.Width * 4; i < y1*img.Width*4; i += 4 {
			for c := 0; c < 3; c++ {
				orig := float32(img.Pix[i+c])
				diff := orig - float32(blurred.Pix[i+c])
				if abs32(diff) < threshold {
					out.Pix[i+c] = img.Pix[i+c]
					continue
				}
				out.Pix[i+c] = colormath.RoundByte(orig + amount*diff)
			}
			out.Pix[i+3] = img.Pix[i+3]
		}
	})
	return out, nil
}

// scratchPool recycles the float32 intermediate used between the two
// convolution passes. Blur is the hottest allocation site in the engine.
var scratchPool = sync.Pool{
	New: func() any { return &scratchBuffer{} },
}

type scratchBuffer struct {
	data []float32
}

func getScratch(n int) *scratchBuffer {
	s := scratchPool.Get().(*scratchBuffer)
	if cap(s.data) < n {
		s.data = make([]float32, n)
	}
	s.data = s.data[:n]
	return s
}

func putScratch(s *scratchBuffer) {
	scratchPool.Put(s)
}

// convolveSeparable runs the horizontal pass from src into a float32
// scratch buffer and the vertical pass from the scratch into dst. Samples
// beyond the edges clamp to the border pixel. Only the color channels
// are convolved; each destination pixel keeps its source alpha.
func convolveSeparable(src, dst *phototune.ImageBuffer, k []float32) {
	w, h := src.Width, src.Height
	scratch := getScratch(w * h * 4)
	defer putScratch(scratch)
	tmp := scratch.data
	half := len(k) / 2

	// Horizontal pass: src bytes -> tmp floats.
	forEachRowBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w * 4
			for x := 0; x < w; x++ {
				var r, g, b float32
				for i, weight := range k {
					sx := x + i - half
					if sx < 0 {
						sx = 0
					} else if sx >= w {
						sx = w - 1
					}
					si := row + sx*4
					r += float32(src.Pix[si+0]) * weight
					g += float32(src.Pix[si+1]) * weight
					b += float32(src.Pix[si+2]) * weight
				}
				ti := row + x*4
				tmp[ti+0] = r
				tmp[ti+1] = g
				tmp[ti+2] = b
			}
		}
	})

	// Vertical pass: tmp floats -> dst bytes.
	forEachRowBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var r, g, b float32
				for i, weight := range k {
					sy := y + i - half
					if sy < 0 {
						sy = 0
					} else if sy >= h {
						sy = h - 1
					}
					si := (sy*w + x) * 4
					r += tmp[si+0] * weight
					g += tmp[si+1] * weight
					b += tmp[si+2] * weight
				}
				di := (y*w + x) * 4
				dst.Pix[di+0] = colormath.RoundByte(r)
				dst.Pix[di+1] = colormath.RoundByte(g)
				dst.Pix[di+2] = colormath.RoundByte(b)
				dst.Pix[di+3] = src.Pix[di+3]
			}
		}
	})
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
