package pixel

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/internal/colormath"
	"github.com/gopixel/phototune/internal/kernel"
)

// ReduceNoise smooths sensor noise with one of three methods:
//
//   - gaussian: separable Gaussian blur with radius strength/25
//   - median: per-channel median over an odd window (3, 5 or 7 wide,
//     growing with strength)
//   - bilateral: 5x5 window weighted by spatial distance and by channel
//     similarity, which smooths noise while keeping edges
//
// PreserveDetail in [0, 1] blends the filtered output back toward the
// original: result = filtered*(1-d) + original*d.
func ReduceNoise(img *phototune.ImageBuffer, p phototune.NoiseReduction) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	strength := colormath.Clamp(float32(p.Strength), 0, 100)
	detail := colormath.ClampUnit(float32(p.PreserveDetail))

	var filtered *phototune.ImageBuffer
	var err error
	switch p.Method {
	case phototune.NoiseGaussian, "":
		filtered, err = GaussianBlur(img, float64(strength)/25)
	case phototune.NoiseMedian:
		filtered, err = medianFilter(img, kernel.MedianWindow(strength))
	case phototune.NoiseBilateral:
		filtered, err = bilateralFilter(img, strength)
	default:
		return nil, fmt.Errorf("%w: noise reduction method %q", phototune.ErrInvalidParameters, p.Method)
	}
	if err != nil {
		return nil, err
	}

	if detail == 0 || filtered == img {
		return filtered, nil
	}

	out := &phototune.ImageBuffer{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]uint8, len(img.Pix)),
	}
	forEachRowBand(img.Height, func(y0, y1 int) {
		for i := y0 * img.Width * 4; i < y1*img.Width*4; i++ {
			f := float32(filtered.Pix[i])
			o := float32(img.Pix[i])
			out.Pix[i] = colormath.RoundByte(f*(1-detail) + o*detail)
		}
	})
	return out, nil
}

// medianFilter replaces each channel with the median of the window around
// it. Window samples beyond the edges clamp to the border pixel.
func medianFilter(img *phototune.ImageBuffer, window int) (*phototune.ImageBuffer, error) {
	if window%2 == 0 {
		return nil, fmt.Errorf("%w: median window %d must be odd", phototune.ErrInvalidParameters, window)
	}
	w, h := img.Width, img.Height
	half := window / 2
	out := &phototune.ImageBuffer{Width: w, Height: h, Pix: make([]uint8, len(img.Pix))}

	forEachRowBand(h, func(y0, y1 int) {
		n := window * window
		rs := make([]uint8, n)
		gs := make([]uint8, n)
		bs := make([]uint8, n)
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				idx := 0
				for dy := -half; dy <= half; dy++ {
					sy := clampIndex(y+dy, h)
					for dx := -half; dx <= half; dx++ {
						sx := clampIndex(x+dx, w)
						si := (sy*w + sx) * 4
						rs[idx] = img.Pix[si+0]
						gs[idx] = img.Pix[si+1]
						bs[idx] = img.Pix[si+2]
						idx++
					}
				}
				di := (y*w + x) * 4
				out.Pix[di+0] = medianByte(rs)
				out.Pix[di+1] = medianByte(gs)
				out.Pix[di+2] = medianByte(bs)
				out.Pix[di+3] = img.Pix[di+3]
			}
		}
	})
	return out, nil
}

func medianByte(v []uint8) uint8 {
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
	return v[len(v)/2]
}

// bilateralFilter smooths with a 5x5 window where each neighbor's weight
// is the product of a spatial Gaussian and a range Gaussian over the
// channel difference, then normalizes. Strength widens the range Gaussian,
// so higher strengths tolerate larger channel differences before treating
// them as edges.
func bilateralFilter(img *phototune.ImageBuffer, strength float32) (*phototune.ImageBuffer, error) {
	w, h := img.Width, img.Height
	out := &phototune.ImageBuffer{Width: w, Height: h, Pix: make([]uint8, len(img.Pix))}

	const half = 2
	const sigmaSpatial = 2.0
	sigmaRange := strength
	if sigmaRange < 10 {
		sigmaRange = 10
	}

	// Spatial weights depend only on the offset, so build them once.
	var spatial [2*half + 1][2*half + 1]float32
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			d2 := float32(dx*dx + dy*dy)
			spatial[dy+half][dx+half] = math32.Exp(-d2 / (2 * sigmaSpatial * sigmaSpatial))
		}
	}
	twoSigmaRangeSq := 2 * sigmaRange * sigmaRange

	forEachRowBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				ci := (y*w + x) * 4
				for c := 0; c < 3; c++ {
					center := float32(img.Pix[ci+c])
					var sum, weightSum float32
					for dy := -half; dy <= half; dy++ {
						sy := clampIndex(y+dy, h)
						for dx := -half; dx <= half; dx++ {
							sx := clampIndex(x+dx, w)
							sample := float32(img.Pix[(sy*w+sx)*4+c])
							diff := sample - center
							weight := spatial[dy+half][dx+half] *
								math32.Exp(-(diff*diff)/twoSigmaRangeSq)
							sum += sample * weight
							weightSum += weight
						}
					}
					out.Pix[ci+c] = colormath.RoundByte(sum / weightSum)
				}
				out.Pix[ci+3] = img.Pix[ci+3]
			}
		}
	})
	return out, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
