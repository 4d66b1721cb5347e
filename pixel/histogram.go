package pixel

import (
	"math"

	"github.com/gopixel/phototune"
)

// ComputeHistogram accumulates 256-bin counts for the red, green and blue
// channels plus BT.601 luminance in a single pass. Each channel's bins sum
// to Width*Height.
func ComputeHistogram(img *phototune.ImageBuffer) (*phototune.Histogram, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	hist := &phototune.Histogram{}
	for i := 0; i < len(img.Pix); i += 4 {
		r := img.Pix[i]
		g := img.Pix[i+1]
		b := img.Pix[i+2]
		hist.R[r]++
		hist.G[g]++
		hist.B[b]++

		lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
		hist.Lum[int(math.Round(lum))]++
	}
	return hist, nil
}
