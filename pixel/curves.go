package pixel

import (
	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/internal/curve"
)

// ApplyCurves applies per-channel tone curves. The master RGB curve is
// composed with the channel curves once, so the per-pixel cost is three
// table lookups regardless of how many control points were given.
//
// A curve set that resolves to the identity (every curve empty or a single
// point) returns the input buffer unchanged.
func ApplyCurves(img *phototune.ImageBuffer, p phototune.Curves) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	set := curve.BuildSet(p)
	if set.IsIdentity() {
		return img, nil
	}

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return set.R[r], set.G[g], set.B[b]
	})
	return out, nil
}
