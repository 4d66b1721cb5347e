package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/pixel"
)

// loadImage reads and decodes the input file, honoring EXIF orientation,
// and applies the --max-size limit.
func loadImage(path string) (*phototune.ImageBuffer, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	img := phototune.FromImage(src)
	if maxSize > 0 {
		img, err = pixel.FitWithin(img, maxSize)
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

// saveImage encodes the buffer to the path; the format follows the file
// extension.
func saveImage(img *phototune.ImageBuffer, path string) error {
	if err := imaging.Save(img.ToImage(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// parseCurve parses "x,y;x,y;..." control point lists.
func parseCurve(s string) ([]phototune.CurvePoint, error) {
	if s == "" {
		return nil, nil
	}
	var points []phototune.CurvePoint
	for _, pair := range strings.Split(s, ";") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("curve point %q: want x,y", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("curve point %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("curve point %q: %w", pair, err)
		}
		points = append(points, phototune.CurvePoint{X: x, Y: y})
	}
	return points, nil
}

// parseOffsets parses "r,g,b" channel offset triples in [-1,1].
func parseOffsets(s string) (phototune.ColorOffsets, error) {
	var o phototune.ColorOffsets
	if s == "" {
		return o, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return o, fmt.Errorf("offsets %q: want r,g,b", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return o, fmt.Errorf("offsets %q: %w", s, err)
		}
		vals[i] = v
	}
	o.R, o.G, o.B = vals[0], vals[1], vals[2]
	return o, nil
}
