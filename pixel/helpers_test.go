package pixel

import (
	"bytes"
	"testing"

	"github.com/gopixel/phototune"
)

// uniform builds a w x h buffer with every pixel set to (r, g, b, 255).
func uniform(t *testing.T, w, h int, r, g, b uint8) *phototune.ImageBuffer {
	t.Helper()
	img, err := phototune.NewImageBuffer(w, h)
	if err != nil {
		t.Fatalf("NewImageBuffer: %v", err)
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 255
	}
	return img
}

// gradient builds a buffer whose bytes vary with position so permutation
// and remap bugs cannot cancel out.
func gradient(t *testing.T, w, h int) *phototune.ImageBuffer {
	t.Helper()
	img, err := phototune.NewImageBuffer(w, h)
	if err != nil {
		t.Fatalf("NewImageBuffer: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, uint8(x*37), uint8(y*53), uint8((x+y)*17), 255)
		}
	}
	return img
}

func samePix(t *testing.T, got, want *phototune.ImageBuffer) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("dimensions %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Fatalf("pixel data differs\ngot  %v\nwant %v", got.Pix, want.Pix)
	}
}

// maxChannelDiff returns the largest absolute byte difference between two
// buffers of equal shape.
func maxChannelDiff(t *testing.T, a, b *phototune.ImageBuffer) int {
	t.Helper()
	if len(a.Pix) != len(b.Pix) {
		t.Fatalf("buffer sizes differ: %d vs %d", len(a.Pix), len(b.Pix))
	}
	maxDiff := 0
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
