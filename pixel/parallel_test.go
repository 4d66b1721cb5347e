package pixel

import (
	"sync"
	"testing"
)

func TestForEachRowBandCoversEveryRowOnce(t *testing.T) {
	for _, height := range []int{1, 5, 63, 64, 100, 257} {
		seen := make([]int32, height)
		var mu sync.Mutex
		forEachRowBand(height, func(y0, y1 int) {
			if y0 < 0 || y1 > height || y0 >= y1 {
				t.Errorf("height %d: bad band [%d, %d)", height, y0, y1)
				return
			}
			mu.Lock()
			for y := y0; y < y1; y++ {
				seen[y]++
			}
			mu.Unlock()
		})
		for y, n := range seen {
			if n != 1 {
				t.Fatalf("height %d: row %d visited %d times", height, y, n)
			}
		}
	}
}

func TestMapPixelsPreservesAlpha(t *testing.T) {
	img := gradient(t, 4, 3)
	img.Pix[7] = 9 // second pixel gets a distinctive alpha

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return b, r, g
	})

	if out.Pix[7] != 9 {
		t.Errorf("alpha = %d, want 9", out.Pix[7])
	}
	r, g, b, _ := img.At(1, 1)
	or, og, ob, _ := out.At(1, 1)
	if or != b || og != r || ob != g {
		t.Errorf("channel swap = (%d, %d, %d), want (%d, %d, %d)", or, og, ob, b, r, g)
	}
}
