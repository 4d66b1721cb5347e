package pixel

import (
	"runtime"
	"sync"

	"github.com/gopixel/phototune"
)

// forEachRowBand splits [0, height) into contiguous bands and runs fn on
// each band from its own goroutine. Bands never overlap, so fn may write
// its rows of a shared output buffer without synchronization.
//
// Small images run on the calling goroutine; the fan-out overhead only
// pays off once there are a few thousand pixels per band.
func forEachRowBand(height int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers <= 1 || height < 64 {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// mapPixels applies a per-pixel color transform, preserving alpha.
// The transform receives and returns channel bytes.
func mapPixels(src *phototune.ImageBuffer, fn func(r, g, b uint8) (uint8, uint8, uint8)) *phototune.ImageBuffer {
	dst := &phototune.ImageBuffer{
		Width:  src.Width,
		Height: src.Height,
		Pix:    make([]uint8, len(src.Pix)),
	}
	forEachRowBand(src.Height, func(y0, y1 int) {
		for i := y0 * src.Width * 4; i < y1*src.Width*4; i += 4 {
			r, g, b := fn(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
			dst.Pix[i+0] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = b
			dst.Pix[i+3] = src.Pix[i+3]
		}
	})
	return dst
}
