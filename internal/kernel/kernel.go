// Package kernel generates the 1D convolution kernels used by the blur,
// sharpen and noise reduction filters. Gaussian kernels are separable: one
// horizontal and one vertical pass with the same 1D kernel are equivalent
// to the full 2D convolution at half the cost.
package kernel

import (
	"math"

	"github.com/gopixel/phototune/cache"
)

// Gaussian generates a normalized, odd-length 1D Gaussian kernel for the
// given blur radius. Sigma is derived as radius/2 and the kernel spans
// 3 sigma on each side, covering 99.7% of the distribution.
//
// For radius <= 0 it returns nil: the no-op sentinel. Callers must
// short-circuit and return their input unchanged.
func Gaussian(radius float64) []float32 {
	if radius <= 0 {
		return nil
	}

	sigma := radius / 2
	halfSize := int(math.Ceil(sigma * 3))
	if halfSize < 1 {
		halfSize = 1
	}
	size := halfSize*2 + 1

	kernel := make([]float32, size)
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	invSum := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= invSum
	}
	return kernel
}

// Box generates a uniform 1D kernel of 2*radius+1 equal weights.
// radius <= 0 returns nil, matching the Gaussian sentinel.
func Box(radius int) []float32 {
	if radius <= 0 {
		return nil
	}
	size := radius*2 + 1
	kernel := make([]float32, size)
	val := float32(1.0) / float32(size)
	for i := range kernel {
		kernel[i] = val
	}
	return kernel
}

// Size returns the length of the Gaussian kernel for a radius without
// generating it. Useful for pre-sizing scratch buffers.
func Size(radius float64) int {
	if radius <= 0 {
		return 0
	}
	halfSize := int(math.Ceil(radius / 2 * 3))
	if halfSize < 1 {
		halfSize = 1
	}
	return halfSize*2 + 1
}

// gaussianCache memoizes kernels by radius quantized to 0.01 precision.
// Blur is typically called repeatedly with the same radius while a slider
// is dragged, so the hit rate is high.
var gaussianCache = cache.NewSharded[int, []float32](cache.DefaultCapacity, cache.IntHasher)

// CacheStats returns the kernel cache counters.
func CacheStats() cache.Stats {
	return gaussianCache.Stats()
}

// CachedGaussian returns a memoized Gaussian kernel for the radius.
// The returned slice is shared; callers must not modify it.
func CachedGaussian(radius float64) []float32 {
	key := int(math.Round(radius * 100))
	return gaussianCache.GetOrCreate(key, func() []float32 {
		return Gaussian(radius)
	})
}

// MedianWindow maps noise reduction strength to an odd median window
// size: 3 up to 33, 5 up to 66, 7 beyond. Both engines share it so
// their windows grow in lockstep.
func MedianWindow(strength float32) int {
	switch {
	case strength <= 33:
		return 3
	case strength <= 66:
		return 5
	default:
		return 7
	}
}
