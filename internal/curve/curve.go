// Package curve builds 256-entry tone lookup tables from sparse control
// points. A LUT is built once per curve and applied per pixel as an O(1)
// table lookup, on the CPU directly and on the GPU as a small storage
// buffer bound next to the image.
package curve

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/cache"
)

// LUT maps an input byte to an output byte.
type LUT [256]uint8

// Identity is the identity mapping lut[i] = i.
var Identity = func() LUT {
	var l LUT
	for i := range l {
		l[i] = uint8(i)
	}
	return l
}()

// IsIdentity reports whether the LUT maps every value to itself.
func (l *LUT) IsIdentity() bool {
	return *l == Identity
}

// lutCache memoizes built LUTs keyed by an xxhash fingerprint of the
// control points. Interactive curve editing re-sends nearly identical
// curve sets on every change, so reuse pays for itself quickly.
var lutCache = cache.NewSharded[uint64, LUT](cache.DefaultCapacity, cache.Uint64Hasher)

// CacheStats returns the LUT cache counters.
func CacheStats() cache.Stats {
	return lutCache.Stats()
}

// Build produces the LUT for a set of control points.
//
// Points need not be sorted or unique in X. After sorting, duplicate X
// values collapse to the last point given; fewer than two distinct points
// yield the identity LUT. Between points the mapping is piecewise-linear;
// outside the covered X range it clamps to the nearest endpoint's Y.
func Build(points []phototune.CurvePoint) LUT {
	if len(points) < 2 {
		return Identity
	}
	return lutCache.GetOrCreate(fingerprint(points), func() LUT {
		return build(points)
	})
}

func build(points []phototune.CurvePoint) LUT {
	pts := make([]phototune.CurvePoint, len(points))
	copy(pts, points)
	for i := range pts {
		pts[i].X = clamp255(pts[i].X)
		pts[i].Y = clamp255(pts[i].Y)
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	// Collapse duplicate X values; the last point at a given X wins.
	dedup := pts[:0]
	for _, p := range pts {
		if len(dedup) > 0 && dedup[len(dedup)-1].X == p.X {
			dedup[len(dedup)-1] = p
			continue
		}
		dedup = append(dedup, p)
	}
	if len(dedup) < 2 {
		return Identity
	}

	var lut LUT
	seg := 0
	for i := 0; i < 256; i++ {
		x := float64(i)
		switch {
		case x <= dedup[0].X:
			lut[i] = roundByte(dedup[0].Y)
		case x >= dedup[len(dedup)-1].X:
			lut[i] = roundByte(dedup[len(dedup)-1].Y)
		default:
			for seg < len(dedup)-2 && dedup[seg+1].X < x {
				seg++
			}
			p0, p1 := dedup[seg], dedup[seg+1]
			t := (x - p0.X) / (p1.X - p0.X)
			lut[i] = roundByte(p0.Y + t*(p1.Y-p0.Y))
		}
	}
	return lut
}

// Set holds the effective per-channel LUTs for a Curves adjustment:
// the RGB master curve composed with each channel curve.
type Set struct {
	R LUT
	G LUT
	B LUT
}

// BuildSet builds the composed per-channel LUTs for a Curves parameter.
// The master RGB curve applies first, then the channel curve, so the
// effective table is channel[master[v]].
func BuildSet(c phototune.Curves) Set {
	master := Build(c.RGB)
	return Set{
		R: compose(master, Build(c.R)),
		G: compose(master, Build(c.G)),
		B: compose(master, Build(c.B)),
	}
}

// IsIdentity reports whether applying the set would leave every pixel
// unchanged.
func (s *Set) IsIdentity() bool {
	return s.R.IsIdentity() && s.G.IsIdentity() && s.B.IsIdentity()
}

func compose(first, second LUT) LUT {
	if second.IsIdentity() {
		return first
	}
	if first.IsIdentity() {
		return second
	}
	var out LUT
	for i := range out {
		out[i] = second[first[i]]
	}
	return out
}

// fingerprint hashes control points for cache keying. Coordinates are
// quantized to 1/16 of a level, below the resolution of a byte LUT.
func fingerprint(points []phototune.CurvePoint) uint64 {
	buf := make([]byte, 0, len(points)*4+2)
	var tmp [4]byte
	for _, p := range points {
		binary.LittleEndian.PutUint16(tmp[0:2], uint16(clamp255(p.X)*16))
		binary.LittleEndian.PutUint16(tmp[2:4], uint16(clamp255(p.Y)*16))
		buf = append(buf, tmp[:]...)
	}
	return xxhash.Sum64(buf)
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func roundByte(v float64) uint8 {
	return uint8(math.Round(clamp255(v)))
}
