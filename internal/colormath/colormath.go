// Package colormath provides the pure numeric primitives shared by the CPU
// and GPU engines: RGB/HSL conversion, the brightness, contrast and levels
// mappings, and clamping.
//
// Every function clamps its result to the documented range as a hard
// postcondition; out-of-range intermediates never wrap and never panic.
// The WGSL shader catalog mirrors these formulas term for term so that both
// engines produce equivalent output.
package colormath

import "github.com/chewxy/math32"

// Clamp255 clamps v to [0, 255].
func Clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ClampUnit clamps v to [0, 1].
func ClampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundByte converts a [0, 255] float to uint8 with round-to-nearest.
// Values outside the range are clamped first.
func RoundByte(v float32) uint8 {
	v = Clamp255(v)
	return uint8(v + 0.5)
}

// Luminance returns the BT.601 perceptual luminance of normalized or
// byte-valued channels (the weights sum to 1, so the scale of the inputs
// is preserved).
func Luminance(r, g, b float32) float32 {
	return 0.299*r + 0.587*g + 0.114*b
}

// RGBToHSL converts normalized [0, 1] channels to hue in degrees [0, 360),
// saturation and lightness in [0, 1].
func RGBToHSL(r, g, b float32) (h, s, l float32) {
	mx := math32.Max(r, math32.Max(g, b))
	mn := math32.Min(r, math32.Min(g, b))
	l = (mx + mn) / 2

	if mx == mn {
		return 0, 0, l // achromatic
	}

	d := mx - mn
	if l > 0.5 {
		s = d / (2 - mx - mn)
	} else {
		s = d / (mx + mn)
	}

	switch mx {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h >= 360 {
		h -= 360
	}
	return h, s, l
}

// HSLToRGB converts hue in degrees, saturation and lightness in [0, 1]
// back to normalized RGB. Round-trips with RGBToHSL within 1/255 for all
// 8-bit colors.
func HSLToRGB(h, s, l float32) (r, g, b float32) {
	if s == 0 {
		return l, l, l
	}

	h = math32.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)
	return ClampUnit(r), ClampUnit(g), ClampUnit(b)
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// ApplyBrightness shifts a [0, 255] channel value by amount*2.55, so the
// [-100, 100] amount range maps onto the full +/-255 channel range.
func ApplyBrightness(v, amount float32) float32 {
	return Clamp255(v + amount*2.55)
}

// ApplyContrast scales a [0, 255] channel value around the 128 pivot with
// factor (amount+100)/100, so -100 flattens to gray and +100 doubles the
// distance from the pivot.
func ApplyContrast(v, amount float32) float32 {
	factor := (amount + 100) / 100
	return Clamp255((v-128)*factor + 128)
}

// ApplyLevels remaps a [0, 255] channel value: normalize against the input
// black/white points, apply gamma as pow(n, 1/gamma), then remap to the
// output black/white points. Degenerate input ranges collapse to the black
// point instead of dividing by zero.
func ApplyLevels(v, inBlack, inWhite, gamma, outBlack, outWhite float32) float32 {
	inBlack = Clamp255(inBlack)
	inWhite = Clamp255(inWhite)
	outBlack = Clamp255(outBlack)
	outWhite = Clamp255(outWhite)
	gamma = Clamp(gamma, 0.01, 10)

	var n float32
	if inWhite > inBlack {
		n = ClampUnit((v - inBlack) / (inWhite - inBlack))
	}
	n = math32.Pow(n, 1/gamma)
	return Clamp255(outBlack + n*(outWhite-outBlack))
}

// HueDistance returns the shortest angular distance between two hues in
// degrees, in [0, 180].
func HueDistance(a, b float32) float32 {
	d := math32.Abs(math32.Mod(a-b, 360))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Smoothstep is the standard cubic smoothstep of x over [edge0, edge1].
// Monotone in x, which the color balance band weights rely on.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := ClampUnit((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
