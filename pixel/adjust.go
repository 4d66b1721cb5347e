package pixel

import (
	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/internal/colormath"
)

// AdjustBrightnessContrast shifts brightness and scales contrast around the
// 128 pivot. Both amounts are clamped to [-100, 100]; zero for both is an
// identity mapping up to rounding.
func AdjustBrightnessContrast(img *phototune.ImageBuffer, p phototune.BrightnessContrast) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	brightness := clampAmount(p.Brightness)
	contrast := clampAmount(p.Contrast)

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return bcChannel(r, brightness, contrast),
			bcChannel(g, brightness, contrast),
			bcChannel(b, brightness, contrast)
	})
	return out, nil
}

func bcChannel(v uint8, brightness, contrast float32) uint8 {
	f := colormath.ApplyBrightness(float32(v), brightness)
	f = colormath.ApplyContrast(f, contrast)
	return colormath.RoundByte(f)
}

// AdjustSaturation scales saturation by blending each channel against the
// pixel's BT.601 luminance with factor (amount+100)/100: -100 yields
// grayscale, +100 doubles the distance from gray.
func AdjustSaturation(img *phototune.ImageBuffer, p phototune.Saturation) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	factor := (clampAmount(p.Amount) + 100) / 100

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		fr, fg, fb := float32(r), float32(g), float32(b)
		gray := colormath.Luminance(fr, fg, fb)
		return colormath.RoundByte(gray + (fr-gray)*factor),
			colormath.RoundByte(gray + (fg-gray)*factor),
			colormath.RoundByte(gray + (fb-gray)*factor)
	})
	return out, nil
}

// AdjustHue rotates every pixel's hue by p.Degrees.
func AdjustHue(img *phototune.ImageBuffer, p phototune.Hue) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	degrees := float32(colormath.Clamp(float32(p.Degrees), -360, 360))

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		h, s, l := colormath.RGBToHSL(float32(r)/255, float32(g)/255, float32(b)/255)
		nr, ng, nb := colormath.HSLToRGB(h+degrees, s, l)
		return colormath.RoundByte(nr * 255),
			colormath.RoundByte(ng * 255),
			colormath.RoundByte(nb * 255)
	})
	return out, nil
}

// AdjustVibrance boosts muted colors more than already-saturated ones.
// The per-pixel factor is 1 + (amount/100)*(1 - sat) where sat is the
// normalized max-min channel spread, so saturated pixels move less.
func AdjustVibrance(img *phototune.ImageBuffer, p phototune.Vibrance) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	amount := clampAmount(p.Amount) / 100

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		fr, fg, fb := float32(r), float32(g), float32(b)
		mx := max3(fr, fg, fb)
		mn := min3(fr, fg, fb)
		sat := (mx - mn) / 255
		factor := 1 + amount*(1-sat)
		if factor < 0 {
			factor = 0
		}
		gray := colormath.Luminance(fr, fg, fb)
		return colormath.RoundByte(gray + (fr-gray)*factor),
			colormath.RoundByte(gray + (fg-gray)*factor),
			colormath.RoundByte(gray + (fb-gray)*factor)
	})
	return out, nil
}

// AdjustLevels remaps the tonal range of every channel through the levels
// mapping: input black/white normalization, gamma, output remap.
func AdjustLevels(img *phototune.ImageBuffer, p phototune.Levels) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	// The mapping depends only on the input byte, so precompute it once
	// instead of running pow() per pixel.
	var lut [256]uint8
	for i := range lut {
		lut[i] = colormath.RoundByte(colormath.ApplyLevels(
			float32(i),
			float32(p.InputBlack), float32(p.InputWhite), float32(p.InputGamma),
			float32(p.OutputBlack), float32(p.OutputWhite),
		))
	}

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return lut[r], lut[g], lut[b]
	})
	return out, nil
}

// AdjustHSL shifts hue and scales saturation and lightness. With a target
// hue set, the adjustment weight falls off linearly from 1 at the target
// to 0 at HueRange degrees away (wrapping around the hue circle).
func AdjustHSL(img *phototune.ImageBuffer, p phototune.HSL) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	hueShift := float32(colormath.Clamp(float32(p.Hue), -180, 180))
	satScale := clampAmount(p.Saturation) / 100
	lightScale := clampAmount(p.Lightness) / 100
	targetHue := float32(p.TargetHue)
	hueRange := float32(p.HueRange)
	if hueRange <= 0 {
		hueRange = 30
	}

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		h, s, l := colormath.RGBToHSL(float32(r)/255, float32(g)/255, float32(b)/255)

		weight := float32(1)
		if p.HasTarget {
			d := colormath.HueDistance(h, targetHue)
			if d >= hueRange {
				return r, g, b
			}
			weight = 1 - d/hueRange
		}

		h += hueShift * weight
		s = colormath.ClampUnit(s * (1 + satScale*weight))
		l = colormath.ClampUnit(l * (1 + lightScale*weight))

		nr, ng, nb := colormath.HSLToRGB(h, s, l)
		return colormath.RoundByte(nr * 255),
			colormath.RoundByte(ng * 255),
			colormath.RoundByte(nb * 255)
	})
	return out, nil
}

// AdjustColorBalance applies per-band color offsets weighted by luminance.
// The shadow weight fades out across luminance 42..128, the highlight
// weight fades in across 128..213, and midtones take the remainder, so the
// blend is smooth and monotonic across the tonal axis.
func AdjustColorBalance(img *phototune.ImageBuffer, p phototune.ColorBalance) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	sOff := clampOffsets(p.Shadows)
	mOff := clampOffsets(p.Midtones)
	hOff := clampOffsets(p.Highlights)

	out := mapPixels(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		fr, fg, fb := float32(r), float32(g), float32(b)
		lum := colormath.Luminance(fr, fg, fb)

		ws := 1 - colormath.Smoothstep(42.5, 127.5, lum)
		wh := colormath.Smoothstep(127.5, 212.5, lum)
		wm := colormath.ClampUnit(1 - ws - wh)

		return colormath.RoundByte(fr + (sOff[0]*ws+mOff[0]*wm+hOff[0]*wh)*255),
			colormath.RoundByte(fg + (sOff[1]*ws+mOff[1]*wm+hOff[1]*wh)*255),
			colormath.RoundByte(fb + (sOff[2]*ws+mOff[2]*wm+hOff[2]*wh)*255)
	})
	return out, nil
}

// ApplyAdjustments chains the non-zero adjustments in the fixed order
// brightness/contrast, saturation, hue, blur, sharpen. A zero value means
// the step is skipped entirely, matching the GPU convenience entry point.
func ApplyAdjustments(img *phototune.ImageBuffer, a phototune.Adjustments) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := img
	var err error

	if a.Brightness != 0 || a.Contrast != 0 {
		out, err = AdjustBrightnessContrast(out, phototune.BrightnessContrast{
			Brightness: a.Brightness, Contrast: a.Contrast,
		})
		if err != nil {
			return nil, err
		}
	}
	if a.Saturation != 0 {
		out, err = AdjustSaturation(out, phototune.Saturation{Amount: a.Saturation})
		if err != nil {
			return nil, err
		}
	}
	if a.Hue != 0 {
		out, err = AdjustHue(out, phototune.Hue{Degrees: a.Hue})
		if err != nil {
			return nil, err
		}
	}
	if a.Blur > 0 {
		out, err = GaussianBlur(out, a.Blur)
		if err != nil {
			return nil, err
		}
	}
	if a.Sharpen != 0 {
		out, err = UnsharpMask(out, phototune.Sharpen{Amount: a.Sharpen, Radius: 1})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func clampAmount(v float64) float32 {
	return colormath.Clamp(float32(v), -100, 100)
}

func clampOffsets(o phototune.ColorOffsets) [3]float32 {
	return [3]float32{
		colormath.Clamp(float32(o.R), -1, 1),
		colormath.Clamp(float32(o.G), -1, 1),
		colormath.Clamp(float32(o.B), -1, 1),
	}
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
