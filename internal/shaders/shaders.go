// Package shaders holds the WGSL compute shader catalog for the GPU
// processing path. Every shader shares a common preamble (uniform params,
// packed pixel storage buffers, color helpers) and adds a per-effect
// entry point. Sources are assembled on demand and validated with naga.
package shaders

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// EffectKey identifies one compute shader in the catalog.
type EffectKey string

const (
	KeyBrightnessContrast EffectKey = "brightness-contrast"
	KeySaturation         EffectKey = "saturation"
	KeyHue                EffectKey = "hue"
	KeyVibrance           EffectKey = "vibrance"
	KeyLevels             EffectKey = "levels"
	KeyHSL                EffectKey = "hsl"
	KeyColorBalance       EffectKey = "color-balance"
	KeyCurves             EffectKey = "curves"
	KeyBlurH              EffectKey = "blur-h"
	KeyBlurV              EffectKey = "blur-v"
	KeySharpen            EffectKey = "sharpen"
	KeyMedian             EffectKey = "median"
	KeyBilateral          EffectKey = "bilateral"
	KeyGrayscale          EffectKey = "grayscale"
	KeyInvert             EffectKey = "invert"
	KeySepia              EffectKey = "sepia"
)

// Embedded WGSL shader sources.
// The preamble declares the shared bind group and color helpers; each
// effect source declares its entry point (plus binding 3 where it needs
// an auxiliary buffer).

//go:embed wgsl/preamble.wgsl
var preambleSource string

//go:embed wgsl/brightness_contrast.wgsl
var brightnessContrastSource string

//go:embed wgsl/saturation.wgsl
var saturationSource string

//go:embed wgsl/hue.wgsl
var hueSource string

//go:embed wgsl/vibrance.wgsl
var vibranceSource string

//go:embed wgsl/levels.wgsl
var levelsSource string

//go:embed wgsl/hsl.wgsl
var hslSource string

//go:embed wgsl/color_balance.wgsl
var colorBalanceSource string

//go:embed wgsl/curves.wgsl
var curvesSource string

//go:embed wgsl/blur_h.wgsl
var blurHSource string

//go:embed wgsl/blur_v.wgsl
var blurVSource string

//go:embed wgsl/sharpen.wgsl
var sharpenSource string

//go:embed wgsl/median.wgsl
var medianSource string

//go:embed wgsl/bilateral.wgsl
var bilateralSource string

//go:embed wgsl/grayscale.wgsl
var grayscaleSource string

//go:embed wgsl/invert.wgsl
var invertSource string

//go:embed wgsl/sepia.wgsl
var sepiaSource string

var bodies = map[EffectKey]string{
	KeyBrightnessContrast: brightnessContrastSource,
	KeySaturation:         saturationSource,
	KeyHue:                hueSource,
	KeyVibrance:           vibranceSource,
	KeyLevels:             levelsSource,
	KeyHSL:                hslSource,
	KeyColorBalance:       colorBalanceSource,
	KeyCurves:             curvesSource,
	KeyBlurH:              blurHSource,
	KeyBlurV:              blurVSource,
	KeySharpen:            sharpenSource,
	KeyMedian:             medianSource,
	KeyBilateral:          bilateralSource,
	KeyGrayscale:          grayscaleSource,
	KeyInvert:             invertSource,
	KeySepia:              sepiaSource,
}

// auxU32 lists effects whose binding 3 is a read-only array<u32>
// (lookup tables, packed pixels); auxF32 lists those binding an
// array<f32> (kernels).
var auxU32 = map[EffectKey]bool{
	KeyCurves:  true,
	KeySharpen: true,
}

var auxF32 = map[EffectKey]bool{
	KeyBlurH: true,
	KeyBlurV: true,
}

// Keys returns every effect key in the catalog. The order is stable.
func Keys() []EffectKey {
	return []EffectKey{
		KeyBrightnessContrast, KeySaturation, KeyHue, KeyVibrance,
		KeyLevels, KeyHSL, KeyColorBalance, KeyCurves,
		KeyBlurH, KeyBlurV, KeySharpen,
		KeyMedian, KeyBilateral,
		KeyGrayscale, KeyInvert, KeySepia,
	}
}

// NeedsAux reports whether the effect binds an auxiliary read-only
// storage buffer at binding 3 (curve LUTs, blur kernels).
func NeedsAux(key EffectKey) bool {
	return auxU32[key] || auxF32[key]
}

// Source returns the complete WGSL source for the effect, or an error
// for an unknown key.
func Source(key EffectKey) (string, error) {
	body, ok := bodies[key]
	if !ok {
		return "", fmt.Errorf("unknown shader key %q", key)
	}
	return preambleSource + "\n" + body, nil
}

// Validate compiles the effect's WGSL through naga without touching a
// GPU device. It is how broken shader edits get caught in plain tests.
func Validate(key EffectKey) error {
	src, err := Source(key)
	if err != nil {
		return err
	}
	if _, err := naga.Compile(src); err != nil {
		return fmt.Errorf("compile %s: %w", key, err)
	}
	return nil
}
