package phototune

// EffectKind identifies an adjustment or filter. The CPU and GPU engines
// dispatch on it; the closed set below means an unknown kind can only
// appear at a deserialization boundary (see package worker).
type EffectKind string

const (
	KindBrightnessContrast EffectKind = "brightness-contrast"
	KindSaturation         EffectKind = "saturation"
	KindHue                EffectKind = "hue"
	KindLevels             EffectKind = "levels"
	KindHSL                EffectKind = "hsl"
	KindVibrance           EffectKind = "vibrance"
	KindColorBalance       EffectKind = "color-balance"
	KindCurves             EffectKind = "curves"
	KindBlur               EffectKind = "blur"
	KindSharpen            EffectKind = "sharpen"
	KindNoiseReduction     EffectKind = "noise-reduction"
)

// Params is the closed sum of per-effect parameter structs.
// Exactly the types in this file implement it.
type Params interface {
	Kind() EffectKind
}

// BrightnessContrast shifts brightness by Brightness*2.55 per channel and
// scales contrast around the 128 pivot with factor (Contrast+100)/100.
// Both values are clamped to [-100, 100] before use.
type BrightnessContrast struct {
	Brightness float64
	Contrast   float64
}

func (BrightnessContrast) Kind() EffectKind { return KindBrightnessContrast }

// Saturation scales color saturation. Amount is in [-100, 100]:
// -100 produces grayscale, 0 is identity, 100 doubles saturation.
type Saturation struct {
	Amount float64
}

func (Saturation) Kind() EffectKind { return KindSaturation }

// Hue rotates the hue of every pixel by Degrees, in [-360, 360].
type Hue struct {
	Degrees float64
}

func (Hue) Kind() EffectKind { return KindHue }

// Levels remaps the tonal range of each channel: input black/white points
// in [0, 255], gamma in [0.01, 10], output black/white points in [0, 255].
type Levels struct {
	InputBlack  float64
	InputWhite  float64
	InputGamma  float64
	OutputBlack float64
	OutputWhite float64
}

func (Levels) Kind() EffectKind { return KindLevels }

// HSL adjusts hue (degrees), saturation and lightness (both percent,
// [-100, 100]). When HasTarget is set the adjustment is weighted toward
// pixels whose hue lies within HueRange degrees of TargetHue, with a linear
// falloff to zero at the range boundary.
type HSL struct {
	Hue        float64
	Saturation float64
	Lightness  float64
	HasTarget  bool
	TargetHue  float64
	HueRange   float64
}

func (HSL) Kind() EffectKind { return KindHSL }

// Vibrance boosts muted colors more than already-saturated ones.
// Amount is in [-100, 100].
type Vibrance struct {
	Amount float64
}

func (Vibrance) Kind() EffectKind { return KindVibrance }

// ColorOffsets are per-channel offsets in [-1, 1] applied to one luminance
// band by ColorBalance.
type ColorOffsets struct {
	R float64
	G float64
	B float64
}

// ColorBalance applies separate color offsets to the shadow, midtone and
// highlight luminance bands. Band weights blend smoothly and monotonically
// around luminance 85 and 170.
type ColorBalance struct {
	Shadows    ColorOffsets
	Midtones   ColorOffsets
	Highlights ColorOffsets
}

func (ColorBalance) Kind() EffectKind { return KindColorBalance }

// CurvePoint is one control point of a tone curve, both coordinates in
// [0, 255]. A curve with fewer than two distinct points is the identity.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curves holds per-channel tone curves. RGB is applied to all three
// channels first, then the per-channel curves.
type Curves struct {
	RGB []CurvePoint
	R   []CurvePoint
	G   []CurvePoint
	B   []CurvePoint
}

func (Curves) Kind() EffectKind { return KindCurves }

// Blur is a separable Gaussian blur. Radius <= 0 is the documented no-op:
// engines return the input buffer unchanged.
type Blur struct {
	Radius float64
}

func (Blur) Kind() EffectKind { return KindBlur }

// Sharpen is an unsharp mask. Amount is in [0, 100], Radius is the blur
// radius of the mask, and Threshold (in channel units, [0, 255]) gates
// low-contrast pixels so flat areas stay untouched.
type Sharpen struct {
	Amount    float64
	Radius    float64
	Threshold float64
}

func (Sharpen) Kind() EffectKind { return KindSharpen }

// NoiseMethod selects the noise reduction algorithm.
type NoiseMethod string

const (
	NoiseGaussian  NoiseMethod = "gaussian"
	NoiseMedian    NoiseMethod = "median"
	NoiseBilateral NoiseMethod = "bilateral"
)

// NoiseReduction smooths sensor noise. Strength is in [0, 100];
// PreserveDetail in [0, 1] linearly blends the filtered result back toward
// the original (1 leaves the image untouched).
type NoiseReduction struct {
	Strength       float64
	Method         NoiseMethod
	PreserveDetail float64
}

func (NoiseReduction) Kind() EffectKind { return KindNoiseReduction }

// Adjustments bundles the chainable adjustments applied by the combined
// entry points (gpu.Processor.ProcessAdjustments and the worker "adjust"
// operation). Zero-valued fields are skipped; the non-zero ones run in the
// fixed order brightness/contrast, saturation, hue, blur, sharpen.
type Adjustments struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Hue        float64
	Blur       float64
	Sharpen    float64
}

// IsZero reports whether every adjustment is at its identity value.
func (a Adjustments) IsZero() bool {
	return a.Brightness == 0 && a.Contrast == 0 && a.Saturation == 0 &&
		a.Hue == 0 && a.Blur == 0 && a.Sharpen == 0
}
