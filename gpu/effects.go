package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/internal/colormath"
	"github.com/gopixel/phototune/internal/curve"
	"github.com/gopixel/phototune/internal/kernel"
	"github.com/gopixel/phototune/internal/shaders"
	"github.com/gopixel/phototune/pixel"
)

// The Process methods mirror the pixel package operation for operation;
// parameter clamping happens here on the CPU so both engines agree on
// the effective values.

// ProcessBrightnessContrast shifts brightness and scales contrast around
// the 128 pivot.
func (p *Processor) ProcessBrightnessContrast(img *phototune.ImageBuffer, bc phototune.BrightnessContrast) (*phototune.ImageBuffer, error) {
	var sp shaderParams
	sp.P[0] = clampAmount(bc.Brightness) / 100
	sp.P[1] = (clampAmount(bc.Contrast) + 100) / 100
	return p.runEffect(img, shaders.KeyBrightnessContrast, sp, nil)
}

// ProcessSaturation scales saturation against BT.601 luminance.
func (p *Processor) ProcessSaturation(img *phototune.ImageBuffer, s phototune.Saturation) (*phototune.ImageBuffer, error) {
	var sp shaderParams
	sp.P[0] = (clampAmount(s.Amount) + 100) / 100
	return p.runEffect(img, shaders.KeySaturation, sp, nil)
}

// ProcessHue rotates every pixel's hue.
func (p *Processor) ProcessHue(img *phototune.ImageBuffer, h phototune.Hue) (*phototune.ImageBuffer, error) {
	var sp shaderParams
	sp.P[0] = colormath.Clamp(float32(h.Degrees), -360, 360) / 360
	return p.runEffect(img, shaders.KeyHue, sp, nil)
}

// ProcessVibrance boosts muted colors more than saturated ones.
func (p *Processor) ProcessVibrance(img *phototune.ImageBuffer, v phototune.Vibrance) (*phototune.ImageBuffer, error) {
	var sp shaderParams
	sp.P[0] = clampAmount(v.Amount) / 100
	return p.runEffect(img, shaders.KeyVibrance, sp, nil)
}

// ProcessLevels remaps the tonal range of each channel.
func (p *Processor) ProcessLevels(img *phototune.ImageBuffer, l phototune.Levels) (*phototune.ImageBuffer, error) {
	gamma := colormath.Clamp(float32(l.InputGamma), 0.01, 10)
	var sp shaderParams
	sp.P[0] = colormath.Clamp(float32(l.InputBlack), 0, 255) / 255
	sp.P[1] = colormath.Clamp(float32(l.InputWhite), 0, 255) / 255
	sp.P[2] = 1 / gamma
	sp.P[3] = colormath.Clamp(float32(l.OutputBlack), 0, 255) / 255
	sp.Q[0] = colormath.Clamp(float32(l.OutputWhite), 0, 255) / 255
	return p.runEffect(img, shaders.KeyLevels, sp, nil)
}

// ProcessHSL shifts hue and scales saturation and lightness, optionally
// weighted toward a target hue band.
func (p *Processor) ProcessHSL(img *phototune.ImageBuffer, h phototune.HSL) (*phototune.ImageBuffer, error) {
	hueRange := h.HueRange
	if hueRange <= 0 {
		hueRange = 30
	}
	target := math.Mod(h.TargetHue, 360)
	if target < 0 {
		target += 360
	}
	var sp shaderParams
	sp.P[0] = colormath.Clamp(float32(h.Hue), -180, 180) / 360
	sp.P[1] = clampAmount(h.Saturation) / 100
	sp.P[2] = clampAmount(h.Lightness) / 100
	if h.HasTarget {
		sp.P[3] = 1
	}
	sp.Q[0] = float32(target) / 360
	sp.Q[1] = float32(hueRange) / 360
	return p.runEffect(img, shaders.KeyHSL, sp, nil)
}

// ProcessColorBalance applies per-band color offsets weighted by
// luminance.
func (p *Processor) ProcessColorBalance(img *phototune.ImageBuffer, cb phototune.ColorBalance) (*phototune.ImageBuffer, error) {
	var sp shaderParams
	sp.P = offsetsVec(cb.Shadows)
	sp.Q = offsetsVec(cb.Midtones)
	sp.T = offsetsVec(cb.Highlights)
	return p.runEffect(img, shaders.KeyColorBalance, sp, nil)
}

// ProcessCurves applies the composed tone curves through a lookup table
// uploaded for the call. Identity curves return the input unchanged.
func (p *Processor) ProcessCurves(img *phototune.ImageBuffer, c phototune.Curves) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	set := curve.BuildSet(c)
	if set.IsIdentity() {
		return img, nil
	}
	aux := make([]byte, 768*4)
	for i := 0; i < 256; i++ {
		binary.LittleEndian.PutUint32(aux[i*4:], uint32(set.R[i]))
		binary.LittleEndian.PutUint32(aux[(256+i)*4:], uint32(set.G[i]))
		binary.LittleEndian.PutUint32(aux[(512+i)*4:], uint32(set.B[i]))
	}
	return p.runEffect(img, shaders.KeyCurves, shaderParams{}, aux)
}

// ProcessBlur runs the separable Gaussian blur as two chained dispatches
// in one submission. Radius <= 0 returns the input unchanged.
func (p *Processor) ProcessBlur(img *phototune.ImageBuffer, b phototune.Blur) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	kern := kernel.CachedGaussian(b.Radius)
	if kern == nil {
		return img, nil
	}
	aux := kernelBytes(kern)
	var sp shaderParams
	sp.P[0] = float32((len(kern) - 1) / 2)
	sp.Width, sp.Height = uint32(img.Width), uint32(img.Height) //nolint:gosec // validated dimensions

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireReadyLocked(); err != nil {
		return nil, err
	}
	if err := p.ensureBuffers(uint64(len(img.Pix))); err != nil {
		return nil, err
	}
	// Horizontal into dstBuf, vertical back into srcBuf.
	return p.runPasses(img, []passSpec{
		{key: shaders.KeyBlurH, params: sp, aux: aux, in: p.srcBuf, out: p.dstBuf},
		{key: shaders.KeyBlurV, params: sp, aux: aux, in: p.dstBuf, out: p.srcBuf},
	}, p.srcBuf)
}

// ProcessSharpen applies an unsharp mask: the image is Gaussian-blurred
// at the requested radius, then the amplified difference is added back,
// matching pixel.UnsharpMask pass for pass. Amount 0 returns a copy of
// the input.
func (p *Processor) ProcessSharpen(img *phototune.ImageBuffer, s phototune.Sharpen) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	amount := colormath.Clamp(float32(s.Amount), 0, 100)
	if amount == 0 {
		return img.Clone(), nil
	}
	radius := s.Radius
	if radius <= 0 {
		radius = 1
	}
	kern := kernel.CachedGaussian(radius)
	aux := kernelBytes(kern)

	var blurSP shaderParams
	blurSP.P[0] = float32((len(kern) - 1) / 2)
	blurSP.Width, blurSP.Height = uint32(img.Width), uint32(img.Height) //nolint:gosec // validated dimensions

	var maskSP shaderParams
	maskSP.P[0] = amount / 100
	maskSP.P[1] = colormath.Clamp(float32(s.Threshold), 0, 255) / 255
	maskSP.Width, maskSP.Height = blurSP.Width, blurSP.Height

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireReadyLocked(); err != nil {
		return nil, err
	}
	size := uint64(len(img.Pix))
	if err := p.ensureBuffers(size); err != nil {
		return nil, err
	}
	if err := p.ensureTmpBuffer(size); err != nil {
		return nil, err
	}
	// Blur into tmpBuf, then combine the untouched original against it.
	return p.runPasses(img, []passSpec{
		{key: shaders.KeyBlurH, params: blurSP, aux: aux, in: p.srcBuf, out: p.dstBuf},
		{key: shaders.KeyBlurV, params: blurSP, aux: aux, in: p.dstBuf, out: p.tmpBuf},
		{key: shaders.KeySharpen, params: maskSP, auxBuf: p.tmpBuf, in: p.srcBuf, out: p.dstBuf},
	}, p.dstBuf)
}

// ProcessNoiseReduction smooths noise with the selected method. The
// median window grows with strength exactly as in the CPU engine;
// gaussian strength maps to a blur radius of strength/25, likewise.
func (p *Processor) ProcessNoiseReduction(img *phototune.ImageBuffer, nr phototune.NoiseReduction) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	strength := colormath.Clamp(float32(nr.Strength), 0, 100)
	detail := colormath.ClampUnit(float32(nr.PreserveDetail))

	var sp shaderParams
	sp.P[0] = detail
	switch nr.Method {
	case phototune.NoiseGaussian, "":
		filtered, err := p.ProcessBlur(img, phototune.Blur{Radius: float64(strength) / 25})
		if err != nil {
			return nil, err
		}
		return blendDetail(img, filtered, detail), nil
	case phototune.NoiseMedian:
		sp.P[1] = float32(kernel.MedianWindow(strength) / 2)
		return p.runEffect(img, shaders.KeyMedian, sp, nil)
	case phototune.NoiseBilateral:
		sigma := strength
		if sigma < 10 {
			sigma = 10
		}
		sp.Q[0] = sigma / 255
		return p.runEffect(img, shaders.KeyBilateral, sp, nil)
	default:
		return nil, fmt.Errorf("%w: noise reduction method %q", phototune.ErrInvalidParameters, nr.Method)
	}
}

// ProcessFilter applies a named parameterless filter.
func (p *Processor) ProcessFilter(img *phototune.ImageBuffer, f pixel.Filter) (*phototune.ImageBuffer, error) {
	var key shaders.EffectKey
	switch f {
	case pixel.FilterGrayscale:
		key = shaders.KeyGrayscale
	case pixel.FilterInvert:
		key = shaders.KeyInvert
	case pixel.FilterSepia:
		key = shaders.KeySepia
	default:
		return nil, fmt.Errorf("%w: filter %q", phototune.ErrUnknownOperation, f)
	}
	return p.runEffect(img, key, shaderParams{}, nil)
}

// ProcessAdjustments chains the non-zero adjustments in the same fixed
// order as pixel.ApplyAdjustments: brightness/contrast, saturation, hue,
// blur, sharpen.
func (p *Processor) ProcessAdjustments(img *phototune.ImageBuffer, a phototune.Adjustments) (*phototune.ImageBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if a.IsZero() {
		return img, nil
	}
	out := img
	var err error

	if a.Brightness != 0 || a.Contrast != 0 {
		out, err = p.ProcessBrightnessContrast(out, phototune.BrightnessContrast{
			Brightness: a.Brightness, Contrast: a.Contrast,
		})
		if err != nil {
			return nil, err
		}
	}
	if a.Saturation != 0 {
		out, err = p.ProcessSaturation(out, phototune.Saturation{Amount: a.Saturation})
		if err != nil {
			return nil, err
		}
	}
	if a.Hue != 0 {
		out, err = p.ProcessHue(out, phototune.Hue{Degrees: a.Hue})
		if err != nil {
			return nil, err
		}
	}
	if a.Blur > 0 {
		out, err = p.ProcessBlur(out, phototune.Blur{Radius: a.Blur})
		if err != nil {
			return nil, err
		}
	}
	if a.Sharpen != 0 {
		out, err = p.ProcessSharpen(out, phototune.Sharpen{Amount: a.Sharpen, Radius: 1})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func clampAmount(v float64) float32 {
	return colormath.Clamp(float32(v), -100, 100)
}

func offsetsVec(o phototune.ColorOffsets) [4]float32 {
	return [4]float32{
		colormath.Clamp(float32(o.R), -1, 1),
		colormath.Clamp(float32(o.G), -1, 1),
		colormath.Clamp(float32(o.B), -1, 1),
		0,
	}
}

func kernelBytes(kern []float32) []byte {
	out := make([]byte, len(kern)*4)
	for i, v := range kern {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// blendDetail mixes the filtered result back toward the original:
// result = filtered*(1-d) + original*d.
func blendDetail(orig, filtered *phototune.ImageBuffer, detail float32) *phototune.ImageBuffer {
	if detail == 0 || filtered == orig {
		return filtered
	}
	out := &phototune.ImageBuffer{
		Width:  orig.Width,
		Height: orig.Height,
		Pix:    make([]uint8, len(orig.Pix)),
	}
	for i := range out.Pix {
		f := float32(filtered.Pix[i])
		o := float32(orig.Pix[i])
		out.Pix[i] = colormath.RoundByte(f*(1-detail) + o*detail)
	}
	return out
}
