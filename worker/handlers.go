package worker

import (
	"encoding/json"
	"fmt"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/pixel"
)

// Per-operation payloads. Field names follow the JSON envelope the
// gateway speaks, not the Go parameter structs they map onto.

// AdjustPayload drives the combined adjustment chain.
type AdjustPayload struct {
	ImageData
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Hue        float64 `json:"hue"`
	Blur       float64 `json:"blur"`
	Sharpen    float64 `json:"sharpen"`
}

// FilterPayload applies a parameterless named filter.
type FilterPayload struct {
	ImageData
	Filter string `json:"filter"`
}

// TransformPayload rotates or flips the image.
type TransformPayload struct {
	ImageData
	Operation string `json:"operation"`
}

// LevelsPayload remaps the tonal range.
type LevelsPayload struct {
	ImageData
	InputBlack  float64 `json:"inputBlack"`
	InputWhite  float64 `json:"inputWhite"`
	InputGamma  float64 `json:"inputGamma"`
	OutputBlack float64 `json:"outputBlack"`
	OutputWhite float64 `json:"outputWhite"`
}

// CurvesPayload applies tone curves.
type CurvesPayload struct {
	ImageData
	RGB []phototune.CurvePoint `json:"rgb,omitempty"`
	R   []phototune.CurvePoint `json:"r,omitempty"`
	G   []phototune.CurvePoint `json:"g,omitempty"`
	B   []phototune.CurvePoint `json:"b,omitempty"`
}

// HSLPayload adjusts hue, saturation and lightness, optionally targeted
// at a hue band.
type HSLPayload struct {
	ImageData
	Hue        float64  `json:"hue"`
	Saturation float64  `json:"saturation"`
	Lightness  float64  `json:"lightness"`
	TargetHue  *float64 `json:"targetHue,omitempty"`
	HueRange   float64  `json:"hueRange,omitempty"`
}

// ColorBalancePayload applies per-band color offsets.
type ColorBalancePayload struct {
	ImageData
	Shadows    [3]float64 `json:"shadows"`
	Midtones   [3]float64 `json:"midtones"`
	Highlights [3]float64 `json:"highlights"`
}

// VibrancePayload boosts muted colors.
type VibrancePayload struct {
	ImageData
	Amount float64 `json:"amount"`
}

// NoiseReductionPayload smooths sensor noise.
type NoiseReductionPayload struct {
	ImageData
	Strength       float64 `json:"strength"`
	Method         string  `json:"method,omitempty"`
	PreserveDetail float64 `json:"preserveDetail,omitempty"`
}

// SharpenPayload applies an unsharp mask.
type SharpenPayload struct {
	ImageData
	Amount    float64 `json:"amount"`
	Radius    float64 `json:"radius,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// BlurPayload applies a Gaussian blur.
type BlurPayload struct {
	ImageData
	Radius float64 `json:"radius"`
}

// HistogramPayload computes channel and luminance histograms.
type HistogramPayload struct {
	ImageData
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, fmt.Errorf("%w: missing payload", phototune.ErrInvalidParameters)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", phototune.ErrInvalidParameters, err)
	}
	return v, nil
}

// dispatch decodes the payload for the request type, runs the CPU engine
// and returns the JSON-marshalable result.
func dispatch(req Request) (any, error) {
	switch req.Type {
	case OpAdjust:
		p, err := decode[AdjustPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.ApplyAdjustments(img, phototune.Adjustments{
			Brightness: p.Brightness, Contrast: p.Contrast,
			Saturation: p.Saturation, Hue: p.Hue,
			Blur: p.Blur, Sharpen: p.Sharpen,
		})
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpFilter:
		p, err := decode[FilterPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.ApplyFilter(img, pixel.Filter(p.Filter))
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpTransform:
		p, err := decode[TransformPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := applyTransform(img, p.Operation)
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpLevels:
		p, err := decode[LevelsPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.AdjustLevels(img, phototune.Levels{
			InputBlack: p.InputBlack, InputWhite: p.InputWhite,
			InputGamma: p.InputGamma, OutputBlack: p.OutputBlack,
			OutputWhite: p.OutputWhite,
		})
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpCurves:
		p, err := decode[CurvesPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.ApplyCurves(img, phototune.Curves{
			RGB: p.RGB, R: p.R, G: p.G, B: p.B,
		})
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpHSL:
		p, err := decode[HSLPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		params := phototune.HSL{
			Hue: p.Hue, Saturation: p.Saturation, Lightness: p.Lightness,
			HueRange: p.HueRange,
		}
		if p.TargetHue != nil {
			params.HasTarget = true
			params.TargetHue = *p.TargetHue
		}
		out, err := pixel.AdjustHSL(img, params)
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpColorBalance:
		p, err := decode[ColorBalancePayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.AdjustColorBalance(img, phototune.ColorBalance{
			Shadows:    offsets(p.Shadows),
			Midtones:   offsets(p.Midtones),
			Highlights: offsets(p.Highlights),
		})
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpVibrance:
		p, err := decode[VibrancePayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.AdjustVibrance(img, phototune.Vibrance{Amount: p.Amount})
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpNoiseReduction:
		p, err := decode[NoiseReductionPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.ReduceNoise(img, phototune.NoiseReduction{
			Strength:       p.Strength,
			Method:         phototune.NoiseMethod(p.Method),
			PreserveDetail: p.PreserveDetail,
		})
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpSharpen:
		p, err := decode[SharpenPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.UnsharpMask(img, phototune.Sharpen{
			Amount: p.Amount, Radius: p.Radius, Threshold: p.Threshold,
		})
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpBlur:
		p, err := decode[BlurPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		out, err := pixel.GaussianBlur(img, p.Radius)
		if err != nil {
			return nil, err
		}
		return imageData(out), nil

	case OpHistogram:
		p, err := decode[HistogramPayload](req.Payload)
		if err != nil {
			return nil, err
		}
		img, err := p.buffer()
		if err != nil {
			return nil, err
		}
		return pixel.ComputeHistogram(img)

	default:
		return nil, fmt.Errorf("%w: %q", phototune.ErrUnknownOperation, req.Type)
	}
}

func applyTransform(img *phototune.ImageBuffer, op string) (*phototune.ImageBuffer, error) {
	switch op {
	case "rotate90":
		return pixel.Rotate(img, pixel.Rotate90)
	case "rotate180":
		return pixel.Rotate(img, pixel.Rotate180)
	case "rotate270":
		return pixel.Rotate(img, pixel.Rotate270)
	case "flip-horizontal":
		return pixel.FlipHorizontal(img)
	case "flip-vertical":
		return pixel.FlipVertical(img)
	default:
		return nil, fmt.Errorf("%w: transform %q", phototune.ErrUnknownOperation, op)
	}
}

func offsets(v [3]float64) phototune.ColorOffsets {
	return phototune.ColorOffsets{R: v[0], G: v[1], B: v[2]}
}
