package pixel

import (
	"errors"
	"testing"

	"github.com/gopixel/phototune"
)

func TestAdjustBrightness(t *testing.T) {
	img := uniform(t, 2, 2, 100, 100, 100)

	out, err := AdjustBrightnessContrast(img, phototune.BrightnessContrast{Brightness: 20})
	if err != nil {
		t.Fatalf("AdjustBrightnessContrast: %v", err)
	}

	r, g, b, a := out.At(0, 0)
	if r != 151 || g != 151 || b != 151 {
		t.Errorf("brightness +20 on 100 = (%d, %d, %d), want 151", r, g, b)
	}
	if a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
	if got, _, _, _ := img.At(0, 0); got != 100 {
		t.Error("input buffer was modified")
	}
}

func TestAdjustBrightnessClamps(t *testing.T) {
	img := uniform(t, 1, 1, 200, 200, 200)

	out, err := AdjustBrightnessContrast(img, phototune.BrightnessContrast{Brightness: 500})
	if err != nil {
		t.Fatalf("AdjustBrightnessContrast: %v", err)
	}

	// 500 clamps to 100: 200 + 255 saturates at white.
	if r, _, _, _ := out.At(0, 0); r != 255 {
		t.Errorf("clamped brightness = %d, want 255", r)
	}
}

func TestAdjustContrast(t *testing.T) {
	tests := []struct {
		name     string
		in       uint8
		contrast float64
		want     uint8
	}{
		{"min contrast collapses to pivot", 40, -100, 128},
		{"min contrast collapses bright to pivot", 220, -100, 128},
		{"max contrast doubles distance", 138, 100, 148},
		{"pivot is fixed", 128, 100, 128},
		{"zero is identity", 73, 0, 73},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := uniform(t, 1, 1, tt.in, tt.in, tt.in)
			out, err := AdjustBrightnessContrast(img, phototune.BrightnessContrast{Contrast: tt.contrast})
			if err != nil {
				t.Fatalf("AdjustBrightnessContrast: %v", err)
			}
			if r, _, _, _ := out.At(0, 0); r != tt.want {
				t.Errorf("contrast %v on %d = %d, want %d", tt.contrast, tt.in, r, tt.want)
			}
		})
	}
}

func TestAdjustBrightnessContrastZeroIsIdentity(t *testing.T) {
	img := gradient(t, 5, 5)
	out, err := AdjustBrightnessContrast(img, phototune.BrightnessContrast{})
	if err != nil {
		t.Fatalf("AdjustBrightnessContrast: %v", err)
	}
	if d := maxChannelDiff(t, out, img); d > 1 {
		t.Errorf("zero adjustment moved channels by up to %d", d)
	}
}

func TestAdjustSaturationGrayscale(t *testing.T) {
	img := uniform(t, 2, 1, 200, 100, 50)

	out, err := AdjustSaturation(img, phototune.Saturation{Amount: -100})
	if err != nil {
		t.Fatalf("AdjustSaturation: %v", err)
	}

	r, g, b, _ := out.At(0, 0)
	if r != g || g != b {
		t.Fatalf("saturation -100 left color: (%d, %d, %d)", r, g, b)
	}
	// BT.601 luminance of (200, 100, 50) is 124.2.
	if r != 124 {
		t.Errorf("gray value = %d, want 124", r)
	}
}

func TestAdjustSaturationIdentity(t *testing.T) {
	img := gradient(t, 4, 3)
	out, err := AdjustSaturation(img, phototune.Saturation{Amount: 0})
	if err != nil {
		t.Fatalf("AdjustSaturation: %v", err)
	}
	if d := maxChannelDiff(t, out, img); d > 0 {
		t.Errorf("zero saturation changed pixels by up to %d", d)
	}
}

func TestAdjustHueRotatesPrimaries(t *testing.T) {
	img := uniform(t, 1, 1, 255, 0, 0)

	out, err := AdjustHue(img, phototune.Hue{Degrees: 120})
	if err != nil {
		t.Fatalf("AdjustHue: %v", err)
	}

	want := uniform(t, 1, 1, 0, 255, 0)
	if d := maxChannelDiff(t, out, want); d > 1 {
		r, g, b, _ := out.At(0, 0)
		t.Errorf("red rotated 120 degrees = (%d, %d, %d), want green", r, g, b)
	}
}

func TestAdjustHueFullTurnIsIdentity(t *testing.T) {
	img := gradient(t, 4, 4)
	out, err := AdjustHue(img, phototune.Hue{Degrees: 360})
	if err != nil {
		t.Fatalf("AdjustHue: %v", err)
	}
	if d := maxChannelDiff(t, out, img); d > 1 {
		t.Errorf("full hue rotation moved channels by up to %d", d)
	}
}

func TestAdjustVibrance(t *testing.T) {
	// A fully saturated pixel has factor exactly 1 and must not move.
	sat := uniform(t, 1, 1, 255, 0, 0)
	out, err := AdjustVibrance(sat, phototune.Vibrance{Amount: 100})
	if err != nil {
		t.Fatalf("AdjustVibrance: %v", err)
	}
	samePix(t, out, sat)

	// A muted pixel gains saturation: spread from gray grows.
	muted := uniform(t, 1, 1, 150, 120, 120)
	out, err = AdjustVibrance(muted, phototune.Vibrance{Amount: 100})
	if err != nil {
		t.Fatalf("AdjustVibrance: %v", err)
	}
	r, g, _, _ := out.At(0, 0)
	if int(r)-int(g) <= 30 {
		t.Errorf("vibrance did not widen channel spread: (%d, %d)", r, g)
	}

	// Gray pixels have no chroma to boost.
	gray := uniform(t, 1, 1, 90, 90, 90)
	out, err = AdjustVibrance(gray, phototune.Vibrance{Amount: 100})
	if err != nil {
		t.Fatalf("AdjustVibrance: %v", err)
	}
	samePix(t, out, gray)
}

func TestAdjustLevels(t *testing.T) {
	identity := phototune.Levels{InputWhite: 255, InputGamma: 1, OutputWhite: 255}

	img := gradient(t, 4, 4)
	out, err := AdjustLevels(img, identity)
	if err != nil {
		t.Fatalf("AdjustLevels: %v", err)
	}
	samePix(t, out, img)

	// Raising the input black point crushes everything at or below it.
	img = uniform(t, 1, 1, 100, 128, 255)
	out, err = AdjustLevels(img, phototune.Levels{
		InputBlack: 128, InputWhite: 255, InputGamma: 1, OutputWhite: 255,
	})
	if err != nil {
		t.Fatalf("AdjustLevels: %v", err)
	}
	r, g, b, _ := out.At(0, 0)
	if r != 0 || g != 0 {
		t.Errorf("values at or below input black = (%d, %d), want 0", r, g)
	}
	if b != 255 {
		t.Errorf("input white = %d, want 255", b)
	}
}

func TestAdjustLevelsDegenerateRange(t *testing.T) {
	img := gradient(t, 3, 3)
	out, err := AdjustLevels(img, phototune.Levels{
		InputBlack: 128, InputWhite: 128, InputGamma: 1,
		OutputBlack: 7, OutputWhite: 255,
	})
	if err != nil {
		t.Fatalf("AdjustLevels: %v", err)
	}
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 7 || out.Pix[i+1] != 7 || out.Pix[i+2] != 7 {
			t.Fatalf("degenerate input range pixel %d = (%d, %d, %d), want output black",
				i/4, out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		}
	}
}

func TestAdjustHSLTargetedSkipsDistantHues(t *testing.T) {
	blue := uniform(t, 2, 2, 0, 0, 255)

	out, err := AdjustHSL(blue, phototune.HSL{
		Hue: 90, Saturation: -100,
		HasTarget: true, TargetHue: 0, HueRange: 30,
	})
	if err != nil {
		t.Fatalf("AdjustHSL: %v", err)
	}
	// Blue is 240 degrees from the red target, far outside the range.
	samePix(t, out, blue)
}

func TestAdjustHSLDesaturates(t *testing.T) {
	img := uniform(t, 1, 1, 200, 50, 50)

	out, err := AdjustHSL(img, phototune.HSL{Saturation: -100})
	if err != nil {
		t.Fatalf("AdjustHSL: %v", err)
	}

	r, g, b, _ := out.At(0, 0)
	if r != g || g != b {
		t.Errorf("saturation -100 left chroma: (%d, %d, %d)", r, g, b)
	}
}

func TestAdjustColorBalance(t *testing.T) {
	p := phototune.ColorBalance{Shadows: phototune.ColorOffsets{R: 0.2}}

	dark := uniform(t, 1, 1, 10, 10, 10)
	out, err := AdjustColorBalance(dark, p)
	if err != nil {
		t.Fatalf("AdjustColorBalance: %v", err)
	}
	r, g, b, _ := out.At(0, 0)
	if r != 61 {
		t.Errorf("shadow red = %d, want 61", r)
	}
	if g != 10 || b != 10 {
		t.Errorf("untouched channels = (%d, %d), want 10", g, b)
	}

	// A highlight pixel carries zero shadow weight.
	bright := uniform(t, 1, 1, 230, 230, 230)
	out, err = AdjustColorBalance(bright, p)
	if err != nil {
		t.Fatalf("AdjustColorBalance: %v", err)
	}
	samePix(t, out, bright)
}

func TestAdjustColorBalanceZeroIsIdentity(t *testing.T) {
	img := gradient(t, 4, 4)
	out, err := AdjustColorBalance(img, phototune.ColorBalance{})
	if err != nil {
		t.Fatalf("AdjustColorBalance: %v", err)
	}
	samePix(t, out, img)
}

func TestApplyAdjustmentsZeroReturnsInput(t *testing.T) {
	img := gradient(t, 3, 3)
	out, err := ApplyAdjustments(img, phototune.Adjustments{})
	if err != nil {
		t.Fatalf("ApplyAdjustments: %v", err)
	}
	if out != img {
		t.Error("zero adjustments should return the input buffer")
	}
}

func TestApplyAdjustmentsMatchesSingleStep(t *testing.T) {
	img := gradient(t, 4, 4)

	chained, err := ApplyAdjustments(img, phototune.Adjustments{Brightness: 15})
	if err != nil {
		t.Fatalf("ApplyAdjustments: %v", err)
	}
	direct, err := AdjustBrightnessContrast(img, phototune.BrightnessContrast{Brightness: 15})
	if err != nil {
		t.Fatalf("AdjustBrightnessContrast: %v", err)
	}
	samePix(t, chained, direct)
}

func TestAdjustRejectsInvalidBuffer(t *testing.T) {
	bad := &phototune.ImageBuffer{Width: 2, Height: 2, Pix: make([]uint8, 3)}

	if _, err := AdjustBrightnessContrast(bad, phototune.BrightnessContrast{}); !errors.Is(err, phototune.ErrInvalidParameters) {
		t.Errorf("short buffer error = %v, want ErrInvalidParameters", err)
	}
	if _, err := AdjustSaturation(nil, phototune.Saturation{}); !errors.Is(err, phototune.ErrInvalidParameters) {
		t.Errorf("nil buffer error = %v, want ErrInvalidParameters", err)
	}
}
