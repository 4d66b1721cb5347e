package pixel

import (
	"testing"

	"github.com/gopixel/phototune"
)

func TestApplyCurvesIdentityReturnsInput(t *testing.T) {
	img := gradient(t, 4, 4)

	out, err := ApplyCurves(img, phototune.Curves{})
	if err != nil {
		t.Fatalf("ApplyCurves: %v", err)
	}
	if out != img {
		t.Error("identity curves should return the input buffer itself")
	}

	// A diagonal control-point pair resolves to the identity LUT too.
	out, err = ApplyCurves(img, phototune.Curves{
		RGB: []phototune.CurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}},
	})
	if err != nil {
		t.Fatalf("ApplyCurves: %v", err)
	}
	if out != img {
		t.Error("diagonal curve should return the input buffer itself")
	}
}

func TestApplyCurvesInvertViaRGB(t *testing.T) {
	img := gradient(t, 5, 3)

	out, err := ApplyCurves(img, phototune.Curves{
		RGB: []phototune.CurvePoint{{X: 0, Y: 255}, {X: 255, Y: 0}},
	})
	if err != nil {
		t.Fatalf("ApplyCurves: %v", err)
	}

	inverted, err := Invert(img)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	samePix(t, out, inverted)
}

func TestApplyCurvesChannelIsolation(t *testing.T) {
	img := uniform(t, 2, 2, 100, 100, 100)

	out, err := ApplyCurves(img, phototune.Curves{
		R: []phototune.CurvePoint{{X: 0, Y: 50}, {X: 255, Y: 255}},
	})
	if err != nil {
		t.Fatalf("ApplyCurves: %v", err)
	}

	r, g, b, _ := out.At(0, 0)
	if r <= 100 {
		t.Errorf("red channel = %d, want lifted above 100", r)
	}
	if g != 100 || b != 100 {
		t.Errorf("green/blue = (%d, %d), want untouched 100", g, b)
	}
}
