package pixel

import (
	"errors"
	"testing"

	"github.com/gopixel/phototune"
)

func TestScaleDimensions(t *testing.T) {
	img := gradient(t, 8, 6)

	out, err := Scale(img, 4, 3)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if out.Width != 4 || out.Height != 3 {
		t.Errorf("scaled dimensions = %dx%d, want 4x3", out.Width, out.Height)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("scaled buffer invalid: %v", err)
	}
}

func TestScaleSameSizeReturnsInput(t *testing.T) {
	img := gradient(t, 5, 5)

	out, err := Scale(img, 5, 5)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if out != img {
		t.Error("matching dimensions should return the input buffer itself")
	}
}

func TestScaleRejectsNonPositive(t *testing.T) {
	img := gradient(t, 4, 4)

	for _, dims := range [][2]int{{0, 4}, {4, 0}, {-1, 4}} {
		_, err := Scale(img, dims[0], dims[1])
		if !errors.Is(err, phototune.ErrInvalidParameters) {
			t.Errorf("Scale(%d, %d) error = %v, want ErrInvalidParameters", dims[0], dims[1], err)
		}
	}
}

func TestScaleUniformStaysUniform(t *testing.T) {
	img := uniform(t, 8, 8, 77, 120, 200)

	out, err := Scale(img, 3, 3)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	want := uniform(t, 3, 3, 77, 120, 200)
	if d := maxChannelDiff(t, out, want); d > 1 {
		t.Errorf("downscaling a flat image moved channels by up to %d", d)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxSize      int
		wantW, wantH int
	}{
		{"landscape", 8, 4, 4, 4, 2},
		{"portrait", 4, 8, 4, 2, 4},
		{"square", 6, 6, 3, 3, 3},
		{"extreme ratio clamps to 1", 100, 2, 10, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := gradient(t, tt.w, tt.h)
			out, err := FitWithin(img, tt.maxSize)
			if err != nil {
				t.Fatalf("FitWithin: %v", err)
			}
			if out.Width != tt.wantW || out.Height != tt.wantH {
				t.Errorf("fitted dimensions = %dx%d, want %dx%d",
					out.Width, out.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitWithinSmallEnoughReturnsInput(t *testing.T) {
	img := gradient(t, 4, 4)

	out, err := FitWithin(img, 10)
	if err != nil {
		t.Fatalf("FitWithin: %v", err)
	}
	if out != img {
		t.Error("image already within bounds should be returned unchanged")
	}
}

func TestFitWithinRejectsNonPositiveMax(t *testing.T) {
	img := gradient(t, 4, 4)

	_, err := FitWithin(img, 0)
	if !errors.Is(err, phototune.ErrInvalidParameters) {
		t.Errorf("FitWithin(0) error = %v, want ErrInvalidParameters", err)
	}
}
