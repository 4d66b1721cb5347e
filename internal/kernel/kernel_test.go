package kernel

import (
	"math"
	"testing"
)

func TestGaussianNoOpSentinel(t *testing.T) {
	for _, r := range []float64{0, -1, -0.01} {
		if k := Gaussian(r); k != nil {
			t.Errorf("Gaussian(%v) = %v, want nil", r, k)
		}
	}
}

func TestGaussianProperties(t *testing.T) {
	for _, radius := range []float64{0.5, 1, 2, 5, 10} {
		k := Gaussian(radius)
		if len(k)%2 != 1 {
			t.Fatalf("radius %v: even kernel length %d", radius, len(k))
		}

		var sum float64
		for _, v := range k {
			if v < 0 {
				t.Fatalf("radius %v: negative weight %v", radius, v)
			}
			sum += float64(v)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Fatalf("radius %v: weights sum to %v", radius, sum)
		}

		// Symmetric around the center, which must hold the peak.
		n := len(k)
		for i := 0; i < n/2; i++ {
			if k[i] != k[n-1-i] {
				t.Fatalf("radius %v: asymmetric at %d: %v != %v", radius, i, k[i], k[n-1-i])
			}
		}
		center := k[n/2]
		for i, v := range k {
			if v > center {
				t.Fatalf("radius %v: weight %d exceeds center: %v > %v", radius, i, v, center)
			}
		}
	}
}

func TestSizeMatchesGaussian(t *testing.T) {
	for _, radius := range []float64{0, 0.3, 1, 2.5, 8} {
		want := len(Gaussian(radius))
		if got := Size(radius); got != want {
			t.Errorf("Size(%v) = %d, want %d", radius, got, want)
		}
	}
}

func TestBox(t *testing.T) {
	if Box(0) != nil {
		t.Fatal("Box(0) should be nil")
	}
	k := Box(2)
	if len(k) != 5 {
		t.Fatalf("Box(2) length %d", len(k))
	}
	for _, v := range k {
		if v != 0.2 {
			t.Fatalf("Box(2) weight %v, want 0.2", v)
		}
	}
}

func TestCachedGaussianSharesSlices(t *testing.T) {
	a := CachedGaussian(2.5)
	b := CachedGaussian(2.5)
	if len(a) == 0 || len(b) == 0 {
		t.Fatal("empty cached kernel")
	}
	if &a[0] != &b[0] {
		t.Fatal("same radius should return the memoized slice")
	}
	if CachedGaussian(0) != nil {
		t.Fatal("cached no-op sentinel should stay nil")
	}
}

func TestCachedGaussianRoundsKey(t *testing.T) {
	// Keys quantize to 0.01 by rounding, so 0.299999 and 0.30 share
	// one cache entry.
	a := CachedGaussian(0.299999)
	b := CachedGaussian(0.30)
	if &a[0] != &b[0] {
		t.Fatal("radii within half a quantum should share the memoized slice")
	}
}

func TestMedianWindowGrowsWithStrength(t *testing.T) {
	tests := []struct {
		strength float32
		want     int
	}{
		{0, 3}, {33, 3}, {34, 5}, {66, 5}, {67, 7}, {100, 7},
	}
	for _, tt := range tests {
		if got := MedianWindow(tt.strength); got != tt.want {
			t.Errorf("MedianWindow(%v) = %d, want %d", tt.strength, got, tt.want)
		}
	}
}
