package shaders

import (
	"strings"
	"testing"
)

func TestSourceUnknownKey(t *testing.T) {
	if _, err := Source(EffectKey("nope")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestSourceContainsEntryPoint(t *testing.T) {
	for _, key := range Keys() {
		src, err := Source(key)
		if err != nil {
			t.Fatalf("Source(%s): %v", key, err)
		}
		if !strings.Contains(src, "@compute @workgroup_size(8, 8)") {
			t.Errorf("%s: missing compute entry point", key)
		}
		if !strings.Contains(src, "fn main(") {
			t.Errorf("%s: missing main function", key)
		}
	}
}

func TestNeedsAux(t *testing.T) {
	tests := []struct {
		key  EffectKey
		want bool
	}{
		{KeyCurves, true},
		{KeyBlurH, true},
		{KeyBlurV, true},
		{KeySharpen, true},
		{KeyBrightnessContrast, false},
		{KeyGrayscale, false},
		{KeyMedian, false},
	}
	for _, tt := range tests {
		if got := NeedsAux(tt.key); got != tt.want {
			t.Errorf("NeedsAux(%s) = %v, want %v", tt.key, got, tt.want)
		}
	}
	for _, key := range Keys() {
		src, err := Source(key)
		if err != nil {
			t.Fatalf("Source(%s): %v", key, err)
		}
		hasBinding3 := strings.Contains(src, "@binding(3)")
		if hasBinding3 != NeedsAux(key) {
			t.Errorf("%s: binding 3 presence %v does not match NeedsAux %v",
				key, hasBinding3, NeedsAux(key))
		}
	}
}

// TestValidateAll compiles every shader through naga. This catches WGSL
// syntax and type errors without needing a GPU device.
func TestValidateAll(t *testing.T) {
	for _, key := range Keys() {
		key := key
		t.Run(string(key), func(t *testing.T) {
			if err := Validate(key); err != nil {
				t.Fatalf("Validate(%s): %v", key, err)
			}
		})
	}
}
