package weakprng

import (
	"math"
	"math/rand"
	"testing"
)

func TestMantissaToFloat(t *testing.T) {
	tests := []struct {
		name string
		m    uint64
		want float64
	}{
		{"zero", 0, 1.0},
		{"half", 1 << 51, 1.5},
		{"max", MantissaMask, math.Nextafter(2, 0)},
		{"high bits dropped", 1<<60 | 1<<51, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MantissaToFloat(tt.m); got != tt.want {
				t.Errorf("MantissaToFloat(0x%x) = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestMantissaRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	edges := []uint64{0, 1, MantissaMask, MantissaMask - 1, 1 << 51, 0xfedcba9876543}
	for i := 0; i < 10000; i++ {
		edges = append(edges, rng.Uint64()&MantissaMask)
	}

	for _, m := range edges {
		f := MantissaToFloat(m)
		if f < 1 || f >= 2 {
			t.Fatalf("MantissaToFloat(0x%x) = %v, outside [1,2)", m, f)
		}
		if got := FloatToMantissa(f); got != m {
			t.Fatalf("FloatToMantissa(MantissaToFloat(0x%x)) = 0x%x", m, got)
		}
		out := MantissaToOutput(m)
		if out < 0 || out >= 1 {
			t.Fatalf("MantissaToOutput(0x%x) = %v, outside [0,1)", m, out)
		}
		if got := OutputToMantissa(out); got != m {
			t.Fatalf("OutputToMantissa(MantissaToOutput(0x%x)) = 0x%x", m, got)
		}
	}
}
