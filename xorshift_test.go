package weakprng

import (
	"math/rand"
	"testing"
)

func TestStateForward(t *testing.T) {
	tests := []struct {
		name string
		in   State
		want State
	}{
		{"small", State{S0: 1, S1: 2}, State{S0: 2, S1: 0x0000000000800043}},
		{"golden", State{S0: 0x9e3779b97f4a7c15, S1: 0xbf58476d1ce4e5b9}, State{S0: 0xbf58476d1ce4e5b9, S1: 0xfdd0ba81d17cf80e}},
		{"zero is fixed", State{}, State{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Forward(); got != tt.want {
				t.Errorf("Forward() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateReverse(t *testing.T) {
	tests := []struct {
		in   State
		want State
	}{
		{State{S0: 1, S1: 2}, State{S0: 0x0000c00001800003, S1: 1}},
		{State{S0: 0x9e3779b97f4a7c15, S1: 0xbf58476d1ce4e5b9}, State{S0: 0xb1850721d452cb5a, S1: 0x9e3779b97f4a7c15}},
	}

	for _, tt := range tests {
		if got := tt.in.Reverse(); got != tt.want {
			t.Errorf("%v.Reverse() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// The folded inverse must hold over the full 64-bit domain, not just the
// states reachable from a particular seed.
func TestForwardReverseInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	states := []State{
		{}, {S0: ^uint64(0), S1: ^uint64(0)}, {S0: 1}, {S1: 1},
		{S0: 1 << 63}, {S1: 1 << 63}, {S0: 0x8000000000000001, S1: 0x8000000000000001},
	}
	for i := 0; i < 100000; i++ {
		states = append(states, State{S0: rng.Uint64(), S1: rng.Uint64()})
	}

	for _, s := range states {
		if got := s.Forward().Reverse(); got != s {
			t.Fatalf("Reverse(Forward(%v)) = %v", s, got)
		}
		if got := s.Reverse().Forward(); got != s {
			t.Fatalf("Forward(Reverse(%v)) = %v", s, got)
		}
	}
}

func TestAdvanceRewind(t *testing.T) {
	s := State{S0: 0x0123456789abcdef, S1: 0x0fedcba987654321}
	for _, n := range []int{0, 1, 14, 64, 1000} {
		if got := s.Advance(n).Rewind(n); got != s {
			t.Errorf("Advance(%d).Rewind(%d) = %v, want %v", n, n, got, s)
		}
	}

	manual := s
	for i := 0; i < 5; i++ {
		manual = manual.Forward()
	}
	if got := s.Advance(5); got != manual {
		t.Errorf("Advance(5) = %v, want %v", got, manual)
	}
}

func TestStateOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := State{S0: rng.Uint64(), S1: rng.Uint64()}
	for i := 0; i < 10000; i++ {
		s = s.Forward()
		out := s.Output()
		if out < 0 || out >= 1 {
			t.Fatalf("Output() = %v, outside [0,1)", out)
		}
		if got := OutputToMantissa(out); got != s.S0>>12 {
			t.Fatalf("mantissa of Output() = 0x%x, want 0x%x", got, s.S0>>12)
		}
	}

	if got := (State{S0: 0xbf58476d1ce4e5b9}).Output(); got != 0.7474407807720982 {
		t.Errorf("Output() = %v, want 0.7474407807720982", got)
	}
}

func TestParseState(t *testing.T) {
	s := State{S0: 0x9e3779b97f4a7c15, S1: 0x0000000000000001}
	str := s.String()
	if str != "9e3779b97f4a7c15:0000000000000001" {
		t.Errorf("String() = %q", str)
	}

	got, err := ParseState(str)
	if err != nil {
		t.Fatalf("ParseState() error = %v", err)
	}
	if got != s {
		t.Errorf("ParseState() = %v, want %v", got, s)
	}

	for _, bad := range []string{"", "9e3779b97f4a7c15", "9e3779b97f4a7c15-0000000000000001", "zz3779b97f4a7c15:0000000000000001"} {
		if _, err := ParseState(bad); err == nil {
			t.Errorf("ParseState(%q) should fail", bad)
		}
	}
}
