package weakprng

import (
	"fmt"
	"strconv"
)

// State is the 128-bit state of a xorshift128+ generator as used by V8's
// Math.random. States are values; stepping returns a new State.
type State struct {
	S0 uint64
	S1 uint64
}

// Forward returns the successor state.
func (s State) Forward() State {
	x := s.S0
	x ^= x << 23
	x ^= x >> 17
	x ^= s.S1
	x ^= s.S1 >> 26
	return State{S0: s.S1, S1: x}
}

// Reverse returns the predecessor state, undoing Forward.
//
// Forward computes S1' = y ^ y>>17 ^ S1 ^ S1>>26 with y = S0 ^ S0<<23 and
// S0' = S1. Both shift-xor steps are undone by xoring in the doubled shifts
// until they fall off the word: y = x ^ x>>17 ^ x>>34 ^ x>>51 and
// S0 = y ^ y<<23 ^ y<<46.
func (s State) Reverse() State {
	x := s.S1 ^ s.S0 ^ s.S0>>26
	x ^= x>>17 ^ x>>34 ^ x>>51
	x ^= x<<23 ^ x<<46
	return State{S0: x, S1: s.S0}
}

// Advance returns the state n steps forward.
func (s State) Advance(n int) State {
	for i := 0; i < n; i++ {
		s = s.Forward()
	}
	return s
}

// Rewind returns the state n steps back.
func (s State) Rewind(n int) State {
	for i := 0; i < n; i++ {
		s = s.Reverse()
	}
	return s
}

// Mantissa returns the 52 output bits of the state.
func (s State) Mantissa() uint64 {
	return s.S0 >> 12
}

// Output returns the double in [0,1) the generator reports for this state.
func (s State) Output() float64 {
	return MantissaToOutput(s.Mantissa())
}

// String renders the state as two hex words.
func (s State) String() string {
	return fmt.Sprintf("%016x:%016x", s.S0, s.S1)
}

// ParseState parses the format produced by State.String.
func ParseState(str string) (State, error) {
	if len(str) != 33 || str[16] != ':' {
		return State{}, fmt.Errorf("weakprng: invalid state %q", str)
	}
	s0, err := strconv.ParseUint(str[:16], 16, 64)
	if err != nil {
		return State{}, fmt.Errorf("weakprng: invalid state %q: %w", str, err)
	}
	s1, err := strconv.ParseUint(str[17:], 16, 64)
	if err != nil {
		return State{}, fmt.Errorf("weakprng: invalid state %q: %w", str, err)
	}
	return State{S0: s0, S1: s1}, nil
}
