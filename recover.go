package weakprng

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-weakprng/bitvec"
)

const (
	// Names of the two unknowns: the state just before the oldest observation.
	targetState0 = "target_state0"
	targetState1 = "target_state1"

	// MinObservations is the smallest number of consecutive outputs whose
	// 52-bit mantissas pin down all 128 state bits. Three outputs leave 12
	// bits open.
	MinObservations = 4
)

// Recoverer reconstructs generator states from observed outputs. It holds no
// per-call state and is safe for concurrent use; every call opens and closes
// its own solving context.
type Recoverer struct {
	config Config
}

// New creates a Recoverer with the specified configuration.
func New(config Config) (*Recoverer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Recoverer{config: config}, nil
}

// Recover uses the default configuration to recover the state from outputs
// given in served order.
func Recover(ctx context.Context, served []float64) (State, error) {
	r := &Recoverer{config: Config{Backend: GF2Backend}}
	return r.Recover(ctx, served)
}

// Recover returns the generator state immediately before the oldest of the
// observed outputs.
//
// served must be consecutive outputs in the order a consumer received them:
// V8 generates outputs in batches and hands out the most recent first, so
// served[0] is the newest output and served[len(served)-1] the oldest.
// Stepping the returned state Forward len(served) times reproduces them
// oldest first.
func (r *Recoverer) Recover(ctx context.Context, served []float64) (State, error) {
	if len(served) == 0 {
		return State{}, ErrNoObservations
	}

	ms := make([]uint64, len(served))
	for i, f := range served {
		if !(f >= 0 && f < 1) {
			return State{}, fmt.Errorf("weakprng: observation %d (%v) outside [0,1)", i, f)
		}
		// Reverse into generation order.
		ms[len(served)-1-i] = OutputToMantissa(f)
	}
	return r.RecoverMantissas(ctx, ms)
}

// RecoverBytes decodes buf into outputs and recovers from them in served
// order. buf must start on a mantissa boundary.
func (r *Recoverer) RecoverBytes(ctx context.Context, buf []byte) (State, error) {
	return r.Recover(ctx, BytesToFloats(buf))
}

// RecoverMantissas recovers the state from mantissas given in generation
// order, oldest first.
func (r *Recoverer) RecoverMantissas(ctx context.Context, ms []uint64) (State, error) {
	if len(ms) == 0 {
		return State{}, ErrNoObservations
	}
	for i, m := range ms {
		if m > MantissaMask {
			return State{}, fmt.Errorf("weakprng: mantissa %d (0x%x) wider than %d bits", i, m, MantissaBits)
		}
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	traceSeparator("State recovery")
	traceLog("backend: %s", r.config.Backend)
	traceMantissas("observed mantissas, generation order", ms)

	build := func(c bitvec.Context) error {
		assertObservations(c, ms)
		return nil
	}
	sol, err := bitvec.Solve(ctx, r.config.opener(), build, targetState0, targetState1)
	traceLog("check: %s (free bits %d)", sol.Result, sol.FreeBits)
	if err != nil {
		return State{}, &RecoveryError{Result: sol.Result, Observations: len(ms), Err: err}
	}
	if sol.Result != bitvec.Sat {
		return State{}, &RecoveryError{Result: sol.Result, Observations: len(ms)}
	}
	if sol.FreeBits > 0 {
		return State{}, &RecoveryError{Result: sol.Result, Observations: len(ms), FreeBits: sol.FreeBits}
	}
	// Backends that cannot count free bits may hand back any one of many
	// states below MinObservations.
	if sol.FreeBits < 0 && len(ms) < MinObservations {
		return State{}, &RecoveryError{
			Result:       sol.Result,
			Observations: len(ms),
			Err:          fmt.Errorf("uniqueness needs at least %d observations", MinObservations),
		}
	}

	s := State{S0: sol.Values[targetState0], S1: sol.Values[targetState1]}
	if !Reproduces(s, ms) {
		return State{}, &RecoveryError{
			Result:       bitvec.Unknown,
			Observations: len(ms),
			Err:          fmt.Errorf("model %s does not reproduce the observations", s),
		}
	}

	traceState("recovered state", s)
	return s, nil
}

// assertObservations replays Forward symbolically from the two unknowns and
// ties the output bits of each step to the observed mantissa.
func assertObservations(c bitvec.Context, ms []uint64) {
	s0 := c.Const(targetState0, 64)
	s1 := c.Const(targetState1, 64)
	for _, m := range ms {
		s0, s1 = symbolicForward(s0, s1)
		c.Assert(s0.Lshr(12).Eq(c.Val(m, 64)))
	}
}

// symbolicForward mirrors State.Forward on terms.
func symbolicForward(s0, s1 bitvec.Term) (bitvec.Term, bitvec.Term) {
	x := s0.Xor(s0.Shl(23))
	x = x.Xor(x.Lshr(17))
	x = x.Xor(s1)
	x = x.Xor(s1.Lshr(26))
	return s1, x
}

// Reproduces reports whether stepping s forward yields the mantissas ms, in
// generation order.
func Reproduces(s State, ms []uint64) bool {
	for _, m := range ms {
		s = s.Forward()
		if s.Mantissa() != m {
			return false
		}
	}
	return true
}

// Outputs returns the next n outputs after s in generation order.
func Outputs(s State, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		s = s.Forward()
		out[i] = s.Output()
	}
	return out
}

// ServedOrder returns the next n outputs after s in the order a V8 consumer
// receives them when all n come from the same batch: newest first.
func ServedOrder(s State, n int) []float64 {
	out := Outputs(s, n)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
