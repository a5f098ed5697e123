// Package weakprng recovers the internal state of a xorshift128+ generator
// observed only through its IEEE-754 double outputs, the construction behind
// V8's Math.random, and predicts every other output the same generator
// produced. It exists to show why a statistical generator must never be used
// to derive key material.
//
// Example usage:
//
//	r, err := weakprng.New(weakprng.Config{Backend: weakprng.GF2Backend})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// served holds outputs in the order a consumer received them.
//	state, err := r.Recover(ctx, served)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	next := state.Forward().Output()
package weakprng

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opd-ai/go-weakprng/bitvec"
	"github.com/opd-ai/go-weakprng/bitvec/gf2"
	"github.com/opd-ai/go-weakprng/bitvec/sat"
)

// Backend selects the bit-vector solver used for recovery.
type Backend int

const (
	// GF2Backend solves the constraints by Gauss-Jordan elimination over GF(2).
	// It is exact and fast because every xorshift128+ step is linear.
	GF2Backend Backend = iota

	// SATBackend bit-blasts the constraints into the gini CDCL solver.
	// It is considerably slower; bound it with Config.Timeout.
	SATBackend
)

// String returns the string representation of the backend.
func (b Backend) String() string {
	switch b {
	case GF2Backend:
		return "gf2"
	case SATBackend:
		return "sat"
	default:
		return fmt.Sprintf("Backend(%d)", b)
	}
}

// ParseBackend parses the names produced by Backend.String.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "gf2", "":
		return GF2Backend, nil
	case "sat":
		return SATBackend, nil
	default:
		return 0, fmt.Errorf("weakprng: unknown backend %q", s)
	}
}

// Config specifies how a Recoverer solves.
type Config struct {
	// Backend selects the built-in solver.
	Backend Backend

	// Timeout bounds a single satisfiability check. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration

	// Opener, when non-nil, overrides Backend with a custom solver.
	Opener bitvec.Opener
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Backend != GF2Backend && c.Backend != SATBackend {
		return fmt.Errorf("weakprng: invalid backend: %v", c.Backend)
	}

	if c.Timeout < 0 {
		return errors.New("weakprng: timeout must not be negative")
	}

	return nil
}

// opener returns the solver constructor selected by the configuration.
func (c *Config) opener() bitvec.Opener {
	if c.Opener != nil {
		return c.Opener
	}
	if c.Backend == SATBackend {
		return sat.Open
	}
	return gf2.Open
}

var (
	// ErrRecoveryFailed reports that no consistent, fully determined state
	// could be found for the observations.
	ErrRecoveryFailed = errors.New("weakprng: state recovery failed")

	// ErrNoObservations reports an empty observation sequence.
	ErrNoObservations = errors.New("weakprng: no observations")
)

// RecoveryError describes a failed recovery attempt. It matches
// ErrRecoveryFailed with errors.Is.
type RecoveryError struct {
	// Result is the outcome of the satisfiability check.
	Result bitvec.Result

	// Observations is the number of outputs the attempt used.
	Observations int

	// FreeBits is the number of state bits the observations left open.
	// Only set when Result is Sat.
	FreeBits int

	// Err is the underlying cause, such as a context error.
	Err error
}

func (e *RecoveryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "weakprng: state recovery failed: %s with %d observations", e.Result, e.Observations)
	if e.FreeBits > 0 {
		fmt.Fprintf(&b, ", %d state bits undetermined", e.FreeBits)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports ErrRecoveryFailed as a match.
func (e *RecoveryError) Is(target error) bool {
	return target == ErrRecoveryFailed
}

func (e *RecoveryError) Unwrap() error {
	return e.Err
}
