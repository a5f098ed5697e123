// Package bitvec defines the narrow bit-vector satisfiability capability used
// to recover generator state: fixed-width unsigned constants, xor, logical
// shifts, equality assertions, a check returning Sat/Unsat/Unknown and a model
// lookup by constant name.
//
// Backends live in sub-packages:
//
//	bitvec/gf2  exact Gauss-Jordan elimination over GF(2) (affine terms only)
//	bitvec/sat  bit-blasting into the gini CDCL solver
//
// Terms and predicates belong to the Context that created them. Mixing terms
// from different contexts panics.
package bitvec

import (
	"context"
	"errors"
	"fmt"
)

// MaxWidth is the widest bit-vector a backend has to support.
const MaxWidth = 64

// ErrClosed is returned by any operation on a Context after Close.
var ErrClosed = errors.New("bitvec: context closed")

// Result is the outcome of a satisfiability check.
type Result int

const (
	// Unknown means the check was interrupted or gave up.
	Unknown Result = iota

	// Sat means the asserted predicates have a model.
	Sat

	// Unsat means the asserted predicates are contradictory.
	Unsat
)

// String returns the string representation of the result.
func (r Result) String() string {
	switch r {
	case Unknown:
		return "unknown"
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return fmt.Sprintf("Result(%d)", r)
	}
}

// Term is a symbolic unsigned bit-vector of fixed width.
type Term interface {
	// Width returns the number of bits.
	Width() int

	// Xor returns the bitwise exclusive or of both terms.
	// The widths must match.
	Xor(u Term) Term

	// Shl returns the term shifted left by n bits, truncated to its width.
	Shl(n uint) Term

	// Lshr returns the term logically shifted right by n bits.
	Lshr(n uint) Term

	// Eq returns the predicate "t == u".
	Eq(u Term) Bool
}

// Bool is a symbolic predicate.
type Bool interface {
	// And returns the conjunction of both predicates.
	And(b Bool) Bool
}

// Model maps declared constants to the concrete values of a solution.
type Model interface {
	// Value returns the value assigned to the constant declared with name.
	Value(name string) (uint64, bool)
}

// Context is a solving context. It is not safe for concurrent use.
type Context interface {
	// Const declares a named symbolic constant of the given width.
	Const(name string, width int) Term

	// Val returns a literal of the given width. Bits above width are dropped.
	Val(v uint64, width int) Term

	// Assert adds a predicate to the conjunction being solved.
	Assert(b Bool)

	// Check decides the conjunction of all asserted predicates. It returns
	// Unknown together with ctx.Err() when ctx is done first.
	Check(ctx context.Context) (Result, error)

	// Model returns the solution found by the last Sat check.
	Model() (Model, error)

	// Close interrupts any running check and releases the context.
	Close() error
}

// FreeBitsReporter is implemented by backends that can tell how many bits of
// the declared constants a satisfiable system leaves undetermined.
type FreeBitsReporter interface {
	FreeBits() int
}

// Opener creates a fresh solving context.
type Opener func() Context

// Solution is the outcome of Solve.
type Solution struct {
	Result Result

	// Values holds the model values of the requested constants. It is nil
	// unless Result is Sat.
	Values map[string]uint64

	// FreeBits is the number of undetermined bits reported by the backend,
	// or -1 when the backend does not report it.
	FreeBits int
}

// Solve runs one full solving lifecycle: it opens a context, lets build
// declare constants and assert predicates, checks them and reads back the
// named constants. The context is closed on every return path.
func Solve(ctx context.Context, open Opener, build func(c Context) error, names ...string) (Solution, error) {
	if open == nil {
		return Solution{}, errors.New("bitvec: nil opener")
	}

	c := open()
	defer c.Close()

	if err := build(c); err != nil {
		return Solution{}, fmt.Errorf("bitvec: build: %w", err)
	}

	res, err := c.Check(ctx)
	if err != nil {
		return Solution{Result: res}, err
	}
	if res != Sat {
		return Solution{Result: res}, nil
	}

	m, err := c.Model()
	if err != nil {
		return Solution{Result: Unknown}, fmt.Errorf("bitvec: model: %w", err)
	}

	values := make(map[string]uint64, len(names))
	for _, name := range names {
		v, ok := m.Value(name)
		if !ok {
			return Solution{Result: Unknown}, fmt.Errorf("bitvec: model has no constant %q", name)
		}
		values[name] = v
	}

	sol := Solution{Result: Sat, Values: values, FreeBits: -1}
	if r, ok := c.(FreeBitsReporter); ok {
		sol.FreeBits = r.FreeBits()
	}
	return sol, nil
}

// Mask returns the low-width bit mask.
func Mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// CheckWidth panics when width is outside [1, MaxWidth].
func CheckWidth(width int) {
	if width < 1 || width > MaxWidth {
		panic(fmt.Sprintf("bitvec: invalid width %d", width))
	}
}
