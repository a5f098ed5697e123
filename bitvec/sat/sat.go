// Package sat is a bitvec backend that bit-blasts terms into a gini logic
// circuit and decides the asserted predicates with the gini CDCL solver.
package sat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/opd-ai/go-weakprng/bitvec"
)

// PollInterval is how often a running solve is checked for cancellation.
var PollInterval = 5 * time.Millisecond

var _ bitvec.Context = (*Context)(nil)

type constant struct {
	bits []z.Lit
}

// Context is a gini-backed solving context.
type Context struct {
	circuit *logic.C
	consts  map[string]constant
	roots   []z.Lit

	solver  *gini.Gini
	running inter.Solve
	sat     bool
	closed  bool
}

// New returns an empty context.
func New() *Context {
	return &Context{
		circuit: logic.NewC(),
		consts:  make(map[string]constant),
	}
}

// Open is a bitvec.Opener for this backend.
func Open() bitvec.Context {
	return New()
}

func (c *Context) t() z.Lit { return c.circuit.T }
func (c *Context) f() z.Lit { return c.circuit.F }

// Const declares a constant with one fresh input literal per bit.
func (c *Context) Const(name string, width int) bitvec.Term {
	bitvec.CheckWidth(width)
	k, ok := c.consts[name]
	if ok && len(k.bits) != width {
		panic(fmt.Sprintf("sat: constant %q redeclared with width %d, was %d", name, width, len(k.bits)))
	}
	if !ok {
		k = constant{bits: make([]z.Lit, width)}
		for i := range k.bits {
			k.bits[i] = c.circuit.Lit()
		}
		c.consts[name] = k
	}
	return &term{ctx: c, bits: append([]z.Lit(nil), k.bits...)}
}

// Val returns a literal term made of the circuit's constant true and false.
func (c *Context) Val(v uint64, width int) bitvec.Term {
	bitvec.CheckWidth(width)
	t := &term{ctx: c, bits: make([]z.Lit, width)}
	for i := range t.bits {
		if v>>uint(i)&1 == 1 {
			t.bits[i] = c.t()
		} else {
			t.bits[i] = c.f()
		}
	}
	return t
}

// Assert adds every conjunct of b as a root of the circuit.
func (c *Context) Assert(b bitvec.Bool) {
	if c.closed {
		return
	}
	c.roots = append(c.roots, c.pred(b).lits...)
	c.sat = false
}

// Check encodes the circuit to CNF, asserts the roots as unit clauses and runs
// the solver until it finishes or ctx is done.
func (c *Context) Check(ctx context.Context) (bitvec.Result, error) {
	if c.closed {
		return bitvec.Unknown, bitvec.ErrClosed
	}
	c.sat = false

	g := gini.New()
	c.circuit.ToCnf(g)
	g.Add(c.t())
	g.Add(z.LitNull)
	for _, k := range c.consts {
		for _, lit := range k.bits {
			reserve(g, lit, c.t())
		}
	}
	for _, r := range c.roots {
		g.Add(r)
		g.Add(z.LitNull)
	}
	c.solver = g

	s := g.GoSolve()
	c.running = s
	defer func() { c.running = nil }()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		if res, done := s.Test(); done {
			return c.result(res), nil
		}
		select {
		case <-ctx.Done():
			s.Stop()
			return bitvec.Unknown, ctx.Err()
		case <-ticker.C:
		}
	}
}

// reserve makes the solver allocate the variable of lit, so that Value is
// defined for constant bits no predicate mentions. gini sizes its variables
// from the clauses it is given; the clause (lit or t) is satisfied by the
// unit clause on t and does not constrain lit.
func reserve(g *gini.Gini, lit, t z.Lit) {
	g.Add(lit)
	g.Add(t)
	g.Add(z.LitNull)
}

func (c *Context) result(res int) bitvec.Result {
	switch res {
	case 1:
		c.sat = true
		return bitvec.Sat
	case -1:
		return bitvec.Unsat
	default:
		return bitvec.Unknown
	}
}

// Model reads the values of the declared constants from the solver.
func (c *Context) Model() (bitvec.Model, error) {
	if c.closed {
		return nil, bitvec.ErrClosed
	}
	if !c.sat {
		return nil, fmt.Errorf("sat: no satisfiable check to read a model from")
	}

	m := make(model, len(c.consts))
	for name, k := range c.consts {
		var v uint64
		for i, lit := range k.bits {
			if c.solver.Value(lit) {
				v |= 1 << uint(i)
			}
		}
		m[name] = v
	}
	return m, nil
}

// Close stops a running solve and drops the circuit and solver.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.running != nil {
		c.running.Stop()
		c.running = nil
	}
	c.solver = nil
	c.circuit = nil
	c.consts = nil
	c.roots = nil
	c.sat = false
	return nil
}

func (c *Context) term(t bitvec.Term) *term {
	u, ok := t.(*term)
	if !ok || u.ctx != c {
		panic("sat: term belongs to a different context")
	}
	return u
}

func (c *Context) pred(b bitvec.Bool) *pred {
	p, ok := b.(*pred)
	if !ok || p.ctx != c {
		panic("sat: predicate belongs to a different context")
	}
	return p
}

// xor folds the circuit constants so shifted-in zeros add no gates.
func (c *Context) xor(a, b z.Lit) z.Lit {
	switch {
	case a == c.f():
		return b
	case b == c.f():
		return a
	case a == c.t():
		return b.Not()
	case b == c.t():
		return a.Not()
	case a == b:
		return c.f()
	case a == b.Not():
		return c.t()
	}
	return c.circuit.Xor(a, b)
}

type model map[string]uint64

func (m model) Value(name string) (uint64, bool) {
	v, ok := m[name]
	return v, ok
}

// term holds one literal per bit, least significant first.
type term struct {
	ctx  *Context
	bits []z.Lit
}

func (t *term) Width() int { return len(t.bits) }

func (t *term) Xor(u bitvec.Term) bitvec.Term {
	o := t.ctx.term(u)
	if len(o.bits) != len(t.bits) {
		panic(fmt.Sprintf("sat: xor of widths %d and %d", len(t.bits), len(o.bits)))
	}
	out := &term{ctx: t.ctx, bits: make([]z.Lit, len(t.bits))}
	for i := range t.bits {
		out.bits[i] = t.ctx.xor(t.bits[i], o.bits[i])
	}
	return out
}

func (t *term) Shl(n uint) bitvec.Term {
	out := &term{ctx: t.ctx, bits: make([]z.Lit, len(t.bits))}
	for i := range out.bits {
		if uint(i) >= n {
			out.bits[i] = t.bits[uint(i)-n]
		} else {
			out.bits[i] = t.ctx.f()
		}
	}
	return out
}

func (t *term) Lshr(n uint) bitvec.Term {
	out := &term{ctx: t.ctx, bits: make([]z.Lit, len(t.bits))}
	for i := range out.bits {
		if j := uint(i) + n; j < uint(len(t.bits)) {
			out.bits[i] = t.bits[j]
		} else {
			out.bits[i] = t.ctx.f()
		}
	}
	return out
}

func (t *term) Eq(u bitvec.Term) bitvec.Bool {
	o := t.ctx.term(u)
	if len(o.bits) != len(t.bits) {
		panic(fmt.Sprintf("sat: equality of widths %d and %d", len(t.bits), len(o.bits)))
	}
	p := &pred{ctx: t.ctx}
	for i := range t.bits {
		p.lits = append(p.lits, t.ctx.xor(t.bits[i], o.bits[i]).Not())
	}
	return p
}

// pred is a conjunction of literals.
type pred struct {
	ctx  *Context
	lits []z.Lit
}

func (p *pred) And(b bitvec.Bool) bitvec.Bool {
	o := p.ctx.pred(b)
	lits := make([]z.Lit, 0, len(p.lits)+len(o.lits))
	lits = append(lits, p.lits...)
	lits = append(lits, o.lits...)
	return &pred{ctx: p.ctx, lits: lits}
}
