// Package gf2 is a bitvec backend for systems built only from xor, constant
// shifts and equality. Every bit of every term is an affine form over GF(2) in
// the bits of the declared constants, so an assertion is a set of linear
// equations and a check is one Gauss-Jordan elimination.
//
// Undetermined bits are set to zero in the model and counted by FreeBits.
package gf2

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/opd-ai/go-weakprng/bitvec"
)

// Equations processed between two cancellation checks.
const checkInterval = 64

var _ bitvec.Context = (*Context)(nil)
var _ bitvec.FreeBitsReporter = (*Context)(nil)

// vector is a bit set over constant bits; bit i lives in word i/64.
type vector []uint64

func (v vector) bit(i int) bool {
	w := i / 64
	return w < len(v) && v[w]>>(uint(i)%64)&1 == 1
}

// top returns the index of the highest set bit, or -1.
func (v vector) top() int {
	for w := len(v) - 1; w >= 0; w-- {
		if v[w] != 0 {
			return w*64 + 63 - bits.LeadingZeros64(v[w])
		}
	}
	return -1
}

// form is the affine expression coef·x + one.
type form struct {
	coef vector
	one  bool
}

func (f form) xor(g form) form {
	n := len(f.coef)
	if len(g.coef) > n {
		n = len(g.coef)
	}
	out := make(vector, n)
	copy(out, f.coef)
	for i, w := range g.coef {
		out[i] ^= w
	}
	return form{coef: out, one: f.one != g.one}
}

// xorInPlace requires len(f.coef) >= len(g.coef).
func (f *form) xorInPlace(g form) {
	for i, w := range g.coef {
		f.coef[i] ^= w
	}
	f.one = f.one != g.one
}

func (f form) padded(words int) form {
	out := make(vector, words)
	copy(out, f.coef)
	return form{coef: out, one: f.one}
}

type constant struct {
	offset int
	width  int
}

// Context is a GF(2) solving context.
type Context struct {
	nvars  int
	consts map[string]constant
	eqs    []form

	model  []form // pivot rows after a Sat check, indexed by pivot column
	pivots []int
	free   int
	sat    bool
	closed bool
}

// New returns an empty context.
func New() *Context {
	return &Context{consts: make(map[string]constant)}
}

// Open is a bitvec.Opener for this backend.
func Open() bitvec.Context {
	return New()
}

// Const declares a constant. Declaring the same name twice with the same
// width returns the same term.
func (c *Context) Const(name string, width int) bitvec.Term {
	bitvec.CheckWidth(width)
	k, ok := c.consts[name]
	if ok && k.width != width {
		panic(fmt.Sprintf("gf2: constant %q redeclared with width %d, was %d", name, width, k.width))
	}
	if !ok {
		k = constant{offset: c.nvars, width: width}
		c.consts[name] = k
		c.nvars += width
	}

	t := &term{ctx: c, bits: make([]form, width)}
	for i := range t.bits {
		idx := k.offset + i
		v := make(vector, idx/64+1)
		v[idx/64] = 1 << (uint(idx) % 64)
		t.bits[i] = form{coef: v}
	}
	return t
}

// Val returns a literal term.
func (c *Context) Val(v uint64, width int) bitvec.Term {
	bitvec.CheckWidth(width)
	t := &term{ctx: c, bits: make([]form, width)}
	for i := range t.bits {
		t.bits[i] = form{one: v>>uint(i)&1 == 1}
	}
	return t
}

// Assert adds the equations of b. It is a no-op on a closed context.
func (c *Context) Assert(b bitvec.Bool) {
	if c.closed {
		return
	}
	p := c.pred(b)
	c.eqs = append(c.eqs, p.eqs...)
	c.sat = false
}

// Check eliminates the asserted equations.
func (c *Context) Check(ctx context.Context) (bitvec.Result, error) {
	if c.closed {
		return bitvec.Unknown, bitvec.ErrClosed
	}
	c.sat = false

	words := (c.nvars + 63) / 64
	var rows []form
	var pivots []int

	for i, e := range c.eqs {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return bitvec.Unknown, err
			}
		}

		r := e.padded(words)
		for j, col := range pivots {
			if r.coef.bit(col) {
				r.xorInPlace(rows[j])
			}
		}

		col := r.coef.top()
		if col < 0 {
			if r.one {
				return bitvec.Unsat, nil
			}
			continue
		}

		// Keep the system reduced: the new pivot column is cleared everywhere else.
		for j := range rows {
			if rows[j].coef.bit(col) {
				rows[j].xorInPlace(r)
			}
		}
		rows = append(rows, r)
		pivots = append(pivots, col)
	}

	c.model = rows
	c.pivots = pivots
	c.free = c.nvars - len(pivots)
	c.sat = true
	return bitvec.Sat, nil
}

// Model returns the solution with every free bit set to zero.
func (c *Context) Model() (bitvec.Model, error) {
	if c.closed {
		return nil, bitvec.ErrClosed
	}
	if !c.sat {
		return nil, fmt.Errorf("gf2: no satisfiable check to read a model from")
	}

	assignment := make(vector, (c.nvars+63)/64)
	for j, col := range c.pivots {
		if c.model[j].one {
			assignment[col/64] |= 1 << (uint(col) % 64)
		}
	}

	m := make(model, len(c.consts))
	for name, k := range c.consts {
		var v uint64
		for i := 0; i < k.width; i++ {
			if assignment.bit(k.offset + i) {
				v |= 1 << uint(i)
			}
		}
		m[name] = v
	}
	return m, nil
}

// FreeBits returns the dimension of the solution space of the last Sat check.
func (c *Context) FreeBits() int {
	return c.free
}

// Close releases the equations. Further checks return bitvec.ErrClosed.
func (c *Context) Close() error {
	c.closed = true
	c.eqs = nil
	c.model = nil
	c.pivots = nil
	c.consts = nil
	c.sat = false
	return nil
}

func (c *Context) term(t bitvec.Term) *term {
	u, ok := t.(*term)
	if !ok || u.ctx != c {
		panic("gf2: term belongs to a different context")
	}
	return u
}

func (c *Context) pred(b bitvec.Bool) *pred {
	p, ok := b.(*pred)
	if !ok || p.ctx != c {
		panic("gf2: predicate belongs to a different context")
	}
	return p
}

type model map[string]uint64

func (m model) Value(name string) (uint64, bool) {
	v, ok := m[name]
	return v, ok
}

// term holds one affine form per bit, least significant first.
type term struct {
	ctx  *Context
	bits []form
}

func (t *term) Width() int { return len(t.bits) }

func (t *term) Xor(u bitvec.Term) bitvec.Term {
	o := t.ctx.term(u)
	if len(o.bits) != len(t.bits) {
		panic(fmt.Sprintf("gf2: xor of widths %d and %d", len(t.bits), len(o.bits)))
	}
	out := &term{ctx: t.ctx, bits: make([]form, len(t.bits))}
	for i := range t.bits {
		out.bits[i] = t.bits[i].xor(o.bits[i])
	}
	return out
}

func (t *term) Shl(n uint) bitvec.Term {
	out := &term{ctx: t.ctx, bits: make([]form, len(t.bits))}
	for i := range out.bits {
		if uint(i) >= n {
			out.bits[i] = t.bits[uint(i)-n]
		}
	}
	return out
}

func (t *term) Lshr(n uint) bitvec.Term {
	out := &term{ctx: t.ctx, bits: make([]form, len(t.bits))}
	for i := range out.bits {
		if j := uint(i) + n; j < uint(len(t.bits)) {
			out.bits[i] = t.bits[j]
		}
	}
	return out
}

func (t *term) Eq(u bitvec.Term) bitvec.Bool {
	o := t.ctx.term(u)
	if len(o.bits) != len(t.bits) {
		panic(fmt.Sprintf("gf2: equality of widths %d and %d", len(t.bits), len(o.bits)))
	}
	p := &pred{ctx: t.ctx}
	for i := range t.bits {
		e := t.bits[i].xor(o.bits[i])
		if e.coef.top() < 0 && !e.one {
			continue
		}
		p.eqs = append(p.eqs, e)
	}
	return p
}

// pred is a conjunction of equations "form == 0".
type pred struct {
	ctx *Context
	eqs []form
}

func (p *pred) And(b bitvec.Bool) bitvec.Bool {
	o := p.ctx.pred(b)
	eqs := make([]form, 0, len(p.eqs)+len(o.eqs))
	eqs = append(eqs, p.eqs...)
	eqs = append(eqs, o.eqs...)
	return &pred{ctx: p.ctx, eqs: eqs}
}
