package sat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-weakprng/bitvec"
)

func check(t *testing.T, c *Context) bitvec.Result {
	t.Helper()
	res, err := c.Check(context.Background())
	require.NoError(t, err)
	return res
}

func TestShiftXorSolves(t *testing.T) {
	for _, want := range []uint64{0, 1, 0x5a, 0xff} {
		c := New()
		x := c.Const("x", 8)
		target := (want ^ want<<3 ^ want>>2) & 0xff
		c.Assert(x.Xor(x.Shl(3)).Xor(x.Lshr(2)).Eq(c.Val(target, 8)))
		require.Equal(t, bitvec.Sat, check(t, c))

		m, err := c.Model()
		require.NoError(t, err)
		got, ok := m.Value("x")
		require.True(t, ok)
		require.Equal(t, target, (got^got<<3^got>>2)&0xff)
		require.NoError(t, c.Close())
	}
}

func TestTwoConstants(t *testing.T) {
	c := New()
	defer c.Close()
	x := c.Const("x", 16)
	y := c.Const("y", 16)
	c.Assert(x.Xor(y).Eq(c.Val(0xf0f0, 16)).And(y.Eq(c.Val(0x1234, 16))))
	require.Equal(t, bitvec.Sat, check(t, c))

	m, err := c.Model()
	require.NoError(t, err)
	vx, _ := m.Value("x")
	vy, _ := m.Value("y")
	require.Equal(t, uint64(0xf0f0^0x1234), vx)
	require.Equal(t, uint64(0x1234), vy)
}

func TestUnconstrainedConstant(t *testing.T) {
	c := New()
	defer c.Close()
	x := c.Const("x", 8)
	c.Const("free", 8)
	c.Assert(x.Eq(c.Val(0x42, 8)))
	require.Equal(t, bitvec.Sat, check(t, c))

	m, err := c.Model()
	require.NoError(t, err)
	vx, ok := m.Value("x")
	require.True(t, ok)
	require.Equal(t, uint64(0x42), vx)
	vf, ok := m.Value("free")
	require.True(t, ok)
	require.LessOrEqual(t, vf, uint64(0xff))
}

func TestUnsat(t *testing.T) {
	c := New()
	defer c.Close()
	x := c.Const("x", 8)
	c.Assert(x.Eq(c.Val(1, 8)))
	c.Assert(x.Xor(c.Val(3, 8)).Eq(c.Val(1, 8)))
	require.Equal(t, bitvec.Unsat, check(t, c))

	_, err := c.Model()
	require.Error(t, err)
}

func TestLiteralPredicates(t *testing.T) {
	c := New()
	defer c.Close()
	c.Assert(c.Val(0x1ff, 8).Eq(c.Val(0xff, 8)))
	require.Equal(t, bitvec.Sat, check(t, c))

	c.Assert(c.Val(1, 8).Eq(c.Val(2, 8)))
	require.Equal(t, bitvec.Unsat, check(t, c))
}

func TestCancelledCheck(t *testing.T) {
	c := New()
	defer c.Close()
	x := c.Const("x", 8)
	c.Assert(x.Eq(c.Val(3, 8)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := c.Check(ctx)
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, bitvec.Unknown, res)
	} else {
		// The solve may finish before the first poll.
		require.Equal(t, bitvec.Sat, res)
	}
}

func TestClosed(t *testing.T) {
	c := New()
	c.Const("x", 8)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Check(context.Background())
	require.ErrorIs(t, err, bitvec.ErrClosed)
	_, err = c.Model()
	require.ErrorIs(t, err, bitvec.ErrClosed)
}

func TestMixedContextsPanic(t *testing.T) {
	a, b := New(), New()
	x := a.Const("x", 8)
	y := b.Const("y", 8)
	require.Panics(t, func() { x.Eq(y) })
	require.Panics(t, func() { a.Const("x", 4) })
}
