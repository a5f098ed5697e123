package main

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	weakprng "github.com/opd-ai/go-weakprng"
	"github.com/opd-ai/go-weakprng/internal/scenario"
)

const testSeed = "0123456789abcdef:fedcba9876543210"

func run(t *testing.T, args ...string) []string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func resetFlags() {
	recoverHex, recoverSkip, recoverPredict, recoverEarlier = "", 0, 0, 0
}

func TestRecoverCommand(t *testing.T) {
	defer resetFlags()
	seed, err := weakprng.ParseState(testSeed)
	require.NoError(t, err)

	src := weakprng.NewSource(seed)
	calls := make([]float64, 12)
	for i := range calls {
		calls[i] = src.Float64()
	}

	args := []string{"recover", "--backend=gf2", "--predict=3", "--earlier=2"}
	for _, f := range calls[2:7] {
		args = append(args, strconv.FormatFloat(f, 'g', -1, 64))
	}
	lines := run(t, args...)
	require.Len(t, lines, 6)

	want := []float64{calls[7], calls[8], calls[9], calls[1], calls[0]}
	for i, w := range want {
		got, err := strconv.ParseFloat(lines[i+1], 64)
		require.NoError(t, err)
		require.Equal(t, w, got, "line %d", i+1)
	}
}

func TestRecoverCommandHex(t *testing.T) {
	defer resetFlags()
	state := weakprng.State{S0: 5, S1: 77}
	packed := weakprng.FloatsToBytes(weakprng.ServedOrder(state, 4))
	// The first byte belongs to an output that is not whole.
	input := "ff" + hex.EncodeToString(packed)

	lines := run(t, "recover", "--backend=gf2", "--hex="+input, "--skip=1")
	require.Equal(t, []string{state.String()}, lines)
}

func TestVictimAndBreak(t *testing.T) {
	cts := run(t, "victim", "--kdf=raw", "--seed="+testSeed)
	require.Len(t, cts, 2)

	lines := run(t, append([]string{"break", "--kdf=raw"}, cts...)...)
	require.Len(t, lines, 5)
	require.Equal(t, scenario.DefaultMessages[0], lines[3])
	require.Equal(t, scenario.DefaultMessages[1], lines[4])
}

func TestDemo(t *testing.T) {
	lines := run(t, "demo", "--kdf=raw")
	require.Len(t, lines, 5)
	require.Equal(t, scenario.DefaultMessages[1], lines[4])
}

func TestRecoverCommandRejects(t *testing.T) {
	defer resetFlags()
	for _, args := range [][]string{
		{"recover", "not-a-number"},
		{"recover", "--hex=zz"},
		{"recover", "--backend=z3", "0.5"},
		{"recover", "0.1", "0.2", "0.3"},
	} {
		resetFlags()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(args)
		require.Error(t, rootCmd.Execute(), "%v", args)
	}
}
