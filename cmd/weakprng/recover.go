package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	weakprng "github.com/opd-ai/go-weakprng"
)

var (
	recoverHex     string
	recoverSkip    int
	recoverPredict int
	recoverEarlier int
)

// recoverCmd represents the recover command
var recoverCmd = &cobra.Command{
	Use:   "recover [OUTPUT...]",
	Short: "Recover the generator state from observed outputs",
	Long: `Recover the generator state from consecutive outputs in the order they
were served, newest first as V8 hands them out, and predict the outputs served
after and before them. Outputs are given as decimal arguments or as packed
mantissa bytes. For example:
  weakprng recover 0.4697418206965942 0.31064080088203383 0.18 0.93 --predict=5
  weakprng recover --hex=<iv1><iv2> --skip=1 --earlier=10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		served, err := observations(args)
		if err != nil {
			return err
		}

		r, err := newRecoverer()
		if err != nil {
			return err
		}
		state, err := r.Recover(cmd.Context(), served)
		if err != nil {
			return err
		}

		out := newReport(cmd.OutOrStdout())
		out.field("state", state)

		// Later calls come from further back in the generation order.
		s := state
		for i := 0; i < recoverPredict; i++ {
			out.field(fmt.Sprintf("next %d", i+1), s.Output())
			s = s.Reverse()
		}

		earlier := weakprng.ServedOrder(state, len(served)+recoverEarlier)[:recoverEarlier]
		for i := len(earlier) - 1; i >= 0; i-- {
			out.field(fmt.Sprintf("previous %d", len(earlier)-i), earlier[i])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	flags := recoverCmd.Flags()
	flags.StringVarP(&recoverHex, "hex", "x", "", "packed mantissa bytes in hex instead of decimal outputs")
	flags.IntVar(&recoverSkip, "skip", 0, "leading bytes of --hex to drop before the first whole mantissa")
	flags.IntVarP(&recoverPredict, "predict", "n", 0, "number of later outputs to predict")
	flags.IntVar(&recoverEarlier, "earlier", 0, "number of earlier outputs to reconstruct")
}

func observations(args []string) ([]float64, error) {
	if recoverPredict < 0 || recoverEarlier < 0 {
		return nil, fmt.Errorf("--predict and --earlier must not be negative")
	}
	if recoverHex != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("outputs given both as arguments and --hex")
		}
		b, err := hex.DecodeString(recoverHex)
		if err != nil {
			return nil, fmt.Errorf("--hex: %w", err)
		}
		if recoverSkip < 0 || recoverSkip > len(b) {
			return nil, fmt.Errorf("--skip %d outside the %d input bytes", recoverSkip, len(b))
		}
		return weakprng.BytesToFloats(b[recoverSkip:]), nil
	}

	served := make([]float64, len(args))
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i+1, err)
		}
		served[i] = f
	}
	return served, nil
}
