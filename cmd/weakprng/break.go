package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-weakprng/internal/scenario"
)

// breakCmd represents the break command
var breakCmd = &cobra.Command{
	Use:   "break CIPHERTEXT1 CIPHERTEXT2",
	Short: "Recover the victim keys from two ciphertexts",
	Long: `Recover the generator state from the IVs of the victim's first two
ciphertexts, rebuild both keys and decrypt. For example:
  weakprng break $(weakprng victim)`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cts [2][]byte
		for i, arg := range args {
			b, err := hex.DecodeString(arg)
			if err != nil {
				return fmt.Errorf("ciphertext %d: %w", i+1, err)
			}
			cts[i] = b
		}

		a, err := newAttacker()
		if err != nil {
			return err
		}
		res, err := a.Break(cmd.Context(), cts[0], cts[1])
		if err != nil {
			return err
		}

		out := newReport(cmd.OutOrStdout())
		printBreak(out, res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(breakCmd)
}

func printBreak(out *report, res *scenario.Result) {
	out.field("state", res.State)
	out.keys(res.Keys)
	for i, pt := range res.Plaintexts {
		out.field(fmt.Sprintf("message %d", i+1), string(pt))
	}
}
