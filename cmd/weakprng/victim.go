package main

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	weakprng "github.com/opd-ai/go-weakprng"
	"github.com/opd-ai/go-weakprng/internal"
	"github.com/opd-ai/go-weakprng/internal/scenario"
)

var victimSeed string

// victimCmd represents the victim command
var victimCmd = &cobra.Command{
	Use:   "victim",
	Short: "Encrypt the demo messages with weak keys",
	Long: `Derive keys and IVs from a V8-style generator and print both
ciphertexts as hex, one per line. For example:
  weakprng victim --seed=0123456789abcdef:fedcba9876543210`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newVictim(victimSeed)
		if err != nil {
			return err
		}
		enc, mac := v.Keys().Fingerprints()
		log.Printf("victim keys: enc %s mac %s", enc, mac)

		out := newReport(cmd.OutOrStdout())
		for i, msg := range scenario.DefaultMessages {
			data, err := v.Encrypt([]byte(msg))
			if err != nil {
				return err
			}
			out.field(ciphertextLabels[i], hex.EncodeToString(data))
		}
		return nil
	},
}

var ciphertextLabels = [2]string{"ciphertext 1", "ciphertext 2"}

func init() {
	rootCmd.AddCommand(victimCmd)

	flags := victimCmd.Flags()
	flags.StringVarP(&victimSeed, "seed", "s", "", "generator state as s0:s1 in hex (default random)")
}

// newVictim seeds a victim from s, or from the system entropy source when s
// is empty.
func newVictim(s string) (*scenario.Victim, error) {
	seed, err := parseSeed(s)
	if err != nil {
		return nil, err
	}
	kdf, err := scenario.ParseKDF(viper.GetString("kdf"))
	if err != nil {
		return nil, err
	}
	log.Printf("victim seed %s, kdf %s", seed, kdf)
	return scenario.NewVictim(seed, kdf, internal.DefaultArgon2Config()), nil
}

func parseSeed(s string) (weakprng.State, error) {
	if s != "" {
		return weakprng.ParseState(s)
	}
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return weakprng.State{}, err
	}
	return weakprng.State{
		S0: binary.LittleEndian.Uint64(b[:8]),
		S1: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}
