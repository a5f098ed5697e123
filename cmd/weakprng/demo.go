package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-weakprng/internal/scenario"
)

var demoSeed string

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run victim and attacker back to back",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newVictim(demoSeed)
		if err != nil {
			return err
		}
		first, err := v.Encrypt([]byte(scenario.DefaultMessages[0]))
		if err != nil {
			return err
		}
		second, err := v.Encrypt([]byte(scenario.DefaultMessages[1]))
		if err != nil {
			return err
		}

		a, err := newAttacker()
		if err != nil {
			return err
		}
		res, err := a.Break(cmd.Context(), first, second)
		if err != nil {
			return err
		}
		if !res.Keys.Equal(v.Keys()) {
			return errors.New("recovered keys differ from the victim's")
		}
		log.Println("victim keys recovered")

		printBreak(newReport(cmd.OutOrStdout()), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	flags := demoCmd.Flags()
	flags.StringVarP(&demoSeed, "seed", "s", "", "generator state as s0:s1 in hex (default random)")
}
