package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	weakprng "github.com/opd-ai/go-weakprng"
	"github.com/opd-ai/go-weakprng/internal"
	"github.com/opd-ai/go-weakprng/internal/scenario"
)

var (
	cfgFile string

	// runID tags every log line of one invocation.
	runID = uuid.New().String()[:8]
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weakprng",
	Short: "xorshift128+ state recovery.",
	Long: `Recover the state of V8's Math.random generator from its outputs.
For example:
  weakprng demo
  weakprng victim --seed=0123456789abcdef:fedcba9876543210 > ciphertexts
  weakprng break $(cat ciphertexts)
  weakprng recover 0.52 0.13 0.77 0.05 --predict=3`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.SetPrefix(runID + " ")

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.weakprng.yaml)")
	flags.String("backend", "gf2", "solver backend: gf2 or sat")
	flags.Duration("timeout", time.Minute, "bound on a single solver check")
	flags.String("kdf", "raw", "victim key derivation: raw, argon2id or pbkdf2")

	for _, name := range []string{"backend", "timeout", "kdf"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Fatalln(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".weakprng")
	}

	viper.SetEnvPrefix("weakprng")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// newRecoverer builds a Recoverer from flags, environment and config file.
func newRecoverer() (*weakprng.Recoverer, error) {
	backend, err := weakprng.ParseBackend(viper.GetString("backend"))
	if err != nil {
		return nil, err
	}
	return weakprng.New(weakprng.Config{
		Backend: backend,
		Timeout: viper.GetDuration("timeout"),
	})
}

// newAttacker builds an attacker with the configured KDF.
func newAttacker() (*scenario.Attacker, error) {
	r, err := newRecoverer()
	if err != nil {
		return nil, err
	}
	kdf, err := scenario.ParseKDF(viper.GetString("kdf"))
	if err != nil {
		return nil, err
	}
	return &scenario.Attacker{Recoverer: r, KDF: kdf, Argon2: internal.DefaultArgon2Config()}, nil
}

// report writes labelled lines on a terminal and bare values otherwise, so
// the output can be piped into another command.
type report struct {
	w     io.Writer
	human bool
}

func newReport(w io.Writer) *report {
	r := &report{w: w}
	if f, ok := w.(*os.File); ok {
		r.human = term.IsTerminal(int(f.Fd()))
	}
	return r
}

func (r *report) field(label string, value interface{}) {
	if r.human {
		fmt.Fprintf(r.w, "%-12s %v\n", label+":", value)
		return
	}
	fmt.Fprintln(r.w, value)
}

func (r *report) keys(k scenario.Keys) {
	enc, mac := k.Fingerprints()
	r.field("enc key", enc)
	r.field("mac key", mac)
}
