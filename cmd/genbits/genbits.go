// genbits repeatedly draws random bit strings from a prepared qubit register,
// decodes each string as a big-endian integer and prints how often each
// integer occurred.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alan-christopher/stateprep/stateprep"
	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/encoding/protojson"
)

func init() {
	flag.Int("qubits", stateprep.DefaultQubits, "The number of bits drawn per trial.")
	flag.StringSlice("probs", formatProbs(stateprep.DefaultProbs),
		"Either P(Zero),P(One) applied to every bit, or one probability per n-bit outcome.")
	flag.Int("trials", stateprep.DefaultTrials, "The number of independent trials to run.")
	flag.Int64("seed", 0, "Seed for measurement randomness; 0 seeds from the clock.")
	flag.Bool("json", false, "Print the frequency table as JSON.")
	flag.String("log-level", "info", "One of debug, info, warn, error.")
	flag.String("config", "", "Optional config file providing any of the above flags.")
}

func main() {
	flag.Parse()
	v, err := loadConfig()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "genbits", ReportTimestamp: true})
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	lvl, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		logger.Fatal("parsing log level", "err", err)
	}
	logger.SetLevel(lvl)

	probs, err := parseProbs(v.GetStringSlice("probs"))
	if err != nil {
		logger.Fatal("parsing probabilities", "err", err)
	}
	seed := v.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s, err := stateprep.New(stateprep.Opts{
		Rand:   rand.New(rand.NewSource(seed)),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("starting session", "err", err)
	}
	defer s.Close()

	n, trials := v.GetInt("qubits"), v.GetInt("trials")
	logger.Info("sampling", "qubits", n, "probs", probs, "trials", trials, "seed", seed)
	tally, err := s.Sample(n, probs, trials)
	if err != nil {
		logger.Fatal("sampling", "err", err)
	}

	if !v.GetBool("json") {
		fmt.Println(tally)
		return
	}
	pb, err := tally.ToProto()
	if err != nil {
		logger.Fatal("encoding tally", "err", err)
	}
	out, err := protojson.MarshalOptions{Multiline: true}.Marshal(pb)
	if err != nil {
		logger.Fatal("encoding tally", "err", err)
	}
	fmt.Println(string(out))
}

// loadConfig layers flags over GENBITS_* environment variables over the
// optional config file.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("genbits")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return v, nil
}

// parseProbs accepts probabilities separated by commas or whitespace, so that
// environment variables and config lists parse the same as flags.
func parseProbs(raw []string) ([]float64, error) {
	var probs []float64
	for _, r := range raw {
		for _, f := range strings.FieldsFunc(r, func(c rune) bool { return c == ',' || c == ' ' }) {
			p, err := strconv.ParseFloat(strings.Trim(f, "[]"), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid probability %q: %w", f, err)
			}
			probs = append(probs, p)
		}
	}
	return probs, nil
}

func formatProbs(probs []float64) []string {
	var r []string
	for _, p := range probs {
		r = append(r, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return r
}
