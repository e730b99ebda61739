// prepcheck prepares target amplitude vectors on a simulated register and
// checks that the dumped state matches each target.
//
// Usage:
//
//	prepcheck --amps 0.36,0.48,0.64,-0.48
//	prepcheck --sweep 3
package main

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/alan-christopher/stateprep/stateprep"
	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"
	"google.golang.org/protobuf/encoding/protojson"
)

var (
	amps   = flag.Float64Slice("amps", nil, "Target amplitudes, 2^qubits of them.")
	qubits = flag.Int("qubits", 0, "Register width; inferred from --amps when 0.")
	sweep  = flag.Int("sweep", 0, "Check every one-hot basis state on 1..sweep qubits instead of --amps.")
	tol    = flag.Float64("tolerance", stateprep.DefaultTolerance, "Componentwise comparison tolerance.")
	asJSON = flag.Bool("json", false, "Print dumped states as JSON.")
)

// A target is one amplitude vector to verify.
type target struct {
	n int
	a []float64
}

func main() {
	flag.Parse()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "prepcheck"})

	targets, err := buildTargets(*amps, *qubits, *sweep)
	if err != nil {
		logger.Fatal("building targets", "err", err)
	}
	s, err := stateprep.New(stateprep.Opts{Logger: logger, Tolerance: *tol})
	if err != nil {
		logger.Fatal("starting session", "err", err)
	}
	defer s.Close()

	failed, err := check(s, targets, os.Stdout, *asJSON, logger)
	if err != nil {
		logger.Fatal("checking states", "err", err)
	}
	if failed > 0 {
		logger.Error("verification failed", "failed", failed, "total", len(targets))
		s.Close()
		os.Exit(1)
	}
	logger.Info("all states verified", "total", len(targets))
}

// check verifies every target, printing each matching state to w. It returns
// the number of mismatches; any other error aborts the run.
func check(s *stateprep.Session, targets []target, w io.Writer, asJSON bool, logger *log.Logger) (int, error) {
	failed := 0
	for _, tg := range targets {
		got, err := s.RunPrepReal(tg.n, tg.a)
		var mismatch *stateprep.MismatchError
		switch {
		case errors.As(err, &mismatch):
			failed++
			logger.Error("state mismatch", "qubits", tg.n, "want", mismatch.Want, "got", []complex128(mismatch.Got))
			continue
		case err != nil:
			return failed, fmt.Errorf("preparing %v on %d qubits: %w", tg.a, tg.n, err)
		}
		if !asJSON {
			fmt.Fprintf(w, "ok %v\n%v", tg.a, got)
			continue
		}
		pb, err := got.ToProto()
		if err != nil {
			return failed, fmt.Errorf("encoding state: %w", err)
		}
		out, err := protojson.Marshal(pb)
		if err != nil {
			return failed, fmt.Errorf("encoding state: %w", err)
		}
		fmt.Fprintln(w, string(out))
	}
	return failed, nil
}

func buildTargets(amps []float64, qubits, sweep int) ([]target, error) {
	if sweep < 0 || sweep > stateprep.MaxQubits {
		return nil, fmt.Errorf("--sweep %d outside [0, %d]", sweep, stateprep.MaxQubits)
	}
	if sweep > 0 {
		var ts []target
		for n := 1; n <= sweep; n++ {
			for basis := 0; basis < 1<<n; basis++ {
				ts = append(ts, target{n: n, a: stateprep.OneHot(n, basis)})
			}
		}
		return ts, nil
	}
	if len(amps) == 0 {
		return nil, errors.New("one of --amps or --sweep is required")
	}
	n := qubits
	if n == 0 {
		n = bits.Len(uint(len(amps))) - 1
	}
	if n < 1 || n > stateprep.MaxQubits {
		return nil, fmt.Errorf("register width %d outside [1, %d]", n, stateprep.MaxQubits)
	}
	if len(amps) != 1<<n {
		return nil, fmt.Errorf("%d amplitudes cannot fill %d qubits", len(amps), n)
	}
	return []target{{n: n, a: amps}}, nil
}
