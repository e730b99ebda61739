package main

import (
	"bytes"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/alan-christopher/stateprep/stateprep"
	"github.com/charmbracelet/log"
)

func TestBuildTargets(t *testing.T) {
	tcs := []struct {
		name    string
		amps    []float64
		qubits  int
		sweep   int
		ecount  int
		ewidths []int
		err     bool
	}{
		{name: "inferred width", amps: []float64{0.5, 0.5, 0.5, 0.5}, ecount: 1, ewidths: []int{2}},
		{name: "explicit width", amps: []float64{0, 1}, qubits: 1, ecount: 1, ewidths: []int{1}},
		{name: "sweep", sweep: 2, ecount: 6, ewidths: []int{1, 1, 2, 2, 2, 2}},
		{name: "not a power of two", amps: []float64{1, 0, 0}, err: true},
		{name: "width mismatch", amps: []float64{1, 0}, qubits: 2, err: true},
		{name: "negative width", amps: []float64{1}, qubits: -1, err: true},
		{name: "zero width", amps: []float64{1}, err: true},
		{name: "width too large", amps: []float64{1, 0}, qubits: stateprep.MaxQubits + 1, err: true},
		{name: "negative sweep", sweep: -1, err: true},
		{name: "sweep too large", sweep: stateprep.MaxQubits + 1, err: true},
		{name: "nothing requested", err: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ts, err := buildTargets(tc.amps, tc.qubits, tc.sweep)
			if (err != nil) != tc.err {
				t.Fatalf("buildTargets error == %v, want error: %v", err, tc.err)
			}
			if len(ts) != tc.ecount {
				t.Fatalf("got %d targets, want %d", len(ts), tc.ecount)
			}
			for i, tg := range ts {
				if tg.n != tc.ewidths[i] {
					t.Errorf("target %d has width %d, want %d", i, tg.n, tc.ewidths[i])
				}
				if len(tg.a) != 1<<tg.n {
					t.Errorf("target %d has %d amplitudes for %d qubits", i, len(tg.a), tg.n)
				}
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tcs := []struct {
		name    string
		targets []target
		asJSON  bool
		efailed int
		eout    string
	}{
		{
			name:    "match",
			targets: []target{{n: 2, a: []float64{0.36, 0.48, 0.64, -0.48}}},
			eout:    "ok [0.36 0.48 0.64 -0.48]",
		}, {
			name:    "match as json",
			targets: []target{{n: 1, a: []float64{0, 1}}},
			asJSON:  true,
			eout:    `"index"`,
		}, {
			name: "unnormalized target mismatches",
			targets: []target{
				{n: 1, a: []float64{3, 4}},
				{n: 1, a: []float64{1, 0}},
			},
			efailed: 1,
			eout:    "ok [1 0]",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			s, err := stateprep.New(stateprep.Opts{Rand: rand.New(rand.NewSource(1))})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer s.Close()
			var out bytes.Buffer
			failed, err := check(s, tc.targets, &out, tc.asJSON, log.New(io.Discard))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if failed != tc.efailed {
				t.Errorf("check reported %d failures, want %d", failed, tc.efailed)
			}
			if !strings.Contains(out.String(), tc.eout) {
				t.Errorf("check output %q does not contain %q", out.String(), tc.eout)
			}
		})
	}
}
