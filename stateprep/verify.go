package stateprep

import (
	"fmt"

	"github.com/alan-christopher/stateprep/stateprep/qsim"
)

// A MismatchError reports a prepared state that differs from its target.
type MismatchError struct {
	Want []complex128
	Got  qsim.DenseState
	Tol  float64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("prepared state differs from target beyond %g:\nwant %v\ngot  %v", e.Tol, e.Want, []complex128(e.Got))
}

// RunPrep reinitializes s, prepares a on n fresh qubits and checks the dumped
// state against a. The dumped state is returned even on mismatch, alongside
// a *MismatchError.
func (s *Session) RunPrep(n int, a []complex128) (qsim.DenseState, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	qs, err := s.Allocate(n)
	if err != nil {
		return nil, err
	}
	if err := s.PrepArbitrary(qs, a); err != nil {
		return nil, err
	}
	got, err := s.DumpMachine()
	if err != nil {
		return nil, err
	}
	if !got.ApproxEqual(a, s.tol) {
		return got, &MismatchError{Want: a, Got: got, Tol: s.tol}
	}
	return got, nil
}

// RunPrepReal is RunPrep for real amplitudes.
func (s *Session) RunPrepReal(n int, a []float64) (qsim.DenseState, error) {
	return s.RunPrep(n, realToComplex(a))
}
