package stateprep

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/alan-christopher/stateprep/stateprep/qsim"
	"gonum.org/v1/gonum/cmplxs"
)

// PrepArbitraryReal is PrepArbitrary for real amplitudes.
func (s *Session) PrepArbitraryReal(qs []qsim.Qubit, a []float64) error {
	return s.PrepArbitrary(qs, realToComplex(a))
}

// PrepArbitrary takes qs from |0...0> to the state whose amplitudes are a,
// normalized. qs[0] is the most significant qubit, so a[k] becomes the
// amplitude of the basis state whose big-endian binary expansion over qs is
// k. The prepared state matches a exactly, global phase included.
//
// Magnitudes are loaded top-down with multiplexed Ry rotations. Phases are
// then unloaded bottom-up with multiplexed Rz rotations, and the residual
// global phase is applied last.
func (s *Session) PrepArbitrary(qs []qsim.Qubit, a []complex128) error {
	if s.closed {
		return ErrClosed
	}
	n := len(qs)
	if n == 0 {
		return ErrNoQubits
	}
	if len(a) != 1<<n {
		return fmt.Errorf("%d amplitudes for %d qubits: %w", len(a), n, ErrAmplitudeLength)
	}
	norm := cmplxs.Norm(a, 2)
	if norm == 0 {
		return ErrZeroVector
	}

	mags := make([]float64, len(a))
	phases := make([]float64, len(a))
	for i, x := range a {
		mags[i] = cmplx.Abs(x) / norm
		phases[i] = cmplx.Phase(x)
	}

	if err := s.loadMagnitudes(qs, mags); err != nil {
		return fmt.Errorf("loading magnitudes: %w", err)
	}
	if err := s.loadPhases(qs, phases); err != nil {
		return fmt.Errorf("loading phases: %w", err)
	}
	s.logger.Debug("prepared state", "qubits", n)
	return nil
}

// loadMagnitudes rotates qubit l, controlled on every prefix of qs[:l], so
// that the weight of each prefix splits between its two subtrees.
func (s *Session) loadMagnitudes(qs []qsim.Qubit, mags []float64) error {
	n := len(qs)
	// weights[l][p] is the squared norm of the amplitudes under prefix p of
	// length l.
	weights := make([][]float64, n+1)
	weights[n] = make([]float64, len(mags))
	for i, m := range mags {
		weights[n][i] = m * m
	}
	for l := n - 1; l >= 0; l-- {
		weights[l] = make([]float64, 1<<l)
		for p := range weights[l] {
			weights[l][p] = weights[l+1][2*p] + weights[l+1][2*p+1]
		}
	}

	for l := 0; l < n; l++ {
		for p := 0; p < 1<<l; p++ {
			left, right := weights[l+1][2*p], weights[l+1][2*p+1]
			if right == 0 {
				continue
			}
			theta := 2 * math.Atan2(math.Sqrt(right), math.Sqrt(left))
			if err := s.sim.ApplyControlledOnInt(p, qs[:l], qsim.Ry(theta), qs[l]); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadPhases applies diag(e^{i phases[k]}) to qs. Each level peels the phase
// difference between sibling basis states off with an Rz on the lowest
// remaining qubit and passes their mean up to the parent prefix.
func (s *Session) loadPhases(qs []qsim.Qubit, phases []float64) error {
	cur := phases
	for l := len(qs) - 1; l >= 0; l-- {
		next := make([]float64, len(cur)/2)
		for p := range next {
			lo, hi := cur[2*p], cur[2*p+1]
			next[p] = (lo + hi) / 2
			if delta := hi - lo; delta != 0 {
				if err := s.sim.ApplyControlledOnInt(p, qs[:l], qsim.Rz(delta), qs[l]); err != nil {
					return err
				}
			}
		}
		cur = next
	}
	return s.globalPhase(qs[0], cur[0])
}

// globalPhase multiplies the whole register by e^{i theta} using q as a
// scratch target.
func (s *Session) globalPhase(q qsim.Qubit, theta float64) error {
	if theta == 0 {
		return nil
	}
	for _, g := range []qsim.Matrix2{qsim.R1(theta), qsim.X, qsim.R1(theta), qsim.X} {
		if err := s.sim.Apply(g, q); err != nil {
			return err
		}
	}
	return nil
}

// OneHot returns the amplitude vector of basis state basis on n qubits.
func OneHot(n, basis int) []float64 {
	a := make([]float64, 1<<n)
	a[basis] = 1
	return a
}

func realToComplex(a []float64) []complex128 {
	c := make([]complex128, len(a))
	for i, x := range a {
		c[i] = complex(x, 0)
	}
	return c
}
