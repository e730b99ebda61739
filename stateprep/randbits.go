package stateprep

import (
	"fmt"
	"math"

	"github.com/alan-christopher/stateprep/stateprep/bitmap"
	"github.com/alan-christopher/stateprep/stateprep/qsim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// distributionTolerance bounds how far a distribution's total may stray
// from 1.
const distributionTolerance = 1e-6

// GenerateRandomBits draws n random bits by preparing and measuring n fresh
// qubits.
//
// If probs has two entries, every qubit independently reads Zero with
// probability probs[0] and One with probability probs[1]. If probs has 2^n
// entries, the bits are drawn jointly and the n-bit integer k (first bit most
// significant) occurs with probability probs[k].
func (s *Session) GenerateRandomBits(n int, probs []float64) ([]qsim.Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if n < 1 {
		return nil, fmt.Errorf("generating %d bits: %w", n, ErrNoQubits)
	}
	if err := validateDistribution(n, probs); err != nil {
		return nil, err
	}
	amps := make([]float64, len(probs))
	for i, p := range probs {
		amps[i] = math.Sqrt(p)
	}

	qs, err := s.Allocate(n)
	if err != nil {
		return nil, err
	}
	rs, err := s.prepareAndMeasure(qs, amps)
	if err != nil {
		s.releaseAfterFailure(qs)
		return nil, err
	}
	if err := s.Release(qs); err != nil {
		return nil, err
	}
	return rs, nil
}

// releaseAfterFailure cleans up qs on an error path. The original error takes
// precedence, so a cleanup failure is only logged.
func (s *Session) releaseAfterFailure(qs []qsim.Qubit) {
	if err := s.Release(qs); err != nil {
		s.logger.Debug("release after failure", "err", err)
	}
}

func (s *Session) prepareAndMeasure(qs []qsim.Qubit, amps []float64) ([]qsim.Result, error) {
	if len(amps) == 2 && len(qs) > 1 {
		for _, q := range qs {
			if err := s.PrepArbitraryReal([]qsim.Qubit{q}, amps); err != nil {
				return nil, err
			}
		}
	} else if err := s.PrepArbitraryReal(qs, amps); err != nil {
		return nil, err
	}
	return s.Measure(qs)
}

func validateDistribution(n int, probs []float64) error {
	if len(probs) != 2 && len(probs) != 1<<n {
		return fmt.Errorf("%d probabilities for %d bits, want 2 or %d: %w", len(probs), n, 1<<n, ErrInvalidDistribution)
	}
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("probability %d is %g: %w", i, p, ErrInvalidDistribution)
		}
	}
	if sum := floats.Sum(probs); !scalar.EqualWithinAbs(sum, 1, distributionTolerance) {
		return fmt.Errorf("probabilities sum to %g: %w", sum, ErrInvalidDistribution)
	}
	return nil
}

// ResultsToBits maps One to a set bit and Zero to a clear one, preserving
// order.
func ResultsToBits(rs []qsim.Result) (bitmap.Dense, error) {
	bs := make([]bool, 0, len(rs))
	for i, r := range rs {
		switch r {
		case qsim.One:
			bs = append(bs, true)
		case qsim.Zero:
			bs = append(bs, false)
		default:
			return bitmap.Dense{}, fmt.Errorf("result %d has invalid value %d", i, int(r))
		}
	}
	return bitmap.FromBools(bs), nil
}

// DecodeResults interprets rs as a binary numeral, first result most
// significant.
func DecodeResults(rs []qsim.Result) (uint64, error) {
	bits, err := ResultsToBits(rs)
	if err != nil {
		return 0, err
	}
	return bits.Uint64()
}
