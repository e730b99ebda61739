// Package stateprep prepares arbitrary quantum states on a simulated register
// and samples random bit strings from prepared states.
package stateprep

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/alan-christopher/stateprep/stateprep/qsim"
	"github.com/charmbracelet/log"
)

var (
	DefaultQubits    = 1
	DefaultProbs     = []float64{0.36, 0.64}
	DefaultTrials    = 100
	DefaultTolerance = 1e-6

	// MaxQubits caps the number of simultaneously live qubits, since the
	// simulator stores 2^MaxQubits amplitudes. Joint preparation over w
	// qubits costs O(4^w) amplitude updates, so PrepArbitrary and joint-mode
	// GenerateRandomBits are only practical up to about 12 qubits; per-qubit
	// GenerateRandomBits costs O(w 2^w) and reaches the cap.
	MaxQubits = 24
)

var (
	ErrClosed              = errors.New("session is closed")
	ErrNoQubits            = errors.New("state preparation needs at least one qubit")
	ErrAmplitudeLength     = errors.New("amplitude vector length must be 2^qubits")
	ErrZeroVector          = errors.New("amplitude vector has zero norm")
	ErrInvalidDistribution = errors.New("invalid probability distribution")
	ErrTooManyQubits       = errors.New("too many live qubits")
)

// Opts packages together the arguments used to construct a Session. Every
// field may be left zero-initialized.
type Opts struct {
	// Rand provides the randomness used for measurement. Defaults to a
	// time-seeded pRNG.
	Rand *rand.Rand

	// Logger receives debug-level engine events. Defaults to discarding
	// them.
	Logger *log.Logger

	// Tolerance bounds the componentwise difference tolerated when comparing
	// a simulated state against its target. Defaults to DefaultTolerance.
	Tolerance float64
}

// A Session owns a simulator and every qubit allocated from it. Sessions are
// not safe for concurrent use.
type Session struct {
	sim    *qsim.Simulator
	rand   *rand.Rand
	logger *log.Logger
	tol    float64
	closed bool
}

// New returns a new, initialized Session.
func New(opts Opts) (*Session, error) {
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tol := opts.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	if tol < 0 {
		return nil, fmt.Errorf("negative tolerance %g", tol)
	}
	s := &Session{rand: r, logger: logger, tol: tol}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Init discards the simulator state, leaving an empty register. It does not
// consume randomness, so repeated calls do not change subsequent results.
func (s *Session) Init() error {
	if s.closed {
		return ErrClosed
	}
	s.sim = qsim.New(s.rand)
	s.logger.Debug("initialized simulator")
	return nil
}

// Close resets and releases every live qubit. Any further use of s returns
// ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if err := s.sim.ResetAll(); err != nil {
		return err
	}
	return s.sim.Release(s.sim.Live()...)
}

// Tolerance returns the comparison tolerance in effect.
func (s *Session) Tolerance() float64 {
	return s.tol
}

// Allocate allocates n fresh qubits in |0>.
func (s *Session) Allocate(n int) ([]qsim.Qubit, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if n < 0 {
		return nil, fmt.Errorf("allocating %d qubits: %w", n, qsim.ErrNegativeCount)
	}
	if live := s.sim.NumQubits(); n > MaxQubits-live {
		return nil, fmt.Errorf("allocating %d qubits with %d live: %w", n, live, ErrTooManyQubits)
	}
	qs, err := s.sim.Allocate(n)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("allocated qubits", "n", n, "live", s.sim.NumQubits())
	return qs, nil
}

// Release resets and releases qs.
func (s *Session) Release(qs []qsim.Qubit) error {
	if s.closed {
		return ErrClosed
	}
	for _, q := range qs {
		if err := s.sim.Reset(q); err != nil {
			return err
		}
	}
	if err := s.sim.Release(qs...); err != nil {
		return err
	}
	s.logger.Debug("released qubits", "n", len(qs), "live", s.sim.NumQubits())
	return nil
}

// Measure measures every qubit in qs, in order.
func (s *Session) Measure(qs []qsim.Qubit) ([]qsim.Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	rs := make([]qsim.Result, 0, len(qs))
	for _, q := range qs {
		r, err := s.sim.Measure(q)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// DumpMachine returns the dense state of every live qubit.
func (s *Session) DumpMachine() (qsim.DenseState, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.sim.DumpMachine(), nil
}
