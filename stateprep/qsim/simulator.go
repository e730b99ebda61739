package qsim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// releaseTolerance bounds the probability of |1> a qubit may carry and still
// be considered released in |0>.
const releaseTolerance = 1e-9

var (
	ErrUnknownQubit    = errors.New("qubit is not allocated")
	ErrReleasedNotZero = errors.New("qubit released while not in |0> state")
	ErrControlIsTarget = errors.New("target qubit is also a control")
	ErrNegativeCount   = errors.New("negative qubit count")
)

// A Qubit is a handle to a single qubit allocated from a Simulator. Handles
// are never reused within one Simulator.
type Qubit struct {
	id int
}

// String implements fmt.Stringer.
func (q Qubit) String() string {
	return fmt.Sprintf("q%d", q.id)
}

// A Simulator tracks the full state vector of every live qubit. The first
// live qubit is the most significant bit of a basis index.
//
// A Simulator is not safe for concurrent use.
type Simulator struct {
	amps  []complex128
	order []int
	next  int
	rand  *rand.Rand
}

// New returns an empty Simulator which draws measurement outcomes from r.
func New(r *rand.Rand) *Simulator {
	return &Simulator{
		amps: []complex128{1},
		rand: r,
	}
}

// NumQubits returns the number of live qubits.
func (s *Simulator) NumQubits() int {
	return len(s.order)
}

// Allocate adds n fresh qubits in the |0> state, least significant last.
func (s *Simulator) Allocate(n int) ([]Qubit, error) {
	if n < 0 {
		return nil, fmt.Errorf("allocating %d qubits: %w", n, ErrNegativeCount)
	}
	qs := make([]Qubit, 0, n)
	for i := 0; i < n; i++ {
		amps := make([]complex128, 2*len(s.amps))
		for k, a := range s.amps {
			amps[k<<1] = a
		}
		s.amps = amps
		s.order = append(s.order, s.next)
		qs = append(qs, Qubit{id: s.next})
		s.next++
	}
	return qs, nil
}

// Release returns qubits to the simulator. Every qubit must be in |0>;
// callers should Reset qubits whose state is unknown.
func (s *Simulator) Release(qs ...Qubit) error {
	for _, q := range qs {
		bit, err := s.mask(q)
		if err != nil {
			return err
		}
		if p := s.prob(bit, One); p > releaseTolerance {
			return fmt.Errorf("releasing %v with P(1) = %g: %w", q, p, ErrReleasedNotZero)
		}
		s.remove(q, bit)
	}
	return nil
}

// Apply applies the single-qubit operator g to q.
func (s *Simulator) Apply(g Matrix2, q Qubit) error {
	return s.ApplyControlled(g, nil, q)
}

// ApplyControlled applies g to target on the subspace where every control is
// |1>.
func (s *Simulator) ApplyControlled(g Matrix2, ctrls []Qubit, target Qubit) error {
	return s.ApplyControlledOnInt(1<<len(ctrls)-1, ctrls, g, target)
}

// ApplyControlledOnInt applies g to target on the subspace where ctrls, read
// as a big-endian integer with ctrls[0] most significant, equal value.
func (s *Simulator) ApplyControlledOnInt(value int, ctrls []Qubit, g Matrix2, target Qubit) error {
	tbit, err := s.mask(target)
	if err != nil {
		return err
	}
	var cmask, cwant int
	for i, c := range ctrls {
		if c == target {
			return fmt.Errorf("controlling %v on itself: %w", target, ErrControlIsTarget)
		}
		cbit, err := s.mask(c)
		if err != nil {
			return err
		}
		cmask |= cbit
		if value>>(len(ctrls)-1-i)&1 == 1 {
			cwant |= cbit
		}
	}
	for i := range s.amps {
		if i&tbit != 0 || i&cmask != cwant {
			continue
		}
		j := i | tbit
		s.amps[i], s.amps[j] = g.apply(s.amps[i], s.amps[j])
	}
	return nil
}

// Measure measures q in the computational basis, collapsing the state.
func (s *Simulator) Measure(q Qubit) (Result, error) {
	bit, err := s.mask(q)
	if err != nil {
		return Zero, err
	}
	p0, p1 := s.prob(bit, Zero), s.prob(bit, One)
	r := Zero
	if s.rand.Float64()*(p0+p1) < p1 {
		r = One
	}
	// An outcome with no support can only be drawn through rounding.
	if r == Zero && p0 == 0 {
		r = One
	}
	s.collapse(bit, r)
	return r, nil
}

// Reset measures q and flips it back to |0> if needed.
func (s *Simulator) Reset(q Qubit) error {
	r, err := s.Measure(q)
	if err != nil {
		return err
	}
	if r == One {
		return s.Apply(X, q)
	}
	return nil
}

// ResetAll resets every live qubit.
func (s *Simulator) ResetAll() error {
	for _, id := range append([]int(nil), s.order...) {
		if err := s.Reset(Qubit{id: id}); err != nil {
			return err
		}
	}
	return nil
}

// Live returns handles for every live qubit, most significant first.
func (s *Simulator) Live() []Qubit {
	qs := make([]Qubit, 0, len(s.order))
	for _, id := range s.order {
		qs = append(qs, Qubit{id: id})
	}
	return qs
}

// DumpMachine returns a copy of the full state vector.
func (s *Simulator) DumpMachine() DenseState {
	return append(DenseState(nil), s.amps...)
}

func (s *Simulator) position(q Qubit) (int, error) {
	for p, id := range s.order {
		if id == q.id {
			return p, nil
		}
	}
	return -1, fmt.Errorf("%v: %w", q, ErrUnknownQubit)
}

func (s *Simulator) mask(q Qubit) (int, error) {
	p, err := s.position(q)
	if err != nil {
		return 0, err
	}
	return 1 << (len(s.order) - 1 - p), nil
}

// prob returns the probability that the qubit selected by bit reads r.
func (s *Simulator) prob(bit int, r Result) float64 {
	var p float64
	for i, a := range s.amps {
		if (i&bit != 0) == r.Bool() {
			p += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	return p
}

func (s *Simulator) collapse(bit int, r Result) {
	var norm float64
	for i, a := range s.amps {
		if (i&bit != 0) != r.Bool() {
			s.amps[i] = 0
			continue
		}
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range s.amps {
		s.amps[i] *= scale
	}
}

// remove drops the qubit selected by bit, which must already be in |0>.
func (s *Simulator) remove(q Qubit, bit int) {
	amps := make([]complex128, len(s.amps)/2)
	low := bit - 1
	for i, a := range s.amps {
		if i&bit != 0 {
			continue
		}
		amps[(i>>1)&^low|i&low] = a
	}
	s.amps = amps
	p, _ := s.position(q)
	s.order = append(s.order[:p], s.order[p+1:]...)
}
