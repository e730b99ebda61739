package qsim

import (
	"fmt"
	"math/bits"
	"strings"

	"gonum.org/v1/gonum/cmplxs"
	"google.golang.org/protobuf/types/known/structpb"
)

// A DenseState enumerates the amplitude of every computational basis state
// of a register, indexed big-endian by qubit allocation order.
type DenseState []complex128

// Qubits returns the register width the state describes.
func (d DenseState) Qubits() int {
	return bits.Len(uint(len(d))) - 1
}

// Norm returns the Euclidean norm of d.
func (d DenseState) Norm() float64 {
	return cmplxs.Norm(d, 2)
}

// ApproxEqual reports whether d and want have the same length and agree
// componentwise within tol, absolute or relative.
func (d DenseState) ApproxEqual(want []complex128, tol float64) bool {
	return cmplxs.EqualApprox(d, want, tol)
}

// Probabilities returns the Born-rule probability of each basis state.
func (d DenseState) Probabilities() []float64 {
	p := make([]float64, len(d))
	for i, a := range d {
		p[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return p
}

// String renders d one basis state per line, e.g. "|01>: 0.5+0i".
func (d DenseState) String() string {
	var sb strings.Builder
	n := d.Qubits()
	for i, a := range d {
		fmt.Fprintf(&sb, "|%0*b>: %.6f%+.6fi\n", n, i, real(a), imag(a))
	}
	return sb.String()
}

// ToProto converts d into a list of {index, re, im} structs.
func (d DenseState) ToProto() (*structpb.ListValue, error) {
	vals := make([]interface{}, 0, len(d))
	for i, a := range d {
		vals = append(vals, map[string]interface{}{
			"index": i,
			"re":    real(a),
			"im":    imag(a),
		})
	}
	return structpb.NewList(vals)
}
