package qsim

import (
	"math"
	"math/cmplx"
)

// A Matrix2 is a single-qubit operator in the computational basis, indexed
// [row][column].
type Matrix2 [2][2]complex128

var (
	// X is the Pauli X (NOT) gate.
	X = Matrix2{{0, 1}, {1, 0}}
	// H is the Hadamard gate.
	H = Matrix2{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
)

// Ry returns a rotation by theta about the Y axis. Applied to |0>, it
// produces cos(theta/2)|0> + sin(theta/2)|1>.
func Ry(theta float64) Matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix2{{c, -s}, {s, c}}
}

// Rz returns a rotation by theta about the Z axis, diag(e^{-i theta/2},
// e^{i theta/2}).
func Rz(theta float64) Matrix2 {
	return Matrix2{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// R1 returns a phase shift of |1> by theta, diag(1, e^{i theta}).
func R1(theta float64) Matrix2 {
	return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, theta))}}
}

func (g Matrix2) apply(a0, a1 complex128) (complex128, complex128) {
	return g[0][0]*a0 + g[0][1]*a1, g[1][0]*a0 + g[1][1]*a1
}
