// Package qsim provides a dense state-vector simulator for small qubit
// registers.
package qsim

// A Result is the outcome of measuring a single qubit in the computational
// basis.
type Result int

const (
	Zero Result = iota
	One
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case Zero:
		return "Zero"
	case One:
		return "One"
	}
	return "Result(?)"
}

// Bool maps One to true and Zero to false.
func (r Result) Bool() bool {
	switch r {
	case One:
		return true
	case Zero:
		return false
	}
	panic("qsim: invalid Result")
}
