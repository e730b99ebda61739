package bitmap

import (
	"errors"
	"strings"
	"testing"
)

func mustDense(t *testing.T, s string) Dense {
	d, err := FromString(s)
	if err != nil {
		t.Fatalf("bugged test setup: %v", err)
	}
	return d
}

func TestFromString(t *testing.T) {
	tcs := []struct {
		name string
		in   string
		eout string
		err  bool
	}{
		{"empty", "", "", false},
		{"short", "101", "101", false},
		{"spaces", "1111 0000 11", "1111000011", false},
		{"invalid", "10a1", "", true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			d, err := FromString(tc.in)
			if (err != nil) != tc.err {
				t.Fatalf("FromString(%q) error == %v, want error: %v", tc.in, err, tc.err)
			}
			if out := d.String(); out != tc.eout {
				t.Errorf("FromString(%q).String() == %q, want %q", tc.in, out, tc.eout)
			}
		})
	}
}

func TestUint64(t *testing.T) {
	tcs := []struct {
		name string
		data Dense
		eout uint64
	}{
		{"empty", mustDense(t, ""), 0},
		{"zero", mustDense(t, "0"), 0},
		{"one", mustDense(t, "1"), 1},
		{"msb first", mustDense(t, "10"), 2},
		{"lsb last", mustDense(t, "01"), 1},
		{"multibyte", mustDense(t, "1000 0000 01"), 513},
		{"full width", mustDense(t, strings.Repeat("1", 64)), ^uint64(0)},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.data.Uint64()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tc.eout {
				t.Errorf("Uint64(%v) == %d, want %d", tc.data, out, tc.eout)
			}
		})
	}

	long := mustDense(t, strings.Repeat("0", 65))
	if _, err := long.Uint64(); !errors.Is(err, ErrOverflow) {
		t.Errorf("Uint64 of 65 bits: got error %v, want %v", err, ErrOverflow)
	}
}

func TestFromBools(t *testing.T) {
	d := FromBools([]bool{true, false, true, true, false, false, false, false, true})
	if out := d.String(); out != "101100001" {
		t.Errorf("FromBools(...).String() == %q, want %q", out, "101100001")
	}
	if d.SizeBytes() != 2 {
		t.Errorf("SizeBytes() == %d, want 2", d.SizeBytes())
	}
}

func TestEqual(t *testing.T) {
	tcs := []struct {
		name string
		a, b Dense
		eout bool
	}{
		{"same", mustDense(t, "1011"), mustDense(t, "1011"), true},
		{"different", mustDense(t, "1011"), mustDense(t, "1001"), false},
		{"different length", mustDense(t, "101"), mustDense(t, "1010"), false},
		{"empty", mustDense(t, ""), mustDense(t, " "), true},
		{"multibyte", mustDense(t, "1111 0000 1"), FromBools([]bool{true, true, true, true, false, false, false, false, true}), true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if out := Equal(tc.a, tc.b); out != tc.eout {
				t.Errorf("Equal(%v, %v) == %v, want %v", tc.a, tc.b, out, tc.eout)
			}
		})
	}
}
