package stateprep

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// A Tally counts how often each decoded outcome was observed.
type Tally map[uint64]int

// Add records one more observation of v.
func (t Tally) Add(v uint64) {
	t[v]++
}

// Count returns the number of observations of v.
func (t Tally) Count(v uint64) int {
	return t[v]
}

// Total returns the number of observations across all outcomes.
func (t Tally) Total() int {
	var sum int
	for _, c := range t {
		sum += c
	}
	return sum
}

// Keys returns every observed outcome in ascending order.
func (t Tally) Keys() []uint64 {
	keys := make([]uint64, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// String renders t as "{0: 36, 1: 64}", outcomes ascending.
func (t Tally) String() string {
	var els []string
	for _, k := range t.Keys() {
		els = append(els, fmt.Sprintf("%d: %d", k, t[k]))
	}
	return "{" + strings.Join(els, ", ") + "}"
}

// ToProto converts t into a Struct keyed by the decimal outcome.
func (t Tally) ToProto() (*structpb.Struct, error) {
	m := make(map[string]interface{}, len(t))
	for k, c := range t {
		m[strconv.FormatUint(k, 10)] = c
	}
	return structpb.NewStruct(m)
}

// Sample runs trials independent rounds of GenerateRandomBits(n, probs) and
// tallies the decoded outcomes. The first error aborts the run.
func (s *Session) Sample(n int, probs []float64, trials int) (Tally, error) {
	if trials < 0 {
		return nil, fmt.Errorf("negative trial count %d", trials)
	}
	t := Tally{}
	for i := 0; i < trials; i++ {
		rs, err := s.GenerateRandomBits(n, probs)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		v, err := DecodeResults(rs)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		t.Add(v)
	}
	s.logger.Debug("sampled", "trials", trials, "outcomes", len(t))
	return t, nil
}
