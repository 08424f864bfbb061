// Package tally holds the in-memory booth×combo count matrix the
// distributor writes into, the AEC special-booth aggregation policy, and
// the CSV/SQL sinks that serialise it.
package tally

import "github.com/alexjago/nparty/internal/interner"

// DivBooth identifies one output row: an interned (division, booth) pair.
type DivBooth struct {
	Division interner.Symbol
	Booth    interner.Symbol
}

// Tally maps DivBooth to a dense count vector over combo indices. Vectors
// are allocated once per booth on first touch and never resized.
type Tally struct {
	n      int
	counts map[DivBooth][]uint64
}

// New returns an empty Tally sized for n combo indices.
func New(n int) *Tally {
	return &Tally{n: n, counts: make(map[DivBooth][]uint64, 256)}
}

// Increment adds one to counts[db][idx], allocating db's vector on first
// use.
func (t *Tally) Increment(db DivBooth, idx int32) {
	v, ok := t.counts[db]
	if !ok {
		v = make([]uint64, t.n)
		t.counts[db] = v
	}
	v[idx]++
}

// Keys returns every DivBooth with at least one recorded ballot, in no
// particular order; callers needing determinism must sort.
func (t *Tally) Keys() []DivBooth {
	keys := make([]DivBooth, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	return keys
}

// Row returns the count vector for db, or nil if db has no recorded
// ballots.
func (t *Tally) Row(db DivBooth) []uint64 {
	return t.counts[db]
}

// N returns the combo-vector length every row shares.
func (t *Tally) N() int {
	return t.n
}

// Total sums every count across every row and combo index; used by tests
// to check it equals the number of rows processed (every row, formal or
// not, lands in exactly one combo index).
func (t *Tally) Total() uint64 {
	var sum uint64
	for _, v := range t.counts {
		for _, c := range v {
			sum += c
		}
	}
	return sum
}
