package scenario

import "fmt"

// NumCombos returns N_combos(G) = sum_{k=0..G} G!/(G-k)!, the number of
// distinct ordered sub-selections (including the empty one) of G groups.
func NumCombos(g int) int {
	total := 0
	perm := 1 // G!/(G-k)! built incrementally: at k=0 this is 1
	for k := 0; k <= g; k++ {
		total += perm
		perm *= g - k
	}
	return total
}

// CalculateIndex computes the canonical combo index for an ordered,
// duplicate-free selection of group ids (each in [0, g)) directly via
// factorial-number-system arithmetic, independent of any precomputed
// table. Index 0 is reserved for the empty ordering.
//
// The enumeration is: index 0 is the empty ordering; then all length-1
// selections in ascending group-id order; then all length-2 ordered pairs
// in lexicographic order over (first, second); and so on up to length g.
func CalculateIndex(g int, order []int) int {
	k := len(order)
	offset := 0
	perm := 1
	for l := 0; l < k; l++ {
		offset += perm
		perm *= g - l
	}

	available := make([]int, g)
	for i := range available {
		available[i] = i
	}

	rank := 0
	remaining := g
	for i, v := range order {
		idx := -1
		for j, a := range available {
			if a == v {
				idx = j
				break
			}
		}
		if idx < 0 {
			panic(fmt.Sprintf("scenario: group id %d not available at position %d (duplicate or out of range)", v, i))
		}
		weight := fallingFactorial(remaining-1, k-i-1)
		rank += idx * weight
		available = append(available[:idx], available[idx+1:]...)
		remaining--
	}
	return offset + rank
}

// fallingFactorial returns n!/(n-r)!, i.e. P(n, r); P(n, 0) == 1 for all n >= 0.
func fallingFactorial(n, r int) int {
	result := 1
	for i := 0; i < r; i++ {
		result *= n - i
	}
	return result
}

// ComboIndex is a precomputed bijection between group orderings and dense
// integers, built once per scenario. A lookup encodes the ordering as a
// base-(g+1) key in g multiply-adds and then reads one table entry,
// trading a small amount of memory for avoiding CalculateIndex's search
// over the remaining group ids and its slice allocation on the hot path.
// The table entries themselves are filled in by CalculateIndex.
type ComboIndex struct {
	g      int
	stride int     // g+1, the per-position radix
	table  []int32 // size stride^g, keyed by a zero-padded, base-stride-encoded order
	labels []string
}

// NewComboIndex builds the combo table and column labels for g groups with
// the given short codes (len(codes) must equal g).
func NewComboIndex(g int, codes []string) *ComboIndex {
	if len(codes) != g {
		panic("scenario: NewComboIndex: len(codes) != g")
	}
	stride := g + 1
	size := 1
	for i := 0; i < g; i++ {
		size *= stride
	}

	ci := &ComboIndex{g: g, stride: stride, table: make([]int32, size)}
	ci.labels = make([]string, NumCombos(g))
	ci.labels[0] = "None"

	used := make([]bool, g)
	order := make([]int, 0, g)
	ci.fill(used, order, codes)
	return ci
}

func (ci *ComboIndex) fill(used []bool, order []int, codes []string) {
	idx := int32(CalculateIndex(ci.g, order))
	key := ci.key(order)
	ci.table[key] = idx
	if len(order) > 0 {
		label := ""
		for _, g := range order {
			label += codes[g]
		}
		ci.labels[idx] = label
	}
	if len(order) == ci.g {
		return
	}
	for g := 0; g < ci.g; g++ {
		if used[g] {
			continue
		}
		used[g] = true
		ci.fill(used, append(order, g), codes)
		used[g] = false
	}
}

// key encodes order (zero-padded to length g, values offset by one so 0
// means "unused") as a base-stride integer.
func (ci *ComboIndex) key(order []int) int {
	key := 0
	for i := 0; i < ci.g; i++ {
		v := 0
		if i < len(order) {
			v = order[i] + 1
		}
		key = key*ci.stride + v
	}
	return key
}

// Index looks up the combo index for an ordered, duplicate-free selection
// of group ids via the precomputed table.
func (ci *ComboIndex) Index(order []int) int32 {
	return ci.table[ci.key(order)]
}

// Labels returns the column label for every combo index in canonical
// order, e.g. ["None", "Alp", "Grn", "AlpGrn", "GrnAlp", ...].
func (ci *ComboIndex) Labels() []string {
	return ci.labels
}

// N returns the total number of combo indices, NumCombos(g).
func (ci *ComboIndex) N() int {
	return len(ci.labels)
}

// VerifyComboIndexing checks that CalculateIndex and the ComboIndex table
// agree on every ordering for g groups with an identity code alphabet,
// exercised by tests and optionally by the CLI's -verify-combos flag.
func VerifyComboIndexing(g int) error {
	codes := make([]string, g)
	for i := range codes {
		codes[i] = fmt.Sprintf("g%d", i)
	}
	ci := NewComboIndex(g, codes)

	seen := make(map[int]bool, ci.N())
	var walk func(used []bool, order []int) error
	walk = func(used []bool, order []int) error {
		direct := CalculateIndex(g, order)
		table := int(ci.Index(order))
		if direct != table {
			return fmt.Errorf("scenario: mismatch for order %v: calculate_index=%d table=%d", order, direct, table)
		}
		if direct < 0 || direct >= ci.N() {
			return fmt.Errorf("scenario: index %d out of range [0,%d) for order %v", direct, ci.N(), order)
		}
		if seen[direct] {
			return fmt.Errorf("scenario: duplicate index %d for order %v", direct, order)
		}
		seen[direct] = true
		if len(order) == g {
			return nil
		}
		for gi := 0; gi < g; gi++ {
			if used[gi] {
				continue
			}
			used[gi] = true
			if err := walk(used, append(order, gi)); err != nil {
				return err
			}
			used[gi] = false
		}
		return nil
	}
	if err := walk(make([]bool, g), nil); err != nil {
		return err
	}
	if len(seen) != ci.N() {
		return fmt.Errorf("scenario: only %d of %d indices reached", len(seen), ci.N())
	}
	return nil
}
