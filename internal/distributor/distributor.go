// Package distributor implements the per-row inner loop: for each ballot
// it resolves the voter's preference ordering over scenario groups (ATL if
// marked and ranked, otherwise BTL) and increments the matching combo
// index in a booth-keyed tally. Every row increments exactly one combo
// index, including rows with no usable ATL or BTL ordering at all, which
// fall into the "None" combo rather than being dropped from the tally.
package distributor

import (
	"github.com/alexjago/nparty/internal/ballot"
	"github.com/alexjago/nparty/internal/interner"
	"github.com/alexjago/nparty/internal/scenario"
	"github.com/alexjago/nparty/internal/tally"
)

// Stats accumulates per-scan counters for progress reporting; it has no
// bearing on which combo index a row maps to.
type Stats struct {
	RowsRead        uint64
	RowsATL         uint64
	RowsBTL         uint64
	RowsNoGroupPref uint64 // ATL absent/unranked and BTL informal or absent/unranked
}

// Distributor runs the inner loop for one scenario against one ballot
// file's schema. All scratch buffers are allocated once in New and cleared
// in place on every row, so a multi-million-row scan does no per-row
// heap allocation in the common case.
type Distributor struct {
	schema *ballot.Schema
	combo  *scenario.ComboIndex
	names  *interner.Table
	tally  *tally.Tally

	bests        []int  // per-group best rank this row; -1 = unranked
	order        []int  // final group ordering this row, reused across rows
	btlVals      []int  // parsed BTL value per BTL column this row, -1 = none
	btlCounts    []int  // duplicate-rank counter, sized len(btlVals)+1
	boothNameBuf []byte // scratch buffer for the rare synthetic special-booth name

	Stats Stats
}

// New builds a Distributor for scen's groups already resolved against
// schema (schema.GroupAtlCols/GroupBtlCols must be populated), tallying
// into t and interning booth keys into names.
func New(schema *ballot.Schema, combo *scenario.ComboIndex, names *interner.Table, t *tally.Tally) *Distributor {
	g := len(schema.GroupAtlCols)
	btlWidth := schema.BtlEnd - schema.BtlStart
	return &Distributor{
		schema:       schema,
		combo:        combo,
		names:        names,
		tally:        t,
		bests:        make([]int, g),
		order:        make([]int, 0, g),
		btlVals:      make([]int, btlWidth),
		btlCounts:    make([]int, btlWidth+1),
		boothNameBuf: make([]byte, 0, 64),
	}
}

func field(fields [][]byte, col int) []byte {
	if col < 0 || col >= len(fields) {
		return nil
	}
	return fields[col]
}

// parsePrefValue interprets a preference cell: empty is "no preference",
// "*" and "/" are AEC shorthand for 1, anything else must be all ASCII
// digits. A malformed non-empty cell is treated as no preference rather
// than a fatal error.
func parsePrefValue(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	if len(b) == 1 && (b[0] == '*' || b[0] == '/') {
		return 1, true
	}
	v := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	if v == 0 {
		return 0, false
	}
	return v, true
}

// ProcessRow resolves one CSV row's group ordering and increments its
// combo index. fields is the borrowed slice returned by ballot.RowReader;
// it is only read, never retained.
func (d *Distributor) ProcessRow(fields [][]byte) {
	d.Stats.RowsRead++

	div := field(fields, d.schema.DivisionCol)
	booth := field(fields, d.schema.BoothCol)

	divSym := d.names.Intern(div)
	var boothSym interner.Symbol
	if cat, ok := tally.MatchSpecialCategory(booth); ok {
		d.boothNameBuf = d.boothNameBuf[:0]
		d.boothNameBuf = append(d.boothNameBuf, div...)
		d.boothNameBuf = append(d.boothNameBuf, ' ')
		d.boothNameBuf = append(d.boothNameBuf, cat...)
		boothSym = d.names.Intern(d.boothNameBuf)
	} else {
		boothSym = d.names.Intern(booth)
	}
	db := tally.DivBooth{Division: divSym, Booth: boothSym}

	order, isATL := d.resolveATL(fields)
	if !isATL {
		order = d.resolveBTL(fields)
	}

	if isATL {
		d.Stats.RowsATL++
	} else if len(order) > 0 {
		d.Stats.RowsBTL++
	} else {
		d.Stats.RowsNoGroupPref++
	}

	idx := d.combo.Index(order)
	d.tally.Increment(db, idx)
}

// resolveATL computes the group ordering from the ATL ticket columns: for
// each group, the minimum positive rank across its ATL columns; groups
// with no rank are discarded, the rest sorted ascending, ties (which a
// formal ballot cannot actually produce since groups own disjoint ATL
// columns) broken by original group order. Returns ok=false if no group
// has any ATL rank, meaning the BTL path should be tried instead.
func (d *Distributor) resolveATL(fields [][]byte) ([]int, bool) {
	any := false
	for gi, cols := range d.schema.GroupAtlCols {
		best := -1
		for _, c := range cols {
			v, ok := parsePrefValue(field(fields, c))
			if ok && (best == -1 || v < best) {
				best = v
			}
		}
		d.bests[gi] = best
		if best != -1 {
			any = true
		}
	}
	if !any {
		return nil, false
	}
	d.orderByBest()
	return d.order, true
}

// resolveBTL applies the BTL fast-path formality check over the schema's
// full BTL region, then — if formal — computes each group's best BTL rank
// the same way resolveATL does for ATL ranks. Returns an empty ordering
// (never nil-vs-empty distinguished; length 0) if the row is short, the
// BTL segment is informal, or no tracked group received a preference.
func (d *Distributor) resolveBTL(fields [][]byte) []int {
	d.order = d.order[:0]

	width := d.schema.BtlEnd - d.schema.BtlStart
	if width == 0 || len(fields) <= d.schema.BtlStart {
		return d.order // short row: no BTL columns at all, free rejection
	}

	for i := range d.btlVals {
		d.btlVals[i] = -1
	}
	for i := range d.btlCounts {
		d.btlCounts[i] = 0
	}

	for i := 0; i < width; i++ {
		v, ok := parsePrefValue(field(fields, d.schema.BtlStart+i))
		if !ok || v < 1 || v > width {
			continue
		}
		d.btlVals[i] = v
		d.btlCounts[v]++
	}

	// The Senate partial-preferential savings provision requires full,
	// non-duplicated numbering of at least the first six BTL positions; the
	// header's BTL region can itself be narrower than six columns (as in a
	// toy two-candidate-per-group file), in which case every one of its
	// columns must be fully and uniquely numbered.
	required := 6
	if width < required {
		required = width
	}
	formal := true
	for v := 1; v <= required; v++ {
		if d.btlCounts[v] != 1 {
			formal = false
			break
		}
	}
	if formal {
		for v := required + 1; v < len(d.btlCounts); v++ {
			if d.btlCounts[v] > 1 {
				formal = false
				break
			}
		}
	}
	if !formal {
		return d.order
	}

	for gi, cols := range d.schema.GroupBtlCols {
		best := -1
		for _, c := range cols {
			pos := c - d.schema.BtlStart
			if pos < 0 || pos >= len(d.btlVals) {
				continue
			}
			v := d.btlVals[pos]
			if v != -1 && (best == -1 || v < best) {
				best = v
			}
		}
		d.bests[gi] = best
	}
	d.orderByBest()
	return d.order
}

// orderByBest sorts the groups with a non-negative d.bests entry ascending
// by that value (stable on original group index) into d.order, reusing
// its backing array.
func (d *Distributor) orderByBest() {
	d.order = d.order[:0]
	type ranked struct {
		group int
		best  int
	}
	// d.bests is tiny (G <= 6): an insertion sort over at most 6 elements
	// beats pulling in sort.Slice's interface overhead on the hot path.
	var buf [6]ranked
	n := 0
	for gi, b := range d.bests {
		if b >= 0 {
			buf[n] = ranked{gi, b}
			n++
		}
	}
	for i := 1; i < n; i++ {
		x := buf[i]
		j := i - 1
		for j >= 0 && buf[j].best > x.best {
			buf[j+1] = buf[j]
			j--
		}
		buf[j+1] = x
	}
	for i := 0; i < n; i++ {
		d.order = append(d.order, buf[i].group)
	}
}
