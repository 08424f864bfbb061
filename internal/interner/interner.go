// Package interner provides a process-scoped, insert-only symbol table for
// the Division/Booth strings a scan sees repeatedly. The distribution scan
// that owns a Table is single-threaded and the interner lives unevicted
// for the whole run, so a plain map trading a hash-and-insert for later
// equality-by-integer is the right shape here, not a guarded LRU.
package interner

// Symbol is a 16-bit handle into a Table. 16 bits comfortably covers the
// well under 2,000 distinct division/booth strings a real AEC file
// produces.
type Symbol uint16

// Table interns strings to Symbols. The zero value is ready to use. Not
// safe for concurrent use — by design, the distribution scan that owns a
// Table is single-threaded.
type Table struct {
	ids   map[string]Symbol
	names []string
}

// New returns an empty Table with capacity pre-sized for hint strings.
func New(hint int) *Table {
	return &Table{
		ids:   make(map[string]Symbol, hint),
		names: make([]string, 0, hint),
	}
}

// Intern returns the Symbol for b, assigning a new one if b has not been
// seen before. b is typically a field slice borrowed from a row buffer
// that will be overwritten on the next read; the map lookup via string(b)
// does not allocate (the Go compiler special-cases a []byte->string
// conversion used only as a map key), and a copy is made only on the
// rare path where a new symbol is actually inserted.
//
// Panics if more than 65536 distinct strings are interned, since that
// would overflow Symbol — a real ballot file never approaches this.
func (t *Table) Intern(b []byte) Symbol {
	if id, ok := t.ids[string(b)]; ok {
		return id
	}
	if len(t.names) >= 1<<16 {
		panic("interner: exceeded 65536 distinct symbols")
	}
	if t.ids == nil {
		t.ids = make(map[string]Symbol)
	}
	id := Symbol(len(t.names))
	owned := string(b) // allocates; only reached once per distinct symbol
	t.names = append(t.names, owned)
	t.ids[owned] = id
	return id
}

// Lookup returns the string for a previously interned Symbol.
func (t *Table) Lookup(id Symbol) string {
	return t.names[id]
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int {
	return len(t.names)
}
