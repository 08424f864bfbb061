package tally

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/alexjago/nparty/internal/interner"
)

// WriteCSV serialises t as a wide CSV: Division, Booth, then one column
// per combo index in canonical order (labels). Rows are sorted by
// (Division, Booth) for deterministic output across runs.
func WriteCSV(w io.Writer, t *Tally, names *interner.Table, labels []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, 0, 2+len(labels))
	header = append(header, "Division", "Booth")
	header = append(header, labels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	keys := t.Keys()
	sort.Slice(keys, func(i, j int) bool {
		di, dj := names.Lookup(keys[i].Division), names.Lookup(keys[j].Division)
		if di != dj {
			return di < dj
		}
		return names.Lookup(keys[i].Booth) < names.Lookup(keys[j].Booth)
	})

	row := make([]string, 2+len(labels))
	for _, k := range keys {
		row[0] = names.Lookup(k.Division)
		row[1] = names.Lookup(k.Booth)
		counts := t.Row(k)
		for i, c := range counts {
			row[2+i] = strconv.FormatUint(c, 10)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
