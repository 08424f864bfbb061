package distributor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexjago/nparty/internal/ballot"
	"github.com/alexjago/nparty/internal/interner"
	"github.com/alexjago/nparty/internal/scenario"
	"github.com/alexjago/nparty/internal/tally"
)

// twoGroupHeader is the header shared by S1-S4.
const twoGroupHeader = "State,Division,Vote Collection Point Name,Vote Collection Point ID,Batch No,Paper No,A:Red Party,B:Blue Party,A:R1 Red,A:R2 Red,B:B1 Blue,B:B2 Blue"

func twoGroupScenario() []scenario.Group {
	return []scenario.Group{
		{Code: "Red", Members: []scenario.Member{{Ticket: "A", Name: "Red Party"}, {Ticket: "A", Name: "R1 Red"}, {Ticket: "A", Name: "R2 Red"}}},
		{Code: "Blue", Members: []scenario.Member{{Ticket: "B", Name: "Blue Party"}, {Ticket: "B", Name: "B1 Blue"}, {Ticket: "B", Name: "B2 Blue"}}},
	}
}

func setup(t *testing.T, header string, groups []scenario.Group) (*Distributor, *interner.Table, *tally.Tally, []string) {
	t.Helper()
	hdr := strings.Split(header, ",")
	schema, err := ballot.DeriveSchema(hdr)
	require.NoError(t, err)
	require.NoError(t, schema.ResolveGroups(hdr, groups))

	codes := make([]string, len(groups))
	for i, g := range groups {
		codes[i] = string(g.Code)
	}
	combo := scenario.NewComboIndex(len(groups), codes)
	names := interner.New(8)
	tl := tally.New(combo.N())
	return New(schema, combo, names, tl), names, tl, combo.Labels()
}

func row(csv string) [][]byte {
	parts := strings.Split(csv, ",")
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func comboFor(t *testing.T, tl *tally.Tally, names *interner.Table, labels []string, division, booth string) []uint64 {
	t.Helper()
	for _, k := range tl.Keys() {
		if names.Lookup(k.Division) == division && names.Lookup(k.Booth) == booth {
			return tl.Row(k)
		}
	}
	t.Fatalf("no tally row for (%s, %s)", division, booth)
	return nil
}

func labelIndex(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

func TestS1_ATLSingleGroup(t *testing.T) {
	d, names, tl, labels := setup(t, twoGroupHeader, twoGroupScenario())
	d.ProcessRow(row("NSW,Sydney,Town Hall,1,1,1,1,,,,,"))

	counts := comboFor(t, tl, names, labels, "Sydney", "Town Hall")
	require.Equal(t, uint64(1), counts[labelIndex(labels, "Red")])
	require.Equal(t, uint64(1), tl.Total())
}

func TestS2_BTLFullPreference(t *testing.T) {
	d, names, tl, labels := setup(t, twoGroupHeader, twoGroupScenario())
	d.ProcessRow(row("NSW,Sydney,Town Hall,1,1,2,,,1,2,3,4"))

	counts := comboFor(t, tl, names, labels, "Sydney", "Town Hall")
	require.Equal(t, uint64(1), counts[labelIndex(labels, "RedBlue")])
}

func TestS3_NoPreferenceShortRow(t *testing.T) {
	d, names, tl, labels := setup(t, twoGroupHeader, twoGroupScenario())
	d.ProcessRow(row("NSW,Sydney,Town Hall,1,1,3"))

	counts := comboFor(t, tl, names, labels, "Sydney", "Town Hall")
	require.Equal(t, uint64(1), counts[labelIndex(labels, "None")])
}

func TestS4_TieBreakInformalBTL(t *testing.T) {
	d, names, tl, labels := setup(t, twoGroupHeader, twoGroupScenario())
	d.ProcessRow(row("NSW,Sydney,Town Hall,1,1,4,,,1,3,1,2"))

	counts := comboFor(t, tl, names, labels, "Sydney", "Town Hall")
	require.Equal(t, uint64(1), counts[labelIndex(labels, "None")])
}

func TestS5_SpecialBoothAggregation(t *testing.T) {
	d, names, tl, _ := setup(t, twoGroupHeader, twoGroupScenario())
	d.ProcessRow(row("NSW,Sydney,Sydney PPVC,1,1,5,1,,,,,"))
	d.ProcessRow(row("NSW,Sydney,Sydney PPVC,2,1,6,1,,,,,"))

	require.Len(t, tl.Keys(), 1)
	counts := tl.Row(tl.Keys()[0])
	var sum uint64
	for _, c := range counts {
		sum += c
	}
	require.Equal(t, uint64(2), sum)
	require.Equal(t, "Sydney Pre-poll", names.Lookup(tl.Keys()[0].Booth))
}

func TestS6_ThreeGroupOrdering(t *testing.T) {
	header := "State,Division,Vote Collection Point Name,Vote Collection Point ID,Batch No,Paper No," +
		"A:Alp Party,B:Lnp Party,C:Grn Party," +
		"A:A1 Alp,A:A2 Alp,A:A3 Alp,A:A4 Alp,A:A5 Alp,A:A6 Alp," +
		"B:B1 Lnp,B:B2 Lnp,B:B3 Lnp,B:B4 Lnp,B:B5 Lnp,B:B6 Lnp," +
		"C:C1 Grn,C:C2 Grn,C:C3 Grn,C:C4 Grn,C:C5 Grn,C:C6 Grn"
	groups := []scenario.Group{
		{Code: "Alp", Members: []scenario.Member{{Ticket: "A", Name: "Alp Party"}, {Ticket: "A", Name: "A1 Alp"}, {Ticket: "A", Name: "A2 Alp"}, {Ticket: "A", Name: "A3 Alp"}, {Ticket: "A", Name: "A4 Alp"}, {Ticket: "A", Name: "A5 Alp"}, {Ticket: "A", Name: "A6 Alp"}}},
		{Code: "Lnp", Members: []scenario.Member{{Ticket: "B", Name: "Lnp Party"}, {Ticket: "B", Name: "B1 Lnp"}, {Ticket: "B", Name: "B2 Lnp"}, {Ticket: "B", Name: "B3 Lnp"}, {Ticket: "B", Name: "B4 Lnp"}, {Ticket: "B", Name: "B5 Lnp"}, {Ticket: "B", Name: "B6 Lnp"}}},
		{Code: "Grn", Members: []scenario.Member{{Ticket: "C", Name: "Grn Party"}, {Ticket: "C", Name: "C1 Grn"}, {Ticket: "C", Name: "C2 Grn"}, {Ticket: "C", Name: "C3 Grn"}, {Ticket: "C", Name: "C4 Grn"}, {Ticket: "C", Name: "C5 Grn"}, {Ticket: "C", Name: "C6 Grn"}}},
	}
	d, names, tl, labels := setup(t, header, groups)

	// ATL empty; BTL bests: Alp=4, Lnp=2, Grn=1, remaining positions 3,5,6 filling out full 1..18 numbering.
	d.ProcessRow(row("NSW,Sydney,Town Hall,1,1,1,,,," +
		"4,7,8,9,10,11," + // A1..A6: best is 4
		"2,12,13,14,15,16," + // B1..B6: best is 2
		"1,3,5,6,17,18")) // C1..C6: best is 1

	counts := comboFor(t, tl, names, labels, "Sydney", "Town Hall")
	require.Equal(t, uint64(1), counts[labelIndex(labels, "GrnLnpAlp")])
}

func TestVerifyComboIndexing(t *testing.T) {
	for g := 0; g <= 6; g++ {
		require.NoError(t, scenario.VerifyComboIndexing(g))
	}
}
