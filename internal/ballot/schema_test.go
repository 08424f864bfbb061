package ballot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexjago/nparty/internal/scenario"
)

const sampleHeader = "State,Division,Vote Collection Point Name,Vote Collection Point ID,Batch No,Paper No," +
	"A:Red Party,B:Blue Party,A:R1 Red,A:R2 Red,B:B1 Blue,B:B2 Blue"

func TestDeriveSchemaClassifiesColumns(t *testing.T) {
	hdr := strings.Split(sampleHeader, ",")
	s, err := DeriveSchema(hdr)
	require.NoError(t, err)

	require.Equal(t, 0, s.StateCol)
	require.Equal(t, 1, s.DivisionCol)
	require.Equal(t, 2, s.BoothCol)
	require.Equal(t, 4, s.BatchCol)
	require.Equal(t, 5, s.PaperCol)
	require.Equal(t, 6, s.AtlStart)
	require.Equal(t, 8, s.AtlEnd)
	require.Equal(t, 8, s.BtlStart)
	require.Equal(t, 12, s.BtlEnd)
}

func TestDeriveSchemaAcceptsAlternateColumnNames(t *testing.T) {
	hdr := strings.Split(strings.NewReplacer(
		"Division", "ElectorateNm",
		"Vote Collection Point Name", "VoteCollectionPointNm",
	).Replace(sampleHeader), ",")
	s, err := DeriveSchema(hdr)
	require.NoError(t, err)
	require.Equal(t, 1, s.DivisionCol)
	require.Equal(t, 2, s.BoothCol)
}

func TestDeriveSchemaRejectsMissingDivision(t *testing.T) {
	hdr := strings.Split(strings.Replace(sampleHeader, "Division", "Whatever", 1), ",")
	_, err := DeriveSchema(hdr)
	require.Error(t, err)
}

func TestResolveGroupsMapsAtlAndBtlColumns(t *testing.T) {
	hdr := strings.Split(sampleHeader, ",")
	s, err := DeriveSchema(hdr)
	require.NoError(t, err)

	groups := []scenario.Group{
		{Code: "Red", Members: []scenario.Member{{Ticket: "A", Name: "Red Party"}, {Ticket: "A", Name: "R1 Red"}, {Ticket: "A", Name: "R2 Red"}}},
		{Code: "Blue", Members: []scenario.Member{{Ticket: "B", Name: "Blue Party"}, {Ticket: "B", Name: "B1 Blue"}, {Ticket: "B", Name: "B2 Blue"}}},
	}
	require.NoError(t, s.ResolveGroups(hdr, groups))
	require.Equal(t, []int{6}, s.GroupAtlCols[0])
	require.Equal(t, []int{8, 9}, s.GroupBtlCols[0])
	require.Equal(t, []int{7}, s.GroupAtlCols[1])
	require.Equal(t, []int{10, 11}, s.GroupBtlCols[1])
}

func TestResolveGroupsRejectsUnmatchedMember(t *testing.T) {
	hdr := strings.Split(sampleHeader, ",")
	s, err := DeriveSchema(hdr)
	require.NoError(t, err)

	groups := []scenario.Group{
		{Code: "Yel", Members: []scenario.Member{{Ticket: "Z", Name: "Nonexistent"}}},
	}
	require.Error(t, s.ResolveGroups(hdr, groups))
}
