package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validScenario() Scenario {
	return Scenario{
		Name:      "test",
		State:     "NSW",
		PrefsPath: "prefs.csv",
		Groups: []Group{
			{Code: "Alp", Members: []Member{{Ticket: "A"}}},
			{Code: "Grn", Members: []Member{{Ticket: "B"}}},
		},
	}
}

func TestValidateAcceptsWellFormedScenario(t *testing.T) {
	s := validScenario()
	require.NoError(t, s.Validate())
	require.Equal(t, 2, s.NumGroups())
	require.Equal(t, []string{"Alp", "Grn"}, s.Codes())
}

func TestValidateRejectsNoGroups(t *testing.T) {
	s := validScenario()
	s.Groups = nil
	require.Error(t, s.Validate())
}

func TestValidateRejectsDuplicateCodes(t *testing.T) {
	s := validScenario()
	s.Groups[1].Code = "Alp"
	require.Error(t, s.Validate())
}

func TestValidateRejectsEmptyGroup(t *testing.T) {
	s := validScenario()
	s.Groups[0].Members = nil
	require.Error(t, s.Validate())
}

func TestValidateRejectsTooManyGroups(t *testing.T) {
	s := validScenario()
	s.Groups = nil
	for i := 0; i < 7; i++ {
		s.Groups = append(s.Groups, Group{Code: GroupCode(string(rune('A' + i))), Members: []Member{{Ticket: "X"}}})
	}
	require.Error(t, s.Validate())
}
