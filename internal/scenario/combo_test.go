package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumCombos(t *testing.T) {
	// None; then G singles, G*(G-1) pairs, ... for each G.
	require.Equal(t, 1, NumCombos(0))
	require.Equal(t, 2, NumCombos(1))  // None, A
	require.Equal(t, 5, NumCombos(2))  // None, A, B, AB, BA
	require.Equal(t, 16, NumCombos(3)) // None + 3 + 6 + 6
}

func TestCalculateIndexEmptyIsZero(t *testing.T) {
	require.Equal(t, 0, CalculateIndex(3, nil))
}

func TestCalculateIndexMatchesTableForPairs(t *testing.T) {
	ci := NewComboIndex(2, []string{"Alp", "Grn"})
	require.Equal(t, int(ci.Index([]int{0, 1})), CalculateIndex(2, []int{0, 1}))
	require.Equal(t, int(ci.Index([]int{1, 0})), CalculateIndex(2, []int{1, 0}))
	require.NotEqual(t, ci.Index([]int{0, 1}), ci.Index([]int{1, 0}))
}

func TestComboIndexLabels(t *testing.T) {
	ci := NewComboIndex(2, []string{"Alp", "Grn"})
	labels := ci.Labels()
	require.Equal(t, "None", labels[0])
	require.Contains(t, labels, "Alp")
	require.Contains(t, labels, "Grn")
	require.Contains(t, labels, "AlpGrn")
	require.Contains(t, labels, "GrnAlp")
	require.Len(t, labels, NumCombos(2))
}

func TestVerifyComboIndexingAllSizes(t *testing.T) {
	for g := 0; g <= 6; g++ {
		require.NoError(t, VerifyComboIndexing(g))
	}
}

func TestCalculateIndexPanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		CalculateIndex(3, []int{0, 0})
	})
}
