package tally

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncrementAllocatesRowOnFirstTouch(t *testing.T) {
	tl := New(3)
	db := DivBooth{Division: 1, Booth: 2}

	require.Nil(t, tl.Row(db))
	tl.Increment(db, 1)
	tl.Increment(db, 1)
	tl.Increment(db, 2)

	row := tl.Row(db)
	require.Equal(t, []uint64{0, 2, 1}, row)
	require.Equal(t, uint64(3), tl.Total())
	require.Len(t, tl.Keys(), 1)
}

func TestNDistinguishesBooths(t *testing.T) {
	tl := New(2)
	require.Equal(t, 2, tl.N())
	tl.Increment(DivBooth{Division: 1, Booth: 1}, 0)
	tl.Increment(DivBooth{Division: 1, Booth: 2}, 1)
	require.Len(t, tl.Keys(), 2)
}
