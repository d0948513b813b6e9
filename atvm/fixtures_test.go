package atvm

import (
	"testing"

	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixturesNext(t *testing.T) {
	f := NewFixtures()
	_, ok := f.Next(3)
	assert.False(t, ok)

	require.NoError(t, f.Set(3, []int64{10, 20}, false))
	require.NoError(t, f.Set(4, []int64{1, 2, 3}, true))
	f.Increment = 4

	// values only move when the increment function is called
	v, ok := f.Next(3)
	require.True(t, ok)
	assert.Equal(t, int64(10), v)

	var seq []int64
	for i := 0; i < 5; i++ {
		v, _ = f.Next(4)
		seq = append(seq, v)
	}
	assert.Equal(t, []int64{1, 2, 3, 1, 2}, seq)

	// the non-looping entry holds its last value
	v, _ = f.Next(3)
	assert.Equal(t, int64(20), v)

	f.Rewind()
	assert.True(t, f.FirstCall)
	v, _ = f.Next(3)
	assert.Equal(t, int64(10), v)
	v, _ = f.Next(4)
	assert.Equal(t, int64(1), v)
}

func TestFixturesEditing(t *testing.T) {
	f := NewFixtures()
	assert.ErrorIs(t, f.Set(1, nil, false), aterrors.ErrSBadFixture)

	require.NoError(t, f.Set(9, []int64{9}, true))
	require.NoError(t, f.Set(2, []int64{2, 3}, false))
	assert.True(t, f.Has(9))
	assert.Equal(t, 2, f.Len())

	entries := f.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, int32(2), entries[0].Function)
	assert.Equal(t, int32(9), entries[1].Function)
	assert.True(t, entries[1].Loop)

	// entries are copies
	entries[0].Data[0] = 100
	v, _ := f.Next(2)
	assert.Equal(t, int64(2), v)

	f.Delete(9)
	assert.False(t, f.Has(9))

	f.Increment = 2
	f.Clear()
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, int32(0), f.Increment)
}

func TestFixturesRestore(t *testing.T) {
	f := NewFixtures()
	err := f.restore(FixtureEntry{Function: 1, FunctionData: FunctionData{Offset: 2, Data: []int64{1, 2}}})
	assert.ErrorIs(t, err, aterrors.ErrSBadFixture)
	err = f.restore(FixtureEntry{Function: 1})
	assert.ErrorIs(t, err, aterrors.ErrSBadFixture)

	require.NoError(t, f.restore(FixtureEntry{Function: 1, FunctionData: FunctionData{Offset: 1, Data: []int64{1, 2}}}))
	v, _ := f.Next(1)
	assert.Equal(t, int64(2), v)
}
