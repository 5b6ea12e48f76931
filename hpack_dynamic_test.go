package http2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamicTableInsertAndLookup(t *testing.T) {
	dt := NewDynamicTable(4096)
	dt.Insert(HeaderEntry{Name: "custom-key", Value: "custom-value"})

	e, ok := dt.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "custom-key", e.Name)
	assert.Equal(t, 54, dt.Size())
}

func TestDynamicTableEvictionMonotonic(t *testing.T) {
	dt := NewDynamicTable(100)

	dt.Insert(HeaderEntry{Name: "a", Value: "1111111111111111111111111111111111111111111111111111111111111111"})
	firstSize := dt.Size()
	require.LessOrEqual(t, firstSize, 100)

	dt.Insert(HeaderEntry{Name: "b", Value: "22222222222222222222222222222222222222222222222222222222222222222"})
	assert.LessOrEqual(t, dt.Size(), 100)
	// the oldest entry must have been evicted to make room
	_, ok := dt.Find("a", "1111111111111111111111111111111111111111111111111111111111111111")
	assert.False(t, ok)
}

func TestDynamicTableEntryLargerThanCapacityIsDropped(t *testing.T) {
	dt := NewDynamicTable(10)
	dt.Insert(HeaderEntry{Name: "too", Value: "big-for-the-table-by-a-lot"})
	assert.Equal(t, 0, dt.Len())
	assert.Equal(t, 0, dt.Size())
}

func TestDynamicTableSetCapacityEvicts(t *testing.T) {
	dt := NewDynamicTable(4096)
	dt.Insert(HeaderEntry{Name: "k1", Value: "v1"})
	dt.Insert(HeaderEntry{Name: "k2", Value: "v2"})
	require.Equal(t, 2, dt.Len())

	dt.SetCapacity(40)
	assert.LessOrEqual(t, dt.Size(), 40)
}

func TestLookupCombinedSpansStaticAndDynamic(t *testing.T) {
	dt := NewDynamicTable(4096)
	dt.Insert(HeaderEntry{Name: "x-custom", Value: "1"})

	e, ok := lookupCombined(dt, 2)
	require.True(t, ok)
	assert.Equal(t, ":method", e.Name)

	e, ok = lookupCombined(dt, staticTableLen+1)
	require.True(t, ok)
	assert.Equal(t, "x-custom", e.Name)
}
