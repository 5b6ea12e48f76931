package http2

// DynamicTable is the FIFO of header entries each HPACK direction keeps
// (RFC 7541 section 2.3.2): newest entry at index 1, eviction from the
// oldest (tail) end whenever size would exceed capacity. A connection
// owns two independent instances, one for encoding and one for decoding
// (spec.md section 4.4); they are never shared.
//
// Re-architected from dgrr-http2/hpack.go's `fields map[uint64]*Field`,
// which loses the relative indexing RFC 7541 requires once any entry is
// evicted -- an ordered slice is the only representation that keeps
// "index 1 is the most recently inserted entry" true after eviction, so
// this is listed in DESIGN.md under re-architected teacher patterns.
type DynamicTable struct {
	entries  []HeaderEntry // entries[0] is the newest (index 1)
	size     int
	capacity int
}

// NewDynamicTable returns a DynamicTable with the given initial capacity.
func NewDynamicTable(capacity int) *DynamicTable {
	return &DynamicTable{capacity: capacity}
}

// Len returns the number of entries currently held.
func (t *DynamicTable) Len() int {
	return len(t.entries)
}

// Size returns the current HPACK-accounted size (sum of entry sizes).
func (t *DynamicTable) Size() int {
	return t.size
}

// Capacity returns the table's current capacity.
func (t *DynamicTable) Capacity() int {
	return t.capacity
}

// Lookup returns the entry at 1-based dynamic-table index i (1 is the
// most recently inserted entry), or false if out of range.
func (t *DynamicTable) Lookup(i int) (HeaderEntry, bool) {
	if i < 1 || i > len(t.entries) {
		return HeaderEntry{}, false
	}
	return t.entries[i-1], true
}

// Find returns the smallest 1-based dynamic-table index with a matching
// name, and whether the value also matched exactly.
func (t *DynamicTable) Find(name, value string) (index int, exact bool) {
	nameIndex := 0
	for i, e := range t.entries {
		if e.Name != name {
			continue
		}
		if nameIndex == 0 {
			nameIndex = i + 1
		}
		if e.Value == value {
			return i + 1, true
		}
	}
	return nameIndex, false
}

// Insert adds entry as the newest entry, evicting from the oldest end
// until size+entry.Size() <= capacity first. If entry.Size() alone
// exceeds capacity the table is emptied and the entry is not inserted
// (RFC 7541 section 4.4).
func (t *DynamicTable) Insert(entry HeaderEntry) {
	entrySize := entry.Size()

	t.evictTo(t.capacity - entrySize)

	if entrySize > t.capacity {
		// The entry alone can never fit; RFC 7541 says the table ends
		// up empty and the entry is not inserted.
		return
	}

	t.entries = append([]HeaderEntry{entry}, t.entries...)
	t.size += entrySize
}

// SetCapacity changes the table's capacity, evicting from the oldest
// end until size <= the new capacity (RFC 7541 section 4.3).
func (t *DynamicTable) SetCapacity(newCapacity int) {
	t.capacity = newCapacity
	t.evictTo(newCapacity)
}

// evictTo evicts oldest entries until size <= target (target may be
// negative, in which case every entry is evicted).
func (t *DynamicTable) evictTo(target int) {
	for t.size > target && len(t.entries) > 0 {
		last := t.entries[len(t.entries)-1]
		t.entries = t.entries[:len(t.entries)-1]
		t.size -= last.Size()
	}
}

// lookupCombined resolves a 1-based index over the concatenation of the
// static table (indices 1..61) followed by the dynamic table
// (62..61+N), as RFC 7541 section 2.3.3 requires.
func lookupCombined(dyn *DynamicTable, index int) (HeaderEntry, bool) {
	if e, ok := staticTableLookup(index); ok {
		return e, true
	}
	return dyn.Lookup(index - staticTableLen)
}
