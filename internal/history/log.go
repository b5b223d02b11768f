package history

// Log is the bounded, indexable sequence of history entries plus the
// current position.
//
// Log holds no business rules. The Manager decides when to truncate, append,
// evict, and move the index.
//
// INVARIANTS:
//   - -1 <= Current() <= Len()-1; -1 is the pre-history state
//   - entries after Current() form the redo branch
//
// Log is not safe for concurrent use; the Manager serializes access.
type Log struct {
	entries  []*Entry
	current  int
	capacity int
}

// NewLog creates an empty log holding at most capacity entries after eviction.
// A non-positive capacity falls back to DefaultMaxSize.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultMaxSize
	}
	return &Log{
		entries:  make([]*Entry, 0, capacity+1),
		current:  -1,
		capacity: capacity,
	}
}

// Append adds an entry at the end. Callers truncate the redo branch first.
func (l *Log) Append(e *Entry) {
	l.entries = append(l.entries, e)
}

// TruncateAfter discards every entry after index. TruncateAfter(-1) empties the log.
// Current is clamped so it never points past the end.
func (l *Log) TruncateAfter(index int) {
	if index < -1 {
		index = -1
	}
	if index >= len(l.entries)-1 {
		return
	}

	// Nil the dropped slots so their snapshots can be collected.
	clear(l.entries[index+1:])
	l.entries = l.entries[:index+1]

	if l.current > index {
		l.current = index
	}
}

// EvictOldestIfOverCapacity removes the first entry when the log holds more
// than its capacity. It reports whether an entry was evicted; the caller
// adjusts Current.
func (l *Log) EvictOldestIfOverCapacity() bool {
	if len(l.entries) <= l.capacity {
		return false
	}
	last := len(l.entries) - 1
	copy(l.entries, l.entries[1:])
	l.entries[last] = nil
	l.entries = l.entries[:last]
	return true
}

// Get returns the entry at index.
func (l *Log) Get(index int) (*Entry, bool) {
	if index < 0 || index >= len(l.entries) {
		return nil, false
	}
	return l.entries[index], true
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of retained entries.
func (l *Log) Capacity() int {
	return l.capacity
}

// Current returns the index of the current entry, or -1.
func (l *Log) Current() int {
	return l.current
}

// SetCurrent moves the current index, clamped to [-1, Len()-1].
func (l *Log) SetCurrent(index int) {
	switch {
	case index < -1:
		index = -1
	case index > len(l.entries)-1:
		index = len(l.entries) - 1
	}
	l.current = index
}

// Clear removes every entry and resets Current to -1.
func (l *Log) Clear() {
	clear(l.entries)
	l.entries = l.entries[:0]
	l.current = -1
}
