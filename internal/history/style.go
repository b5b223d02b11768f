package history

import (
	"sync"
	"time"

	"github.com/roach88/folio/internal/ir"
)

// DefaultStyleHistorySize is the number of styles StyleHistory keeps.
const DefaultStyleHistorySize = 50

// StyleEntry is a style the user applied and when.
type StyleEntry struct {
	Style     ir.Style  `json:"style"`
	Timestamp time.Time `json:"timestamp"`
}

// StyleHistory is the recently-used style list shown by the style panel.
// It is independent of the undo log: undoing an edit does not remove the
// style from this list.
//
// Thread-safety: StyleHistory is safe for concurrent use via internal mutex.
type StyleHistory struct {
	mu      sync.Mutex
	entries []StyleEntry
	limit   int
	clock   Clock
}

// NewStyleHistory creates a style list holding at most limit entries.
// A non-positive limit falls back to DefaultStyleHistorySize.
func NewStyleHistory(limit int) *StyleHistory {
	if limit <= 0 {
		limit = DefaultStyleHistorySize
	}
	return &StyleHistory{
		entries: make([]StyleEntry, 0, limit),
		limit:   limit,
		clock:   SystemClock{},
	}
}

// SetClock replaces the timestamp source.
func (h *StyleHistory) SetClock(c Clock) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock = c
}

// Add appends style unless it equals the most recent one.
// The oldest entry is dropped once the list is full.
// Reports whether the style was added.
func (h *StyleHistory) Add(style ir.Style) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1].Style == style {
		return false
	}

	h.entries = append(h.entries, StyleEntry{Style: style, Timestamp: h.clock.Now()})
	if len(h.entries) > h.limit {
		h.entries = append(h.entries[:0], h.entries[1:]...)
	}
	return true
}

// Last returns the most recently added style.
func (h *StyleHistory) Last() (ir.Style, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return ir.Style{}, false
	}
	return h.entries[len(h.entries)-1].Style, true
}

// Recent returns up to n styles, oldest first, ending with the latest.
func (h *StyleHistory) Recent(n int) []ir.Style {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 {
		return []ir.Style{}
	}
	start := max(len(h.entries)-n, 0)
	return stylesOf(h.entries[start:])
}

// All returns every style, oldest first.
func (h *StyleHistory) All() []ir.Style {
	h.mu.Lock()
	defer h.mu.Unlock()
	return stylesOf(h.entries)
}

// Entries returns a copy of every entry with its timestamp, oldest first.
func (h *StyleHistory) Entries() []StyleEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]StyleEntry(nil), h.entries...)
}

// Len returns the number of stored styles.
func (h *StyleHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear removes every style.
func (h *StyleHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = h.entries[:0]
}

func stylesOf(entries []StyleEntry) []ir.Style {
	out := make([]ir.Style, len(entries))
	for i, e := range entries {
		out[i] = e.Style
	}
	return out
}
