package history

import (
	"time"

	"github.com/roach88/folio/internal/ir"
)

// Entry is one recorded point in the history. Entries are immutable: the
// snapshot is cloned on the way in and again on the way out.
type Entry struct {
	id          string
	timestamp   time.Time
	action      ActionTag
	description string
	snapshot    ir.Snapshot
}

// NewEntry creates an entry that owns a private clone of snapshot.
func NewEntry(id string, timestamp time.Time, action ActionTag, description string, snapshot ir.Snapshot) *Entry {
	return &Entry{
		id:          id,
		timestamp:   timestamp,
		action:      action,
		description: description,
		snapshot:    snapshot.Clone(),
	}
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() string { return e.id }

// Timestamp returns when the entry was accepted.
func (e *Entry) Timestamp() time.Time { return e.timestamp }

// Action returns the action tag the entry was saved with.
func (e *Entry) Action() ActionTag { return e.action }

// Description returns the human-readable label, possibly empty.
func (e *Entry) Description() string { return e.description }

// Snapshot returns a clone of the stored snapshot.
func (e *Entry) Snapshot() ir.Snapshot { return e.snapshot.Clone() }

// Info returns the entry's metadata without its snapshot.
func (e *Entry) Info() EntryInfo {
	return EntryInfo{
		ID:           e.id,
		Action:       e.action,
		Description:  e.description,
		Timestamp:    e.timestamp,
		ElementCount: len(e.snapshot),
	}
}

// EntryInfo describes an entry for menus and history panels ("Undo Move heading").
type EntryInfo struct {
	ID           string    `json:"id"`
	Action       ActionTag `json:"action"`
	Description  string    `json:"description,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	ElementCount int       `json:"element_count"`
}

// Label returns the description, falling back to the action tag.
func (i EntryInfo) Label() string {
	if i.Description != "" {
		return i.Description
	}
	return string(i.Action)
}
