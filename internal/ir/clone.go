package ir

// Clone returns a copy of the snapshot that shares no mutable state with s.
// The result is never nil, so an empty snapshot and a missing one look the same
// to callers.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the element.
// Style is a plain value and copies by assignment; TableData owns slices
// and is cloned explicitly.
func (e Element) Clone() Element {
	out := e
	if e.TableData != nil {
		out.TableData = e.TableData.Clone()
	}
	return out
}

// Clone returns a deep copy of the table model.
func (t *TableData) Clone() *TableData {
	if t == nil {
		return nil
	}
	out := *t
	if t.Rows != nil {
		out.Rows = make([]TableRow, len(t.Rows))
		for i, row := range t.Rows {
			out.Rows[i] = row.Clone()
		}
	}
	if t.ColumnWidths != nil {
		out.ColumnWidths = make([]float64, len(t.ColumnWidths))
		copy(out.ColumnWidths, t.ColumnWidths)
	}
	return &out
}

// Clone returns a deep copy of the row.
func (r TableRow) Clone() TableRow {
	out := r
	if r.Cells != nil {
		out.Cells = make([]TableCell, len(r.Cells))
		copy(out.Cells, r.Cells)
	}
	return out
}

// DuplicateIDs returns element IDs that occur more than once, in first-repeat order.
// The history engine does not reject such snapshots; callers use this for diagnostics.
func (s Snapshot) DuplicateIDs() []string {
	seen := make(map[string]int, len(s))
	var dups []string
	for _, el := range s {
		seen[el.ID]++
		if seen[el.ID] == 2 {
			dups = append(dups, el.ID)
		}
	}
	return dups
}
