// Package history implements undo/redo for page documents by storing whole
// snapshots of the element list.
//
// # Flow
//
// UI actions call Manager.SaveState with the document as it is after the
// action. The snapshot is fingerprinted (ir.SnapshotFingerprint) and passed
// through a ThrottleGate; an accepted snapshot is cloned into a new Entry and
// appended to the Log, discarding any redo branch first and evicting the
// oldest entry when the log is over capacity.
//
// Undo and Redo move the log's current index and hand back a clone of the
// snapshot to restore:
//
//	mgr := history.NewManager(history.WithMaxSize(100))
//	mgr.SaveState(doc, history.ActionCreateElement, "Add heading")
//	mgr.SaveState(moved, history.ActionDragElement, "Move heading")
//
//	if snap, ok := mgr.Undo(); ok {
//	    renderer.Apply(snap)
//	    mgr.EndRestore()
//	}
//
// Undo from the oldest entry returns an empty snapshot, the document before
// any recorded action (FloorEmptySnapshot). FloorStop selects the variant
// that stops at the oldest entry instead.
//
// # Restore Guard
//
// Applying a restored snapshot makes the renderer report "document changed".
// Those notifications must not be recorded as new user actions, so every
// Undo/Redo that returns a snapshot raises a guard under which SaveState is
// a no-op. The coordinator lowers it with EndRestore once the snapshot has
// been applied. A Scheduler-driven fallback lowers it automatically as well,
// so a coordinator that never calls EndRestore cannot block saving forever.
//
// Every restore carries a generation. UndoToken and RedoToken return it as a
// RestoreToken, and Release(tok) lowers the guard only while that restore is
// the newest one, so a late release from an earlier restore cannot open the
// guard under a newer one. The fallback follows the same rule.
//
// # Concurrency
//
// One mutex guards the log, the current index, the guard, and the dedup
// state; they are always read and written together. Scheduler callbacks run
// outside the lock.
package history
