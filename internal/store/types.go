package store

// Run is one execution of a scenario.
type Run struct {
	ID              string
	Scenario        string
	EngineVersion   string
	SnapshotVersion string
}

// TraceStep is one operation the harness applied to a history manager and
// the log shape it left behind.
type TraceStep struct {
	RunID        string
	Seq          int64
	Op           string
	Action       string // empty for non-save ops
	Outcome      string // save outcome, or "restored"/"none" for undo and redo
	Size         int
	CurrentIndex int
	Fingerprint  string // fingerprint of the snapshot saved or restored, if any
}
