package ir

// Version constants for the document model and the history engine.
const (
	// SnapshotVersion is the snapshot fingerprint layout version.
	// Bumping it invalidates every previously computed fingerprint.
	SnapshotVersion = "1"

	// EngineVersion is the folio engine version.
	EngineVersion = "0.1.0"
)
