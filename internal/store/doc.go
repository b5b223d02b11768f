// Package store provides SQLite-backed storage for history conformance traces.
//
// A run is one execution of a harness scenario. Each step the harness
// performs against a history.Manager is appended as a trace step carrying
// the save outcome and the resulting log shape.
//
// # Ordering
//
//   - Steps are keyed by (run_id, seq); seq is assigned by the harness and
//     starts at 1
//   - Every read orders by seq ASC so replays compare byte for byte
//
// # Database Configuration
//
//   - WAL mode for file databases; ":memory:" runs in memory journal mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
