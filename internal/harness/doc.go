// Package harness runs scripted history scenarios and records their traces.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: drag_round_trip
//	description: "Undo and redo a drag"
//	config:
//	  max_size: 50
//	  throttle_window: 300ms
//	steps:
//	  - op: save
//	    action: create_element
//	    elements: [{id: el-1, x: 100, y: 100}]
//	    expect_outcome: accepted
//	  - op: undo
//	    expect: {result: empty}
//	  - op: end_restore
//	assertions:
//	  size: 1
//	  current_index: -1
//	  can_redo: true
//	  outcomes: {accepted: 1}
//
// Ops are save, undo, redo, clear, advance (moves the manual clock),
// end_restore (the coordinator handshake) and release (runs pending
// fallback guard releases).
//
// # Deterministic Runs
//
// The harness uses:
//   - a manual clock starting at testutil.Epoch
//   - a manual scheduler, so the restore guard's fallback only fires on release
//   - sequential entry IDs
//   - an in-memory SQLite trace store per run
//
// Identical scenarios therefore produce byte-identical traces, compared
// against golden files with goldie.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/drag_round_trip.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        fmt.Println(e)
//	    }
//	}
package harness
