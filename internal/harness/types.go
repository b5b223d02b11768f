package harness

// TraceEvent is one step of a scenario run as it appears in traces and
// golden files. Action and Outcome are empty for ops that have none.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	Action  string `json:"action,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Size    int    `json:"size"`
	Index   int    `json:"index"`
}

// Restore outcomes recorded for undo and redo steps.
const (
	OutcomeRestored = "restored"
	OutcomeNone     = "none"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step, in step order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed expectations and assertions. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Outcomes counts steps by outcome, read back from the trace store.
	Outcomes map[string]int `json:"outcomes,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Outcomes: map[string]int{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
