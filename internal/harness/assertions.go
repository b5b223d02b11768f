package harness

import (
	"fmt"
	"sort"

	"github.com/roach88/folio/internal/history"
)

// EvaluateAssertions checks the manager's final state and the run's outcome
// counts. Returns one message per failed assertion.
func EvaluateAssertions(mgr *history.Manager, result *Result, a *Assertions) []string {
	if a == nil {
		return nil
	}

	var errs []string
	checkInt := func(name string, want *int, got int) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Sprintf("assertion %s: expected %d, got %d", name, *want, got))
		}
	}
	checkBool := func(name string, want *bool, got bool) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Sprintf("assertion %s: expected %t, got %t", name, *want, got))
		}
	}

	checkInt("size", a.Size, mgr.Size())
	checkInt("current_index", a.CurrentIndex, mgr.CurrentIndex())
	checkBool("can_undo", a.CanUndo, mgr.CanUndo())
	checkBool("can_redo", a.CanRedo, mgr.CanRedo())
	checkBool("restoring", a.Restoring, mgr.IsRestoring())

	// Sorted for stable error order.
	outcomes := make([]string, 0, len(a.Outcomes))
	for o := range a.Outcomes {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)
	for _, o := range outcomes {
		if want, got := a.Outcomes[o], result.Outcomes[o]; want != got {
			errs = append(errs, fmt.Sprintf("assertion outcomes.%s: expected %d, got %d", o, want, got))
		}
	}
	return errs
}
