package harness

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/folio/internal/history"
	"github.com/roach88/folio/internal/ir"
	"github.com/roach88/folio/internal/testutil"
)

func newTestManager() *history.Manager {
	return history.NewManager(
		history.WithScheduler(testutil.NewManualScheduler()),
		history.WithLogger(slog.New(slog.DiscardHandler)),
	)
}

func TestEvaluateAssertions_Nil(t *testing.T) {
	assert.Nil(t, EvaluateAssertions(newTestManager(), NewResult(), nil))
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	mgr := newTestManager()
	mgr.SaveState(ir.Snapshot{el("el-1", 0, 0)}, history.ActionCreateElement, "")
	mgr.SaveState(ir.Snapshot{el("el-1", 9, 0)}, history.ActionDragElement, "")
	mgr.Undo()

	result := NewResult()
	result.Outcomes = map[string]int{"accepted": 2, "restored": 1}

	errs := EvaluateAssertions(mgr, result, &Assertions{
		Size:         intPtr(2),
		CurrentIndex: intPtr(0),
		CanUndo:      boolPtr(true),
		CanRedo:      boolPtr(true),
		Restoring:    boolPtr(true),
		Outcomes:     map[string]int{"accepted": 2, "restored": 1},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	mgr := newTestManager()

	result := NewResult()
	result.Outcomes = map[string]int{"duplicate": 1}

	errs := EvaluateAssertions(mgr, result, &Assertions{
		Size:         intPtr(1),
		CurrentIndex: intPtr(0),
		CanUndo:      boolPtr(true),
		Restoring:    boolPtr(true),
		Outcomes:     map[string]int{"throttled": 1, "accepted": 3},
	})

	assert.Equal(t, []string{
		"assertion size: expected 1, got 0",
		"assertion current_index: expected 0, got -1",
		"assertion can_undo: expected true, got false",
		"assertion restoring: expected true, got false",
		"assertion outcomes.accepted: expected 3, got 0",
		"assertion outcomes.throttled: expected 1, got 0",
	}, errs)
}

func TestEvaluateAssertions_UncheckedFieldsIgnored(t *testing.T) {
	mgr := newTestManager()
	errs := EvaluateAssertions(mgr, NewResult(), &Assertions{CanRedo: boolPtr(false)})
	assert.Empty(t, errs)
}
