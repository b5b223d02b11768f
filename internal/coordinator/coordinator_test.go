package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/folio/internal/history"
	"github.com/roach88/folio/internal/ir"
	"github.com/roach88/folio/internal/testutil"
)

// echoRenderer records applied snapshots and, like a real canvas, reports
// the new document back through DocumentChanged while applying.
type echoRenderer struct {
	coord   *Coordinator
	applied []ir.Snapshot
	echoes  []history.SaveOutcome
	err     error
	during  func()
}

func (r *echoRenderer) Apply(_ context.Context, snap ir.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.applied = append(r.applied, snap)
	if r.during != nil {
		r.during()
	}
	r.echoes = append(r.echoes, r.coord.DocumentChanged(snap))
	return nil
}

func setup(t *testing.T) (*Coordinator, *echoRenderer, *history.Manager, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock()
	logger := slog.New(slog.DiscardHandler)
	mgr := history.NewManager(
		history.WithClock(clock),
		history.WithScheduler(testutil.NewManualScheduler()),
		history.WithIDGenerator(testutil.NewSequenceGenerator("h")),
		history.WithLogger(logger),
	)
	r := &echoRenderer{}
	c := New(mgr, r, WithLogger(logger))
	r.coord = c
	return c, r, mgr, clock
}

func doc(x float64) ir.Snapshot {
	return ir.Snapshot{{ID: "el-1", X: x, Y: 100, Width: 120, Height: 30}}
}

func TestCoordinator_UndoAppliesAndDropsEcho(t *testing.T) {
	c, r, mgr, _ := setup(t)
	ctx := context.Background()

	c.Record(doc(100), history.ActionCreateElement, "Add")
	c.Record(doc(300), history.ActionDragElement, "Move")

	ok, err := c.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, r.applied, 1)
	assert.Equal(t, doc(100), r.applied[0])
	assert.Equal(t, []history.SaveOutcome{history.SaveSkippedRestoring}, r.echoes)

	assert.False(t, mgr.IsRestoring())
	assert.Equal(t, 2, mgr.Size())
	assert.True(t, c.CanRedo())
}

func TestCoordinator_RedoAppliesAndDropsEcho(t *testing.T) {
	c, r, mgr, _ := setup(t)
	ctx := context.Background()

	c.Record(doc(100), history.ActionCreateElement, "")
	c.Record(doc(300), history.ActionDragElement, "")
	_, err := c.Undo(ctx)
	require.NoError(t, err)

	ok, err := c.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, doc(300), r.applied[1])
	assert.Equal(t, history.SaveSkippedRestoring, r.echoes[1])
	assert.Equal(t, 1, mgr.CurrentIndex())
	assert.False(t, c.CanRedo())
}

func TestCoordinator_NothingToUndoOrRedo(t *testing.T) {
	c, r, _, _ := setup(t)
	ctx := context.Background()

	ok, err := c.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Redo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, r.applied)
}

func TestCoordinator_ApplyErrorStillEndsRestore(t *testing.T) {
	c, r, mgr, _ := setup(t)
	c.Record(doc(100), history.ActionCreateElement, "")

	applyErr := errors.New("canvas detached")
	r.err = applyErr

	ok, err := c.Undo(context.Background())
	assert.True(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, applyErr)
	assert.Contains(t, err.Error(), "undo")
	assert.False(t, mgr.IsRestoring())
}

func TestCoordinator_NewerRestoreKeepsGuardUp(t *testing.T) {
	c, r, mgr, _ := setup(t)
	c.Record(doc(100), history.ActionCreateElement, "")
	c.Record(doc(200), history.ActionDragElement, "")

	var newer history.RestoreToken
	r.during = func() {
		r.during = nil
		_, tok, ok := mgr.RedoToken()
		require.True(t, ok)
		newer = tok
	}

	ok, err := c.Undo(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, mgr.IsRestoring(), "undo finishing must not end the redo started during it")
	assert.Equal(t, history.SaveSkippedRestoring, c.DocumentChanged(doc(300)))

	assert.True(t, mgr.Release(newer))
	assert.False(t, mgr.IsRestoring())
}

func TestCoordinator_UserEditAfterRestoreIsRecorded(t *testing.T) {
	c, _, mgr, clock := setup(t)
	ctx := context.Background()

	c.Record(doc(100), history.ActionCreateElement, "")
	c.Record(doc(200), history.ActionDragElement, "")
	_, err := c.Undo(ctx)
	require.NoError(t, err)

	clock.Advance(time.Second)
	outcome := c.DocumentChanged(doc(150))

	assert.Equal(t, history.SaveAccepted, outcome)
	assert.Equal(t, 2, mgr.Size())
	assert.False(t, c.CanRedo())
}

func TestCoordinator_RecordStyleFeedsStyleHistory(t *testing.T) {
	c, _, _, _ := setup(t)
	bold := ir.Style{FontWeight: "bold", FontSize: 18}

	snap := doc(100)
	snap[0].Style = bold
	assert.Equal(t, history.SaveAccepted, c.RecordStyle(snap, bold, "Bold heading"))

	// A duplicate save does not touch the style list.
	assert.Equal(t, history.SaveSkippedDuplicate, c.RecordStyle(snap, ir.Style{FontSize: 9}, ""))

	assert.Equal(t, []ir.Style{bold}, c.Styles().All())
}

func TestCoordinator_DefaultStyleHistory(t *testing.T) {
	c := New(history.NewManager(history.WithLogger(slog.New(slog.DiscardHandler))), &echoRenderer{})
	require.NotNil(t, c.Styles())
	assert.Equal(t, 0, c.Styles().Len())
}
