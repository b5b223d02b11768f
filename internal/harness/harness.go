package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/folio/internal/config"
	"github.com/roach88/folio/internal/history"
	"github.com/roach88/folio/internal/ir"
	"github.com/roach88/folio/internal/store"
	"github.com/roach88/folio/internal/testutil"
	"github.com/roach88/folio/internal/tracing"
)

// Harness runs one scenario against a fresh history.Manager with a manual
// clock, a manual scheduler, and sequential entry IDs.
type Harness struct {
	store   *store.Store
	manager *history.Manager
	clock   *testutil.ManualClock
	sched   *testutil.ManualScheduler
	logger  *slog.Logger
	tracer  trace.Tracer
	runID   string
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	storePath string
	logger    *slog.Logger
	tracer    trace.TracerProvider
	history   config.HistoryConfig
}

// WithStorePath writes the trace to a SQLite file instead of memory.
func WithStorePath(path string) Option {
	return func(o *runOptions) {
		o.storePath = path
	}
}

// WithLogger sets the logger passed to the history manager.
// Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = l
	}
}

// WithTracerProvider sets where run and step spans go.
// Defaults to the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *runOptions) {
		o.tracer = tp
	}
}

// WithHistoryConfig sets the base history config of the run, typically the
// loaded config file. Fields set in the scenario's own config win; unset
// fields fall back to cfg, then to config.DefaultHistory.
func WithHistoryConfig(cfg config.HistoryConfig) Option {
	return func(o *runOptions) {
		o.history = cfg
	}
}

// Run executes a scenario and returns the result.
//
// Each run gets its own store (in-memory unless WithStorePath is given).
// Every step is appended to the store and the trace is read back in seq
// order, so the result reflects what was persisted.
//
// Step expectation failures are reported in Result.Errors; the returned
// error is reserved for infrastructure failures.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	ro := runOptions{
		storePath: store.MemoryPath,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&ro)
	}

	st, err := store.Open(ro.storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace store: %w", err)
	}
	defer st.Close()

	histCfg := ro.history.WithDefaults()
	if scenario.Config != nil {
		histCfg = scenario.Config.Over(histCfg)
	}
	mgrOpts, err := histCfg.ManagerOptions()
	if err != nil {
		return nil, fmt.Errorf("scenario config: %w", err)
	}

	h := &Harness{
		store:  st,
		clock:  testutil.NewManualClock(),
		sched:  testutil.NewManualScheduler(),
		logger: ro.logger,
		tracer: tracing.Tracer(ro.tracer),
		runID:  scenario.Name,
	}
	h.manager = history.NewManager(append(mgrOpts,
		history.WithClock(h.clock),
		history.WithScheduler(h.sched),
		history.WithIDGenerator(testutil.NewSequenceGenerator("h")),
		history.WithLogger(ro.logger),
	)...)

	ctx, span := h.tracer.Start(context.Background(), "harness.run",
		trace.WithAttributes(tracing.StringAttr("scenario", scenario.Name)))
	defer span.End()

	// A file store may hold an earlier run of the same scenario.
	if err := st.DeleteRun(ctx, h.runID); err != nil {
		return nil, err
	}
	if err := st.WriteRun(ctx, store.Run{
		ID:              h.runID,
		Scenario:        scenario.Name,
		EngineVersion:   ir.EngineVersion,
		SnapshotVersion: ir.SnapshotVersion,
	}); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, int64(i+1), step, result); err != nil {
			err = fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
			tracing.RecordError(span, err)
			return nil, err
		}
	}

	steps, err := st.ReadSteps(ctx, h.runID)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	for _, s := range steps {
		result.Trace = append(result.Trace, TraceEvent{
			Seq:     s.Seq,
			Op:      s.Op,
			Action:  s.Action,
			Outcome: s.Outcome,
			Size:    s.Size,
			Index:   s.CurrentIndex,
		})
	}

	result.Outcomes, err = st.CountOutcomes(ctx, h.runID)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}

	for _, msg := range EvaluateAssertions(h.manager, result, scenario.Assertions) {
		result.AddError(msg)
	}

	span.SetAttributes(
		tracing.IntAttr("steps", len(scenario.Steps)),
		attribute.Bool("pass", result.Pass),
	)
	tracing.SetOK(span)
	return result, nil
}

// executeStep applies one step, checks its expectations, and appends it to
// the trace store.
func (h *Harness) executeStep(ctx context.Context, seq int64, step Step, result *Result) error {
	ctx, span := h.tracer.Start(ctx, "harness.step")
	defer span.End()

	rec := store.TraceStep{RunID: h.runID, Seq: seq, Op: step.Op}

	switch step.Op {
	case OpSave:
		snap := ir.Snapshot(step.Elements)
		outcome := h.manager.SaveState(snap, history.ActionTag(step.Action), step.Description)
		rec.Action = step.Action
		rec.Outcome = outcome.String()
		rec.Fingerprint = ir.Fingerprint(snap)

		if step.ExpectOutcome != "" && step.ExpectOutcome != rec.Outcome {
			result.AddError(fmt.Sprintf("step %d: save %s: expected outcome %s, got %s",
				seq, step.Action, step.ExpectOutcome, rec.Outcome))
		}

	case OpUndo, OpRedo:
		var snap ir.Snapshot
		var ok bool
		if step.Op == OpUndo {
			snap, ok = h.manager.Undo()
		} else {
			snap, ok = h.manager.Redo()
		}

		rec.Outcome = OutcomeNone
		if ok {
			rec.Outcome = OutcomeRestored
			rec.Fingerprint = ir.Fingerprint(snap)
		}
		if msg := checkRestore(seq, step, snap, ok); msg != "" {
			result.AddError(msg)
		}

	case OpClear:
		h.manager.ClearHistory()

	case OpAdvance:
		d, err := time.ParseDuration(step.Duration)
		if err != nil {
			tracing.RecordError(span, err)
			return err
		}
		h.clock.Advance(d)

	case OpEndRestore:
		h.manager.EndRestore()

	case OpRelease:
		h.sched.RunPending()

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	rec.Size = h.manager.Size()
	rec.CurrentIndex = h.manager.CurrentIndex()

	span.SetAttributes(
		attribute.Int64("seq", seq),
		tracing.StringAttr("op", rec.Op),
		tracing.StringAttr("action", rec.Action),
		tracing.StringAttr("outcome", rec.Outcome),
		tracing.IntAttr("size", rec.Size),
		tracing.IntAttr("index", rec.CurrentIndex),
	)

	h.logger.Debug("scenario step",
		"seq", seq,
		"op", rec.Op,
		"outcome", rec.Outcome,
		"size", rec.Size,
		"index", rec.CurrentIndex,
	)
	return h.store.AppendStep(ctx, rec)
}

// checkRestore compares an undo/redo return value with the step's expect
// clause and returns a failure message, or "" if it matched.
func checkRestore(seq int64, step Step, snap ir.Snapshot, ok bool) string {
	if step.Expect == nil {
		return ""
	}

	var got string
	switch {
	case !ok:
		got = ResultNone
	case len(snap) == 0:
		got = ResultEmpty
	default:
		got = ResultSnapshot
	}
	if got != step.Expect.Result {
		return fmt.Sprintf("step %d: %s: expected %s, got %s", seq, step.Op, step.Expect.Result, got)
	}

	if len(step.Expect.Elements) > 0 {
		want := ir.Snapshot(step.Expect.Elements)
		if ir.Fingerprint(want) != ir.Fingerprint(snap) {
			return fmt.Sprintf("step %d: %s: restored snapshot differs from expected elements (%d elements, want %d)",
				seq, step.Op, len(snap), len(want))
		}
	}
	return ""
}
