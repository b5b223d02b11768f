// Package coordinator connects a history.Manager to the live document.
//
// The Coordinator owns the restore handshake: it pulls a snapshot from
// Undo/Redo, hands it to the Renderer, and then releases that restore. Change
// notifications the renderer emits while applying arrive through
// DocumentChanged and are dropped by the manager's restore guard.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/folio/internal/history"
	"github.com/roach88/folio/internal/ir"
	"github.com/roach88/folio/internal/tracing"
)

// Renderer applies a document state to the live canvas.
//
// Apply may call Coordinator.DocumentChanged synchronously; those echoes are
// ignored while the restore is in progress.
type Renderer interface {
	Apply(ctx context.Context, snapshot ir.Snapshot) error
}

// History is the subset of *history.Manager the coordinator drives.
type History interface {
	SaveState(snapshot ir.Snapshot, action history.ActionTag, description string) history.SaveOutcome
	UndoToken() (ir.Snapshot, history.RestoreToken, bool)
	RedoToken() (ir.Snapshot, history.RestoreToken, bool)
	Release(tok history.RestoreToken) bool
	CanUndo() bool
	CanRedo() bool
}

// Coordinator serializes user actions, renderer notifications, and restores
// for one document.
type Coordinator struct {
	history  History
	renderer Renderer
	styles   *history.StyleHistory
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithStyleHistory sets the recently-used style list fed by RecordStyle.
func WithStyleHistory(s *history.StyleHistory) Option {
	return func(c *Coordinator) {
		c.styles = s
	}
}

// WithTracerProvider sets where restore spans go.
// Defaults to the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) {
		c.tracer = tracing.Tracer(tp)
	}
}

// New creates a Coordinator over h and r.
func New(h History, r Renderer, opts ...Option) *Coordinator {
	c := &Coordinator{
		history:  h,
		renderer: r,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.styles == nil {
		c.styles = history.NewStyleHistory(history.DefaultStyleHistorySize)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = tracing.Tracer(nil)
	}
	return c
}

// Record saves the document after a discrete user action.
func (c *Coordinator) Record(snapshot ir.Snapshot, action history.ActionTag, description string) history.SaveOutcome {
	return c.history.SaveState(snapshot, action, description)
}

// RecordStyle saves the document after a style edit and remembers style in
// the recently-used list.
func (c *Coordinator) RecordStyle(snapshot ir.Snapshot, style ir.Style, description string) history.SaveOutcome {
	outcome := c.history.SaveState(snapshot, history.ActionUpdateStyle, description)
	if outcome == history.SaveAccepted {
		c.styles.Add(style)
	}
	return outcome
}

// DocumentChanged is the renderer's change notification.
func (c *Coordinator) DocumentChanged(snapshot ir.Snapshot) history.SaveOutcome {
	outcome := c.history.SaveState(snapshot, history.ActionElementsChanged, "")
	if outcome == history.SaveSkippedRestoring {
		c.logger.Debug("renderer echo dropped", "elements", len(snapshot))
	}
	return outcome
}

// Undo restores the previous document state.
// Reports false when there was nothing to undo.
func (c *Coordinator) Undo(ctx context.Context) (bool, error) {
	return c.step(ctx, "undo", c.history.UndoToken)
}

// Redo restores the next document state.
// Reports false when there was nothing to redo.
func (c *Coordinator) Redo(ctx context.Context) (bool, error) {
	return c.step(ctx, "redo", c.history.RedoToken)
}

func (c *Coordinator) step(ctx context.Context, op string, pop func() (ir.Snapshot, history.RestoreToken, bool)) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "coordinator."+op)
	defer span.End()

	snap, tok, ok := pop()
	span.SetAttributes(attribute.Bool("history.restored", ok))
	if !ok {
		tracing.SetOK(span)
		return false, nil
	}

	span.SetAttributes(tracing.IntAttr("snapshot.elements", len(snap)))
	if err := c.restore(ctx, op, snap, tok); err != nil {
		tracing.RecordError(span, err)
		return true, err
	}
	tracing.SetOK(span)
	return true, nil
}

// restore applies snap and always releases tok afterwards, including when
// Apply fails, so a broken renderer cannot block saving. Releasing tok
// leaves a newer restore's guard up.
func (c *Coordinator) restore(ctx context.Context, op string, snap ir.Snapshot, tok history.RestoreToken) error {
	defer c.history.Release(tok)

	if err := c.renderer.Apply(ctx, snap); err != nil {
		c.logger.Warn("restore failed", "op", op, "error", err)
		return fmt.Errorf("%s: apply snapshot: %w", op, err)
	}
	c.logger.Debug("restore applied", "op", op, "elements", len(snap))
	return nil
}

// CanUndo reports whether Undo would restore a state.
func (c *Coordinator) CanUndo() bool { return c.history.CanUndo() }

// CanRedo reports whether Redo would restore a state.
func (c *Coordinator) CanRedo() bool { return c.history.CanRedo() }

// Styles returns the recently-used style list.
func (c *Coordinator) Styles() *history.StyleHistory { return c.styles }
