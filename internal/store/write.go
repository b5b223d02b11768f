package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run record. Writing the same run ID twice is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, engine_version, snapshot_version)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Scenario, run.EngineVersion, run.SnapshotVersion)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// AppendStep inserts a trace step. The run must exist and (run_id, seq)
// must be new.
func (s *Store) AppendStep(ctx context.Context, step TraceStep) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trace_steps
		(run_id, seq, op, action, outcome, size, current_index, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		step.RunID,
		step.Seq,
		step.Op,
		step.Action,
		step.Outcome,
		step.Size,
		step.CurrentIndex,
		step.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("append step %d: %w", step.Seq, err)
	}
	return nil
}

// DeleteRun removes a run and, by cascade, its steps. Deleting an unknown
// run is not an error.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}
