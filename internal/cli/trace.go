package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/folio/internal/harness"
	"github.com/roach88/folio/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Action   string // optional filter on save action
}

// TraceStep is one persisted step, with the fingerprint the golden files omit.
type TraceStep struct {
	Seq          int64  `json:"seq"`
	Op           string `json:"op"`
	Action       string `json:"action,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
	Size         int    `json:"size"`
	CurrentIndex int    `json:"current_index"`
	Fingerprint  string `json:"fingerprint,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Scenario        string         `json:"scenario"`
	EngineVersion   string         `json:"engine_version"`
	SnapshotVersion string         `json:"snapshot_version"`
	Pass            bool           `json:"pass"`
	Errors          []string       `json:"errors,omitempty"`
	Steps           []TraceStep    `json:"steps"`
	Outcomes        map[string]int `json:"outcomes"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <scenario.yaml>",
		Short: "Run a scenario and show its step trace",
		Long: `Run one scenario and print every step as stored in the trace database:
the operation, its outcome, the log size and cursor afterwards, and the
fingerprint of the snapshot saved or restored.

With --db the trace is kept in that SQLite file; otherwise a temporary
database is used and removed afterwards.

Examples:
  folio trace ./scenarios/concrete_drag.yaml
  folio trace ./scenarios/concrete_drag.yaml --db ./trace.db
  folio trace ./scenarios/dedup_throttle.yaml --action elements_changed --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite file to keep the trace in")
	cmd.Flags().StringVar(&opts.Action, "action", "", "only show saves with this action")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dir, err := os.MkdirTemp("", "folio-trace-")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create temp dir", err)
		}
		defer os.RemoveAll(dir)
		dbPath = filepath.Join(dir, "trace.db")
	}

	result, err := harness.Run(scenario, opts.runOptions(harness.WithStorePath(dbPath))...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	tr, err := readTrace(ctx, dbPath, scenario.Name, opts.Action)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}
	tr.Pass = result.Pass
	tr.Errors = result.Errors

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(tr)
	}
	printTrace(cmd.OutOrStdout(), tr)
	return nil
}

// readTrace loads a run and its steps back from the trace store.
func readTrace(ctx context.Context, dbPath, runID, action string) (TraceResult, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return TraceResult{}, err
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return TraceResult{}, err
	}
	steps, err := st.ReadSteps(ctx, runID)
	if err != nil {
		return TraceResult{}, err
	}
	outcomes, err := st.CountOutcomes(ctx, runID)
	if err != nil {
		return TraceResult{}, err
	}

	tr := TraceResult{
		Scenario:        run.Scenario,
		EngineVersion:   run.EngineVersion,
		SnapshotVersion: run.SnapshotVersion,
		Steps:           []TraceStep{},
		Outcomes:        outcomes,
	}
	for _, s := range steps {
		if action != "" && s.Action != action {
			continue
		}
		tr.Steps = append(tr.Steps, TraceStep{
			Seq:          s.Seq,
			Op:           s.Op,
			Action:       s.Action,
			Outcome:      s.Outcome,
			Size:         s.Size,
			CurrentIndex: s.CurrentIndex,
			Fingerprint:  s.Fingerprint,
		})
	}
	return tr, nil
}

func printTrace(w io.Writer, tr TraceResult) {
	fmt.Fprintf(w, "Trace for Scenario: %s\n", tr.Scenario)
	fmt.Fprintf(w, "Engine: %s  Snapshot format: v%s\n", tr.EngineVersion, tr.SnapshotVersion)
	if tr.Pass {
		fmt.Fprintln(w, "Status: pass")
	} else {
		fmt.Fprintln(w, "Status: FAIL")
		for _, e := range tr.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Steps:")
	for _, s := range tr.Steps {
		label := s.Op
		if s.Action != "" {
			label += " " + s.Action
		}
		fmt.Fprintf(w, "  [%d] %-28s %-10s size=%d index=%d", s.Seq, label, s.Outcome, s.Size, s.CurrentIndex)
		if s.Fingerprint != "" {
			fmt.Fprintf(w, "  fp=%s", truncateFingerprint(s.Fingerprint))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Outcomes:")
	keys := make([]string, 0, len(tr.Outcomes))
	for k := range tr.Outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-10s %d\n", k, tr.Outcomes[k])
	}
}

func truncateFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
