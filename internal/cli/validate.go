package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/folio/internal/config"
)

// ValidationIssue is one problem found in a config file.
type ValidationIssue struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	File   string            `json:"file"`
	Errors []ValidationIssue `json:"errors,omitempty"`
	Config *config.Config    `json:"config,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a history config file",
		Long: `Validate a folio config file (.yaml, .yml or .cue).

YAML files are decoded strictly, so misspelled keys are errors. CUE files
are checked against the built-in #Config schema. FOLIO_* environment
overrides are applied before the final range checks. On success the
effective configuration is printed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	formatter.VerboseLog("validating %s", path)

	cfg, err := config.Load(path)
	if err == nil {
		result := ValidationResult{Valid: true, File: path, Config: cfg}
		if opts.Format == "json" {
			return formatter.Success(result)
		}
		printValidConfig(cmd.OutOrStdout(), path, cfg)
		return nil
	}

	result := ValidationResult{File: path, Errors: validationIssues(err)}
	if opts.Format == "json" {
		if ferr := formatter.Failure(CodeInvalidConfig, "config is invalid", result); ferr != nil {
			return ferr
		}
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✗ %s\n", path)
		for _, issue := range result.Errors {
			if issue.Line > 0 {
				fmt.Fprintf(w, "  line %d: %s\n", issue.Line, issue.Message)
			} else {
				fmt.Fprintf(w, "  %s\n", issue.Message)
			}
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s is invalid", path))
}

// validationIssues flattens a config.Load error into one issue per problem.
func validationIssues(err error) []ValidationIssue {
	var ve *config.ValidationError
	if errors.As(err, &ve) {
		issues := make([]ValidationIssue, len(ve.Errors))
		for i, msg := range ve.Errors {
			issues[i] = ValidationIssue{Message: msg}
		}
		return issues
	}

	var ce *config.CUEError
	if errors.As(err, &ce) {
		issue := ValidationIssue{Message: ce.Message}
		if ce.Pos.IsValid() {
			issue.Line = ce.Pos.Line()
			issue.Column = ce.Pos.Column()
		}
		return []ValidationIssue{issue}
	}

	return []ValidationIssue{{Message: err.Error()}}
}

func printValidConfig(w io.Writer, path string, cfg *config.Config) {
	h := cfg.History
	fmt.Fprintf(w, "✓ %s is valid\n", path)
	fmt.Fprintf(w, "  history.max_size:           %d\n", h.MaxSize)
	fmt.Fprintf(w, "  history.throttle_window:    %s\n", h.ThrottleWindow)
	fmt.Fprintf(w, "  history.continuous_actions: %v\n", h.ContinuousActions)
	fmt.Fprintf(w, "  history.restore_fallback:   %s\n", h.RestoreFallback)
	fmt.Fprintf(w, "  history.undo_floor:         %s\n", h.UndoFloor)
	fmt.Fprintf(w, "  log.level:                  %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  log.format:                 %s\n", cfg.Log.Format)
	fmt.Fprintf(w, "  tracer.enabled:             %t\n", cfg.Tracer.Enabled)
	fmt.Fprintf(w, "  tracer.exporter:            %s\n", cfg.Tracer.Exporter)
}
