package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/folio/internal/config"
	"github.com/roach88/folio/internal/harness"
	"github.com/roach88/folio/internal/tracing"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Set by the root command before any subcommand runs.
	Config *config.Config
	Logger *slog.Logger

	shutdownTracing func(context.Context) error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Execute runs the folio CLI with ctx and flushes pending spans.
func Execute(ctx context.Context) error {
	opts := &RootOptions{}
	err := newRootCommand(opts).ExecuteContext(ctx)
	if serr := opts.shutdown(ctx); err == nil && serr != nil {
		err = WrapExitError(ExitCommandError, "failed to flush traces", serr)
	}
	return err
}

// NewRootCommand creates the root command for the folio CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "folio",
		Short: "folio - document history tooling",
		Long:  "Run undo/redo history scenarios, inspect their traces, and fingerprint document snapshots.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (.yaml or .cue)")

	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewFingerprintCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// setup loads the config file, builds the diagnostic logger, and installs
// the span exporter. Logs and spans go to stderr so JSON output on stdout
// stays parseable.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	o.Config = cfg
	o.Logger = config.NewLogger(cfg.Log, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := tracing.Setup(ctx, cfg.Tracer, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up tracing", err)
	}
	o.shutdownTracing = shutdown
	return nil
}

func (o *RootOptions) shutdown(ctx context.Context) error {
	if o.shutdownTracing == nil {
		return nil
	}
	return o.shutdownTracing(ctx)
}

// logger returns the configured logger, or a discard logger when a
// subcommand runs without the root command (as in tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// runOptions passes the loaded history config and logger to scenario runs.
func (o *RootOptions) runOptions(extra ...harness.Option) []harness.Option {
	opts := []harness.Option{harness.WithLogger(o.logger())}
	if o.Config != nil {
		opts = append(opts, harness.WithHistoryConfig(o.Config.History))
	}
	return append(opts, extra...)
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
