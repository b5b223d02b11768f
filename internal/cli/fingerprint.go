package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/folio/internal/ir"
)

// FingerprintResult is the output of the fingerprint command.
type FingerprintResult struct {
	Fingerprint string `json:"fingerprint"`
	Elements    int    `json:"elements"`
	Domain      string `json:"domain"`
}

func (r FingerprintResult) String() string {
	return r.Fingerprint
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <snapshot.json|->",
		Short: "Compute the dedup fingerprint of a snapshot",
		Long: `Read a snapshot (a JSON array of elements) and print the fingerprint the
history manager uses to detect duplicate saves. Use "-" to read stdin.

Two snapshots that differ only by sub-pixel geometry, z-order, visibility
or element type have the same fingerprint.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runFingerprint(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open snapshot", err)
		}
		defer f.Close()
		r = f
	}

	var snap ir.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		_ = formatter.Error(CodeInput, fmt.Sprintf("invalid snapshot JSON: %v", err), nil)
		return WrapExitError(ExitFailure, "invalid snapshot JSON", err)
	}

	fp, err := ir.SnapshotFingerprint(snap)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to fingerprint snapshot", err)
	}

	opts.logger().Debug("snapshot fingerprinted", "elements", len(snap), "fingerprint", fp)
	return formatter.Success(FingerprintResult{
		Fingerprint: fp,
		Elements:    len(snap),
		Domain:      ir.DomainSnapshot,
	})
}
