package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/folio/internal/ir"
	"github.com/roach88/folio/internal/store"
)

func TestTraceCommandText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "drag.yaml", dragScenario)

	stdout, _, err := execute(t, "trace", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Trace for Scenario: drag")
	assert.Contains(t, stdout, "Status: pass")
	assert.Contains(t, stdout, "[3] undo")
	assert.Contains(t, stdout, "restored")
	assert.Contains(t, stdout, "accepted   2")
}

func TestTraceCommandJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "drag.yaml", dragScenario)

	stdout, _, err := execute(t, "--format", "json", "trace", path)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "drag", resp.Data.Scenario)
	assert.Equal(t, ir.EngineVersion, resp.Data.EngineVersion)
	assert.True(t, resp.Data.Pass)
	require.Len(t, resp.Data.Steps, 4)

	first := resp.Data.Steps[0]
	assert.Equal(t, "create_element", first.Action)
	assert.Equal(t, ir.Fingerprint(ir.Snapshot{{ID: "el-1"}}), first.Fingerprint)

	undo := resp.Data.Steps[2]
	assert.Equal(t, first.Fingerprint, undo.Fingerprint)
	assert.Empty(t, resp.Data.Steps[3].Fingerprint)
	assert.Equal(t, map[string]int{"accepted": 2, "restored": 1}, resp.Data.Outcomes)
}

func TestTraceCommandActionFilter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "drag.yaml", dragScenario)

	stdout, _, err := execute(t, "--format", "json", "trace", path, "--action", "drag_element")
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Steps, 1)
	assert.Equal(t, int64(2), resp.Data.Steps[0].Seq)
}

func TestTraceCommandKeepsDatabase(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "drag.yaml", dragScenario)
	db := filepath.Join(dir, "trace.db")

	_, _, err := execute(t, "trace", path, "--db", db)
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	steps, err := st.ReadSteps(t.Context(), "drag")
	require.NoError(t, err)
	assert.Len(t, steps, 4)
}

func TestTraceCommandMissingScenario(t *testing.T) {
	_, _, err := execute(t, "trace", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestTruncateFingerprint(t *testing.T) {
	assert.Equal(t, "abc", truncateFingerprint("abc"))
	assert.Equal(t, "0123456789ab", truncateFingerprint("0123456789abcdef"))
}
