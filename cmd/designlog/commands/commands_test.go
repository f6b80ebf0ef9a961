package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/designlog/cmd/designlog/commands"
)

// writeTestConfig builds a config that keeps storage in memory so command
// tests touch no real database.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "designlog.yaml")
	content := `
document: doc-test
storage:
  in_memory: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())

	err := cmd.Execute()

	return out.String(), err
}

func TestOpenApp_RequiresDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  in_memory: true\n"), 0o600))

	_, err := commands.OpenApp(context.Background(), &commands.GlobalFlags{ConfigPath: path})
	require.ErrorIs(t, err, commands.ErrNoDocument)
}

func TestCommitCommand_RequiresTitle(t *testing.T) {
	global := &commands.GlobalFlags{ConfigPath: writeTestConfig(t)}

	_, err := runCommand(t, commands.NewCommitCommand(global))
	require.ErrorIs(t, err, commands.ErrNoTitle)
}

func TestCommitThenHistory_InMemory(t *testing.T) {
	// In-memory storage does not persist between invocations, so history
	// after a separate commit run is empty; this exercises the wiring, not
	// durability.
	global := &commands.GlobalFlags{ConfigPath: writeTestConfig(t)}

	out, err := runCommand(t, commands.NewCommitCommand(global),
		"--title", "First pass", "--nodes", "120", "--frames", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "created 1.0.0")

	out, err = runCommand(t, commands.NewHistoryCommand(global))
	require.NoError(t, err)
	assert.Contains(t, out, "no commits yet")
}

func TestRenderCommand_RequiresOutput(t *testing.T) {
	global := &commands.GlobalFlags{ConfigPath: writeTestConfig(t)}

	_, err := runCommand(t, commands.NewRenderCommand(global))
	require.ErrorIs(t, err, commands.ErrNoOutput)
}

func TestSettingsCommand_RejectsBadMode(t *testing.T) {
	global := &commands.GlobalFlags{ConfigPath: writeTestConfig(t)}

	_, err := runCommand(t, commands.NewSettingsCommand(global), "set-mode", "calendar")
	require.ErrorIs(t, err, commands.ErrInvalidMode)
}

func TestAnalyzeCommand_EmptyHistory(t *testing.T) {
	global := &commands.GlobalFlags{ConfigPath: writeTestConfig(t)}

	out, err := runCommand(t, commands.NewAnalyzeCommand(global))
	require.NoError(t, err)
	assert.Contains(t, out, "Growth:")
	assert.Contains(t, out, "Hotspots: none")
}
