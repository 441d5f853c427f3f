package output_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rbr.dev/rbr/internal/output"
)

func TestSplogFileLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "rbr.log")

	splog, err := output.NewSplogWithConfig(false, logPath)
	require.NoError(t, err)

	splog.Info("rebased")
	splog.Warn("conflicted")
	// Debug records reach the file even when the console is quiet.
	splog.Debug("scheduling")
	require.NoError(t, splog.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	contents := string(data)
	require.Contains(t, contents, "rebased")
	require.Contains(t, contents, "conflicted")
	require.Contains(t, contents, "scheduling")
}

func TestSplogWithoutFile(t *testing.T) {
	splog, err := output.NewSplogWithConfig(true, "")
	require.NoError(t, err)

	splog.Info("hello")
	require.NoError(t, splog.Close())
}

func TestColorBranchName(t *testing.T) {
	require.Contains(t, output.ColorBranchName("feature", false), "feature")
	require.Contains(t, output.ColorBranchName("feature", true), "feature")
	require.Contains(t, output.ColorError("boom"), "boom")
}
