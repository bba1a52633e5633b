package pipeline

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vd89/promptlog/internal/config"
	"github.com/vd89/promptlog/internal/logfile"
)

// TestCaptureWorkflow exercises the full capture lifecycle:
// log → duplicate → minimal input → disable → re-enable → dedup eviction.
func TestCaptureWorkflow(t *testing.T) {
	workspace := t.TempDir()
	cfg := config.DefaultConfig()
	writer := logfile.NewWriter(logfile.Options{WorkspaceRoot: workspace})
	coord := New(cfg, writer, nil, nil)

	// 1. A fresh prompt lands in today's file under the workspace.
	res, err := coord.Capture(NewEvent("Manual Entry", "", "wire up the settings page"))
	require.NoError(t, err)
	require.Equal(t, OutcomeLogged, res.Outcome)
	require.NotEmpty(t, res.EventID)
	require.Contains(t, res.File, "copilot-prompts")
	require.Contains(t, res.File, logfile.FileName(time.Now()))
	logPath := res.File

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(content), "# Copilot Prompt Log - ")
	require.Contains(t, string(content), "wire up the settings page")

	// 2. The same prompt with different casing and spacing is a duplicate.
	res, err = coord.Capture(NewEvent("Manual Entry", "", "  Wire Up   The Settings Page "))
	require.NoError(t, err)
	require.Equal(t, OutcomeDuplicate, res.Outcome)
	require.Empty(t, res.File)

	// 3. Typed input takes the minimal path and shares the duplicate filter.
	res, err = coord.CaptureInput("Copilot Chat", "what does the linter flag here")
	require.NoError(t, err)
	require.Equal(t, OutcomeLogged, res.Outcome)

	res, err = coord.Capture(NewEvent("Clipboard", "", "what does the linter flag here"))
	require.NoError(t, err)
	require.Equal(t, OutcomeDuplicate, res.Outcome)

	// 4. Disabled logging short-circuits without touching the file.
	coord.SetEnabled(false)
	before, err := os.ReadFile(logPath)
	require.NoError(t, err)

	res, err = coord.Capture(NewEvent("Manual Entry", "", "this must not land"))
	require.NoError(t, err)
	require.Equal(t, OutcomeDisabled, res.Outcome)

	after, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))

	// 5. Re-enabling restores capture.
	coord.SetEnabled(true)
	res, err = coord.Capture(NewEvent("Manual Entry", "", "this lands again"))
	require.NoError(t, err)
	require.Equal(t, OutcomeLogged, res.Outcome)

	// 6. Once enough distinct prompts pass through, the oldest key is
	// evicted and logs again.
	for i := 0; i < 20; i++ {
		_, err = coord.Capture(NewEvent("Manual Entry", "", "distinct prompt number "+string(rune('a'+i))))
		require.NoError(t, err)
	}
	res, err = coord.Capture(NewEvent("Manual Entry", "", "wire up the settings page"))
	require.NoError(t, err)
	require.Equal(t, OutcomeLogged, res.Outcome)
}
