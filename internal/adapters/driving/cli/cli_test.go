package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

func newBufferedCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

func TestVersionCommand(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "sigma-relay dev")
}

func TestLoadConfigFromFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[drive]
folder_id = "folder-1"

[sftp]
host = "sftp.example.com"
username = "vendor"
`), 0o600))

	flagConfig = path
	t.Cleanup(func() { flagConfig = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "folder-1", cfg.Relay.FolderID)
	assert.Equal(t, "sftp.example.com", cfg.Relay.Host)
}

func TestLoadConfigMissingFile(t *testing.T) {
	flagConfig = filepath.Join(t.TempDir(), "nope.toml")
	t.Cleanup(func() { flagConfig = "" })

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestPrintEventFormats(t *testing.T) {
	cmd, buf := newBufferedCommand()

	ev := domain.NewEvent(domain.EventFileRelayed, "report.csv", "uploaded and archived")
	printEvent(cmd, ev)
	assert.Contains(t, buf.String(), "report.csv")
	assert.Contains(t, buf.String(), "file_relayed")

	buf.Reset()
	printEvent(cmd, domain.NewEvent(domain.EventCycleStarted, "", "cycle started"))
	assert.Contains(t, buf.String(), "cycle_started")
	assert.NotContains(t, buf.String(), "report.csv")
}

func TestPrintSummary(t *testing.T) {
	cmd, buf := newBufferedCommand()

	started := time.Now()
	result := &domain.CycleResult{
		ID:        "cycle-1",
		StartedAt: started,
		EndedAt:   started.Add(2 * time.Second),
		Uploaded:  1,
		Failed:    1,
		Files: []domain.FileRecord{
			{Name: "a.csv", Status: domain.StatusArchived},
			{Name: "b.csv", Status: domain.StatusFailed, ErrorMessage: "upload refused"},
		},
	}
	printSummary(cmd, result)

	out := buf.String()
	assert.Contains(t, out, "a.csv")
	assert.Contains(t, out, "upload refused")
	assert.Contains(t, out, "1 uploaded, 1 failed, 0 skipped")
}
