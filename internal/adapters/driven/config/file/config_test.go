package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFullDocument(t *testing.T) {
	path := writeConfig(t, `
[drive]
folder_id = "folder-123"
archive_folder = "Done"
credentials_file = "/etc/sigma/sa.json"

[sftp]
host = "sftp.example.com"
port = 2222
username = "bob"
password = "hunter2"
key_file = "/etc/sigma/id_ed25519"

[relay]
allowed_extensions = ["csv", "txt"]
max_file_size_mb = 5
temp_dir = "/var/tmp/sigma"
poll_interval_seconds = 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "folder-123", cfg.Relay.FolderID)
	assert.Equal(t, "Done", cfg.Relay.ArchiveFolder)
	assert.Equal(t, "/etc/sigma/sa.json", cfg.DriveCredentialsFile)
	assert.Equal(t, "sftp.example.com", cfg.Relay.Host)
	assert.Equal(t, 2222, cfg.Relay.Port)
	assert.Equal(t, "bob", cfg.Relay.Username)
	assert.Equal(t, "hunter2", cfg.Relay.Password)
	assert.Equal(t, "/etc/sigma/id_ed25519", cfg.Relay.KeyFile)
	assert.Equal(t, []string{"csv", "txt"}, cfg.Relay.AllowedExtensions)
	assert.Equal(t, int64(5), cfg.Relay.MaxFileSizeMB)
	assert.Equal(t, "/var/tmp/sigma", cfg.Relay.TempDir)
	assert.Equal(t, time.Minute, cfg.Relay.PollInterval)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[drive]
folder_id = "folder-123"

[sftp]
host = "sftp.example.com"
username = "bob"
password = "x"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Sigma_Archive", cfg.Relay.ArchiveFolder)
	assert.Equal(t, 22, cfg.Relay.Port)
	assert.Equal(t, 30*time.Second, cfg.Relay.PollInterval)
	assert.Empty(t, cfg.Relay.AllowedExtensions)
	assert.Zero(t, cfg.Relay.MaxFileSizeMB)
	assert.NotEmpty(t, cfg.Relay.TempDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, `[drive`)
	_, err := Load(path)
	assert.Error(t, err)
}
