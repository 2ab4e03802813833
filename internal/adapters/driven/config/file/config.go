package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

// Config is everything the binary needs to run: the core relay
// parameters plus the adapter-level settings that never reach the core.
type Config struct {
	// Relay is the immutable core configuration.
	Relay domain.RelayConfig

	// DriveCredentialsFile is the service-account JSON key used to
	// build the Drive client.
	DriveCredentialsFile string
}

// document mirrors the TOML layout.
type document struct {
	Drive struct {
		FolderID        string `toml:"folder_id"`
		ArchiveFolder   string `toml:"archive_folder"`
		CredentialsFile string `toml:"credentials_file"`
	} `toml:"drive"`

	SFTP struct {
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		Username string `toml:"username"`
		Password string `toml:"password"`
		KeyFile  string `toml:"key_file"`
	} `toml:"sftp"`

	Relay struct {
		AllowedExtensions   []string `toml:"allowed_extensions"`
		MaxFileSizeMB       int64    `toml:"max_file_size_mb"`
		TempDir             string   `toml:"temp_dir"`
		PollIntervalSeconds int      `toml:"poll_interval_seconds"`
	} `toml:"relay"`
}

// DefaultPath returns ~/.sigma-relay/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".sigma-relay", "config.toml"), nil
}

// Load reads and decodes the configuration at path, applying defaults
// for everything unset. The file must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := &Config{
		Relay: domain.RelayConfig{
			FolderID:          doc.Drive.FolderID,
			ArchiveFolder:     doc.Drive.ArchiveFolder,
			AllowedExtensions: doc.Relay.AllowedExtensions,
			MaxFileSizeMB:     doc.Relay.MaxFileSizeMB,
			Host:              doc.SFTP.Host,
			Port:              doc.SFTP.Port,
			Username:          doc.SFTP.Username,
			Password:          doc.SFTP.Password,
			KeyFile:           doc.SFTP.KeyFile,
			TempDir:           doc.Relay.TempDir,
			PollInterval:      time.Duration(doc.Relay.PollIntervalSeconds) * time.Second,
		},
		DriveCredentialsFile: doc.Drive.CredentialsFile,
	}
	cfg.Relay.ApplyDefaults()

	if cfg.Relay.TempDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.Relay.TempDir = filepath.Join(home, ".sigma-relay", "staging")
	}

	return cfg, nil
}
