package domain

import (
	"strings"
	"time"
)

// Defaults applied by RelayConfig.ApplyDefaults.
const (
	DefaultArchiveFolder = "Sigma_Archive"
	DefaultPollInterval  = 30 * time.Second
	DefaultSFTPPort      = 22
)

// RelayConfig holds the immutable per-run parameters of the relay.
// The configuration layer builds one of these; the core never mutates it.
type RelayConfig struct {
	// FolderID identifies the source folder to watch. An empty id makes
	// every cycle a no-op warning.
	FolderID string

	// ArchiveFolder is the display name of the archive folder created in
	// the source account root.
	ArchiveFolder string

	// AllowedExtensions restricts which files are relayed, matched
	// case-insensitively without the leading dot. Empty means
	// unrestricted.
	AllowedExtensions []string

	// MaxFileSizeMB excludes files larger than this many megabytes.
	// Zero means unlimited. A file exactly at the limit is allowed.
	MaxFileSizeMB int64

	// SFTP endpoint.
	Host     string
	Port     int
	Username string

	// Password and KeyFile are mutually exclusive credentials; when both
	// are set the key takes precedence.
	Password string
	KeyFile  string

	// TempDir is the local staging directory, created on demand.
	TempDir string

	// PollInterval is the sleep between relay cycles.
	PollInterval time.Duration
}

// ApplyDefaults fills unset fields with the documented defaults.
func (c *RelayConfig) ApplyDefaults() {
	if c.ArchiveFolder == "" {
		c.ArchiveFolder = DefaultArchiveFolder
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Port == 0 {
		c.Port = DefaultSFTPPort
	}
}

// ExtensionAllowed reports whether a file name passes the extension
// allow-list. An empty list allows everything.
func (c *RelayConfig) ExtensionAllowed(name string) bool {
	if len(c.AllowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(name)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	} else {
		ext = ""
	}
	for _, allowed := range c.AllowedExtensions {
		if ext == strings.ToLower(strings.TrimPrefix(allowed, ".")) {
			return true
		}
	}
	return false
}

// WithinSizeLimit reports whether a file of sizeBytes passes the
// configured maximum. A size exactly at the limit passes.
func (c *RelayConfig) WithinSizeLimit(sizeBytes int64) bool {
	if c.MaxFileSizeMB <= 0 {
		return true
	}
	return sizeBytes <= c.MaxFileSizeMB*1024*1024
}
