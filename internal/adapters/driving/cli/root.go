// Package cli wires the relay together and exposes it as a command-line
// tool. The desktop front ends consume the same core through their own
// glue; this package is the headless driving adapter.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/sigma-ops/sigma-relay/internal/adapters/driven/config/file"
	"github.com/sigma-ops/sigma-relay/internal/adapters/driven/history/sqlite"
	"github.com/sigma-ops/sigma-relay/internal/connectors/drive"
	"github.com/sigma-ops/sigma-relay/internal/connectors/sftpsink"
	"github.com/sigma-ops/sigma-relay/internal/core/ports/driven"
	"github.com/sigma-ops/sigma-relay/internal/core/services"
	"github.com/sigma-ops/sigma-relay/internal/logger"
	"github.com/sigma-ops/sigma-relay/internal/retry"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sigma-relay",
	Short: "Relay staged Drive files to an SFTP server",
	Long: `sigma-relay watches a Google Drive folder, downloads new files to a
local staging directory, uploads them to an SFTP server and moves the
Drive copy into an archive folder once the upload succeeds.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "",
		"path to config.toml (default ~/.sigma-relay/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the TOML config from the flag path or the default
// location.
func loadConfig() (*configfile.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		if path, err = configfile.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return configfile.Load(path)
}

// buildRelay assembles the full pipeline: Drive source, SFTP sink,
// history store, orchestrator. The returned store may be nil when
// history could not be opened; the relay runs without it.
func buildRelay(ctx context.Context, cmd *cobra.Command) (*services.Relay, *sqlite.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cmd.ErrOrStderr(), flagVerbose)

	// No configured credential: ask for the SFTP password when attached
	// to a terminal, fail fast otherwise.
	if cfg.Relay.Password == "" && cfg.Relay.KeyFile == "" {
		pw, err := promptPassword(cmd, cfg.Relay.Username, cfg.Relay.Host)
		if err != nil {
			return nil, nil, err
		}
		cfg.Relay.Password = pw
	}

	svc, err := drive.NewService(ctx, cfg.DriveCredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("create drive service: %w", err)
	}

	policy := retry.NewPolicy(log)
	source := drive.NewSource(svc, policy, log)
	sink := sftpsink.NewSink(cfg.Relay, policy, log)

	// A nil interface, not a typed-nil store, when history is unavailable.
	var history driven.HistoryStore
	store, err := sqlite.NewStore("")
	if err != nil {
		log.Warnf("history disabled: %v", err)
		store = nil
	} else {
		history = store
	}

	relay := services.NewRelay(cfg.Relay, source, sink, history, log)
	return relay, store, nil
}

// promptPassword reads the SFTP password from the terminal without echo.
func promptPassword(cmd *cobra.Command, username, host string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password or key configured for %s@%s", username, host)
	}
	cmd.Printf("SFTP password for %s@%s: ", username, host)
	pw, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
