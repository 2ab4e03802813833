// Command sigma-relay relays files from a Google Drive folder to an
// SFTP server.
package main

import (
	"os"

	"github.com/sigma-ops/sigma-relay/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
