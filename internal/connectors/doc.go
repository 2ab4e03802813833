// Package connectors groups the adapters that talk to external systems
// on the relay's behalf: the Google Drive source and the SFTP sink.
// Each connector lives in its own subpackage and implements a driven
// port from internal/core/ports/driven.
package connectors
