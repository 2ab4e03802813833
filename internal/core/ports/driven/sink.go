package driven

import "context"

// Sink opens connections to the remote upload endpoint. The relay opens
// exactly one connection per cycle and closes it when the cycle ends.
type Sink interface {
	// Connect authenticates and returns a live connection. Missing or
	// invalid credentials surface here immediately, without retry.
	Connect(ctx context.Context) (SinkConn, error)
}

// SinkConn is a live connection to the upload endpoint. It is owned by
// one cycle at a time and is not safe for concurrent use.
type SinkConn interface {
	// Upload transfers the local file to the resolved destination
	// directory under its base name, overwriting any remote file with
	// the same name.
	Upload(ctx context.Context, localPath string) error

	// Close releases the connection. Safe to call after a partial
	// connect and safe to call more than once.
	Close() error
}
