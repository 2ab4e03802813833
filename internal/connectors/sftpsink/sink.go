package sftpsink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
	"github.com/sigma-ops/sigma-relay/internal/core/ports/driven"
	"github.com/sigma-ops/sigma-relay/internal/logger"
	"github.com/sigma-ops/sigma-relay/internal/retry"
)

// Ensure the port is implemented.
var (
	_ driven.Sink     = (*Sink)(nil)
	_ driven.SinkConn = (*Conn)(nil)
)

// dialTimeout bounds the TCP/SSH handshake.
const dialTimeout = 30 * time.Second

// Sink opens SFTP connections for the relay. One Conn is opened per
// cycle and closed when the cycle ends.
type Sink struct {
	host     string
	port     int
	username string
	password string
	keyFile  string

	// StorageRoot is the bucket segment of the templated destination
	// path. Overridable for tests and non-default deployments.
	StorageRoot string

	retry retry.Policy
	log   logger.Logger
}

// NewSink builds a sink from the relay configuration. Pass the zero
// retry.Policy to use the defaults.
func NewSink(cfg domain.RelayConfig, policy retry.Policy, log logger.Logger) *Sink {
	if log == nil {
		log = logger.Nop()
	}
	if policy.MaxAttempts == 0 {
		policy = retry.NewPolicy(log)
	}
	return &Sink{
		host:        cfg.Host,
		port:        cfg.Port,
		username:    cfg.Username,
		password:    cfg.Password,
		keyFile:     cfg.KeyFile,
		StorageRoot: DefaultStorageRoot,
		retry:       policy,
		log:         log,
	}
}

// Connect opens the transport, authenticates (private key preferred over
// password) and opens the SFTP channel. Bad or missing credentials
// surface immediately; there is no retry at this level. Failure to
// resolve the server's home directory is tolerated and only logged.
func (s *Sink) Connect(ctx context.Context) (driven.SinkConn, error) {
	auth, err := s.authMethods()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	s.log.Infof("sftp: connecting to %s as %s", addr, s.username)

	sshConf := &ssh.ClientConfig{
		User: s.username,
		Auth: auth,
		// The upstream endpoint rotates host keys per storage node, so
		// the original client skipped verification; kept as-is.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	transport, err := ssh.Dial("tcp", addr, sshConf)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	cli, err := sftp.NewClient(transport)
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("open sftp channel: %w", err)
	}

	conn := &Conn{
		transport:   transport,
		cli:         cli,
		username:    s.username,
		storageRoot: s.StorageRoot,
		retry:       s.retry,
		log:         s.log,
	}

	home, err := cli.RealPath(".")
	if err != nil {
		s.log.Warnf("sftp: cannot resolve home directory: %v", err)
	} else {
		conn.home = home
		s.log.Infof("sftp: home = %s", home)
		if entries, err := cli.ReadDir(home); err == nil {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			s.log.Debugf("sftp: home listing = %v", names)
		}
	}

	s.log.Infof("sftp: connected")
	return conn, nil
}

// authMethods builds the SSH auth chain. A configured key file takes
// precedence over a password.
func (s *Sink) authMethods() ([]ssh.AuthMethod, error) {
	if s.keyFile != "" {
		pem, err := os.ReadFile(s.keyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if s.password != "" {
		return []ssh.AuthMethod{ssh.Password(s.password)}, nil
	}
	return nil, domain.ErrMissingCredentials
}

// Conn is one live SFTP connection, owned by a single cycle.
type Conn struct {
	transport   *ssh.Client
	cli         *sftp.Client
	home        string
	username    string
	storageRoot string
	retry       retry.Policy
	log         logger.Logger
}

// DestinationDir returns the resolved upload directory for this
// connection: the chroot-remapped home path when home is known, the
// fixed template otherwise.
func (c *Conn) DestinationDir() string {
	return destinationDir(c.home, c.storageRoot, c.username)
}

// Upload ensures the destination directory exists and transfers the
// local file to <destination>/<basename>, silently overwriting any
// remote file with the same name. The put itself goes through the retry
// policy; each attempt restarts the transfer from the beginning.
func (c *Conn) Upload(ctx context.Context, localPath string) error {
	if c.cli == nil {
		return domain.ErrNotConnected
	}

	dir := c.DestinationDir()
	if err := ensureDir(c.cli, dir, c.log); err != nil {
		return err
	}

	target := dir + "/" + filepath.Base(localPath)
	c.log.Infof("sftp: uploading %s -> %s", localPath, target)

	err := c.retry.Do(ctx, "sftp put", func() error {
		return c.put(localPath, target)
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", target, err)
	}
	c.log.Infof("sftp: upload OK")
	return nil
}

// put performs one complete transfer attempt.
func (c *Conn) put(localPath, target string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := c.cli.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return dst.Close()
}

// Close releases the channel and transport. Safe after a partial connect
// and safe to call more than once.
func (c *Conn) Close() error {
	var errs []error
	if c.cli != nil {
		if err := c.cli.Close(); err != nil {
			errs = append(errs, err)
		}
		c.cli = nil
	}
	if c.transport != nil {
		if err := c.transport.Close(); err != nil {
			errs = append(errs, err)
		}
		c.transport = nil
	}
	if c.log != nil {
		c.log.Infof("sftp: disconnected")
	}
	return errors.Join(errs...)
}

// dirClient is the slice of the SFTP client ensureDir needs.
type dirClient interface {
	Stat(path string) (os.FileInfo, error)
	Mkdir(path string) error
}

// ensureDir walks the path's prefixes left to right, creating whatever a
// stat cannot find. Permission denials abort immediately; any other
// creation failure is logged and the walk continues, so partially
// creatable paths stay best-effort. A prefix that turns out to exist
// after a failed mkdir (created concurrently, or a stat blind spot) is
// treated as success.
func ensureDir(cli dirClient, path string, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	for _, prefix := range splitPath(path) {
		if _, err := cli.Stat(prefix); err == nil {
			continue
		}
		if err := cli.Mkdir(prefix); err != nil {
			if errors.Is(err, os.ErrPermission) {
				return fmt.Errorf("%w: mkdir %s: %v", domain.ErrPermissionDenied, prefix, err)
			}
			if _, statErr := cli.Stat(prefix); statErr == nil {
				continue
			}
			log.Warnf("sftp: mkdir failed for %s: %v", prefix, err)
			continue
		}
		log.Infof("sftp: mkdir %s", prefix)
	}
	return nil
}
