// Package socket provides the Unix domain socket plumbing between the
// resolvq CLI and the resolvqd daemon.
package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	// ErrAddressInUse is returned when attempting to listen on a socket
	// that another daemon instance still serves.
	ErrAddressInUse = errors.New("address already in use")
	// ErrNotRunning is returned when the daemon process is not running.
	ErrNotRunning = errors.New("daemon not running")
)

// Config holds socket configuration: connect retry behavior, socket
// file permissions, and the daemon process name used for liveness
// probing.
type Config struct {
	// StartupTimeout is the maximum time to wait for daemon startup.
	StartupTimeout time.Duration
	// RetryInterval is the interval between connection attempts.
	RetryInterval time.Duration
	// Permissions defines the socket file permissions.
	Permissions os.FileMode
	// ProcessName is the daemon executable name to look for.
	ProcessName string
}

// DefaultConfig returns a Config with sensible defaults: a 5-second
// startup timeout, 250ms retry interval, OS-appropriate socket
// permissions, and "resolvqd" as the daemon process name.
func DefaultConfig() *Config {
	return &Config{
		StartupTimeout: 5 * time.Second,
		RetryInterval:  250 * time.Millisecond,
		Permissions:    getDefaultPermissions(),
		ProcessName:    "resolvqd",
	}
}

// Socket manages Unix domain socket operations: listening with stale
// socket cleanup on the daemon side, and connecting with retry on the
// CLI side.
type Socket struct {
	config    *Config
	procCheck ProcessChecker
	startTime time.Time
	mu        sync.RWMutex
}

// New creates a Socket with the given configuration and process
// checker. A nil cfg means DefaultConfig().
func New(cfg *Config, checker ProcessChecker) *Socket {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Socket{
		config:    cfg,
		procCheck: checker,
		startTime: time.Now(),
	}
}

// ConnectContext connects to the daemon socket using the default
// configuration and process checker.
func ConnectContext(ctx context.Context, path string) (net.Conn, error) {
	s := New(nil, &DefaultProcessChecker{})
	return s.Connect(ctx, path)
}

// Listen creates a Unix domain socket listener at path using the
// default configuration and process checker.
func Listen(path string) (net.Listener, error) {
	s := New(nil, &DefaultProcessChecker{})
	return s.Listen(path)
}

// Connect establishes a connection to the daemon socket. It retries
// until the context is canceled, the startup timeout elapses, or a
// connection succeeds. If the daemon is not running after the timeout
// period, ErrNotRunning is returned.
func (s *Socket) Connect(ctx context.Context, path string) (net.Conn, error) {
	deadline := time.Now().Add(s.config.StartupTimeout)

	for {
		conn, err := s.dial(ctx, path)
		if err == nil {
			return conn, nil
		}

		if !s.shouldRetry(deadline) {
			return nil, fmt.Errorf("%w: %v", ErrNotRunning, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.config.RetryInterval):
			continue
		}
	}
}

// Listen creates a Unix domain socket listener at path. It ensures the
// socket directory exists, removes any stale socket file left by a
// crashed daemon, and sets the configured permissions on the socket.
// If a live daemon already serves the socket, ErrAddressInUse is
// returned.
func (s *Socket) Listen(path string) (net.Listener, error) {
	if err := s.ensureSocketDirectory(path); err != nil {
		return nil, err
	}

	if err := s.checkExistingSocket(path); err != nil {
		return nil, err
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("creating socket listener: %w", err)
	}

	if err := os.Chmod(path, s.config.Permissions); err != nil {
		listener.Close()
		return nil, fmt.Errorf("setting socket permissions: %w", err)
	}

	return listener, nil
}

func (s *Socket) dial(ctx context.Context, path string) (net.Conn, error) {
	dialer := &net.Dialer{}
	return dialer.DialContext(ctx, "unix", path)
}

// shouldRetry reports whether another connect attempt is worthwhile:
// the deadline has not passed and the daemon process either just
// started or is still visible in the process table.
func (s *Socket) shouldRetry(deadline time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if time.Now().After(deadline) {
		return false
	}

	if time.Since(s.startTime) < 2*time.Second {
		return true
	}

	return s.procCheck.IsRunning(s.config.ProcessName)
}

// ensureSocketDirectory creates the socket's parent directory and fixes
// its permissions when the socket itself is meant to be world-usable.
func (s *Socket) ensureSocketDirectory(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating socket directory: %w", err)
	}

	if s.config.Permissions == 0o666 {
		if fi, err := os.Stat(dir); err == nil && fi.Mode()&0o077 == 0 {
			if err := os.Chmod(dir, 0o755); err != nil {
				return fmt.Errorf("setting directory permissions: %w", err)
			}
		}
	}

	return nil
}

// checkExistingSocket distinguishes a live socket (another daemon is
// serving it) from a stale file left behind by a crash.
func (s *Socket) checkExistingSocket(path string) error {
	conn, err := net.Dial("unix", path)
	if err == nil {
		_ = conn.Close()
		return ErrAddressInUse
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket: %w", err)
	}

	return nil
}

// getDefaultPermissions returns the default socket permissions based on OS.
func getDefaultPermissions() os.FileMode {
	if usesPeerCreds() {
		return 0o666
	}
	return 0o600
}

// usesPeerCreds reports whether the current OS supports peer credentials.
func usesPeerCreds() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
		return true
	default:
		return false
	}
}
