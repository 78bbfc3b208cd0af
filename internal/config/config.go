// Package config provides configuration loading and validation for
// resolvq. It reads YAML from disk, falls back to defaults when no file
// exists, and validates every loaded value before the daemon uses it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lc/resolvq/internal/filesys"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoConfig is returned when the configuration file is not found.
	ErrNoConfig = errors.New("configuration file not found")
)

const (
	// DefaultSocketPath is the default path for the Unix socket.
	DefaultSocketPath = "/var/run/resolvqd.socket"
	// DefaultConfigPath is the default path for the configuration file.
	DefaultConfigPath = ".resolvq/config.yaml"
	// DefaultQueueCapacity is the default capacity of the pending
	// address queue. Submissions beyond it are dropped, so the value
	// trades memory against how bursty the producers are allowed to be.
	DefaultQueueCapacity = 400
	// DefaultDNSTimeout is the default timeout for a single PTR query.
	DefaultDNSTimeout = 5 * time.Second
	// DefaultStoreBackend is the default hostname store backend.
	DefaultStoreBackend = "memory"
)

// Config holds the daemon configuration.
type Config struct {
	Socket   SocketConfig   `yaml:"socket"`
	Resolver ResolverConfig `yaml:"resolver"`
	Store    StoreConfig    `yaml:"store"`
}

// SocketConfig holds socket-related configuration.
type SocketConfig struct {
	Path string `yaml:"path"`
}

// ResolverConfig holds reverse-resolution configuration.
type ResolverConfig struct {
	// QueueCapacity bounds the pending address queue.
	QueueCapacity int `yaml:"queue_capacity"`
	// DNSTimeout bounds a single PTR query.
	DNSTimeout time.Duration `yaml:"dns_timeout"`
	// Nameservers lists host:port DNS servers to query. Empty means
	// the built-in default resolver.
	Nameservers []string `yaml:"nameservers"`
}

// StoreConfig holds hostname store configuration.
type StoreConfig struct {
	// Backend selects the store implementation: "memory" or "badger".
	Backend string `yaml:"backend"`
	// Path is the on-disk location for the badger backend. Ignored by
	// the memory backend.
	Path string `yaml:"path"`
}

// Provider defines the interface for loading configuration.
type Provider interface {
	Load() (*Config, error)
}

// FSProvider implements Provider using the local filesystem.
type FSProvider struct {
	fs   filesys.ReadWriteFS
	path string
}

var _ Provider = (*FSProvider)(nil)

// New creates a configuration provider using the default path under the
// user's home directory. If the home directory cannot be determined it
// falls back to the current directory.
func New() Provider {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine home directory: %v\n", err)
		home = ""
	}
	return NewWithPath(filesys.OS(), filepath.Join(home, DefaultConfigPath))
}

// NewWithPath creates a provider with a specific filesystem and config
// path. Tests use this to avoid touching the real disk.
func NewWithPath(fs filesys.ReadWriteFS, path string) Provider {
	return &FSProvider{
		fs:   fs,
		path: path,
	}
}

// Default returns a configuration with preset values. It is used when
// no configuration file exists.
func Default() *Config {
	return &Config{
		Socket: SocketConfig{
			Path: DefaultSocketPath,
		},
		Resolver: ResolverConfig{
			QueueCapacity: DefaultQueueCapacity,
			DNSTimeout:    DefaultDNSTimeout,
		},
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
		},
	}
}

// Load loads the configuration from the provider's path.
func (p *FSProvider) Load() (*Config, error) {
	_ = p.ensureConfigDir()

	cfg, err := p.loadAndParse()
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			return Default(), nil
		}
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// applyDefaults fills in zero values that have non-zero defaults, so a
// partial config file does not silently disable the resolver.
func (c *Config) applyDefaults() {
	if c.Socket.Path == "" {
		c.Socket.Path = DefaultSocketPath
	}
	if c.Resolver.QueueCapacity == 0 {
		c.Resolver.QueueCapacity = DefaultQueueCapacity
	}
	if c.Resolver.DNSTimeout == 0 {
		c.Resolver.DNSTimeout = DefaultDNSTimeout
	}
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultStoreBackend
	}
}

// Validate checks the configuration to ensure all required fields are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Socket.Path) == "" {
		return errors.New("socket path cannot be empty")
	}
	if c.Resolver.QueueCapacity < 1 {
		return errors.New("queue capacity must be positive")
	}
	if c.Resolver.DNSTimeout < time.Second {
		return errors.New("DNS timeout must be at least 1 second")
	}
	switch c.Store.Backend {
	case "memory":
	case "badger":
		if strings.TrimSpace(c.Store.Path) == "" {
			return errors.New("store path required for badger backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func (p *FSProvider) ensureConfigDir() error {
	dir := filepath.Dir(p.path)
	if _, err := p.fs.Stat(dir); os.IsNotExist(err) {
		if err := p.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return nil
}

func (p *FSProvider) loadAndParse() (*Config, error) {
	f, err := p.fs.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	return &cfg, nil
}
