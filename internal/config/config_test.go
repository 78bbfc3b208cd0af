package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lc/resolvq/internal/config"
)

type ConfigTestSuite struct {
	suite.Suite
	fs       mockFS
	provider config.Provider
}

type mockFS struct {
	files map[string]string
}

func (m mockFS) Stat(path string) (os.FileInfo, error) {
	if _, ok := m.files[path]; !ok {
		return nil, os.ErrNotExist
	}
	return nil, nil
}

func (m mockFS) MkdirAll(_ string, _ os.FileMode) error {
	return nil
}

func (m mockFS) Open(path string) (*os.File, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	tmp, err := os.CreateTemp("", "mock-*") // caller cleans up in t.Cleanup
	if err != nil {
		return nil, err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, err
	}
	return tmp, nil
}

func (m mockFS) WriteFile(path string, content []byte, _ os.FileMode) error {
	m.files[path] = string(content)
	return nil
}

func (s *ConfigTestSuite) SetupTest() {
	s.fs = mockFS{
		files: make(map[string]string),
	}
	s.provider = config.NewWithPath(s.fs, "test/config.yaml")
}

func (s *ConfigTestSuite) TestLoadDefaultWhenNoFile() {
	cfg, err := s.provider.Load()

	s.Require().NoError(err)
	s.Equal(config.DefaultSocketPath, cfg.Socket.Path)
	s.Equal(config.DefaultQueueCapacity, cfg.Resolver.QueueCapacity)
	s.Equal(config.DefaultDNSTimeout, cfg.Resolver.DNSTimeout)
	s.Equal(config.DefaultStoreBackend, cfg.Store.Backend)
}

func (s *ConfigTestSuite) TestLoadValidConfig() {
	s.fs.files["test/config.yaml"] = `
socket:
  path: /custom/socket
resolver:
  queue_capacity: 64
  dns_timeout: 10s
  nameservers:
    - 1.1.1.1:53
store:
  backend: badger
  path: /tmp/resolvq-hosts
`
	cfg, err := s.provider.Load()

	s.Require().NoError(err)
	s.Equal("/custom/socket", cfg.Socket.Path)
	s.Equal(64, cfg.Resolver.QueueCapacity)
	s.Equal(10*time.Second, cfg.Resolver.DNSTimeout)
	s.Equal([]string{"1.1.1.1:53"}, cfg.Resolver.Nameservers)
	s.Equal("badger", cfg.Store.Backend)
	s.Equal("/tmp/resolvq-hosts", cfg.Store.Path)
}

func (s *ConfigTestSuite) TestPartialConfigGetsDefaults() {
	s.fs.files["test/config.yaml"] = `
socket:
  path: /custom/socket
`
	cfg, err := s.provider.Load()

	s.Require().NoError(err)
	s.Equal("/custom/socket", cfg.Socket.Path)
	s.Equal(config.DefaultQueueCapacity, cfg.Resolver.QueueCapacity)
	s.Equal(config.DefaultDNSTimeout, cfg.Resolver.DNSTimeout)
	s.Equal(config.DefaultStoreBackend, cfg.Store.Backend)
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name        string
		config      config.Config
		expectedErr string
	}{
		{
			name: "empty socket path",
			config: config.Config{
				Socket:   config.SocketConfig{Path: "  "},
				Resolver: config.ResolverConfig{QueueCapacity: 10, DNSTimeout: 5 * time.Second},
				Store:    config.StoreConfig{Backend: "memory"},
			},
			expectedErr: "socket path cannot be empty",
		},
		{
			name: "non-positive queue capacity",
			config: config.Config{
				Socket:   config.SocketConfig{Path: "/tmp/s"},
				Resolver: config.ResolverConfig{QueueCapacity: -1, DNSTimeout: 5 * time.Second},
				Store:    config.StoreConfig{Backend: "memory"},
			},
			expectedErr: "queue capacity must be positive",
		},
		{
			name: "sub-second DNS timeout",
			config: config.Config{
				Socket:   config.SocketConfig{Path: "/tmp/s"},
				Resolver: config.ResolverConfig{QueueCapacity: 10, DNSTimeout: 100 * time.Millisecond},
				Store:    config.StoreConfig{Backend: "memory"},
			},
			expectedErr: "DNS timeout must be at least 1 second",
		},
		{
			name: "badger backend without path",
			config: config.Config{
				Socket:   config.SocketConfig{Path: "/tmp/s"},
				Resolver: config.ResolverConfig{QueueCapacity: 10, DNSTimeout: 5 * time.Second},
				Store:    config.StoreConfig{Backend: "badger"},
			},
			expectedErr: "store path required for badger backend",
		},
		{
			name: "unknown store backend",
			config: config.Config{
				Socket:   config.SocketConfig{Path: "/tmp/s"},
				Resolver: config.ResolverConfig{QueueCapacity: 10, DNSTimeout: 5 * time.Second},
				Store:    config.StoreConfig{Backend: "redis"},
			},
			expectedErr: `unknown store backend "redis"`,
		},
		{
			name: "valid memory config",
			config: config.Config{
				Socket:   config.SocketConfig{Path: "/tmp/s"},
				Resolver: config.ResolverConfig{QueueCapacity: 10, DNSTimeout: 5 * time.Second},
				Store:    config.StoreConfig{Backend: "memory"},
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.config.Validate()
			if tc.expectedErr == "" {
				s.NoError(err)
				return
			}
			s.Require().Error(err)
			s.Contains(err.Error(), tc.expectedErr)
		})
	}
}

func (s *ConfigTestSuite) TestInvalidYAML() {
	s.fs.files["test/config.yaml"] = "socket: [not: valid"

	_, err := s.provider.Load()
	s.Error(err)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
