// Package config provides configuration management for the resolvq
// daemon.
//
// The package uses a Provider interface to abstract configuration
// loading, with the primary implementation being filesystem-based
// configuration via YAML files.
//
// # Configuration Structure
//
//	socket:
//	  path: /var/run/resolvqd.socket  # Unix domain socket path
//	resolver:
//	  queue_capacity: 400             # Pending address queue bound
//	  dns_timeout: 5s                 # Timeout for a single PTR query
//	  nameservers:                    # Optional custom DNS servers
//	    - 1.1.1.1:53
//	    - 8.8.8.8:53
//	store:
//	  backend: badger                 # "memory" or "badger"
//	  path: /var/lib/resolvq/hosts    # On-disk location (badger only)
//
// # Basic Usage
//
// Load configuration using the default path (~/.resolvq/config.yaml):
//
//	cfg, err := config.New().Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Validation and Defaults
//
// Missing fields fall back to defaults; present fields are validated:
// the socket path must not be empty, the queue capacity must be
// positive, the DNS timeout must be at least one second, and the badger
// backend requires a store path. If no configuration file exists at
// all, Default() values are used.
//
// Once loaded, a Config should be treated as immutable.
package config
