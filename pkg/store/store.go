// Package store provides byte-addressed persistence backends for render
// artifacts.
//
// A Store maps string keys (typically content fingerprints) to opaque byte
// payloads with optional expiration. Implementations cover the deployment
// spectrum:
//   - memory: In-process storage for tests and single-shot runs
//   - file: Filesystem storage for CLI usage
//   - sqlite: Single-file durable storage for small deployments
//   - redis: Shared low-latency storage for multi-instance deployments
//   - mongo: Durable document storage for large artifact volumes
//   - null: Discards everything; disables persistence
//
// # Semantics
//
// Get reports a miss, not an error, for absent, expired, and corrupt
// entries. Set with a positive TTL bounds the entry's lifetime; zero TTL
// stores it until deleted. Delete of an absent key is a no-op. All
// implementations are safe for concurrent use.
//
// # Usage
//
// Open a store from configuration:
//
//	s, err := store.Open(ctx, store.Config{
//	    Backend: store.BackendFile,
//	    Path:    "/var/cache/clipper",
//	})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.Set(ctx, fingerprint, artifact, 24*time.Hour)
//	data, hit, err := s.Get(ctx, fingerprint)
//
// Backends that can enumerate their contents additionally implement
// Lister, which the CLI uses to browse cached artifacts.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotSupported is returned for optional operations a backend does not
// implement, such as listing keys.
var ErrNotSupported = errors.New("operation not supported")

// Store is the interface for artifact storage backends.
type Store interface {
	// Get retrieves the payload stored under key.
	// The boolean reports whether the key was found; absent, expired,
	// and corrupt entries are misses, not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A positive ttl bounds the entry's
	// lifetime; zero or negative ttl stores it until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Lister is an optional capability for stores that can enumerate their
// keys. Keys returns live (non-expired) keys in lexicographic order.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Supported backend names for Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNull   = "null"
)

// Config selects and parameterizes a storage backend.
type Config struct {
	Backend  string // one of the Backend* constants; empty selects null
	Path     string // file: cache directory; sqlite: database file
	URL      string // redis: redis://host:port/db; mongo: mongodb://host:port
	Database string // mongo: database name (defaults to "clipper")
	Prefix   string // optional namespace prepended to every key
}

// Open constructs the store described by cfg. Network-backed stores are
// dialed and pinged before returning. If cfg.Prefix is set the store is
// wrapped so every key is namespaced under it.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		s, err = NewSQLiteStore(cfg.Path)
	case BackendRedis:
		s, err = dialRedis(ctx, cfg.URL)
	case BackendMongo:
		s, err = dialMongo(ctx, cfg.URL, cfg.Database)
	case BackendNull, "":
		s = NewNullStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Prefix != "" {
		s = NewPrefixStore(s, cfg.Prefix)
	}
	return s, nil
}
