package store

import (
	"context"
	"strings"
	"time"
)

// PrefixStore wraps a Store with a key prefix for namespace isolation.
// This is useful when several deployments or cache generations share one
// backend and need separate keyspaces.
//
// Example usage:
//
//	// Keys written as "staging:<fingerprint>"
//	staging := NewPrefixStore(inner, "staging:")
type PrefixStore struct {
	inner  Store
	prefix string
}

// NewPrefixStore wraps inner so every key is namespaced under prefix.
// An empty prefix returns inner unchanged.
func NewPrefixStore(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &PrefixStore{inner: inner, prefix: prefix}
}

// Get retrieves the payload stored under the prefixed key.
func (s *PrefixStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores data under the prefixed key.
func (s *PrefixStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes the entry for the prefixed key.
func (s *PrefixStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Keys lists the inner store's keys within this namespace, with the
// prefix stripped. Returns ErrNotSupported if the inner store cannot
// enumerate keys.
func (s *PrefixStore) Keys(ctx context.Context) ([]string, error) {
	l, ok := s.inner.(Lister)
	if !ok {
		return nil, ErrNotSupported
	}
	all, err := l.Keys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for _, key := range all {
		if strings.HasPrefix(key, s.prefix) {
			keys = append(keys, strings.TrimPrefix(key, s.prefix))
		}
	}
	return keys, nil
}

// Close closes the inner store.
func (s *PrefixStore) Close() error {
	return s.inner.Close()
}

// Ensure PrefixStore implements Store and Lister.
var (
	_ Store  = (*PrefixStore)(nil)
	_ Lister = (*PrefixStore)(nil)
)
