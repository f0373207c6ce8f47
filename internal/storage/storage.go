// Package storage persists JSON documents under string keys in a local
// key-value file and revives them into typed values on read.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by KV.Get when the key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrUnavailable is returned by Value.Set when no KV backs the value.
	ErrUnavailable = errors.New("storage unavailable")
)

// KV is the raw key-value store behind Value.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Open returns the KV backend named by backend ("sqlite" or "bolt").
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", "sqlite":
		return OpenSQLite(path)
	case "bolt":
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
