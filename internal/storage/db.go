// Package storage provides the key-value stores backing the keystore.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("key not found")

// Backend names a DB implementation selectable from configuration.
type Backend string

const (
	BackendBadger Backend = "badger"
	BackendMemory Backend = "memory"
)

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix in key order.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// ParseBackend resolves a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendBadger, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (want badger or memory)", s)
	}
}

// Open opens a DB of the given backend. dir is ignored for the memory backend.
func Open(backend Backend, dir string) (DB, error) {
	switch backend {
	case BackendBadger:
		if dir == "" {
			return nil, errors.New("badger backend requires a directory")
		}
		return NewBadger(dir)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
