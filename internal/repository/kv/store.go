package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oshokin/alarm-clock/internal/config"
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Driver names accepted by Open.
const (
	DriverFile     = config.StorageDriverFile
	DriverSQLite   = config.StorageDriverSQLite
	DriverPostgres = config.StorageDriverPostgres
	DriverMemory   = config.StorageDriverMemory
)

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Options selects and configures a storage backend.
type Options struct {
	// Driver is one of the Driver* constants.
	Driver string
	// Path is the file location for the file and sqlite drivers.
	Path string
	// DSN is the connection string for the postgres driver.
	DSN string
}

// Open builds the Store described by opts. The returned close function
// releases backend resources and is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case DriverFile, "":
		return NewFile(opts.Path), noop, nil
	case DriverMemory:
		return NewMemory(), noop, nil
	case DriverSQLite:
		store, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, noop, err
		}

		return store, store.Close, nil
	case DriverPostgres:
		store, err := OpenPostgres(ctx, opts.DSN)
		if err != nil {
			return nil, noop, err
		}

		return store, func() error {
			store.Close()
			return nil
		}, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// Memory keeps values in a map. It is safe for concurrent use.
type Memory struct {
	// values holds the stored entries.
	values map[string]string
	// mu protects values.
	mu sync.RWMutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}
