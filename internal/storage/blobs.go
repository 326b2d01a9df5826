// ABOUTME: Badger-backed blob storage for persisted store snapshots.
// ABOUTME: One serialized JSON blob per store under a fixed key.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
)

// Storage keys for the three persisted store blobs.
const (
	ContentKey = "maestro-content-storage"
	GearKey    = "maestro-gear-storage"
	FinanceKey = "finance-storage"
)

// ErrNotFound is returned when a blob key has never been written.
var ErrNotFound = errors.New("blob not found")

// Blobs is the on-device key-value storage consumed by the stores.
// Implementations must tolerate concurrent readers; the stores
// serialize writes themselves.
type Blobs interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// DB wraps a Badger database holding the persisted snapshots.
type DB struct {
	db *badger.DB
}

// Open opens or creates the blob database at the given directory.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open blob database: %w", err)
	}
	return &DB{db: db}, nil
}

// OpenDefault opens the database at the default XDG data path.
func OpenDefault() (*DB, error) {
	return Open(DataDir())
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "maestro")
}

// Get returns the blob stored under key, or ErrNotFound.
func (d *DB) Get(key string) ([]byte, error) {
	var val []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

// Set writes the blob under key, replacing any previous value.
func (d *DB) Set(key string, value []byte) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes the key entirely. Removing instead of overwriting
// with empty state avoids stale-schema residue after a wipe.
func (d *DB) Delete(key string) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}
