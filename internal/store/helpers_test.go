// ABOUTME: Shared test helpers for the store package.
// ABOUTME: In-memory Blobs and a recording Mirror fake.
package store

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harperreed/maestro/internal/storage"
)

// memBlobs is an in-memory Blobs implementation. FailWrites makes
// every Set fail, to exercise the swallowed-persist-failure path.
type memBlobs struct {
	mu         sync.Mutex
	data       map[string][]byte
	FailWrites bool
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: map[string][]byte{}}
}

func (m *memBlobs) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return val, nil
}

func (m *memBlobs) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errors.New("disk full")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memBlobs) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memBlobs) Close() error { return nil }

func (m *memBlobs) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// mirrorCall records one replication call made by a store.
type mirrorCall struct {
	Op    string // "upsert" or "delete"
	Table string
	ID    string
}

// recordingMirror captures mirror calls for assertions.
type recordingMirror struct {
	mu    sync.Mutex
	calls []mirrorCall
}

func (r *recordingMirror) Upsert(table string, entity any) {
	id := ""
	if e, ok := entity.(interface{ EntityID() string }); ok {
		id = e.EntityID()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, mirrorCall{Op: "upsert", Table: table, ID: id})
}

func (r *recordingMirror) Delete(table, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, mirrorCall{Op: "delete", Table: table, ID: id})
}

func (r *recordingMirror) Calls() []mirrorCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mirrorCall(nil), r.calls...)
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }
