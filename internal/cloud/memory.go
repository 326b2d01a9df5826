// ABOUTME: In-memory Backend implementation for tests and offline work.
// ABOUTME: Stores rows as JSON keyed by table and id, with failure injection.
package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/harperreed/maestro/internal/models"
)

// InMemory is a Backend holding rows in process memory. Tests use it
// to exercise the mirror and reconciler without a SurrealDB instance;
// failure fields inject errors on specific operations.
type InMemory struct {
	mu      sync.Mutex
	tables  map[string]map[string]json.RawMessage
	profile *models.Profile
	calls   int

	// FailTable makes UpsertAll fail for the named table.
	FailTable string
	// FailUpsert makes every single-entity Upsert fail.
	FailUpsert error
	// FailWipe makes DeleteAllUserData fail.
	FailWipe error
}

var _ Backend = (*InMemory)(nil)

// NewInMemory creates an empty in-memory backend.
func NewInMemory() *InMemory {
	return &InMemory{tables: map[string]map[string]json.RawMessage{}}
}

// Calls returns how many backend operations have been invoked.
func (m *InMemory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Seed stores entities in a table without counting as calls.
func (m *InMemory) Seed(table string, entities ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entities {
		m.putLocked(table, e)
	}
}

// SeedProfile sets the remote profile row.
func (m *InMemory) SeedProfile(p models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = &p
}

// Rows returns the decoded rows of a table into out (pointer to slice).
func (m *InMemory) Rows(table string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rowsLocked(table, out)
}

// Count returns how many rows a table holds.
func (m *InMemory) Count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

func (m *InMemory) putLocked(table string, entity any) {
	data, err := json.Marshal(entity)
	if err != nil {
		return
	}
	var row struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &row); err != nil || row.ID == "" {
		return
	}
	if m.tables[table] == nil {
		m.tables[table] = map[string]json.RawMessage{}
	}
	m.tables[table][row.ID] = data
}

func (m *InMemory) rowsLocked(table string, out any) error {
	rows := make([]json.RawMessage, 0, len(m.tables[table]))
	for _, data := range m.tables[table] {
		rows = append(rows, data)
	}
	blob, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(blob, out)
}

// Upsert implements Backend.Upsert.
func (m *InMemory) Upsert(ctx context.Context, table string, entity any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.FailUpsert != nil {
		return m.FailUpsert
	}
	m.putLocked(table, entity)
	return nil
}

// Delete implements Backend.Delete.
func (m *InMemory) Delete(ctx context.Context, table, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	delete(m.tables[table], id)
	return nil
}

// UpsertAll implements Backend.UpsertAll.
func (m *InMemory) UpsertAll(ctx context.Context, table string, entities any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.FailTable == table {
		return fmt.Errorf("push %s: injected failure", table)
	}

	data, err := json.Marshal(entities)
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		var r struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(row, &r); err != nil || r.ID == "" {
			continue
		}
		if m.tables[table] == nil {
			m.tables[table] = map[string]json.RawMessage{}
		}
		m.tables[table][r.ID] = row
	}
	return nil
}

// FetchAll implements Backend.FetchAll.
func (m *InMemory) FetchAll(ctx context.Context, table string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.rowsLocked(table, out)
}

// FetchProfile implements Backend.FetchProfile.
func (m *InMemory) FetchProfile(ctx context.Context) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.profile == nil {
		return nil, nil
	}
	p := *m.profile
	return &p, nil
}

// UpsertProfile implements Backend.UpsertProfile.
func (m *InMemory) UpsertProfile(ctx context.Context, p models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.profile = &p
	return nil
}

// DeleteAllUserData implements Backend.DeleteAllUserData.
func (m *InMemory) DeleteAllUserData(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.FailWipe != nil {
		return m.FailWipe
	}
	m.tables = map[string]map[string]json.RawMessage{}
	m.profile = nil
	return nil
}
