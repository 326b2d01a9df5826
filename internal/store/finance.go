// ABOUTME: FinanceStore holds the transaction ledger in its own blob.
// ABOUTME: Soft-deleted entries keep their row with a DeletedAt stamp.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/models"
	"github.com/harperreed/maestro/internal/storage"
)

type financeSnapshot struct {
	SchemaVersion int                  `json:"schemaVersion"`
	Transactions  []models.Transaction `json:"transactions"`
}

// FinanceStore is the source of truth for the financial ledger.
type FinanceStore struct {
	mu       sync.Mutex
	blobs    storage.Blobs
	mirror   Mirror
	log      zerolog.Logger
	hydrated bool
	snap     financeSnapshot
}

// NewFinanceStore creates a finance store over the given blob storage.
func NewFinanceStore(blobs storage.Blobs, mirror Mirror, log zerolog.Logger) *FinanceStore {
	return &FinanceStore{
		blobs:  blobs,
		mirror: mirror,
		log:    log,
		snap:   financeSnapshot{SchemaVersion: FinanceSchemaVersion},
	}
}

// Hydrate loads the last persisted snapshot.
func (s *FinanceStore) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.blobs.Get(storage.FinanceKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.hydrated = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("hydrate finance store: %w", err)
	}

	migrated, err := migrateRaw(data, nil, FinanceSchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate finance snapshot: %w", err)
	}
	var snap financeSnapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return fmt.Errorf("decode finance snapshot: %w", err)
	}
	s.snap = snap
	s.hydrated = true
	return nil
}

// HasHydrated reports whether the persisted snapshot has been loaded.
func (s *FinanceStore) HasHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *FinanceStore) persistLocked() {
	data, err := json.Marshal(s.snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("finance: encode snapshot failed")
		return
	}
	if err := s.blobs.Set(storage.FinanceKey, data); err != nil {
		s.log.Warn().Err(err).Msg("finance: persist failed, state survives this session only")
	}
}

// Transactions returns a copy of the ledger.
func (s *FinanceStore) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Transactions)
}

// Transaction returns the ledger entry with the given id.
func (s *FinanceStore) Transaction(id string) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.Transactions, id)
}

// AddTransaction upserts an entry by id and mirrors it.
func (s *FinanceStore) AddTransaction(t models.Transaction) {
	s.mu.Lock()
	s.snap.Transactions = upsertByID(s.snap.Transactions, t)
	s.persistLocked()
	s.mu.Unlock()

	if s.mirror != nil {
		s.mirror.Upsert(cloud.TableTransactions, t)
	}
}

// UpdateTransaction patches an entry. Unknown ids are a silent no-op.
func (s *FinanceStore) UpdateTransaction(id string, patch models.TransactionPatch) {
	s.mu.Lock()
	t, ok := findByID(s.snap.Transactions, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&t)
	s.snap.Transactions = upsertByID(s.snap.Transactions, t)
	s.persistLocked()
	s.mu.Unlock()

	if s.mirror != nil {
		s.mirror.Upsert(cloud.TableTransactions, t)
	}
}

// VoidTransaction soft-deletes an entry: the row stays in the ledger
// with a DeletedAt stamp and mirrors as an upsert.
func (s *FinanceStore) VoidTransaction(id string) {
	s.mu.Lock()
	t, ok := findByID(s.snap.Transactions, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	now := models.Now()
	t.DeletedAt = &now
	s.snap.Transactions = upsertByID(s.snap.Transactions, t)
	s.persistLocked()
	s.mu.Unlock()

	if s.mirror != nil {
		s.mirror.Upsert(cloud.TableTransactions, t)
	}
}

// DeleteTransaction removes an entry outright.
func (s *FinanceStore) DeleteTransaction(id string) {
	s.mu.Lock()
	txs, found := removeByID(s.snap.Transactions, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.Transactions = txs
	s.persistLocked()
	s.mu.Unlock()

	if s.mirror != nil {
		s.mirror.Delete(cloud.TableTransactions, id)
	}
}

// MergeRemote merges the pulled remote ledger: remote wins on id
// collision, local-only entries survive. Persists without re-mirroring.
func (s *FinanceStore) MergeRemote(remote []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, overwrote := mergeByID(s.snap.Transactions, remote)
	s.snap.Transactions = merged
	if overwrote > 0 {
		s.log.Debug().Int("entities", overwrote).
			Msg("finance: remote copies overwrote differing local copies")
	}
	s.persistLocked()
}

// Wipe clears the ledger and removes the persisted key.
func (s *FinanceStore) Wipe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = financeSnapshot{SchemaVersion: FinanceSchemaVersion}
	if err := s.blobs.Delete(storage.FinanceKey); err != nil {
		return fmt.Errorf("wipe finance store: %w", err)
	}
	return nil
}
