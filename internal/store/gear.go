// ABOUTME: GearStore holds equipment assets and per-event pack lists,
// ABOUTME: persisted as its own blob independent of the content store.
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

type gearSnapshot struct {
	SchemaVersion int                `json:"schemaVersion"`
	GearAssets    []models.GearAsset `json:"gearAssets"`
	PackLists     []models.PackList  `json:"packLists"`
}

// GearStore is the source of truth for equipment and packing data.
type GearStore struct {
	mu       sync.Mutex
	blobs    storage.Blobs
	mirror   Mirror
	log      zerolog.Logger
	hydrated bool
	snap     gearSnapshot
}

// NewGearStore creates a gear store over the given blob storage.
func NewGearStore(blobs storage.Blobs, mirror Mirror, log zerolog.Logger) *GearStore {
	return &GearStore{
		blobs:  blobs,
		mirror: mirror,
		log:    log,
		snap:   gearSnapshot{SchemaVersion: GearSchemaVersion},
	}
}

// Hydrate loads the last persisted snapshot.
func (s *GearStore) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.blobs.Get(storage.GearKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.hydrated = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("hydrate gear store: %w", err)
	}

	migrated, err := migrateRaw(data, nil, GearSchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate gear snapshot: %w", err)
	}
	var snap gearSnapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return fmt.Errorf("decode gear snapshot: %w", err)
	}
	s.snap = snap
	s.hydrated = true
	return nil
}

// HasHydrated reports whether the persisted snapshot has been loaded.
func (s *GearStore) HasHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *GearStore) persistLocked() {
	data, err := json.Marshal(s.snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("gear: encode snapshot failed")
		return
	}
	if err := s.blobs.Set(storage.GearKey, data); err != nil {
		s.log.Warn().Err(err).Msg("gear: persist failed, state survives this session only")
	}
}

func (s *GearStore) mirrorUpsert(table string, entity any) {
	if s.mirror != nil {
		s.mirror.Upsert(table, entity)
	}
}

func (s *GearStore) mirrorDelete(table, id string) {
	if s.mirror != nil {
		s.mirror.Delete(table, id)
	}
}

// GearAssets returns a copy of the asset collection.
func (s *GearStore) GearAssets() []models.GearAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.GearAssets)
}

// GearAsset returns the asset with the given id.
func (s *GearStore) GearAsset(id string) (models.GearAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.GearAssets, id)
}

// AddGearAsset upserts an asset by id and mirrors it.
func (s *GearStore) AddGearAsset(g models.GearAsset) {
	s.mu.Lock()
	s.snap.GearAssets = upsertByID(s.snap.GearAssets, g)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableGearAssets, g)
}

// UpdateGearAsset patches an asset. Unknown ids are a silent no-op.
func (s *GearStore) UpdateGearAsset(id string, patch models.GearAssetPatch) {
	s.mu.Lock()
	g, ok := findByID(s.snap.GearAssets, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&g)
	s.snap.GearAssets = upsertByID(s.snap.GearAssets, g)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableGearAssets, g)
}

// DeleteGearAsset removes an asset and strips its checklist items from
// every pack list.
func (s *GearStore) DeleteGearAsset(id string) {
	s.mu.Lock()
	assets, found := removeByID(s.snap.GearAssets, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.GearAssets = assets

	var touched []models.PackList
	for i := range s.snap.PackLists {
		kept := s.snap.PackLists[i].Items[:0]
		stripped := false
		for _, item := range s.snap.PackLists[i].Items {
			if item.GearID == id {
				stripped = true
				continue
			}
			kept = append(kept, item)
		}
		if stripped {
			s.snap.PackLists[i].Items = kept
			touched = append(touched, s.snap.PackLists[i])
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableGearAssets, id)
	for _, pl := range touched {
		s.mirrorUpsert(cloud.TablePackLists, pl)
	}
}

// PackLists returns a copy of the pack-list collection.
func (s *GearStore) PackLists() []models.PackList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.PackLists)
}

// PackList returns the pack list with the given id.
func (s *GearStore) PackList(id string) (models.PackList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.PackLists, id)
}

// AddPackList upserts a pack list by id and mirrors it.
func (s *GearStore) AddPackList(pl models.PackList) {
	s.mu.Lock()
	s.snap.PackLists = upsertByID(s.snap.PackLists, pl)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TablePackLists, pl)
}

// UpdatePackList patches a pack list. Unknown ids are a silent no-op.
func (s *GearStore) UpdatePackList(id string, patch models.PackListPatch) {
	s.mu.Lock()
	pl, ok := findByID(s.snap.PackLists, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&pl)
	s.snap.PackLists = upsertByID(s.snap.PackLists, pl)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TablePackLists, pl)
}

// DeletePackList removes a pack list.
func (s *GearStore) DeletePackList(id string) {
	s.mu.Lock()
	lists, found := removeByID(s.snap.PackLists, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.PackLists = lists
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TablePackLists, id)
}

// RemoteGear is the pulled remote state applied by MergeRemote.
type RemoteGear struct {
	GearAssets []models.GearAsset
	PackLists  []models.PackList
}

// MergeRemote merges pulled remote collections: remote wins on id
// collision, local-only entries survive. Persists without re-mirroring.
func (s *GearStore) MergeRemote(r RemoteGear) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overwrote := 0
	var n int
	s.snap.GearAssets, n = mergeByID(s.snap.GearAssets, r.GearAssets)
	overwrote += n
	s.snap.PackLists, n = mergeByID(s.snap.PackLists, r.PackLists)
	overwrote += n
	if overwrote > 0 {
		s.log.Debug().Int("entities", overwrote).
			Msg("gear: remote copies overwrote differing local copies")
	}
	s.persistLocked()
}

// Wipe clears every collection and removes the persisted key.
func (s *GearStore) Wipe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = gearSnapshot{SchemaVersion: GearSchemaVersion}
	if err := s.blobs.Delete(storage.GearKey); err != nil {
		return fmt.Errorf("wipe gear store: %w", err)
	}
	return nil
}
