// ABOUTME: Tests for the full-sync reconciler and account wipe.
// ABOUTME: Uses the in-memory backend with injected failures; no network.
package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/models"
	"github.com/harperreed/maestro/internal/storage"
	"github.com/harperreed/maestro/internal/store"
)

func newTestStores(t *testing.T) (*store.ContentStore, *store.GearStore, *store.FinanceStore) {
	t.Helper()
	db, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	content := store.NewContentStore(db, nil, zerolog.Nop())
	gear := store.NewGearStore(db, nil, zerolog.Nop())
	finance := store.NewFinanceStore(db, nil, zerolog.Nop())
	for _, h := range []func() error{content.Hydrate, gear.Hydrate, finance.Hydrate} {
		if err := h(); err != nil {
			t.Fatalf("hydrate: %v", err)
		}
	}
	return content, gear, finance
}

func newTestSyncer(t *testing.T, backend cloud.Backend) (*Syncer, *store.ContentStore, *store.GearStore, *store.FinanceStore) {
	t.Helper()
	content, gear, finance := newTestStores(t)
	return New(content, gear, finance, backend, zerolog.Nop()), content, gear, finance
}

func TestSyncLocalOnlySkipsNetwork(t *testing.T) {
	backend := cloud.NewInMemory()
	s, content, _, _ := newTestSyncer(t, backend)
	content.SetProfile(models.NewLocalProfile())
	content.AddBlock(*models.NewContentBlock("Scales"))

	err := s.Sync(context.Background())
	if !errors.Is(err, ErrLocalOnly) {
		t.Fatalf("expected ErrLocalOnly, got %v", err)
	}
	if got := s.Status(); got != StatusOffline {
		t.Errorf("status = %q, want %q", got, StatusOffline)
	}
	if n := backend.Calls(); n != 0 {
		t.Errorf("backend received %d calls, want 0", n)
	}
}

func TestSyncPushesLocalState(t *testing.T) {
	backend := cloud.NewInMemory()
	s, content, gear, finance := newTestSyncer(t, backend)
	content.SetProfile(models.Profile{ID: "user-1", DisplayName: "Ada"})
	content.AddBlock(*models.NewContentBlock("Scales"))
	gear.AddGearAsset(*models.NewGearAsset("Telecaster"))
	finance.AddTransaction(*models.NewTransaction(models.TxIncome, 250))

	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if got := s.Status(); got != StatusSynced {
		t.Errorf("status = %q, want %q", got, StatusSynced)
	}
	if n := backend.Count(cloud.TableBlocks); n != 1 {
		t.Errorf("remote blocks = %d, want 1", n)
	}
	if n := backend.Count(cloud.TableGearAssets); n != 1 {
		t.Errorf("remote gear assets = %d, want 1", n)
	}
	if n := backend.Count(cloud.TableTransactions); n != 1 {
		t.Errorf("remote transactions = %d, want 1", n)
	}
}

// racingBackend lands another device's edits between this device's push
// and pull phases.
type racingBackend struct {
	*cloud.InMemory
	once sync.Once
	land func(m *cloud.InMemory)
}

func (b *racingBackend) FetchAll(ctx context.Context, table string, out any) error {
	b.once.Do(func() { b.land(b.InMemory) })
	return b.InMemory.FetchAll(ctx, table, out)
}

func TestSyncRemoteWinsOnCollision(t *testing.T) {
	backend := &racingBackend{
		InMemory: cloud.NewInMemory(),
		land: func(m *cloud.InMemory) {
			m.Seed(cloud.TableBlocks,
				models.ContentBlock{ID: "b1", Title: "Scale (edited remotely)"},
				models.ContentBlock{ID: "b2", Title: "New Arpeggio"},
			)
		},
	}
	s, content, _, _ := newTestSyncer(t, backend)
	content.SetProfile(models.Profile{ID: "user-1"})
	content.AddBlock(models.ContentBlock{ID: "b1", Title: "Scale"})

	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	blocks := content.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %+v", len(blocks), blocks)
	}
	byID := map[string]string{}
	for _, b := range blocks {
		byID[b.ID] = b.Title
	}
	if byID["b1"] != "Scale (edited remotely)" {
		t.Errorf("b1 title = %q, want remote edit to win", byID["b1"])
	}
	if byID["b2"] != "New Arpeggio" {
		t.Errorf("b2 title = %q, want remote-only entity added", byID["b2"])
	}
}

func TestSyncPushFailureAbortsBeforeMerge(t *testing.T) {
	backend := cloud.NewInMemory()
	backend.FailTable = cloud.TableBlocks
	backend.Seed(cloud.TableRoutines, models.Routine{ID: "r-remote", Title: "Warmup"})

	s, content, _, _ := newTestSyncer(t, backend)
	content.SetProfile(models.Profile{ID: "user-1"})
	content.AddBlock(*models.NewContentBlock("Scales"))

	if err := s.Sync(context.Background()); err == nil {
		t.Fatal("expected push failure to abort sync")
	}
	if got := s.Status(); got != StatusOffline {
		t.Errorf("status = %q, want %q", got, StatusOffline)
	}
	if len(content.Routines()) != 0 {
		t.Error("remote routine merged despite aborted sync")
	}
}

func TestWipeRemoteFailurePreservesLocal(t *testing.T) {
	backend := cloud.NewInMemory()
	backend.FailWipe = errors.New("service unavailable")

	s, content, gear, finance := newTestSyncer(t, backend)
	content.SetProfile(models.Profile{ID: "user-1"})
	content.AddBlock(*models.NewContentBlock("Scales"))
	gear.AddGearAsset(*models.NewGearAsset("Telecaster"))
	finance.AddTransaction(*models.NewTransaction(models.TxExpense, 40))

	if err := s.WipeAllData(context.Background()); err == nil {
		t.Fatal("expected wipe to fail when remote wipe fails")
	}
	if len(content.Blocks()) != 1 || len(gear.GearAssets()) != 1 || len(finance.Transactions()) != 1 {
		t.Error("local data was cleared despite remote wipe failure")
	}
}

func TestWipeClearsLocalAndRemote(t *testing.T) {
	backend := cloud.NewInMemory()
	backend.Seed(cloud.TableBlocks, models.ContentBlock{ID: "b1", Title: "Scale"})

	s, content, gear, finance := newTestSyncer(t, backend)
	content.SetProfile(models.Profile{ID: "user-1"})
	content.AddBlock(*models.NewContentBlock("Scales"))
	gear.AddPackList(*models.NewPackList("ev-1"))
	finance.AddTransaction(*models.NewTransaction(models.TxIncome, 100))

	if err := s.WipeAllData(context.Background()); err != nil {
		t.Fatalf("wipe: %v", err)
	}
	if n := backend.Count(cloud.TableBlocks); n != 0 {
		t.Errorf("remote blocks = %d after wipe, want 0", n)
	}
	if len(content.Blocks()) != 0 || len(gear.PackLists()) != 0 || len(finance.Transactions()) != 0 {
		t.Error("local collections not cleared after wipe")
	}
	if got := s.Status(); got != StatusIdle {
		t.Errorf("status = %q, want %q", got, StatusIdle)
	}
}

func TestWipeLocalOnlySkipsRemote(t *testing.T) {
	backend := cloud.NewInMemory()
	s, content, _, _ := newTestSyncer(t, backend)
	content.SetProfile(models.NewLocalProfile())
	content.AddBlock(*models.NewContentBlock("Scales"))

	if err := s.WipeAllData(context.Background()); err != nil {
		t.Fatalf("wipe: %v", err)
	}
	if n := backend.Calls(); n != 0 {
		t.Errorf("backend received %d calls for a local-only wipe, want 0", n)
	}
	if len(content.Blocks()) != 0 {
		t.Error("local blocks not cleared")
	}
}
