// ABOUTME: Tests for the Badger-backed blob storage.
// ABOUTME: Verifies get/set/delete round-trips and missing-key behavior.
package storage

import (
	"bytes"
	"errors"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetAndGet(t *testing.T) {
	db := setupTestDB(t)

	want := []byte(`{"schemaVersion":3,"blocks":[]}`)
	if err := db.Set(ContentKey, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := db.Get(ContentKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get returned %s, want %s", got, want)
	}
}

func TestGetMissingKey(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Get("never-written")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Set(GearKey, []byte("one")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := db.Set(GearKey, []byte("two")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := db.Get(GearKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Get returned %s, want two", got)
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Set(FinanceKey, []byte("ledger")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := db.Delete(FinanceKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := db.Get(FinanceKey)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Delete("never-written"); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}
}
