// ABOUTME: Tests for FinanceStore ledger operations.
// ABOUTME: Covers void (soft delete), hard delete, and remote merge.
package store

import (
	"testing"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/models"
)

func newTestFinanceStore(t *testing.T) (*FinanceStore, *recordingMirror) {
	t.Helper()
	mirror := &recordingMirror{}
	s := NewFinanceStore(newMemBlobs(), mirror, nopLogger())
	if err := s.Hydrate(); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	return s, mirror
}

func TestAddTransactionMirrors(t *testing.T) {
	s, mirror := newTestFinanceStore(t)

	tx := models.NewTransaction(models.TxIncome, 350).WithMemo("Friday gig")
	s.AddTransaction(*tx)

	calls := mirror.Calls()
	if len(calls) != 1 || calls[0].Table != cloud.TableTransactions || calls[0].Op != "upsert" {
		t.Errorf("unexpected mirror calls: %+v", calls)
	}
}

func TestVoidTransactionKeepsRow(t *testing.T) {
	s, mirror := newTestFinanceStore(t)

	tx := *models.NewTransaction(models.TxExpense, 45.50)
	s.AddTransaction(tx)
	s.VoidTransaction(tx.ID)

	got, ok := s.Transaction(tx.ID)
	if !ok {
		t.Fatalf("voided transaction removed from ledger")
	}
	if got.DeletedAt == nil {
		t.Errorf("DeletedAt not set on void")
	}

	// Void mirrors as an upsert, not a delete.
	calls := mirror.Calls()
	if len(calls) != 2 || calls[1].Op != "upsert" {
		t.Errorf("void should mirror as upsert: %+v", calls)
	}
}

func TestDeleteTransactionRemovesRow(t *testing.T) {
	s, mirror := newTestFinanceStore(t)

	tx := *models.NewTransaction(models.TxIncome, 200)
	s.AddTransaction(tx)
	s.DeleteTransaction(tx.ID)

	if _, ok := s.Transaction(tx.ID); ok {
		t.Errorf("transaction still present after delete")
	}
	calls := mirror.Calls()
	if len(calls) != 2 || calls[1].Op != "delete" {
		t.Errorf("delete should mirror as delete: %+v", calls)
	}
}

func TestFinanceMergeRemoteWinsAndKeepsLocalOnly(t *testing.T) {
	s, _ := newTestFinanceStore(t)

	shared := models.Transaction{ID: "t1", Kind: models.TxIncome, Amount: 100, OccurredAt: models.Now(), CreatedAt: models.Now()}
	localOnly := models.Transaction{ID: "t2", Kind: models.TxExpense, Amount: 20, OccurredAt: models.Now(), CreatedAt: models.Now()}
	s.AddTransaction(shared)
	s.AddTransaction(localOnly)

	remote := shared
	remote.Amount = 150
	s.MergeRemote([]models.Transaction{remote})

	got, _ := s.Transaction("t1")
	if got.Amount != 150 {
		t.Errorf("remote amount did not win: %v", got.Amount)
	}
	if _, ok := s.Transaction("t2"); !ok {
		t.Errorf("local-only transaction lost in merge")
	}
}
