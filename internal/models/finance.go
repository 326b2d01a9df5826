// ABOUTME: Transaction ledger model for gig income and expenses.
// ABOUTME: Optionally linked to an AppEvent by id, unenforced.
package models

import "time"

// TransactionKind is the direction of a ledger entry.
type TransactionKind string

const (
	TxIncome  TransactionKind = "income"
	TxExpense TransactionKind = "expense"
)

// IsValidTransactionKind checks if a string is a valid transaction kind.
func IsValidTransactionKind(s string) bool {
	return TransactionKind(s) == TxIncome || TransactionKind(s) == TxExpense
}

// Transaction is one financial ledger entry.
type Transaction struct {
	ID         string          `json:"id"`
	Kind       TransactionKind `json:"kind"`
	Amount     float64         `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	EventID    *string         `json:"eventId,omitempty"`
	Memo       string          `json:"memo,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
	CreatedAt  time.Time       `json:"createdAt"`
	DeletedAt  *time.Time      `json:"deletedAt,omitempty"`
}

func (t Transaction) EntityID() string { return t.ID }

// NewTransaction creates a ledger entry dated now.
func NewTransaction(kind TransactionKind, amount float64) *Transaction {
	now := Now()
	return &Transaction{
		ID:         NewID(),
		Kind:       kind,
		Amount:     amount,
		Currency:   "USD",
		OccurredAt: now,
		CreatedAt:  now,
	}
}

// WithEvent links the entry to an event id.
func (t *Transaction) WithEvent(eventID string) *Transaction {
	t.EventID = &eventID
	return t
}

// WithMemo sets a free-form memo.
func (t *Transaction) WithMemo(memo string) *Transaction {
	t.Memo = memo
	return t
}

// TransactionPatch is a partial update for a Transaction.
type TransactionPatch struct {
	Kind       *TransactionKind
	Amount     *float64
	Currency   *string
	EventID    *string
	Memo       *string
	OccurredAt *time.Time
}

// Apply shallow-merges the patch over the transaction.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.EventID != nil {
		t.EventID = p.EventID
	}
	if p.Memo != nil {
		t.Memo = *p.Memo
	}
	if p.OccurredAt != nil {
		t.OccurredAt = *p.OccurredAt
	}
}
