package domain

import (
	"errors"
	"time"
)

// EntryKind is the closed set of funds movements that can affect one account.
type EntryKind string

const (
	KindDeposit     EntryKind = "DEPOSIT"
	KindWithdraw    EntryKind = "WITHDRAW"
	KindTransferOut EntryKind = "TRANSFER_OUT"
	KindTransferIn  EntryKind = "TRANSFER_IN"
)

// IsTransfer reports whether the kind is one of the two transfer legs.
func (k EntryKind) IsTransfer() bool {
	return k == KindTransferOut || k == KindTransferIn
}

// EntryStatus indicates the state of a ledger entry. COMPLETED and FAILED
// are terminal.
type EntryStatus string

const (
	StatusPending   EntryStatus = "PENDING"
	StatusCompleted EntryStatus = "COMPLETED"
	StatusFailed    EntryStatus = "FAILED"
)

// LedgerEntry is one immutable record of a single funds movement affecting
// exactly one account's balance. A transfer produces two entries, one per
// account, linked by TransferID. Amounts are positive int64 minor currency
// units; the sign of the balance effect is carried by Kind.
type LedgerEntry struct {
	EntryID   string    `json:"entryID"`
	AccountID string    `json:"accountID"`
	Kind      EntryKind `json:"kind"`
	Amount    int64     `json:"amount"`
	// CounterpartID is the other account of a transfer. Set iff Kind is a
	// transfer leg.
	CounterpartID string      `json:"counterpartID,omitempty"`
	TransferID    string      `json:"transferID,omitempty"`
	Status        EntryStatus `json:"status"`
	Description   string      `json:"description,omitempty"`
	Category      string      `json:"category,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// BalanceEffect is the signed contribution of a COMPLETED entry to its
// account's balance, in minor units.
func (e LedgerEntry) BalanceEffect() int64 {
	switch e.Kind {
	case KindDeposit, KindTransferIn:
		return e.Amount
	case KindWithdraw, KindTransferOut:
		return -e.Amount
	}
	return 0
}

// Validate enforces the structural invariants of an entry: a positive
// amount, a known kind, and counterpart/transfer fields set if and only if
// the kind is a transfer leg.
func (e LedgerEntry) Validate() error {
	if e.EntryID == "" {
		return errors.New("entry ID is required")
	}
	if e.AccountID == "" {
		return errors.New("account ID is required")
	}
	if e.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	switch e.Kind {
	case KindDeposit, KindWithdraw:
		if e.CounterpartID != "" || e.TransferID != "" {
			return errors.New("counterpart fields are only valid for transfer entries")
		}
	case KindTransferOut, KindTransferIn:
		if e.CounterpartID == "" {
			return errors.New("counterpart account ID is required for transfer entries")
		}
		if e.CounterpartID == e.AccountID {
			return errors.New("counterpart account must differ from the owning account")
		}
		if e.TransferID == "" {
			return errors.New("transfer ID is required for transfer entries")
		}
	default:
		return errors.New("unknown entry kind")
	}
	switch e.Status {
	case StatusPending, StatusCompleted, StatusFailed:
	default:
		return errors.New("unknown entry status")
	}
	return nil
}
