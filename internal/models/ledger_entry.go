package models

import (
	"database/sql"
	"time"
)

// LedgerEntry is the database representation of one ledger entry row.
// Counterpart and transfer columns are nullable: they are populated only
// for transfer legs.
type LedgerEntry struct {
	EntryID       string         `db:"entry_id"`
	AccountID     string         `db:"account_id"`
	Kind          string         `db:"kind"`
	Amount        int64          `db:"amount"`
	CounterpartID sql.NullString `db:"counterpart_id"`
	TransferID    sql.NullString `db:"transfer_id"`
	Status        string         `db:"status"`
	Description   string         `db:"description"`
	Category      string         `db:"category"`
	CreatedAt     time.Time      `db:"created_at"`
}
