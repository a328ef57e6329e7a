package models

import "time"

// Account is the database representation of a user's account row.
type Account struct {
	AccountID     string    `db:"account_id"`
	OwnerID       string    `db:"owner_id"`
	Balance       int64     `db:"balance"`
	CurrencyCode  string    `db:"currency_code"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
