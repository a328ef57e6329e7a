package domain

// Account holds the spendable balance for exactly one user. The balance is
// the single source of truth for spendable funds and is kept in int64 minor
// currency units; it never goes negative. History lives in standalone
// LedgerEntry records referencing the account, not embedded here.
type Account struct {
	AccountID    string `json:"accountID"`
	OwnerID      string `json:"ownerID"`
	Balance      int64  `json:"balance"`
	CurrencyCode string `json:"currencyCode"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
