package services

import (
	"context"

	"github.com/finvault/ebank/internal/core/domain"
)

// AccountSvcFacade manages account lifecycle. Accounts are created once per
// user at registration and only ever deactivated, never deleted.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, ownerID, currencyCode string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountForOwner(ctx context.Context, ownerID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
}
