package services

import (
	"context"

	"github.com/finvault/ebank/internal/core/domain"
)

// UserSvcFacade manages user identities for the auth and admin surfaces.
type UserSvcFacade interface {
	// RegisterUser creates a user with a bcrypt-hashed password and a fresh
	// zero-balance account. Fails with apperrors.ErrDuplicate on a taken email.
	RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error)

	// AuthenticateUser verifies email+password, returning
	// apperrors.ErrUnauthorized on any mismatch.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}
