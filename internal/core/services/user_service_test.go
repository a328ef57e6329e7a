package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/core/domain"
	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/core/services"
	"github.com/finvault/ebank/internal/platform/config"
	"github.com/finvault/ebank/internal/repositories/memory"
)

type UserServiceTestSuite struct {
	suite.Suite
	store     *memory.Store
	container *portssvc.ServiceContainer
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	cfg := &config.Config{LockTimeout: time.Second}
	repos := portsrepo.RepositoryProvider{
		AccountRepo: suite.store,
		LedgerRepo:  suite.store,
		UserRepo:    suite.store,
	}
	suite.container = services.NewServiceContainer(cfg, repos, nil)
}

func (suite *UserServiceTestSuite) TestRegisterUser_CreatesUserAndAccount() {
	ctx := context.Background()

	user, err := suite.container.User.RegisterUser(ctx, "Alice", "Alice@Example.COM", "s3cret99")

	suite.Require().NoError(err)
	suite.Equal("alice@example.com", user.Email)
	suite.Equal(domain.RoleUser, user.Role)
	suite.NotEqual("s3cret99", user.PasswordHash)

	account, err := suite.container.Account.GetAccountForOwner(ctx, user.UserID)
	suite.Require().NoError(err)
	suite.Equal(int64(0), account.Balance)
	suite.True(account.IsActive)
	suite.Equal(services.DefaultCurrencyCode, account.CurrencyCode)
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()

	_, err := suite.container.User.RegisterUser(ctx, "Alice", "alice@example.com", "s3cret99")
	suite.Require().NoError(err)

	_, err = suite.container.User.RegisterUser(ctx, "Other Alice", "ALICE@example.com", "different1")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestRegisterUser_Validation() {
	ctx := context.Background()

	_, err := suite.container.User.RegisterUser(ctx, "", "alice@example.com", "s3cret99")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.container.User.RegisterUser(ctx, "Alice", "", "s3cret99")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.container.User.RegisterUser(ctx, "Alice", "alice@example.com", "short")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	ctx := context.Background()
	_, err := suite.container.User.RegisterUser(ctx, "Bob", "bob@example.com", "hunter22")
	suite.Require().NoError(err)

	user, err := suite.container.User.AuthenticateUser(ctx, "Bob@Example.com", "hunter22")
	suite.Require().NoError(err)
	suite.Equal("bob@example.com", user.Email)

	_, err = suite.container.User.AuthenticateUser(ctx, "bob@example.com", "wrongpass")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.container.User.AuthenticateUser(ctx, "nobody@example.com", "hunter22")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestGetUserByEmail() {
	ctx := context.Background()
	registered, err := suite.container.User.RegisterUser(ctx, "Carol", "carol@example.com", "s3cret99")
	suite.Require().NoError(err)

	user, err := suite.container.User.GetUserByEmail(ctx, "  CAROL@example.com ")
	suite.Require().NoError(err)
	suite.Equal(registered.UserID, user.UserID)

	_, err = suite.container.User.GetUserByEmail(ctx, "missing@example.com")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
