package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/core/services"
	"github.com/finvault/ebank/internal/dto"
	"github.com/finvault/ebank/internal/handlers"
	"github.com/finvault/ebank/internal/platform/config"
	"github.com/finvault/ebank/internal/repositories/memory"
)

// TransactionFlowTestSuite exercises the HTTP surface end to end against
// the in-memory store: real router, real auth middleware, real engine.
type TransactionFlowTestSuite struct {
	suite.Suite
	router    *gin.Engine
	container *portssvc.ServiceContainer
}

func (suite *TransactionFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:              "0",
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ebank-test",
		LockTimeout:       2 * time.Second,
		AuthRateLimit:     "100-M",
	}

	store := memory.NewStore()
	repos := portsrepo.RepositoryProvider{AccountRepo: store, LedgerRepo: store, UserRepo: store}
	suite.container = services.NewServiceContainer(cfg, repos, nil)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, suite.container)
}

func (suite *TransactionFlowTestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// registerUser creates a user through the public endpoint and returns the
// session token.
func (suite *TransactionFlowTestSuite) registerUser(name, email string) string {
	w := suite.request(http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "s3cret99",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (suite *TransactionFlowTestSuite) deposit(token string, amount string) *httptest.ResponseRecorder {
	return suite.request(http.MethodPost, "/api/v1/transactions/deposit", token, dto.MovementRequest{
		Amount: decimal.RequireFromString(amount),
	})
}

// --- Test Cases ---

func (suite *TransactionFlowTestSuite) TestRegisterAndLogin() {
	suite.registerUser("Alice", "alice@example.com")

	w := suite.request(http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret99",
	})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrongpass",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionFlowTestSuite) TestRegister_DuplicateEmail() {
	suite.registerUser("Alice", "alice@example.com")

	w := suite.request(http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		Name:     "Other Alice",
		Email:    "alice@example.com",
		Password: "different1",
	})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionFlowTestSuite) TestDeposit_RequiresAuth() {
	w := suite.deposit("", "100")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionFlowTestSuite) TestDepositAndBalance() {
	token := suite.registerUser("Alice", "alice@example.com")

	w := suite.deposit(token, "150.25")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.MovementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(decimal.RequireFromString("150.25").Equal(resp.NewBalance), "got %s", resp.NewBalance)
	suite.Equal("DEPOSIT", string(resp.Entry.Kind))

	w = suite.request(http.MethodGet, "/api/v1/accounts/balance", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var balance dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &balance))
	suite.True(decimal.RequireFromString("150.25").Equal(balance.Balance))
}

func (suite *TransactionFlowTestSuite) TestDeposit_InvalidAmount() {
	token := suite.registerUser("Alice", "alice@example.com")

	w := suite.request(http.MethodPost, "/api/v1/transactions/deposit", token, map[string]any{
		"amount": "-5",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// Sub-cent precision is rejected at the conversion boundary.
	w = suite.request(http.MethodPost, "/api/v1/transactions/deposit", token, map[string]any{
		"amount": "1.005",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionFlowTestSuite) TestWithdraw_InsufficientFunds() {
	token := suite.registerUser("Alice", "alice@example.com")
	suite.deposit(token, "100")

	w := suite.request(http.MethodPost, "/api/v1/transactions/withdraw", token, dto.MovementRequest{
		Amount: decimal.RequireFromString("100.01"),
	})
	suite.Equal(http.StatusConflict, w.Code)

	// The failed withdrawal left the balance untouched.
	w = suite.request(http.MethodGet, "/api/v1/accounts/balance", token, nil)
	var balance dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &balance))
	suite.True(decimal.RequireFromString("100").Equal(balance.Balance))
}

func (suite *TransactionFlowTestSuite) TestTransferByEmail() {
	aliceToken := suite.registerUser("Alice", "alice@example.com")
	bobToken := suite.registerUser("Bob", "bob@example.com")
	suite.deposit(aliceToken, "500")

	w := suite.request(http.MethodPost, "/api/v1/transactions/transfer", aliceToken, dto.TransferRequest{
		Amount:        decimal.RequireFromString("120.50"),
		ReceiverEmail: "bob@example.com",
		Description:   "concert tickets",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(decimal.RequireFromString("379.50").Equal(resp.SenderBalance))
	suite.True(decimal.RequireFromString("120.50").Equal(resp.ReceiverBalance))
	suite.Require().Len(resp.Entries, 2)
	suite.Equal(resp.Entries[0].TransferID, resp.Entries[1].TransferID)

	w = suite.request(http.MethodGet, "/api/v1/accounts/balance", bobToken, nil)
	var balance dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &balance))
	suite.True(decimal.RequireFromString("120.50").Equal(balance.Balance))
}

func (suite *TransactionFlowTestSuite) TestTransfer_SelfAndUnknownReceiver() {
	token := suite.registerUser("Alice", "alice@example.com")
	suite.deposit(token, "100")

	w := suite.request(http.MethodPost, "/api/v1/transactions/transfer", token, dto.TransferRequest{
		Amount:        decimal.RequireFromString("10"),
		ReceiverEmail: "alice@example.com",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/transactions/transfer", token, dto.TransferRequest{
		Amount:        decimal.RequireFromString("10"),
		ReceiverEmail: "nobody@example.com",
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionFlowTestSuite) TestHistoryAndSummary() {
	token := suite.registerUser("Alice", "alice@example.com")
	suite.deposit(token, "300")
	suite.deposit(token, "200")
	suite.request(http.MethodPost, "/api/v1/transactions/withdraw", token, dto.MovementRequest{
		Amount: decimal.RequireFromString("50"),
	})

	w := suite.request(http.MethodGet, "/api/v1/transactions/history?limit=10", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var history dto.HistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	suite.Require().Len(history.Entries, 3)
	suite.Equal("WITHDRAW", string(history.Entries[0].Kind))

	w = suite.request(http.MethodGet, "/api/v1/accounts/summary", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var summary dto.SummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &summary))
	suite.True(decimal.RequireFromString("500").Equal(summary.TotalDeposits))
	suite.True(decimal.RequireFromString("50").Equal(summary.TotalWithdrawals))
}

func (suite *TransactionFlowTestSuite) TestHistory_HalfOpenDateRangeRejected() {
	token := suite.registerUser("Alice", "alice@example.com")

	w := suite.request(http.MethodGet, "/api/v1/transactions/history?startDate=2026-01-01T00:00:00Z", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionFlowTestSuite) TestDeactivateBlocksFurtherMovements() {
	token := suite.registerUser("Alice", "alice@example.com")
	suite.deposit(token, "100")

	w := suite.request(http.MethodDelete, "/api/v1/accounts/me", token, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.deposit(token, "10")
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TransactionFlowTestSuite) TestAdminRoutesForbiddenForUsers() {
	token := suite.registerUser("Alice", "alice@example.com")

	w := suite.request(http.MethodGet, "/api/v1/admin/users", token, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/admin/transactions", token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TransactionFlowTestSuite) TestGetMe() {
	token := suite.registerUser("Alice", "alice@example.com")

	w := suite.request(http.MethodGet, "/api/v1/users/me", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	suite.Equal("alice@example.com", user.Email)
	suite.Equal("USER", string(user.Role))
}

func TestTransactionFlowTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionFlowTestSuite))
}
