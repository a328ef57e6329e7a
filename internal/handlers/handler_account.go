package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ebank/internal/core/domain"
	"github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/dto"
	"github.com/finvault/ebank/internal/middleware"
	"github.com/finvault/ebank/internal/utils"
)

// AccountHandler handles account state requests for the authenticated owner.
type AccountHandler struct {
	accountService services.AccountSvcFacade
	historyService services.HistorySvcFacade
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountSvcFacade, historyService services.HistorySvcFacade) *AccountHandler {
	return &AccountHandler{accountService: accountService, historyService: historyService}
}

// ownerAccount resolves the authenticated user's account.
func (h *AccountHandler) ownerAccount(c *gin.Context, ctx context.Context) (*domain.Account, bool) {
	userID, ok := middleware.GetUserIDFromCtx(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil, false
	}
	acc, err := h.accountService.GetAccountForOwner(ctx, userID)
	if err != nil {
		respondWithError(c, ctx, err)
		return nil, false
	}
	return acc, true
}

// GetAccount godoc
// @Summary Get the authenticated user's account
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	ctx := c.Request.Context()
	acc, ok := h.ownerAccount(c, ctx)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// GetBalance godoc
// @Summary Get the current balance
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()
	acc, ok := h.ownerAccount(c, ctx)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID:    acc.AccountID,
		Balance:      utils.FromMinorUnits(acc.Balance),
		CurrencyCode: acc.CurrencyCode,
	})
}

// GetSummary godoc
// @Summary Get dashboard aggregates for the account
// @Description Returns totals per movement kind over completed entries
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/summary [get]
func (h *AccountHandler) GetSummary(c *gin.Context) {
	ctx := c.Request.Context()
	acc, ok := h.ownerAccount(c, ctx)
	if !ok {
		return
	}

	totals := make(map[domain.EntryKind]int64, 4)
	for _, kind := range []domain.EntryKind{
		domain.KindDeposit,
		domain.KindWithdraw,
		domain.KindTransferOut,
		domain.KindTransferIn,
	} {
		sum, err := h.historyService.Aggregate(ctx, acc.AccountID, kind)
		if err != nil {
			respondWithError(c, ctx, err)
			return
		}
		totals[kind] = sum
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{
		AccountID:         acc.AccountID,
		TotalDeposits:     utils.FromMinorUnits(totals[domain.KindDeposit]),
		TotalWithdrawals:  utils.FromMinorUnits(totals[domain.KindWithdraw]),
		TotalTransfersOut: utils.FromMinorUnits(totals[domain.KindTransferOut]),
		TotalTransfersIn:  utils.FromMinorUnits(totals[domain.KindTransferIn]),
	})
}

// DeactivateAccount godoc
// @Summary Deactivate the authenticated user's account
// @Description Marks the account inactive; further movements are rejected
// @Tags accounts
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me [delete]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	acc, ok := h.ownerAccount(c, ctx)
	if !ok {
		return
	}
	if err := h.accountService.DeactivateAccount(ctx, acc.AccountID); err != nil {
		respondWithError(c, ctx, err)
		return
	}

	logger.Info("Account deactivated", "accountID", acc.AccountID)
	c.Status(http.StatusNoContent)
}
