package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/dto"
	"github.com/finvault/ebank/internal/middleware"
	"github.com/finvault/ebank/internal/utils"
)

// TransactionHandler handles funds movements and history queries.
type TransactionHandler struct {
	fundsService   services.FundsSvcFacade
	historyService services.HistorySvcFacade
	accountService services.AccountSvcFacade
	userService    services.UserSvcFacade
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	fundsService services.FundsSvcFacade,
	historyService services.HistorySvcFacade,
	accountService services.AccountSvcFacade,
	userService services.UserSvcFacade,
) *TransactionHandler {
	return &TransactionHandler{
		fundsService:   fundsService,
		historyService: historyService,
		accountService: accountService,
		userService:    userService,
	}
}

// Deposit godoc
// @Summary Deposit funds
// @Description Credits the authenticated user's account and records a DEPOSIT entry
// @Tags transactions
// @Accept json
// @Produce json
// @Param movement body dto.MovementRequest true "Deposit details"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/deposit [post]
func (h *TransactionHandler) Deposit(c *gin.Context) {
	h.applyMovement(c, h.fundsService.Deposit)
}

// Withdraw godoc
// @Summary Withdraw funds
// @Description Debits the authenticated user's account and records a WITHDRAW entry
// @Tags transactions
// @Accept json
// @Produce json
// @Param movement body dto.MovementRequest true "Withdrawal details"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/withdraw [post]
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	h.applyMovement(c, h.fundsService.Withdraw)
}

// applyMovement is the shared body of deposit and withdraw.
func (h *TransactionHandler) applyMovement(
	c *gin.Context,
	apply func(ctx context.Context, accountID string, amount int64, description, category string) (*services.MovementResult, error),
) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	amount, err := utils.ToMinorUnits(req.Amount)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	acc, err := h.accountService.GetAccountForOwner(ctx, userID)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	result, err := apply(ctx, acc.AccountID, amount, req.Description, req.Category)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	logger.Info("Movement applied", "accountID", acc.AccountID, "kind", result.Entry.Kind, "entryID", result.Entry.EntryID)
	c.JSON(http.StatusOK, dto.ToMovementResponse(result))
}

// Transfer godoc
// @Summary Transfer funds to another user
// @Description Moves funds from the authenticated user's account to the receiver addressed by email
// @Tags transactions
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/transfer [post]
func (h *TransactionHandler) Transfer(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	amount, err := utils.ToMinorUnits(req.Amount)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	senderAcc, err := h.accountService.GetAccountForOwner(ctx, userID)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	receiver, err := h.userService.GetUserByEmail(ctx, req.ReceiverEmail)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}
	receiverAcc, err := h.accountService.GetAccountForOwner(ctx, receiver.UserID)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	result, err := h.fundsService.Transfer(ctx, senderAcc.AccountID, receiverAcc.AccountID, amount, req.Description)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	logger.Info("Transfer completed",
		"senderAccountID", senderAcc.AccountID,
		"receiverAccountID", receiverAcc.AccountID,
		"transferID", result.Entries[0].TransferID,
	)
	c.JSON(http.StatusOK, dto.ToTransferResponse(result))
}

// GetHistory godoc
// @Summary List ledger history for the account
// @Description Returns completed entries newest first; a date range can be supplied
// @Tags transactions
// @Produce json
// @Param limit query int false "Maximum entries to return" default(20)
// @Param startDate query string false "Range start (RFC 3339)"
// @Param endDate query string false "Range end (RFC 3339)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/history [get]
func (h *TransactionHandler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	var params dto.HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters: " + err.Error()})
		return
	}
	if (params.StartDate == nil) != (params.EndDate == nil) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "startDate and endDate must be supplied together"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	acc, err := h.accountService.GetAccountForOwner(ctx, userID)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	var entries []dto.EntryResponse
	if params.StartDate != nil {
		domainEntries, err := h.historyService.ByDateRange(ctx, acc.AccountID, *params.StartDate, *params.EndDate)
		if err != nil {
			respondWithError(c, ctx, err)
			return
		}
		entries = dto.ToListEntryResponse(domainEntries)
	} else {
		domainEntries, err := h.historyService.Recent(ctx, acc.AccountID, params.Limit)
		if err != nil {
			respondWithError(c, ctx, err)
			return
		}
		entries = dto.ToListEntryResponse(domainEntries)
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{AccountID: acc.AccountID, Entries: entries})
}
