package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/dto"
)

// AdminHandler exposes cross-account listings for operators.
type AdminHandler struct {
	userService    services.UserSvcFacade
	accountService services.AccountSvcFacade
	historyService services.HistorySvcFacade
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	userService services.UserSvcFacade,
	accountService services.AccountSvcFacade,
	historyService services.HistorySvcFacade,
) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		accountService: accountService,
		historyService: historyService,
	}
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum users to return" default(20)
// @Param offset query int false "Pagination offset" default(0)
// @Success 200 {array} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters: " + err.Error()})
		return
	}

	users, err := h.userService.ListUsers(ctx, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// ListAccounts godoc
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum accounts to return" default(20)
// @Param offset query int false "Pagination offset" default(0)
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/accounts [get]
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	ctx := c.Request.Context()

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(ctx, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// ListTransactions godoc
// @Summary List ledger entries across all accounts
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum entries to return" default(20)
// @Param offset query int false "Pagination offset" default(0)
// @Success 200 {array} dto.EntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions [get]
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.historyService.ListAll(ctx, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListEntryResponse(entries))
}
