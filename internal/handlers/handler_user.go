package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/dto"
	"github.com/finvault/ebank/internal/middleware"
)

// UserHandler handles user profile requests.
type UserHandler struct {
	userService services.UserSvcFacade
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserSvcFacade) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := middleware.GetUserIDFromCtx(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondWithError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
