package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// UserHandler handles purchaser profile requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Sync handles POST /users/sync - stores the token's user
func (h *UserHandler) Sync(c *gin.Context) {
	actor, ok := requireRole(c)
	if !ok {
		return
	}

	user, err := h.userService.SyncUser(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to sync user")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewUserResponse(user)))
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := requireRole(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewUserResponse(user)))
}
