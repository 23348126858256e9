package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// CheckoutHandler starts ticket purchases
type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Create handles POST /checkout
func (h *CheckoutHandler) Create(c *gin.Context) {
	actor, ok := requireRole(c)
	if !ok {
		return
	}

	var req dto.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("event_id and ticket_type are required"))
		return
	}

	session, err := h.checkoutService.BuildSession(c.Request.Context(), actor, req.EventID, req.TicketType)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorWithDetails(response.ErrCodeNotFound,
				"Buyer profile not found", "call POST /users/sync before checking out"))
			return
		}
		respondError(c, err, "Failed to create checkout session")
		return
	}
	c.JSON(http.StatusCreated, response.Success(session))
}
