package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/middleware"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// TicketHandler handles ticket HTTP requests
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// ListMine handles GET /tickets/me
func (h *TicketHandler) ListMine(c *gin.Context) {
	actor, ok := requireRole(c)
	if !ok {
		return
	}

	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	tickets, total, err := h.ticketService.ListUserTickets(c.Request.Context(), actor.UserID, &filter)
	if err != nil {
		respondError(c, err, "Failed to list tickets")
		return
	}

	out := make([]*dto.TicketResponse, len(tickets))
	for i, t := range tickets {
		out[i] = dto.NewTicketResponse(t)
	}
	c.JSON(http.StatusOK, response.Paginated(out, filter.Page(), filter.Limit, int64(total)))
}

// Validate handles POST /tickets/:id/validate (club or admin)
func (h *TicketHandler) Validate(c *gin.Context) {
	actor, ok := requireRole(c, middleware.RoleClub)
	if !ok {
		return
	}

	ticket, err := h.ticketService.ValidateTicket(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to validate ticket")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewTicketResponse(ticket)))
}
