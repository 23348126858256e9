package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/middleware"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /events - optional ?venue_id filter
func (h *EventHandler) List(c *gin.Context) {
	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	events, total, err := h.eventService.ListEvents(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err, "Failed to list events")
		return
	}

	out := make([]*dto.EventResponse, len(events))
	for i, e := range events {
		out[i] = dto.NewEventResponse(e)
	}
	c.JSON(http.StatusOK, response.Paginated(out, filter.Page(), filter.Limit, int64(total)))
}

// Get handles GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get event")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewEventResponse(event)))
}

// Create handles POST /events (venue owner or admin)
func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := requireRole(c, middleware.RoleClub)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}
	c.JSON(http.StatusCreated, response.Success(dto.NewEventResponse(event)))
}

// Quote handles GET /events/:id/ticket-types/:name/quote
func (h *EventHandler) Quote(c *gin.Context) {
	quote, err := h.eventService.QuotePrice(c.Request.Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to quote price")
		return
	}
	c.JSON(http.StatusOK, response.Success(quote))
}
