package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/middleware"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// VenueHandler handles venue HTTP requests
type VenueHandler struct {
	venueService service.VenueService
}

// NewVenueHandler creates a new VenueHandler
func NewVenueHandler(venueService service.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// List handles GET /venues
func (h *VenueHandler) List(c *gin.Context) {
	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	venues, total, err := h.venueService.ListVenues(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err, "Failed to list venues")
		return
	}

	out := make([]*dto.VenueResponse, len(venues))
	for i, v := range venues {
		out[i] = dto.NewVenueResponse(v)
	}
	c.JSON(http.StatusOK, response.Paginated(out, filter.Page(), filter.Limit, int64(total)))
}

// Get handles GET /venues/:id
func (h *VenueHandler) Get(c *gin.Context) {
	venue, err := h.venueService.GetVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get venue")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewVenueResponse(venue)))
}

// Create handles POST /venues (club or admin)
func (h *VenueHandler) Create(c *gin.Context) {
	actor, ok := requireRole(c, middleware.RoleClub)
	if !ok {
		return
	}

	var req dto.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}
	req.OwnerID = actor.UserID

	venue, err := h.venueService.CreateVenue(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "Failed to create venue")
		return
	}
	c.JSON(http.StatusCreated, response.Success(dto.NewVenueResponse(venue)))
}

// Update handles PATCH /venues/:id
func (h *VenueHandler) Update(c *gin.Context) {
	actor, ok := requireRole(c, middleware.RoleClub)
	if !ok {
		return
	}

	var req dto.UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	venue, err := h.venueService.UpdateVenue(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update venue")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewVenueResponse(venue)))
}
