package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/middleware"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// DJHandler handles DJ HTTP requests
type DJHandler struct {
	djService service.DJService
}

// NewDJHandler creates a new DJHandler
func NewDJHandler(djService service.DJService) *DJHandler {
	return &DJHandler{djService: djService}
}

// List handles GET /djs
func (h *DJHandler) List(c *gin.Context) {
	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	djs, total, err := h.djService.ListDJs(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err, "Failed to list DJs")
		return
	}

	out := make([]*dto.DJResponse, len(djs))
	for i, dj := range djs {
		out[i] = dto.NewDJResponse(dj)
	}
	c.JSON(http.StatusOK, response.Paginated(out, filter.Page(), filter.Limit, int64(total)))
}

// Get handles GET /djs/:id
func (h *DJHandler) Get(c *gin.Context) {
	dj, err := h.djService.GetDJ(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get DJ")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewDJResponse(dj)))
}

// Create handles POST /djs (club or admin)
func (h *DJHandler) Create(c *gin.Context) {
	if _, ok := requireRole(c, middleware.RoleClub); !ok {
		return
	}

	var req dto.CreateDJRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	dj, err := h.djService.CreateDJ(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create DJ")
		return
	}
	c.JSON(http.StatusCreated, response.Success(dto.NewDJResponse(dj)))
}
