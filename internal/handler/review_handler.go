package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	actor, ok := requireRole(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, response.Success(dto.NewReviewResponse(review)))
}

// ListMine handles GET /reviews/me
func (h *ReviewHandler) ListMine(c *gin.Context) {
	actor, ok := requireRole(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListUserReviews(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err, "Failed to list reviews")
		return
	}

	out := make([]*dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = dto.NewReviewResponse(r)
	}
	c.JSON(http.StatusOK, response.Success(out))
}

// ListByTarget handles GET /reviews?target_type=&target_id=
func (h *ReviewHandler) ListByTarget(c *gin.Context) {
	var filter dto.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("target_type and target_id are required"))
		return
	}

	reviews, total, err := h.reviewService.ListTargetReviews(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err, "Failed to list reviews")
		return
	}

	out := make([]*dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = dto.NewReviewResponse(r)
	}
	c.JSON(http.StatusOK, response.Paginated(out, filter.Page(), filter.Limit, int64(total)))
}
