package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/response"
)

// RewardHandler exposes reward progress
type RewardHandler struct {
	rewardService service.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// Progress handles GET /rewards/progress
func (h *RewardHandler) Progress(c *gin.Context) {
	actor, ok := requireRole(c)
	if !ok {
		return
	}

	summary, err := h.rewardService.ComputeProgress(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err, "Failed to compute reward progress")
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewRewardProgressResponse(summary)))
}
