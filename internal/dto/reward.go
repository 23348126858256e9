package dto

import "github.com/nightlife-hub/nightpass/internal/domain"

// TierProgressResponse is the progress within one price tier
type TierProgressResponse struct {
	Tier        string             `json:"tier"`
	ReviewCount int                `json:"review_count"`
	Thresholds  []domain.Threshold `json:"thresholds"`
	Unlocked    []domain.Threshold `json:"unlocked"`
	Next        *domain.Threshold  `json:"next,omitempty"`
	Remaining   int                `json:"remaining"`
}

// RewardProgressResponse is the caller's reward progress across tiers
type RewardProgressResponse struct {
	UserID       string                 `json:"user_id"`
	TotalReviews int                    `json:"total_reviews"`
	Unresolved   int                    `json:"unresolved"`
	Tiers        []TierProgressResponse `json:"tiers"`
}

// NewRewardProgressResponse converts a computed summary
func NewRewardProgressResponse(s *domain.RewardSummary) *RewardProgressResponse {
	resp := &RewardProgressResponse{
		UserID:       s.UserID,
		TotalReviews: s.TotalReviews,
		Unresolved:   s.Unresolved,
		Tiers:        make([]TierProgressResponse, 0, len(s.Tiers)),
	}
	for i := range s.Tiers {
		p := &s.Tiers[i]
		tier := TierProgressResponse{
			Tier:        p.Tier.String(),
			ReviewCount: p.ReviewCount,
			Thresholds:  p.Thresholds,
			Unlocked:    p.Unlocked(),
			Next:        p.Next(),
		}
		if tier.Unlocked == nil {
			tier.Unlocked = []domain.Threshold{}
		}
		if tier.Next != nil {
			tier.Remaining = tier.Next.Count - p.ReviewCount
		}
		resp.Tiers = append(resp.Tiers, tier)
	}
	return resp
}
