package domain

// RewardKind is what a user unlocks at a threshold
type RewardKind string

const (
	RewardConsumable RewardKind = "consumable"
	RewardFreeEntry  RewardKind = "free_entry"
	RewardVIPEntry   RewardKind = "vip_entry"
	RewardVIPTable   RewardKind = "vip_table"
)

// Threshold pairs a review count with the reward it unlocks
type Threshold struct {
	Count  int        `json:"count"`
	Reward RewardKind `json:"reward"`
}

// RewardLadder returns the threshold ladder shared by every tier
func RewardLadder() []Threshold {
	return []Threshold{
		{Count: 10, Reward: RewardConsumable},
		{Count: 30, Reward: RewardFreeEntry},
		{Count: 50, Reward: RewardVIPEntry},
		{Count: 100, Reward: RewardVIPTable},
	}
}

// RewardProgress is a user's review count within one price tier
type RewardProgress struct {
	Tier        PriceTier   `json:"tier"`
	ReviewCount int         `json:"review_count"`
	Thresholds  []Threshold `json:"thresholds"`
}

// Unlocked returns the thresholds already reached
func (p *RewardProgress) Unlocked() []Threshold {
	var out []Threshold
	for _, t := range p.Thresholds {
		if p.ReviewCount >= t.Count {
			out = append(out, t)
		}
	}
	return out
}

// Next returns the first threshold not yet reached, or nil when all are
func (p *RewardProgress) Next() *Threshold {
	for i := range p.Thresholds {
		if p.ReviewCount < p.Thresholds[i].Count {
			return &p.Thresholds[i]
		}
	}
	return nil
}

// RewardSummary is the point-in-time progress for every tier.
// TotalReviews includes reviews whose venue could not be resolved.
type RewardSummary struct {
	UserID       string           `json:"user_id"`
	TotalReviews int              `json:"total_reviews"`
	Unresolved   int              `json:"unresolved"`
	Tiers        []RewardProgress `json:"tiers"`
}

// NewRewardSummary returns zero progress for every tier
func NewRewardSummary(userID string) *RewardSummary {
	s := &RewardSummary{UserID: userID, Tiers: make([]RewardProgress, len(AllPriceTiers))}
	for i, tier := range AllPriceTiers {
		s.Tiers[i] = RewardProgress{Tier: tier, Thresholds: RewardLadder()}
	}
	return s
}

// Count adds one review to tier
func (s *RewardSummary) Count(tier PriceTier) {
	s.TotalReviews++
	for i := range s.Tiers {
		if s.Tiers[i].Tier == tier {
			s.Tiers[i].ReviewCount++
			return
		}
	}
}

// CountUnresolved adds a review that belongs to no tier
func (s *RewardSummary) CountUnresolved() {
	s.TotalReviews++
	s.Unresolved++
}
