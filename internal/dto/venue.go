package dto

import (
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// CreateVenueRequest represents the request to register a club
type CreateVenueRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=255"`
	Address    string `json:"address" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	PriceRange string `json:"price_range"`
	OwnerID    string `json:"-"` // Set from context
}

// Validate validates the CreateVenueRequest
func (r *CreateVenueRequest) Validate() (bool, string) {
	if r.Name == "" {
		return false, "Venue name is required"
	}
	if r.PriceRange != "" && !domain.IsKnownPriceRange(r.PriceRange) {
		return false, "Unknown price range"
	}
	return true, ""
}

// UpdateVenueRequest represents a partial venue update
type UpdateVenueRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=255"`
	Address    *string `json:"address" binding:"omitempty,max=500"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	PriceRange *string `json:"price_range"`
}

// Validate validates the UpdateVenueRequest
func (r *UpdateVenueRequest) Validate() (bool, string) {
	if r.Name != nil && *r.Name == "" {
		return false, "Venue name cannot be empty"
	}
	if r.PriceRange != nil && !domain.IsKnownPriceRange(*r.PriceRange) {
		return false, "Unknown price range"
	}
	return true, ""
}

// VenueResponse represents a venue as returned by the API
type VenueResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Address           string  `json:"address"`
	City              string  `json:"city"`
	PriceRange        string  `json:"price_range"`
	PriceTier         string  `json:"price_tier"`
	AverageTicketCost float64 `json:"average_ticket_cost"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// NewVenueResponse converts a domain venue
func NewVenueResponse(v *domain.Venue) *VenueResponse {
	return &VenueResponse{
		ID:                v.ID,
		Name:              v.Name,
		Address:           v.Address,
		City:              v.City,
		PriceRange:        v.PriceRange,
		PriceTier:         v.Tier().String(),
		AverageTicketCost: v.AverageObservedPrice(),
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         v.UpdatedAt.Format(time.RFC3339),
	}
}

// ListFilter holds pagination shared by list endpoints
type ListFilter struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *ListFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Page returns the 1-based page number for the current offset
func (f *ListFilter) Page() int {
	if f.Limit <= 0 {
		return 1
	}
	return f.Offset/f.Limit + 1
}
