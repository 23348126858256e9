package dto

import (
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
)

// CreateDJRequest represents the request to register a DJ
type CreateDJRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Genre string `json:"genre" binding:"max=100"`
}

// DJResponse represents a DJ as returned by the API
type DJResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Genre     string `json:"genre,omitempty"`
	CreatedAt string `json:"created_at"`
}

// NewDJResponse converts a domain DJ
func NewDJResponse(d *domain.DJ) *DJResponse {
	return &DJResponse{
		ID:        d.ID,
		Name:      d.Name,
		Genre:     d.Genre,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}
