package domain

import "time"

// User is a purchaser known to the ticketing core
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Roles carried in identity tokens
const (
	RoleUser  = "user"
	RoleClub  = "club"
	RoleAdmin = "admin"
)
