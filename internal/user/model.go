// File: internal/user/model.go
package user

import (
	"time"
)

// Profile represents the application profile stored for each identity. The
// primary key is the identity provider's UID, not a locally generated one.
type Profile struct {
	ID         string `gorm:"type:varchar(128);primaryKey"`
	FullName   string `gorm:"type:varchar(200);not null"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role       string `gorm:"type:varchar(50);not null;default:'resource'"`
	Department string `gorm:"type:varchar(100)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// --- DTOs for API requests/responses ---

// UpdateProfileRequest defines the mutable profile fields. Role is absent
// on purpose: no API call may change it.
type UpdateProfileRequest struct {
	FullName   string `json:"full_name" binding:"required,max=200"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

// ProfileResponse defines the profile payload sent to clients.
type ProfileResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToProfileResponse converts a Profile model to its response DTO.
func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:         p.ID,
		FullName:   p.FullName,
		Email:      p.Email,
		Role:       p.Role,
		Department: p.Department,
		CreatedAt:  p.CreatedAt,
	}
}
