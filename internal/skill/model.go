// File: internal/skill/model.go
package skill

import (
	"time"

	"github.com/google/uuid"

	"skills_portfolio_backend/internal/common"
)

// Proficiency levels for a skill.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

// Skill is one entry in a user's skills portfolio.
type Skill struct {
	common.BaseModel
	OwnerID           string          `gorm:"type:varchar(128);not null;index"`
	Name              string          `gorm:"type:varchar(150);not null"`
	Level             string          `gorm:"type:varchar(20);not null;default:'Beginner'"`
	YearsOfExperience int             `gorm:"not null;default:0"`
	Description       string          `gorm:"type:text"`
	Certifications    []Certification `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Skill model.
func (Skill) TableName() string {
	return "skills"
}

// Certification is a document attached to a skill. BlobPath locates the
// stored file relative to the blob storage root.
type Certification struct {
	common.BaseModel
	SkillID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName string    `gorm:"type:varchar(255);not null"`
	BlobPath string    `gorm:"type:text;not null"`
}

// TableName specifies the table name for the Certification model.
func (Certification) TableName() string {
	return "certifications"
}

// --- DTOs for API requests/responses ---

// CreateSkillRequest defines the payload for adding a skill.
type CreateSkillRequest struct {
	Name              string `json:"name" binding:"required,max=150"`
	Level             string `json:"level" binding:"required,oneof=Beginner Intermediate Advanced Expert"`
	YearsOfExperience int    `json:"years_of_experience" binding:"gte=0,lte=60"`
	Description       string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateSkillRequest defines the payload for editing a skill. The edit is
// a full replace of these fields; certifications are not touched.
type UpdateSkillRequest struct {
	Name              string `json:"name" binding:"required,max=150"`
	Level             string `json:"level" binding:"required,oneof=Beginner Intermediate Advanced Expert"`
	YearsOfExperience int    `json:"years_of_experience" binding:"gte=0,lte=60"`
	Description       string `json:"description" binding:"omitempty,max=2000"`
}

// CertificationResponse is the certification payload sent to clients.
type CertificationResponse struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"file_name"`
	BlobPath  string    `json:"blob_path"`
	CreatedAt time.Time `json:"created_at"`
}

// SkillResponse is the skill payload sent to clients.
type SkillResponse struct {
	ID                uuid.UUID               `json:"id"`
	Name              string                  `json:"name"`
	Level             string                  `json:"level"`
	YearsOfExperience int                     `json:"years_of_experience"`
	Description       string                  `json:"description,omitempty"`
	Certifications    []CertificationResponse `json:"certifications"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// ToSkillResponse converts a Skill model to its response DTO.
func ToSkillResponse(s *Skill) SkillResponse {
	certs := make([]CertificationResponse, 0, len(s.Certifications))
	for _, c := range s.Certifications {
		certs = append(certs, CertificationResponse{
			ID:        c.ID,
			FileName:  c.FileName,
			BlobPath:  c.BlobPath,
			CreatedAt: c.CreatedAt,
		})
	}
	return SkillResponse{
		ID:                s.ID,
		Name:              s.Name,
		Level:             s.Level,
		YearsOfExperience: s.YearsOfExperience,
		Description:       s.Description,
		Certifications:    certs,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ToSkillResponses converts a slice of skills.
func ToSkillResponses(skills []Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(skills))
	for i := range skills {
		out = append(out, ToSkillResponse(&skills[i]))
	}
	return out
}
