// File: internal/skill/repository.go
package skill

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skills_portfolio_backend/internal/common"
)

// Repository defines the interface for skill data operations. Every lookup
// is scoped to an owner so one user can never touch another's records.
type Repository interface {
	Create(ctx context.Context, skill *Skill) error
	FindByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (*Skill, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Skill, error)
	Update(ctx context.Context, skill *Skill) error
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
	AddCertification(ctx context.Context, cert *Certification) error
	FindCertificationForOwner(ctx context.Context, certID uuid.UUID, ownerID string) (*Certification, error)
	DeleteCertification(ctx context.Context, certID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM skill repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, skill *Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *gormRepository) FindByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (*Skill, error) {
	var skill Skill
	err := r.db.WithContext(ctx).
		Preload("Certifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("certifications.created_at ASC")
		}).
		First(&skill, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Skill not found.")
		}
		return nil, err
	}
	return &skill, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID string) ([]Skill, error) {
	var skills []Skill
	err := r.db.WithContext(ctx).
		Preload("Certifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("certifications.created_at ASC")
		}).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *gormRepository) Update(ctx context.Context, skill *Skill) error {
	result := r.db.WithContext(ctx).Model(&Skill{}).
		Where("id = ? AND owner_id = ?", skill.ID, skill.OwnerID).
		Updates(map[string]interface{}{
			"name":                skill.Name,
			"level":               skill.Level,
			"years_of_experience": skill.YearsOfExperience,
			"description":         skill.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Skill not found.")
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&Skill{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Skill not found.")
		}
		// SQLite builds do not enforce the cascade constraint.
		return tx.Where("skill_id = ?", id).Delete(&Certification{}).Error
	})
}

func (r *gormRepository) AddCertification(ctx context.Context, cert *Certification) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *gormRepository) FindCertificationForOwner(ctx context.Context, certID uuid.UUID, ownerID string) (*Certification, error) {
	var cert Certification
	err := r.db.WithContext(ctx).
		Joins("JOIN skills ON skills.id = certifications.skill_id").
		Where("certifications.id = ? AND skills.owner_id = ?", certID, ownerID).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Certification not found.")
		}
		return nil, err
	}
	return &cert, nil
}

func (r *gormRepository) DeleteCertification(ctx context.Context, certID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Certification{}, "id = ?", certID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Certification not found.")
	}
	return nil
}
