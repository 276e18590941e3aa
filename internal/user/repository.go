// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"skills_portfolio_backend/internal/common"

	"gorm.io/gorm"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new profile record.
func (r *gormRepository) Create(ctx context.Context, profile *Profile) error {
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("A profile already exists for this user.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a profile by the identity provider UID.
func (r *gormRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, err
	}
	return &profile, nil
}

// Update saves changes to an existing profile.
func (r *gormRepository) Update(ctx context.Context, profile *Profile) error {
	result := r.db.WithContext(ctx).Model(&Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"full_name":  profile.FullName,
			"department": profile.Department,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Profile not found.")
	}
	return nil
}
