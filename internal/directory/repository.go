// File: internal/directory/repository.go
package directory

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository loads the directory roster: every profile joined with its
// skills projection, in profile creation order with skills in collection
// order.
type Repository interface {
	ListEntries(ctx context.Context) ([]Entry, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a roster repository over the profiles and
// skills tables.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

type entryRow struct {
	UserID     string
	Name       string
	Email      string
	Department string
}

type skillRow struct {
	OwnerID           string
	Name              string
	YearsOfExperience int
}

func (r *gormRepository) ListEntries(ctx context.Context) ([]Entry, error) {
	var profileRows []entryRow
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("id AS user_id, full_name AS name, email, department").
		Order("created_at ASC").
		Scan(&profileRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load directory profiles: %w", err)
	}

	var skillRows []skillRow
	err = r.db.WithContext(ctx).
		Table("skills").
		Select("owner_id, name, years_of_experience").
		Order("created_at ASC").
		Scan(&skillRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load directory skills: %w", err)
	}

	skillsByOwner := make(map[string][]SkillSummary, len(profileRows))
	for _, s := range skillRows {
		skillsByOwner[s.OwnerID] = append(skillsByOwner[s.OwnerID], SkillSummary{
			Name:  s.Name,
			Years: s.YearsOfExperience,
		})
	}

	entries := make([]Entry, 0, len(profileRows))
	for _, p := range profileRows {
		skills := skillsByOwner[p.UserID]
		if skills == nil {
			skills = []SkillSummary{}
		}
		entries = append(entries, Entry{
			UserID:     p.UserID,
			Name:       p.Name,
			Email:      p.Email,
			Department: p.Department,
			Skills:     skills,
		})
	}
	return entries, nil
}

// MemoryRepository is a fixture roster for tests and demo mode.
type MemoryRepository struct {
	Entries []Entry
}

// NewMemoryRepository creates a roster repository over a fixed slice.
func NewMemoryRepository(entries []Entry) *MemoryRepository {
	return &MemoryRepository{Entries: entries}
}

func (r *MemoryRepository) ListEntries(_ context.Context) ([]Entry, error) {
	out := make([]Entry, len(r.Entries))
	copy(out, r.Entries)
	return out, nil
}
