// File: internal/skill/service.go
package skill

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/filestorage"
)

// Notifier receives domain events the skill service wants surfaced to the
// owner. Implemented by the notification service.
type Notifier interface {
	NotifyCertificationUploaded(ctx context.Context, ownerID, skillName, fileName string)
}

// Service provides skill portfolio operations.
type Service struct {
	repo     Repository
	blobs    *filestorage.Service
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new skill service.
func NewService(repo Repository, blobs *filestorage.Service, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		blobs:    blobs,
		notifier: notifier,
		logger:   logger.Named("skill.service"),
	}
}

// ListSkills returns the owner's skills in collection order with their
// certifications.
func (s *Service) ListSkills(ctx context.Context, ownerID string) ([]Skill, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetSkill returns one skill scoped to its owner.
func (s *Service) GetSkill(ctx context.Context, id uuid.UUID, ownerID string) (*Skill, error) {
	return s.repo.FindByIDForOwner(ctx, id, ownerID)
}

// AddSkill creates a skill for the owner.
func (s *Service) AddSkill(ctx context.Context, ownerID string, req CreateSkillRequest) (*Skill, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.ErrValidation.WithDetails("Skill name must not be empty.")
	}

	skill := &Skill{
		OwnerID:           ownerID,
		Name:              name,
		Level:             req.Level,
		YearsOfExperience: req.YearsOfExperience,
		Description:       strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, skill); err != nil {
		s.logger.Error("Failed to create skill", zap.String("ownerID", ownerID), zap.Error(err))
		return nil, err
	}
	return skill, nil
}

// EditSkill replaces a skill's name, level, years and description.
// Certifications are never touched by an edit.
func (s *Service) EditSkill(ctx context.Context, id uuid.UUID, ownerID string, req UpdateSkillRequest) (*Skill, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.ErrValidation.WithDetails("Skill name must not be empty.")
	}

	skill, err := s.repo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	skill.Name = name
	skill.Level = req.Level
	skill.YearsOfExperience = req.YearsOfExperience
	skill.Description = strings.TrimSpace(req.Description)

	if err := s.repo.Update(ctx, skill); err != nil {
		s.logger.Error("Failed to update skill", zap.String("skillID", id.String()), zap.Error(err))
		return nil, err
	}
	return s.repo.FindByIDForOwner(ctx, id, ownerID)
}

// DeleteSkill removes a skill, its certification records and their blobs.
func (s *Service) DeleteSkill(ctx context.Context, id uuid.UUID, ownerID string) error {
	if _, err := s.repo.FindByIDForOwner(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		s.logger.Error("Failed to delete skill", zap.String("skillID", id.String()), zap.Error(err))
		return err
	}
	if err := s.blobs.DeleteSkillScope(ownerID, id); err != nil {
		// Records are gone; orphaned blobs are logged, not surfaced.
		s.logger.Warn("Failed to release certification blobs after skill delete",
			zap.String("skillID", id.String()), zap.Error(err))
	}
	return nil
}

// UploadCertification stores a certification document and appends its
// record to the skill. A failed blob write surfaces an upload error and
// changes nothing; a failed record write rolls back the blob and surfaces
// a persistence error, since the change may not have been saved.
func (s *Service) UploadCertification(ctx context.Context, skillID uuid.UUID, ownerID string, fileHeader *multipart.FileHeader) (*Certification, error) {
	skill, err := s.repo.FindByIDForOwner(ctx, skillID, ownerID)
	if err != nil {
		return nil, err
	}

	blobPath, err := s.blobs.SaveCertification(ctx, fileHeader, ownerID, skillID)
	if err != nil {
		s.logger.Error("Certification blob write failed",
			zap.String("skillID", skillID.String()), zap.Error(err))
		return nil, common.ErrUpload
	}

	cert := &Certification{
		SkillID:  skillID,
		FileName: filepath.Base(fileHeader.Filename),
		BlobPath: blobPath,
	}
	if err := s.repo.AddCertification(ctx, cert); err != nil {
		s.logger.Error("Certification record write failed; rolling back blob",
			zap.String("skillID", skillID.String()), zap.String("blobPath", blobPath), zap.Error(err))
		if delErr := s.blobs.Delete(blobPath); delErr != nil {
			s.logger.Warn("Blob rollback failed", zap.String("blobPath", blobPath), zap.Error(delErr))
		}
		return nil, common.ErrPersistence
	}

	if s.notifier != nil {
		s.notifier.NotifyCertificationUploaded(ctx, ownerID, skill.Name, cert.FileName)
	}
	return cert, nil
}

// DeleteCertification removes a single certification record and its blob.
// Sibling certifications are untouched.
func (s *Service) DeleteCertification(ctx context.Context, certID uuid.UUID, ownerID string) error {
	cert, err := s.repo.FindCertificationForOwner(ctx, certID, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCertification(ctx, certID); err != nil {
		s.logger.Error("Failed to delete certification record",
			zap.String("certID", certID.String()), zap.Error(err))
		return err
	}
	if err := s.blobs.Delete(cert.BlobPath); err != nil {
		s.logger.Warn("Failed to delete certification blob",
			zap.String("blobPath", cert.BlobPath), zap.Error(err))
	}
	return nil
}
