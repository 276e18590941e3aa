// File: internal/filestorage/service.go
package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// allowedExtensions are the certification document types accepted for
// upload.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Service stores and deletes certification blobs on the local filesystem.
// Blob paths are scoped as certifications/<owner>/<skill>/<name> so that
// removing a skill removes exactly its own blobs. Each stored name carries
// a UUID, so two uploads never share a blob path, whatever their filenames.
type Service struct {
	storagePath   string
	uploadTimeout time.Duration
	logger        *zap.Logger
}

// NewService creates a blob storage service rooted at storagePath. Writes
// taking longer than uploadTimeout are abandoned; zero disables the bound.
func NewService(storagePath string, uploadTimeout time.Duration, logger *zap.Logger) (*Service, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(storagePath, os.ModePerm); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", storagePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", storagePath, err)
	}
	logger.Info("File storage initialized", zap.String("storagePath", storagePath))
	return &Service{storagePath: storagePath, uploadTimeout: uploadTimeout, logger: logger}, nil
}

// SaveCertification stores an uploaded certification document and returns
// its blob path relative to the storage root.
func (s *Service) SaveCertification(ctx context.Context, fileHeader *multipart.FileHeader, ownerID string, skillID uuid.UUID) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("fileHeader cannot be nil")
	}
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	originalFilename := filepath.Base(fileHeader.Filename)
	extension := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedExtensions[extension] {
		return "", fmt.Errorf("unsupported certification file type: %q", extension)
	}

	// The UUID keeps repeated uploads of the same filename from landing on
	// the same blob, including within a single millisecond.
	baseName := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	blobName := fmt.Sprintf("%d-%s-%s%s", time.Now().UnixMilli(), slug.Make(baseName), uuid.NewString(), extension)

	relativeDir := filepath.Join("certifications", filepath.Clean(ownerID), skillID.String())
	if strings.Contains(relativeDir, "..") {
		s.logger.Error("Invalid owner scope for blob path", zap.String("ownerID", ownerID))
		return "", fmt.Errorf("invalid blob path scope")
	}

	destinationDir := filepath.Join(s.storagePath, relativeDir)
	if err := os.MkdirAll(destinationDir, os.ModePerm); err != nil {
		s.logger.Error("Failed to create blob directory", zap.String("path", destinationDir), zap.Error(err))
		return "", fmt.Errorf("failed to create directory %s: %w", destinationDir, err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("Failed to open uploaded file", zap.Error(err))
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	destinationPath := filepath.Join(destinationDir, blobName)
	dst, err := os.Create(destinationPath)
	if err != nil {
		s.logger.Error("Failed to create destination file", zap.String("path", destinationPath), zap.Error(err))
		return "", fmt.Errorf("failed to create file %s: %w", destinationPath, err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, &deadlineReader{ctx: ctx, r: src}); err != nil {
		s.logger.Error("Failed to write uploaded file", zap.String("path", destinationPath), zap.Error(err))
		os.Remove(destinationPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	relativePath := filepath.ToSlash(filepath.Join(relativeDir, blobName))
	s.logger.Info("Certification blob saved", zap.String("path", relativePath))
	return relativePath, nil
}

// deadlineReader aborts an in-flight copy once its context expires, so the
// upload bound applies to the write itself and not only to entry.
type deadlineReader struct {
	ctx context.Context
	r   io.Reader
}

func (d *deadlineReader) Read(p []byte) (int, error) {
	if err := d.ctx.Err(); err != nil {
		return 0, err
	}
	return d.r.Read(p)
}

// Delete removes a single blob given its path relative to the storage root.
func (s *Service) Delete(relativePath string) error {
	if relativePath == "" {
		return fmt.Errorf("relative path cannot be empty")
	}
	cleanRelativePath := filepath.Clean(relativePath)
	if strings.Contains(cleanRelativePath, "..") {
		return fmt.Errorf("invalid relative path")
	}

	fullPath := filepath.Join(s.storagePath, cleanRelativePath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Blob already absent on delete", zap.String("path", fullPath))
			return nil
		}
		s.logger.Error("Failed to delete blob", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}
	s.logger.Info("Blob deleted", zap.String("path", fullPath))
	return nil
}

// DeleteSkillScope removes every blob stored for one skill of one owner.
func (s *Service) DeleteSkillScope(ownerID string, skillID uuid.UUID) error {
	relativeDir := filepath.Join("certifications", filepath.Clean(ownerID), skillID.String())
	if strings.Contains(relativeDir, "..") {
		return fmt.Errorf("invalid blob path scope")
	}

	fullPath := filepath.Join(s.storagePath, relativeDir)
	if err := os.RemoveAll(fullPath); err != nil {
		s.logger.Error("Failed to delete skill blob scope", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete directory %s: %w", fullPath, err)
	}
	return nil
}
