// File: internal/skill/service_test.go
package skill

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/filestorage"
)

type recordingNotifier struct {
	uploads []string
}

func (n *recordingNotifier) NotifyCertificationUploaded(_ context.Context, _, skillName, fileName string) {
	n.uploads = append(n.uploads, skillName+"/"+fileName)
}

func setupSkillService(t *testing.T) (*Service, *recordingNotifier, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Skill{}, &Certification{}))

	storageRoot := t.TempDir()
	blobs, err := filestorage.NewService(storageRoot, time.Minute, zap.NewNop())
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc := NewService(NewGORMRepository(db), blobs, notifier, zap.NewNop())
	return svc, notifier, storageRoot
}

func TestAddAndListSkills(t *testing.T) {
	svc, _, _ := setupSkillService(t)
	ctx := context.Background()

	first, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelAdvanced, YearsOfExperience: 5})
	require.NoError(t, err)
	_, err = svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Kubernetes", Level: LevelIntermediate, YearsOfExperience: 2})
	require.NoError(t, err)
	_, err = svc.AddSkill(ctx, "owner-2", CreateSkillRequest{Name: "Terraform", Level: LevelBeginner})
	require.NoError(t, err)

	skills, err := svc.ListSkills(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, skills, 2, "owner must only see their own skills")
	assert.Equal(t, "Go", skills[0].Name)
	assert.Equal(t, first.ID, skills[0].ID)
	assert.Equal(t, "Kubernetes", skills[1].Name)
}

func TestAddSkill_EmptyNameRejected(t *testing.T) {
	svc, _, _ := setupSkillService(t)

	_, err := svc.AddSkill(context.Background(), "owner-1", CreateSkillRequest{Name: "   ", Level: LevelBeginner})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestEditSkill_ReplacesFieldsKeepsCertifications(t *testing.T) {
	svc, _, _ := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelBeginner, YearsOfExperience: 1})
	require.NoError(t, err)

	fh := newTestUpload(t, "cert.pdf", "pdf bytes")
	_, err = svc.UploadCertification(ctx, created.ID, "owner-1", fh)
	require.NoError(t, err)

	updated, err := svc.EditSkill(ctx, created.ID, "owner-1", UpdateSkillRequest{
		Name: "Golang", Level: LevelExpert, YearsOfExperience: 8, Description: "Daily driver",
	})
	require.NoError(t, err)
	assert.Equal(t, "Golang", updated.Name)
	assert.Equal(t, LevelExpert, updated.Level)
	assert.Equal(t, 8, updated.YearsOfExperience)
	require.Len(t, updated.Certifications, 1, "edit must not touch certifications")
}

func TestEditSkill_NotFoundForOtherOwner(t *testing.T) {
	svc, _, _ := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelBeginner})
	require.NoError(t, err)

	_, err = svc.EditSkill(ctx, created.ID, "owner-2", UpdateSkillRequest{Name: "Go", Level: LevelBeginner})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDeleteSkill_ReleasesBlobs(t *testing.T) {
	svc, _, storageRoot := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelBeginner})
	require.NoError(t, err)
	cert, err := svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "cert.pdf", "pdf bytes"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(storageRoot, cert.BlobPath))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSkill(ctx, created.ID, "owner-1"))

	_, err = svc.GetSkill(ctx, created.ID, "owner-1")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	_, err = os.Stat(filepath.Join(storageRoot, cert.BlobPath))
	assert.True(t, os.IsNotExist(err), "skill delete must release its certification blobs")
}

func TestDeleteSkill_UnknownIDNotFound(t *testing.T) {
	svc, _, _ := setupSkillService(t)

	err := svc.DeleteSkill(context.Background(), uuid.New(), "owner-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestUploadCertification_AppendsAndNotifies(t *testing.T) {
	svc, notifier, _ := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelAdvanced})
	require.NoError(t, err)

	cert, err := svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "Gopher Cert.pdf", "pdf"))
	require.NoError(t, err)
	assert.Equal(t, "Gopher Cert.pdf", cert.FileName)
	assert.Contains(t, cert.BlobPath, "certifications/owner-1/"+created.ID.String())

	loaded, err := svc.GetSkill(ctx, created.ID, "owner-1")
	require.NoError(t, err)
	require.Len(t, loaded.Certifications, 1)

	require.Len(t, notifier.uploads, 1)
	assert.Equal(t, "Go/Gopher Cert.pdf", notifier.uploads[0])
}

func TestUploadCertification_BadFileTypeIsUploadError(t *testing.T) {
	svc, _, _ := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelAdvanced})
	require.NoError(t, err)

	_, err = svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "cert.exe", "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpload))

	loaded, err := svc.GetSkill(ctx, created.ID, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Certifications, "failed upload must not append a record")
}

func TestUploadCertification_TimeoutIsUploadError(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Skill{}, &Certification{}))

	blobs, err := filestorage.NewService(t.TempDir(), time.Nanosecond, zap.NewNop())
	require.NoError(t, err)
	svc := NewService(NewGORMRepository(db), blobs, &recordingNotifier{}, zap.NewNop())

	ctx := context.Background()
	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelAdvanced})
	require.NoError(t, err)

	_, err = svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "cert.pdf", "pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpload), "an expired upload must surface as an upload error")
}

func TestUploadCertification_SameFilenameKeepsBothBlobs(t *testing.T) {
	svc, _, storageRoot := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelAdvanced})
	require.NoError(t, err)

	first, err := svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "resume.pdf", "first"))
	require.NoError(t, err)
	second, err := svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "resume.pdf", "second"))
	require.NoError(t, err)

	require.NotEqual(t, first.BlobPath, second.BlobPath, "two uploads must never share a blob")

	require.NoError(t, svc.DeleteCertification(ctx, first.ID, "owner-1"))

	content, err := os.ReadFile(filepath.Join(storageRoot, second.BlobPath))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content), "deleting one record must leave the other's blob intact")
}

func TestDeleteCertification_SiblingsUntouched(t *testing.T) {
	svc, _, storageRoot := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelAdvanced})
	require.NoError(t, err)
	first, err := svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "one.pdf", "one"))
	require.NoError(t, err)
	second, err := svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "two.pdf", "two"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCertification(ctx, first.ID, "owner-1"))

	loaded, err := svc.GetSkill(ctx, created.ID, "owner-1")
	require.NoError(t, err)
	require.Len(t, loaded.Certifications, 1)
	assert.Equal(t, second.ID, loaded.Certifications[0].ID)

	_, err = os.Stat(filepath.Join(storageRoot, second.BlobPath))
	assert.NoError(t, err, "sibling blob must survive")
}

func TestDeleteCertification_ScopedToOwner(t *testing.T) {
	svc, _, _ := setupSkillService(t)
	ctx := context.Background()

	created, err := svc.AddSkill(ctx, "owner-1", CreateSkillRequest{Name: "Go", Level: LevelAdvanced})
	require.NoError(t, err)
	cert, err := svc.UploadCertification(ctx, created.ID, "owner-1", newTestUpload(t, "one.pdf", "one"))
	require.NoError(t, err)

	err = svc.DeleteCertification(ctx, cert.ID, "owner-2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
