// File: internal/filestorage/service_test.go
package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir(), time.Minute, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, svc)
	return svc
}

// newTestFileHeader builds a multipart.FileHeader the way Gin would hand
// one to a handler.
func newTestFileHeader(t *testing.T, fieldname, filename, content, contentType string) *multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldname, filename))
	if contentType != "" {
		partHeader.Set("Content-Type", contentType)
	}

	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)

	files := form.File[fieldname]
	require.NotEmpty(t, files)
	return files[0]
}

func TestSaveCertification_Success(t *testing.T) {
	svc := setupService(t)
	skillID := uuid.New()

	fh := newTestFileHeader(t, "certification", "AWS Architect Cert.pdf", "pdf bytes", "application/pdf")
	relativePath, err := svc.SaveCertification(context.Background(), fh, "owner-1", skillID)

	require.NoError(t, err)
	prefix := filepath.ToSlash(filepath.Join("certifications", "owner-1", skillID.String())) + "/"
	assert.True(t, strings.HasPrefix(relativePath, prefix), "blob path should be scoped to owner and skill")
	assert.True(t, strings.HasSuffix(relativePath, ".pdf"))
	assert.Contains(t, relativePath, "aws-architect-cert")

	content, err := os.ReadFile(filepath.Join(svc.storagePath, relativePath))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(content))
}

func TestSaveCertification_UnsupportedType(t *testing.T) {
	svc := setupService(t)

	fh := newTestFileHeader(t, "certification", "malware.exe", "nope", "application/octet-stream")
	_, err := svc.SaveCertification(context.Background(), fh, "owner-1", uuid.New())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported certification file type")
}

func TestSaveCertification_RepeatedFilenamesGetDistinctBlobs(t *testing.T) {
	svc := setupService(t)
	skillID := uuid.New()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		content := fmt.Sprintf("revision %d", i)
		fh := newTestFileHeader(t, "certification", "resume.pdf", content, "application/pdf")
		relativePath, err := svc.SaveCertification(context.Background(), fh, "owner-1", skillID)
		require.NoError(t, err)
		require.False(t, seen[relativePath], "blob path %q was handed out twice", relativePath)
		seen[relativePath] = true

		stored, err := os.ReadFile(filepath.Join(svc.storagePath, relativePath))
		require.NoError(t, err)
		assert.Equal(t, content, string(stored), "a later upload must not overwrite an earlier blob")
	}
}

func TestSaveCertification_UploadTimeoutExpiry(t *testing.T) {
	svc, err := NewService(t.TempDir(), time.Nanosecond, zap.NewNop())
	require.NoError(t, err)

	fh := newTestFileHeader(t, "certification", "cert.pdf", "pdf bytes", "application/pdf")
	_, err = svc.SaveCertification(context.Background(), fh, "owner-1", uuid.New())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSaveCertification_CancelledContext(t *testing.T) {
	svc := setupService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fh := newTestFileHeader(t, "certification", "cert.pdf", "pdf bytes", "application/pdf")
	_, err := svc.SaveCertification(ctx, fh, "owner-1", uuid.New())
	require.ErrorIs(t, err, context.Canceled)
}

func TestDelete_RemovesSingleBlob(t *testing.T) {
	svc := setupService(t)
	skillID := uuid.New()

	first, err := svc.SaveCertification(context.Background(), newTestFileHeader(t, "c", "one.pdf", "one", "application/pdf"), "owner-1", skillID)
	require.NoError(t, err)
	second, err := svc.SaveCertification(context.Background(), newTestFileHeader(t, "c", "two.pdf", "two", "application/pdf"), "owner-1", skillID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(first))

	_, err = os.Stat(filepath.Join(svc.storagePath, first))
	assert.True(t, os.IsNotExist(err), "deleted blob should be gone")
	_, err = os.Stat(filepath.Join(svc.storagePath, second))
	assert.NoError(t, err, "sibling blob must be untouched")
}

func TestDelete_MissingBlobIsNoError(t *testing.T) {
	svc := setupService(t)
	assert.NoError(t, svc.Delete("certifications/owner-1/none/missing.pdf"))
}

func TestDeleteSkillScope(t *testing.T) {
	svc := setupService(t)
	skillA := uuid.New()
	skillB := uuid.New()

	_, err := svc.SaveCertification(context.Background(), newTestFileHeader(t, "c", "a.pdf", "a", "application/pdf"), "owner-1", skillA)
	require.NoError(t, err)
	kept, err := svc.SaveCertification(context.Background(), newTestFileHeader(t, "c", "b.pdf", "b", "application/pdf"), "owner-1", skillB)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSkillScope("owner-1", skillA))

	_, err = os.Stat(filepath.Join(svc.storagePath, "certifications", "owner-1", skillA.String()))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(svc.storagePath, kept))
	assert.NoError(t, err, "other skill's blobs must be untouched")
}
