// File: internal/user/service_test.go
package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/identity"
)

func setupUserService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Profile{}))

	return NewService(NewGORMRepository(db), zap.NewNop())
}

func TestGetOrCreateFromIdentity_CreatesDefaultProfile(t *testing.T) {
	svc := setupUserService(t)

	id := &identity.Identity{UID: "uid-1", Email: "jane@example.com", DisplayName: "Jane Doe"}
	profile, err := svc.GetOrCreateFromIdentity(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "uid-1", profile.ID)
	assert.Equal(t, "Jane Doe", profile.FullName)
	assert.Equal(t, common.RoleResource, profile.Role)

	stored, err := svc.GetProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)
}

func TestGetOrCreateFromIdentity_ReturnsExisting(t *testing.T) {
	svc := setupUserService(t)

	created, err := svc.CreateProfile(context.Background(), "uid-1", "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	id := &identity.Identity{UID: "uid-1", Email: "jane@example.com", DisplayName: "Someone Else"}
	profile, err := svc.GetOrCreateFromIdentity(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, created.ID, profile.ID)
	assert.Equal(t, "Jane Doe", profile.FullName, "an existing profile must not be overwritten")
}

func TestUpdateProfile_RoleUntouched(t *testing.T) {
	svc := setupUserService(t)

	_, err := svc.CreateProfile(context.Background(), "uid-1", "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), "uid-1", UpdateProfileRequest{
		FullName: "Jane A. Doe", Department: "Platform",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane A. Doe", updated.FullName)
	assert.Equal(t, "Platform", updated.Department)
	assert.Equal(t, common.RoleResource, updated.Role)
}

func TestUpdateProfile_MissingIsNotFound(t *testing.T) {
	svc := setupUserService(t)

	_, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileRequest{FullName: "Ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDefaultProfile_NameFallbacks(t *testing.T) {
	withName := DefaultProfile(&identity.Identity{UID: "u1", Email: "a@example.com", DisplayName: "Ada"})
	assert.Equal(t, "Ada", withName.FullName)

	fromEmail := DefaultProfile(&identity.Identity{UID: "u2", Email: "grace@example.com"})
	assert.Equal(t, "grace", fromEmail.FullName)

	bareUID := DefaultProfile(&identity.Identity{UID: "u3"})
	assert.Equal(t, "u3", bareUID.FullName)
}
