// File: internal/directory/service_test.go
package directory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/notification"
	"skills_portfolio_backend/internal/skill"
	"skills_portfolio_backend/internal/user"
)

type fakeMessenger struct {
	delivered []string
	failFor   map[string]bool
}

func (m *fakeMessenger) DeliverBulkMessage(_ context.Context, _, recipientID, _, _ string) (*notification.Notification, error) {
	if m.failFor[recipientID] {
		return nil, errors.New("delivery backend down")
	}
	m.delivered = append(m.delivered, recipientID)
	return &notification.Notification{UserID: recipientID}, nil
}

func newTestService(roster []Entry, messenger Messenger) *Service {
	return NewService(NewMemoryRepository(roster), messenger, zap.NewNop())
}

func TestSendBulkMessage_EmptySelectionRejected(t *testing.T) {
	svc := newTestService(testRoster(), &fakeMessenger{})

	_, err := svc.SendBulkMessage(context.Background(), "admin-1", BulkMessageRequest{
		Subject: "Hello", Body: "World",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestSendBulkMessage_EmptySubjectAndBodyRejected(t *testing.T) {
	svc := newTestService(testRoster(), &fakeMessenger{})

	_, err := svc.SendBulkMessage(context.Background(), "admin-1", BulkMessageRequest{
		RecipientIDs: []string{"u1"}, Subject: "  ", Body: "World",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.SendBulkMessage(context.Background(), "admin-1", BulkMessageRequest{
		RecipientIDs: []string{"u1"}, Subject: "Hello", Body: "\n",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestSendBulkMessage_PerRecipientReport(t *testing.T) {
	messenger := &fakeMessenger{failFor: map[string]bool{"u2": true}}
	svc := newTestService(testRoster(), messenger)

	report, err := svc.SendBulkMessage(context.Background(), "admin-1", BulkMessageRequest{
		RecipientIDs: []string{"u1", "u2", "ghost"},
		Subject:      "Town hall",
		Body:         "Friday at 3pm.",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Requested)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Results, 3)

	assert.True(t, report.Results[0].Delivered)
	assert.Equal(t, "u1", report.Results[0].RecipientID)

	assert.False(t, report.Results[1].Delivered)
	assert.Equal(t, "delivery failed", report.Results[1].Error)

	assert.False(t, report.Results[2].Delivered)
	assert.Contains(t, report.Results[2].Error, "not found")

	assert.Equal(t, []string{"u1"}, messenger.delivered)
}

func TestSearchService_UsesRoster(t *testing.T) {
	svc := newTestService(testRoster(), &fakeMessenger{})

	results, err := svc.Search(context.Background(), "cobol")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u2", results[0].UserID)
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(testRoster(), &fakeMessenger{})

	data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6, "header plus one row per entry")
	assert.Equal(t, "user_id,name,email,department,skills", lines[0])
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.Contains(t, lines[1], "Go (3); PostgreSQL (6)")
}

func TestGORMRepository_ProjectsProfilesAndSkills(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.Profile{}, &skill.Skill{}, &skill.Certification{}))

	require.NoError(t, db.Create(&user.Profile{ID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com", Role: common.RoleResource, Department: "Platform"}).Error)
	require.NoError(t, db.Create(&user.Profile{ID: "u2", FullName: "Grace Hopper", Email: "grace@example.com", Role: common.RoleAdmin}).Error)
	require.NoError(t, db.Create(&skill.Skill{OwnerID: "u1", Name: "Go", Level: skill.LevelAdvanced, YearsOfExperience: 3}).Error)
	require.NoError(t, db.Create(&skill.Skill{OwnerID: "u1", Name: "PostgreSQL", Level: skill.LevelExpert, YearsOfExperience: 6}).Error)

	entries, err := NewGORMRepository(db).ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "u1", entries[0].UserID)
	require.Len(t, entries[0].Skills, 2)
	assert.Equal(t, "Go", entries[0].Skills[0].Name)
	assert.Equal(t, 3, entries[0].Skills[0].Years)

	assert.Equal(t, "u2", entries[1].UserID)
	assert.Empty(t, entries[1].Skills, "profiles without skills still appear in the roster")
}
