// File: internal/notification/service.go
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
)

// Service provides notification operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.Named("notification.service"),
	}
}

// GetNotificationsForUser returns a page of the user's notifications.
func (s *Service) GetNotificationsForUser(ctx context.Context, userID string, page, pageSize int) ([]Notification, *common.Pagination, error) {
	return s.repo.GetByUserID(ctx, userID, page, pageSize)
}

// MarkNotificationAsRead marks one notification as read.
func (s *Service) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID string) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllUserNotificationsAsRead marks every unread notification as read.
func (s *Service) MarkAllUserNotificationsAsRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DeliverBulkMessage stores a bulk message as an in-app notification for
// one recipient. Returns the created notification.
func (s *Service) DeliverBulkMessage(ctx context.Context, senderID, recipientID, subject, body string) (*Notification, error) {
	n := &Notification{
		UserID:   recipientID,
		Type:     BulkMessageReceived,
		Subject:  subject,
		Message:  body,
		SenderID: senderID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to deliver bulk message notification",
			zap.String("recipientID", recipientID), zap.Error(err))
		return nil, err
	}
	return n, nil
}

// NotifyCertificationUploaded records an in-app notification for the owner
// after a successful certification upload. Failures are logged, never
// surfaced: the upload itself already succeeded.
func (s *Service) NotifyCertificationUploaded(ctx context.Context, ownerID, skillName, fileName string) {
	n := &Notification{
		UserID:  ownerID,
		Type:    CertificationUploaded,
		Message: fmt.Sprintf("Certification %q was attached to your skill %q.", fileName, skillName),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("Failed to record certification upload notification",
			zap.String("ownerID", ownerID), zap.Error(err))
	}
}
