// File: internal/notification/model.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type defines the kind of notification.
type Type string

const (
	BulkMessageReceived   Type = "bulk_message_received"
	CertificationUploaded Type = "certification_uploaded"
)

// Notification represents an in-app user notification. Notifications are
// immutable once created apart from the read flag.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:varchar(128);not null;index:idx_notification_user_status" json:"user_id"`
	Type      Type      `gorm:"type:varchar(100);not null" json:"type"`
	Subject   string    `gorm:"type:varchar(255)" json:"subject,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	SenderID  string    `gorm:"type:varchar(128)" json:"sender_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
