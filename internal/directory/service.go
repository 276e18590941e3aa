// File: internal/directory/service.go
package directory

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/notification"
)

// Messenger delivers a bulk message to one recipient. Implemented by the
// notification service.
type Messenger interface {
	DeliverBulkMessage(ctx context.Context, senderID, recipientID, subject, body string) (*notification.Notification, error)
}

// Service provides the admin directory operations.
type Service struct {
	repo      Repository
	messenger Messenger
	logger    *zap.Logger
}

// NewService creates a new directory service.
func NewService(repo Repository, messenger Messenger, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		messenger: messenger,
		logger:    logger.Named("directory.service"),
	}
}

// Search loads the roster and applies the skill-name search.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	roster, err := s.repo.ListEntries(ctx)
	if err != nil {
		s.logger.Error("Failed to load directory roster", zap.Error(err))
		return nil, err
	}
	return Search(query, roster), nil
}

// SendBulkMessage delivers an in-app message to every selected recipient
// and reports the outcome per recipient. Validation failures reject the
// whole send before anything is delivered.
func (s *Service) SendBulkMessage(ctx context.Context, senderID string, req BulkMessageRequest) (*BulkMessageReport, error) {
	if len(req.RecipientIDs) == 0 {
		return nil, common.ErrValidation.WithDetails("Select at least one recipient.")
	}
	subject := strings.TrimSpace(req.Subject)
	body := strings.TrimSpace(req.Body)
	if subject == "" {
		return nil, common.ErrValidation.WithDetails("Subject must not be empty.")
	}
	if body == "" {
		return nil, common.ErrValidation.WithDetails("Message body must not be empty.")
	}

	roster, err := s.repo.ListEntries(ctx)
	if err != nil {
		s.logger.Error("Failed to load roster for bulk message", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]Entry, len(roster))
	for _, e := range roster {
		byID[e.UserID] = e
	}

	report := &BulkMessageReport{Requested: len(req.RecipientIDs)}
	for _, recipientID := range req.RecipientIDs {
		entry, known := byID[recipientID]
		if !known {
			report.Failed++
			report.Results = append(report.Results, DeliveryResult{
				RecipientID: recipientID,
				Delivered:   false,
				Error:       "recipient not found in directory",
			})
			continue
		}

		if _, err := s.messenger.DeliverBulkMessage(ctx, senderID, recipientID, subject, body); err != nil {
			s.logger.Warn("Bulk message delivery failed",
				zap.String("recipientID", recipientID), zap.Error(err))
			report.Failed++
			report.Results = append(report.Results, DeliveryResult{
				RecipientID: recipientID,
				Name:        entry.Name,
				Delivered:   false,
				Error:       "delivery failed",
			})
			continue
		}

		report.Delivered++
		report.Results = append(report.Results, DeliveryResult{
			RecipientID: recipientID,
			Name:        entry.Name,
			Delivered:   true,
		})
	}

	s.logger.Info("Bulk message processed",
		zap.String("senderID", senderID),
		zap.Int("requested", report.Requested),
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed))
	return report, nil
}

// ExportCSV renders the roster as CSV, one row per entry with skills
// flattened as "name (years)" pairs.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	roster, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"user_id", "name", "email", "department", "skills"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range roster {
		skills := make([]string, 0, len(e.Skills))
		for _, sk := range e.Skills {
			skills = append(skills, sk.Name+" ("+strconv.Itoa(sk.Years)+")")
		}
		record := []string{e.UserID, e.Name, e.Email, e.Department, strings.Join(skills, "; ")}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
