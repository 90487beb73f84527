package alert

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for dashboard alerts.
type Service struct {
	repo AlertRepository
}

// NewService creates a new alert service.
func NewService(repo AlertRepository) *Service {
	return &Service{repo: repo}
}

var validPriorities = map[string]bool{
	PriorityLow: true, PriorityNormal: true, PriorityHigh: true,
}

func (s *Service) CreateAlert(ctx context.Context, a *Alert) error {
	if a.RecipientID == uuid.Nil {
		return fmt.Errorf("recipient_id is required")
	}
	if a.Message == "" {
		return fmt.Errorf("message is required")
	}
	if a.Priority == "" {
		a.Priority = PriorityNormal
	}
	if !validPriorities[a.Priority] {
		return fmt.Errorf("invalid priority: %s", a.Priority)
	}
	if a.RecipientType == "" {
		a.RecipientType = "User"
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAlert(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAlerts(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Alert, int, error) {
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}
