package alert

import (
	"context"

	"github.com/google/uuid"
)

// AlertRepository defines the data access interface for dashboard alerts.
type AlertRepository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Alert, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
