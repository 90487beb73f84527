package alert

import (
	"time"

	"github.com/google/uuid"
)

// Priority levels for dashboard alerts.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Alert maps to the dashboard_alert table: one in-app notification shown on a
// recipient's dashboard or portal.
type Alert struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	RecipientID      uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	RecipientType    string     `db:"recipient_type" json:"recipient_type"` // "User" or "Client"
	NotificationType string     `db:"notification_type" json:"notification_type"`
	Title            string     `db:"title" json:"title"`
	Message          string     `db:"message" json:"message"`
	Priority         string     `db:"priority" json:"priority"`
	IsRead           bool       `db:"is_read" json:"is_read"`
	ReadAt           *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}
