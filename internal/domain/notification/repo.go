package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RuleRepository defines the data access interface for notification rules.
type RuleRepository interface {
	Create(ctx context.Context, r *Rule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	Update(ctx context.Context, r *Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Rule, int, error)

	// ListActiveByEvent returns active rules whose trigger_event equals the
	// given event, in store order.
	ListActiveByEvent(ctx context.Context, triggerEvent string) ([]*Rule, error)

	// ClaimFiring atomically increments the rule's execution counter and stamps
	// last_executed_at when the frequency gate allows another firing. It returns
	// false when the gate blocks (already fired for send_once rules, or
	// max_repeats reached) or the rule is no longer active. The check and the
	// increment are a single store operation, so two concurrent evaluations of
	// the same send_once rule cannot both claim it.
	ClaimFiring(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

// LogRepository defines the data access interface for the delivery audit trail.
// Log rows are insert-only.
type LogRepository interface {
	Create(ctx context.Context, l *Log) error
	ListByRule(ctx context.Context, ruleID uuid.UUID, limit, offset int) ([]*Log, int, error)
	List(ctx context.Context, limit, offset int) ([]*Log, int, error)
}
