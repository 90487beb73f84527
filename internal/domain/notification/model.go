package notification

import (
	"time"

	"github.com/google/uuid"
)

// Rule channel types.
const (
	RuleTypeEmail          = "Email"
	RuleTypeSMS            = "SMS"
	RuleTypeDashboardAlert = "DashboardAlert"
	RuleTypeAll            = "All"
)

// Recipient specification types.
const (
	RecipientSpecificUser  = "SpecificUser"
	RecipientClient        = "Client"
	RecipientClinician     = "Clinician"
	RecipientSupervisor    = "Supervisor"
	RecipientAdministrator = "Administrator"
	RecipientRole          = "Role"
)

// Timing types. Recorded on the rule but not enforced by the evaluator;
// scheduling is the cron layer's responsibility.
const (
	TimingImmediate   = "Immediate"
	TimingScheduled   = "Scheduled"
	TimingBeforeEvent = "BeforeEvent"
	TimingAfterEvent  = "AfterEvent"
)

// Condition operators.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpContains    = "contains"
	OpNotContains = "not_contains"
	OpIsNull      = "is_null"
	OpIsNotNull   = "is_not_null"
)

// Condition is a single predicate against the triggering entity's data.
// A rule's conditions are AND-ed in order.
type Condition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
}

// Rule maps to the notification_rule table.
type Rule struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	RuleName        string      `db:"rule_name" json:"rule_name"`
	RuleType        string      `db:"rule_type" json:"rule_type"`
	TriggerEvent    string      `db:"trigger_event" json:"trigger_event"`
	Conditions      []Condition `db:"conditions" json:"conditions"`
	RecipientType   string      `db:"recipient_type" json:"recipient_type"`
	Recipients      []string    `db:"recipients" json:"recipients"`
	TimingType      string      `db:"timing_type" json:"timing_type"`
	TimingOffset    *int        `db:"timing_offset" json:"timing_offset,omitempty"`
	MessageTemplate string      `db:"message_template" json:"message_template"`
	MessageSubject  *string     `db:"message_subject" json:"message_subject,omitempty"`
	SendOnce        bool        `db:"send_once" json:"send_once"`
	SendRepeatedly  bool        `db:"send_repeatedly" json:"send_repeatedly"`
	RepeatInterval  *int        `db:"repeat_interval" json:"repeat_interval,omitempty"`
	MaxRepeats      *int        `db:"max_repeats" json:"max_repeats,omitempty"`
	IsActive        bool        `db:"is_active" json:"is_active"`
	ExecutionCount  int         `db:"execution_count" json:"execution_count"`
	LastExecutedAt  *time.Time  `db:"last_executed_at" json:"last_executed_at,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// Derived rule states.
const (
	StateInactive  = "Inactive"
	StateExhausted = "Exhausted"
	StateArmed     = "Armed"
)

// State derives the rule's effective state from its active flag and counters.
// SendOnce is checked before SendRepeatedly, so it wins when both are set.
func (r *Rule) State() string {
	if !r.IsActive {
		return StateInactive
	}
	if r.gateBlocked() {
		return StateExhausted
	}
	return StateArmed
}

// gateBlocked reports whether the frequency gate blocks further firings.
func (r *Rule) gateBlocked() bool {
	if r.SendOnce {
		return r.ExecutionCount > 0
	}
	if r.SendRepeatedly && r.MaxRepeats != nil {
		return r.ExecutionCount >= *r.MaxRepeats
	}
	return false
}

// Log maps to the notification_log table: one row per delivery attempt to one
// recipient via one channel. Rows are append-only; the pipeline never updates
// or deletes them.
type Log struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	RuleID            uuid.UUID  `db:"rule_id" json:"rule_id"`
	RecipientID       uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	RecipientType     string     `db:"recipient_type" json:"recipient_type"`
	RecipientEmail    *string    `db:"recipient_email" json:"recipient_email,omitempty"`
	RecipientPhone    *string    `db:"recipient_phone" json:"recipient_phone,omitempty"`
	NotificationType  string     `db:"notification_type" json:"notification_type"`
	MessageSubject    *string    `db:"message_subject" json:"message_subject,omitempty"`
	MessageContent    string     `db:"message_content" json:"message_content"`
	SentSuccessfully  bool       `db:"sent_successfully" json:"sent_successfully"`
	ErrorMessage      *string    `db:"error_message" json:"error_message,omitempty"`
	RelatedEntityType *string    `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *string    `db:"related_entity_id" json:"related_entity_id,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
