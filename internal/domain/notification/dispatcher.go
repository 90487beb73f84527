package notification

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/platform/mail"
)

// AlertSink receives dashboard alerts produced by notification rules. The
// server wires an adapter over the alert service.
type AlertSink interface {
	CreateAlert(ctx context.Context, recipientID uuid.UUID, recipientType, notificationType, title, message string) error
}

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from a rendered message so dashboard alerts carry
// plain text.
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTags.ReplaceAllString(s, ""))
}

// Dispatcher delivers a rendered notification to resolved recipients and
// records one log row per attempt per channel.
type Dispatcher struct {
	logs   LogRepository
	email  mail.EmailSender
	alerts AlertSink
	log    zerolog.Logger
}

// NewDispatcher creates a delivery dispatcher.
func NewDispatcher(logs LogRepository, email mail.EmailSender, alerts AlertSink, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{logs: logs, email: email, alerts: alerts, log: log}
}

// delivery is a rendered notification ready to send.
type delivery struct {
	rule    *Rule
	subject string
	body    string
	// related entity recorded on every log row
	entityType *string
	entityID   *string
}

// Dispatch sends the rendered message to each recipient over the channels the
// rule's type selects. It returns the number of successful channel deliveries.
// Delivery failures are recorded in the log and do not interrupt the
// remaining recipients.
func (d *Dispatcher) Dispatch(ctx context.Context, dl *delivery, recipients []*Recipient) int {
	sent := 0
	for _, rec := range recipients {
		if wantsEmail(dl.rule.RuleType) {
			if rec.Email != nil && *rec.Email != "" {
				if d.deliverEmail(ctx, dl, rec) {
					sent++
				}
			}
			// Recipients without an email address are skipped for this
			// channel without a log row.
		}
		if wantsAlert(dl.rule.RuleType) {
			if d.deliverAlert(ctx, dl, rec) {
				sent++
			}
		}
	}
	return sent
}

func wantsEmail(ruleType string) bool {
	return ruleType == RuleTypeEmail || ruleType == RuleTypeAll
}

func wantsAlert(ruleType string) bool {
	return ruleType == RuleTypeDashboardAlert || ruleType == RuleTypeAll
}

func (d *Dispatcher) deliverEmail(ctx context.Context, dl *delivery, rec *Recipient) bool {
	subject := "Notification"
	if dl.subject != "" {
		subject = dl.subject
	}
	err := d.email.SendEmail(ctx, *rec.Email, subject, dl.body)
	d.writeLog(ctx, dl, rec, RuleTypeEmail, err)
	return err == nil
}

func (d *Dispatcher) deliverAlert(ctx context.Context, dl *delivery, rec *Recipient) bool {
	title := dl.subject
	if title == "" {
		title = dl.rule.RuleName
	}
	err := d.alerts.CreateAlert(ctx, rec.ID, rec.Type, dl.rule.TriggerEvent, title, stripHTML(dl.body))
	d.writeLog(ctx, dl, rec, RuleTypeDashboardAlert, err)
	return err == nil
}

// writeLog appends the audit row for one delivery attempt. A failure to write
// the log is itself logged but never fails the dispatch.
func (d *Dispatcher) writeLog(ctx context.Context, dl *delivery, rec *Recipient, channel string, sendErr error) {
	row := &Log{
		RuleID:            dl.rule.ID,
		RecipientID:       rec.ID,
		RecipientType:     rec.Type,
		RecipientEmail:    rec.Email,
		RecipientPhone:    rec.Phone,
		NotificationType:  channel,
		MessageContent:    dl.body,
		SentSuccessfully:  sendErr == nil,
		RelatedEntityType: dl.entityType,
		RelatedEntityID:   dl.entityID,
	}
	if dl.subject != "" {
		s := dl.subject
		row.MessageSubject = &s
	}
	if sendErr != nil {
		msg := sendErr.Error()
		row.ErrorMessage = &msg
	}
	if err := d.logs.Create(ctx, row); err != nil {
		d.log.Error().Err(err).Str("rule_id", dl.rule.ID.String()).
			Str("recipient_id", rec.ID.String()).Msg("failed to write notification log")
	}
}
