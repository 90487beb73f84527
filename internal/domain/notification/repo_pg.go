package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ruleRepoPG struct{ pool *pgxpool.Pool }

// NewRuleRepoPG creates a new PostgreSQL-backed rule repository.
func NewRuleRepoPG(pool *pgxpool.Pool) RuleRepository {
	return &ruleRepoPG{pool: pool}
}

const ruleCols = `id, rule_name, rule_type, trigger_event, conditions, recipient_type,
	recipients, timing_type, timing_offset, message_template, message_subject,
	send_once, send_repeatedly, repeat_interval, max_repeats, is_active,
	execution_count, last_executed_at, created_at, updated_at`

func scanRule(row pgx.Row) (*Rule, error) {
	var r Rule
	var conditions []byte
	err := row.Scan(&r.ID, &r.RuleName, &r.RuleType, &r.TriggerEvent, &conditions,
		&r.RecipientType, &r.Recipients, &r.TimingType, &r.TimingOffset,
		&r.MessageTemplate, &r.MessageSubject,
		&r.SendOnce, &r.SendRepeatedly, &r.RepeatInterval, &r.MaxRepeats,
		&r.IsActive, &r.ExecutionCount, &r.LastExecutedAt,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &r.Conditions); err != nil {
			return nil, fmt.Errorf("decode rule conditions: %w", err)
		}
	}
	return &r, nil
}

func (r *ruleRepoPG) Create(ctx context.Context, rule *Rule) error {
	rule.ID = uuid.New()
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("encode rule conditions: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO notification_rule (id, rule_name, rule_type, trigger_event, conditions,
			recipient_type, recipients, timing_type, timing_offset,
			message_template, message_subject, send_once, send_repeatedly,
			repeat_interval, max_repeats, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		rule.ID, rule.RuleName, rule.RuleType, rule.TriggerEvent, conditions,
		rule.RecipientType, rule.Recipients, rule.TimingType, rule.TimingOffset,
		rule.MessageTemplate, rule.MessageSubject, rule.SendOnce, rule.SendRepeatedly,
		rule.RepeatInterval, rule.MaxRepeats, rule.IsActive)
	return err
}

func (r *ruleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return scanRule(r.pool.QueryRow(ctx, `SELECT `+ruleCols+` FROM notification_rule WHERE id = $1`, id))
}

func (r *ruleRepoPG) Update(ctx context.Context, rule *Rule) error {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("encode rule conditions: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE notification_rule SET rule_name=$2, rule_type=$3, trigger_event=$4,
			conditions=$5, recipient_type=$6, recipients=$7, timing_type=$8,
			timing_offset=$9, message_template=$10, message_subject=$11,
			send_once=$12, send_repeatedly=$13, repeat_interval=$14, max_repeats=$15,
			is_active=$16, updated_at=NOW()
		WHERE id = $1`,
		rule.ID, rule.RuleName, rule.RuleType, rule.TriggerEvent, conditions,
		rule.RecipientType, rule.Recipients, rule.TimingType, rule.TimingOffset,
		rule.MessageTemplate, rule.MessageSubject, rule.SendOnce, rule.SendRepeatedly,
		rule.RepeatInterval, rule.MaxRepeats, rule.IsActive)
	return err
}

func (r *ruleRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notification_rule WHERE id = $1`, id)
	return err
}

func (r *ruleRepoPG) List(ctx context.Context, limit, offset int) ([]*Rule, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notification_rule`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+ruleCols+` FROM notification_rule
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rule)
	}
	return items, total, nil
}

func (r *ruleRepoPG) ListActiveByEvent(ctx context.Context, triggerEvent string) ([]*Rule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ruleCols+` FROM notification_rule
		WHERE is_active AND trigger_event = $1 ORDER BY created_at`, triggerEvent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rule)
	}
	return items, nil
}

func (r *ruleRepoPG) ClaimFiring(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		UPDATE notification_rule
		SET execution_count = execution_count + 1, last_executed_at = $2, updated_at = NOW()
		WHERE id = $1
		  AND is_active
		  AND (NOT send_once OR execution_count = 0)
		  AND (NOT send_repeatedly OR max_repeats IS NULL OR execution_count < max_repeats)
		RETURNING execution_count`, id, now).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type logRepoPG struct{ pool *pgxpool.Pool }

// NewLogRepoPG creates a new PostgreSQL-backed notification log repository.
func NewLogRepoPG(pool *pgxpool.Pool) LogRepository {
	return &logRepoPG{pool: pool}
}

const logCols = `id, rule_id, recipient_id, recipient_type, recipient_email, recipient_phone,
	notification_type, message_subject, message_content, sent_successfully,
	error_message, related_entity_type, related_entity_id, created_at`

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.RuleID, &l.RecipientID, &l.RecipientType,
		&l.RecipientEmail, &l.RecipientPhone, &l.NotificationType,
		&l.MessageSubject, &l.MessageContent, &l.SentSuccessfully,
		&l.ErrorMessage, &l.RelatedEntityType, &l.RelatedEntityID, &l.CreatedAt)
	return &l, err
}

func (r *logRepoPG) Create(ctx context.Context, l *Log) error {
	l.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_log (id, rule_id, recipient_id, recipient_type,
			recipient_email, recipient_phone, notification_type, message_subject,
			message_content, sent_successfully, error_message,
			related_entity_type, related_entity_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		l.ID, l.RuleID, l.RecipientID, l.RecipientType,
		l.RecipientEmail, l.RecipientPhone, l.NotificationType, l.MessageSubject,
		l.MessageContent, l.SentSuccessfully, l.ErrorMessage,
		l.RelatedEntityType, l.RelatedEntityID)
	return err
}

func (r *logRepoPG) ListByRule(ctx context.Context, ruleID uuid.UUID, limit, offset int) ([]*Log, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notification_log WHERE rule_id = $1`, ruleID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+logCols+` FROM notification_log
		WHERE rule_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, ruleID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, nil
}

func (r *logRepoPG) List(ctx context.Context, limit, offset int) ([]*Log, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notification_log`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+logCols+` FROM notification_log
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, nil
}
