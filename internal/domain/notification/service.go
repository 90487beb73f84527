package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for managing notification rules and
// reading the delivery log.
type Service struct {
	rules RuleRepository
	logs  LogRepository
}

// NewService creates a new notification rule service.
func NewService(rules RuleRepository, logs LogRepository) *Service {
	return &Service{rules: rules, logs: logs}
}

var validRuleTypes = map[string]bool{
	RuleTypeEmail: true, RuleTypeSMS: true, RuleTypeDashboardAlert: true, RuleTypeAll: true,
}

var validRecipientTypes = map[string]bool{
	RecipientSpecificUser: true, RecipientClient: true, RecipientClinician: true,
	RecipientSupervisor: true, RecipientAdministrator: true, RecipientRole: true,
}

var validTimingTypes = map[string]bool{
	TimingImmediate: true, TimingScheduled: true, TimingBeforeEvent: true, TimingAfterEvent: true,
}

var validOperators = map[string]bool{
	OpEquals: true, OpNotEquals: true, OpGreaterThan: true, OpLessThan: true,
	OpContains: true, OpNotContains: true, OpIsNull: true, OpIsNotNull: true,
}

func validateRule(r *Rule) error {
	if r.RuleName == "" {
		return fmt.Errorf("rule_name is required")
	}
	if r.TriggerEvent == "" {
		return fmt.Errorf("trigger_event is required")
	}
	if r.MessageTemplate == "" {
		return fmt.Errorf("message_template is required")
	}
	if !validRuleTypes[r.RuleType] {
		return fmt.Errorf("invalid rule_type: %s", r.RuleType)
	}
	if !validRecipientTypes[r.RecipientType] {
		return fmt.Errorf("invalid recipient_type: %s", r.RecipientType)
	}
	if r.TimingType == "" {
		r.TimingType = TimingImmediate
	}
	if !validTimingTypes[r.TimingType] {
		return fmt.Errorf("invalid timing_type: %s", r.TimingType)
	}
	for i, c := range r.Conditions {
		if c.Field == "" {
			return fmt.Errorf("condition %d: field is required", i)
		}
		if !validOperators[c.Operator] {
			return fmt.Errorf("condition %d: invalid operator: %s", i, c.Operator)
		}
	}
	if r.SendOnce && r.SendRepeatedly {
		return fmt.Errorf("send_once and send_repeatedly are mutually exclusive")
	}
	if r.MaxRepeats != nil && *r.MaxRepeats < 1 {
		return fmt.Errorf("max_repeats must be positive")
	}
	return nil
}

func (s *Service) CreateRule(ctx context.Context, r *Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	return s.rules.Create(ctx, r)
}

func (s *Service) GetRule(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return s.rules.GetByID(ctx, id)
}

// UpdateRule applies the changes while preserving the stored execution
// counters, which only the evaluator may advance.
func (s *Service) UpdateRule(ctx context.Context, r *Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	existing, err := s.rules.GetByID(ctx, r.ID)
	if err != nil {
		return err
	}
	r.ExecutionCount = existing.ExecutionCount
	r.LastExecutedAt = existing.LastExecutedAt
	return s.rules.Update(ctx, r)
}

func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.rules.Delete(ctx, id)
}

func (s *Service) ListRules(ctx context.Context, limit, offset int) ([]*Rule, int, error) {
	return s.rules.List(ctx, limit, offset)
}

func (s *Service) ListLogs(ctx context.Context, limit, offset int) ([]*Log, int, error) {
	return s.logs.List(ctx, limit, offset)
}

func (s *Service) ListLogsByRule(ctx context.Context, ruleID uuid.UUID, limit, offset int) ([]*Log, int, error) {
	return s.logs.ListByRule(ctx, ruleID, limit, offset)
}
