package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Result summarizes one evaluation run. Processed counts rules that fired;
// Sent counts successful per-recipient channel deliveries.
type Result struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
}

// Evaluator runs trigger events through the active rule set and hands
// matching rules to the dispatcher.
type Evaluator struct {
	rules      RuleRepository
	dir        Directory
	dispatcher *Dispatcher
	log        zerolog.Logger
	now        func() time.Time
}

// NewEvaluator creates a rule evaluator.
func NewEvaluator(rules RuleRepository, dir Directory, dispatcher *Dispatcher, log zerolog.Logger) *Evaluator {
	return &Evaluator{rules: rules, dir: dir, dispatcher: dispatcher, log: log, now: time.Now}
}

// Evaluate matches every active rule for the trigger event against the entity
// data and dispatches those that pass. Rules are evaluated sequentially and
// independently; a failure in one rule is logged and does not stop the rest.
func (e *Evaluator) Evaluate(ctx context.Context, triggerEvent, entityID string, data map[string]interface{}) (*Result, error) {
	rules, err := e.rules.ListActiveByEvent(ctx, triggerEvent)
	if err != nil {
		return nil, fmt.Errorf("load rules for event %q: %w", triggerEvent, err)
	}

	res := &Result{}
	for _, rule := range rules {
		sent, fired := e.evaluateRule(ctx, rule, triggerEvent, entityID, data)
		if fired {
			res.Processed++
			res.Sent += sent
		}
	}
	e.log.Info().Str("trigger_event", triggerEvent).Int("rules", len(rules)).
		Int("processed", res.Processed).Int("sent", res.Sent).Msg("evaluation run complete")
	return res, nil
}

func (e *Evaluator) evaluateRule(ctx context.Context, rule *Rule, triggerEvent, entityID string, data map[string]interface{}) (int, bool) {
	match, err := evaluateConditions(rule.Conditions, data)
	if err != nil {
		e.log.Warn().Err(err).Str("rule_id", rule.ID.String()).Str("rule_name", rule.RuleName).
			Msg("skipping rule with invalid condition")
		return 0, false
	}
	if !match {
		return 0, false
	}

	// Cheap local gate check before doing any lookups. The authoritative
	// check happens in ClaimFiring.
	if rule.gateBlocked() {
		return 0, false
	}

	recipients := resolveRecipients(ctx, e.log, e.dir, rule, data)
	if len(recipients) == 0 {
		// No one to notify; the firing is not consumed.
		return 0, false
	}

	body := renderTemplate(rule.MessageTemplate, data)
	subject := ""
	if rule.MessageSubject != nil {
		subject = renderTemplate(*rule.MessageSubject, data)
	}

	claimed, err := e.rules.ClaimFiring(ctx, rule.ID, e.now())
	if err != nil {
		e.log.Error().Err(err).Str("rule_id", rule.ID.String()).Msg("failed to claim rule firing")
		return 0, false
	}
	if !claimed {
		// Another evaluation got there first, or the rule was deactivated
		// under us.
		return 0, false
	}

	dl := &delivery{
		rule:       rule,
		subject:    subject,
		body:       body,
		entityType: &triggerEvent,
	}
	if entityID != "" {
		dl.entityID = &entityID
	}
	sent := e.dispatcher.Dispatch(ctx, dl, recipients)
	return sent, true
}
