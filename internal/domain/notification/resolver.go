package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recipient is a resolved delivery target.
type Recipient struct {
	ID    uuid.UUID
	Type  string // "User" or "Client"
	Email *string
	Phone *string
}

// Directory looks up delivery targets in the practice's user and client
// records. The server wires adapters over the identity and client services.
type Directory interface {
	UserByID(ctx context.Context, id uuid.UUID) (*Recipient, error)
	UsersByRole(ctx context.Context, role string) ([]*Recipient, error)
	ClientByID(ctx context.Context, id uuid.UUID) (*Recipient, error)
}

// resolveRecipients expands a rule's recipient specification into concrete
// delivery targets using the entity data for contextual types. An empty
// result is not an error; the evaluator skips the rule without consuming a
// firing. Lookup failures for individual entries are logged and skipped so
// one stale ID cannot block the rest of the list.
func resolveRecipients(ctx context.Context, log zerolog.Logger, dir Directory, r *Rule, data map[string]interface{}) []*Recipient {
	switch r.RecipientType {
	case RecipientSpecificUser:
		var out []*Recipient
		for _, raw := range r.Recipients {
			id, err := uuid.Parse(raw)
			if err != nil {
				log.Warn().Str("rule_id", r.ID.String()).Str("recipient", raw).
					Msg("skipping malformed recipient id")
				continue
			}
			u, err := dir.UserByID(ctx, id)
			if err != nil {
				log.Warn().Err(err).Str("rule_id", r.ID.String()).Str("user_id", raw).
					Msg("recipient user lookup failed")
				continue
			}
			out = append(out, u)
		}
		return out

	case RecipientClient:
		return contextualLookup(ctx, log, r, data, "client_id", dir.ClientByID)

	case RecipientClinician:
		return contextualLookup(ctx, log, r, data, "clinician_id", dir.UserByID)

	case RecipientRole:
		var out []*Recipient
		for _, role := range r.Recipients {
			users, err := dir.UsersByRole(ctx, role)
			if err != nil {
				log.Warn().Err(err).Str("rule_id", r.ID.String()).Str("role", role).
					Msg("role recipient lookup failed")
				continue
			}
			out = append(out, users...)
		}
		return out

	case RecipientSupervisor, RecipientAdministrator:
		// No supervision hierarchy is modeled yet, so these resolve to
		// nothing and the rule is skipped.
		log.Warn().Str("rule_id", r.ID.String()).Str("recipient_type", r.RecipientType).
			Msg("recipient type not resolvable")
		return nil

	default:
		log.Warn().Str("rule_id", r.ID.String()).Str("recipient_type", r.RecipientType).
			Msg("unknown recipient type")
		return nil
	}
}

// contextualLookup resolves a single recipient from an ID field on the
// triggering entity, e.g. client_id for Client recipients.
func contextualLookup(ctx context.Context, log zerolog.Logger, r *Rule, data map[string]interface{},
	field string, fetch func(context.Context, uuid.UUID) (*Recipient, error)) []*Recipient {

	raw, ok := lookupField(data, field)
	if !ok {
		log.Warn().Str("rule_id", r.ID.String()).Str("field", field).
			Msg("entity data missing recipient id field")
		return nil
	}
	id, err := uuid.Parse(fmt.Sprintf("%v", raw))
	if err != nil {
		log.Warn().Str("rule_id", r.ID.String()).Str("field", field).
			Msg("entity recipient id field is not a uuid")
		return nil
	}
	rec, err := fetch(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("rule_id", r.ID.String()).Str("field", field).
			Msg("contextual recipient lookup failed")
		return nil
	}
	return []*Recipient{rec}
}
