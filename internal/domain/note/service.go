package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/notification"
)

// RuleEvaluator runs a trigger event through the notification pipeline.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, triggerEvent, entityID string, data map[string]interface{}) (*notification.Result, error)
}

// Service provides business logic for clinical notes, including the overdue
// documentation scan.
type Service struct {
	repo         NoteRepository
	evaluator    RuleEvaluator
	dueAfterDays int
	log          zerolog.Logger
	now          func() time.Time
}

// NewService creates a new clinical note service. dueAfterDays sets the
// documentation deadline applied when a note is created without one.
func NewService(repo NoteRepository, evaluator RuleEvaluator, dueAfterDays int, log zerolog.Logger) *Service {
	return &Service{repo: repo, evaluator: evaluator, dueAfterDays: dueAfterDays, log: log, now: time.Now}
}

func (s *Service) CreateNote(ctx context.Context, n *ClinicalNote) error {
	if n.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if n.ClinicianID == uuid.Nil {
		return fmt.Errorf("clinician_id is required")
	}
	if n.NoteType == "" {
		return fmt.Errorf("note_type is required")
	}
	if n.SessionDate.IsZero() {
		n.SessionDate = s.now()
	}
	if n.Status == "" {
		n.Status = StatusDraft
	}
	if n.DueDate.IsZero() {
		n.DueDate = n.SessionDate.AddDate(0, 0, s.dueAfterDays)
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByClinician(ctx context.Context, clinicianID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	return s.repo.ListByClinician(ctx, clinicianID, limit, offset)
}

// SignNote marks a draft note as signed.
func (s *Service) SignNote(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusDraft {
		return nil, fmt.Errorf("note is already %s", n.Status)
	}
	now := s.now()
	n.Status = StatusSigned
	n.SignedAt = &now
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ScanOverdue finds unsigned notes past their due date and raises a
// "Note Overdue" trigger event for each. Run from the scheduler.
func (s *Service) ScanOverdue(ctx context.Context) error {
	now := s.now()
	notes, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue notes: %w", err)
	}
	for _, n := range notes {
		data := map[string]interface{}{
			"note_id":      n.ID.String(),
			"client_id":    n.ClientID.String(),
			"clinician_id": n.ClinicianID.String(),
			"note_type":    n.NoteType,
			"days_overdue": n.DaysOverdue(now),
			"due_date":     n.DueDate.Format("2006-01-02"),
		}
		if _, err := s.evaluator.Evaluate(ctx, "Note Overdue", n.ID.String(), data); err != nil {
			s.log.Error().Err(err).Str("note_id", n.ID.String()).
				Msg("overdue note evaluation failed")
		}
	}
	s.log.Info().Int("overdue", len(notes)).Msg("overdue note scan complete")
	return nil
}
