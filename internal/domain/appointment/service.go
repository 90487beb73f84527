package appointment

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

// Service provides business logic for appointments, including the reminder
// scan.
type Service struct {
	repo       AppointmentRepository
	evaluator  RuleEvaluator
	leadWindow time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new appointment service. leadHours is how far ahead the
// reminder scan looks for upcoming appointments.
func NewService(repo AppointmentRepository, evaluator RuleEvaluator, leadHours int, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		evaluator:  evaluator,
		leadWindow: time.Duration(leadHours) * time.Hour,
		log:        log,
		now:        time.Now,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if a.ClinicianID == uuid.Nil {
		return fmt.Errorf("clinician_id is required")
	}
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByClinician(ctx context.Context, clinicianID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByClinician(ctx, clinicianID, limit, offset)
}

// UpdateStatus moves the appointment to a new status. Cancellations raise an
// "Appointment Cancelled" trigger event so rules can notify the clinician.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	switch status {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
	default:
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	if status == StatusCancelled {
		if _, err := s.evaluator.Evaluate(ctx, "Appointment Cancelled", a.ID.String(), s.eventData(a)); err != nil {
			s.log.Error().Err(err).Str("appointment_id", a.ID.String()).
				Msg("cancellation evaluation failed")
		}
	}
	return a, nil
}

// ScanReminders raises an "Appointment Reminder" trigger event for each
// scheduled appointment starting within the lead window, then marks it so it
// is not reminded again. Run from the scheduler.
func (s *Service) ScanReminders(ctx context.Context) error {
	now := s.now()
	appts, err := s.repo.ListUpcomingUnreminded(ctx, now, now.Add(s.leadWindow))
	if err != nil {
		return fmt.Errorf("list upcoming appointments: %w", err)
	}
	for _, a := range appts {
		if _, err := s.evaluator.Evaluate(ctx, "Appointment Reminder", a.ID.String(), s.eventData(a)); err != nil {
			s.log.Error().Err(err).Str("appointment_id", a.ID.String()).
				Msg("reminder evaluation failed")
			continue
		}
		if err := s.repo.MarkReminderSent(ctx, a.ID); err != nil {
			s.log.Error().Err(err).Str("appointment_id", a.ID.String()).
				Msg("failed to mark reminder sent")
		}
	}
	s.log.Info().Int("reminders", len(appts)).Msg("appointment reminder scan complete")
	return nil
}

func (s *Service) eventData(a *Appointment) map[string]interface{} {
	return map[string]interface{}{
		"appointment_id": a.ID.String(),
		"client_id":      a.ClientID.String(),
		"clinician_id":   a.ClinicianID.String(),
		"service_type":   a.ServiceType,
		"status":         a.Status,
		"start_time":     a.StartTime.Format(time.RFC3339),
	}
}
