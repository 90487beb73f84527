package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AppointmentRepository defines the data access interface for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByClinician(ctx context.Context, clinicianID uuid.UUID, limit, offset int) ([]*Appointment, int, error)

	// ListUpcomingUnreminded returns scheduled appointments starting within
	// the window that have not yet had a reminder sent.
	ListUpcomingUnreminded(ctx context.Context, from, until time.Time) ([]*Appointment, error)

	// MarkReminderSent flags the appointment so the reminder scan does not
	// pick it up again.
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}
