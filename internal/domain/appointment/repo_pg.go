package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type apptRepoPG struct{ pool *pgxpool.Pool }

// NewAppointmentRepoPG creates a new PostgreSQL-backed appointment repository.
func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &apptRepoPG{pool: pool}
}

const apptCols = `id, client_id, clinician_id, start_time, end_time, service_type,
	status, reminder_sent, created_at, updated_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.ClientID, &a.ClinicianID, &a.StartTime, &a.EndTime,
		&a.ServiceType, &a.Status, &a.ReminderSent, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *apptRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, client_id, clinician_id, start_time, end_time,
			service_type, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.ClientID, a.ClinicianID, a.StartTime, a.EndTime, a.ServiceType, a.Status)
	return err
}

func (r *apptRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *apptRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointment SET start_time=$2, end_time=$3, service_type=$4,
			status=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.StartTime, a.EndTime, a.ServiceType, a.Status)
	return err
}

func (r *apptRepoPG) ListByClinician(ctx context.Context, clinicianID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE clinician_id = $1`, clinicianID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE clinician_id = $1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`, clinicianID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *apptRepoPG) ListUpcomingUnreminded(ctx context.Context, from, until time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE status = $1 AND NOT reminder_sent AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`, StatusScheduled, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}

func (r *apptRepoPG) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE appointment SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}
