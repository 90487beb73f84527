package alert

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type alertRepoPG struct{ pool *pgxpool.Pool }

// NewAlertRepoPG creates a new PostgreSQL-backed alert repository.
func NewAlertRepoPG(pool *pgxpool.Pool) AlertRepository {
	return &alertRepoPG{pool: pool}
}

const alertCols = `id, recipient_id, recipient_type, notification_type, title,
	message, priority, is_read, read_at, created_at`

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.RecipientID, &a.RecipientType, &a.NotificationType,
		&a.Title, &a.Message, &a.Priority, &a.IsRead, &a.ReadAt, &a.CreatedAt)
	return &a, err
}

func (r *alertRepoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dashboard_alert (id, recipient_id, recipient_type, notification_type,
			title, message, priority)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.RecipientID, a.RecipientType, a.NotificationType,
		a.Title, a.Message, a.Priority)
	return err
}

func (r *alertRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return scanAlert(r.pool.QueryRow(ctx, `SELECT `+alertCols+` FROM dashboard_alert WHERE id = $1`, id))
}

func (r *alertRepoPG) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Alert, int, error) {
	filter := ``
	if unreadOnly {
		filter = ` AND NOT is_read`
	}
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM dashboard_alert WHERE recipient_id = $1`+filter, recipientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+alertCols+` FROM dashboard_alert
		WHERE recipient_id = $1`+filter+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		recipientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *alertRepoPG) MarkRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE dashboard_alert SET is_read = TRUE, read_at = NOW() WHERE id = $1`, id)
	return err
}
