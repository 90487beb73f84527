package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type clientRepoPG struct{ pool *pgxpool.Pool }

// NewClientRepoPG creates a new PostgreSQL-backed client repository.
func NewClientRepoPG(pool *pgxpool.Pool) ClientRepository {
	return &clientRepoPG{pool: pool}
}

const clientCols = `id, mrn, first_name, last_name, preferred_name, birth_date,
	email, phone, portal_access, primary_clinician_id, is_active, created_at, updated_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.MRN, &c.FirstName, &c.LastName, &c.PreferredName,
		&c.BirthDate, &c.Email, &c.Phone, &c.PortalAccess,
		&c.PrimaryClinicianID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *clientRepoPG) Create(ctx context.Context, c *Client) error {
	c.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO client (id, mrn, first_name, last_name, preferred_name, birth_date,
			email, phone, portal_access, primary_clinician_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.MRN, c.FirstName, c.LastName, c.PreferredName, c.BirthDate,
		c.Email, c.Phone, c.PortalAccess, c.PrimaryClinicianID, c.IsActive)
	return err
}

func (r *clientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `SELECT `+clientCols+` FROM client WHERE id = $1`, id))
}

func (r *clientRepoPG) Update(ctx context.Context, c *Client) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE client SET mrn=$2, first_name=$3, last_name=$4, preferred_name=$5,
			birth_date=$6, email=$7, phone=$8, portal_access=$9,
			primary_clinician_id=$10, is_active=$11, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.MRN, c.FirstName, c.LastName, c.PreferredName, c.BirthDate,
		c.Email, c.Phone, c.PortalAccess, c.PrimaryClinicianID, c.IsActive)
	return err
}

func (r *clientRepoPG) List(ctx context.Context, limit, offset int) ([]*Client, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM client`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+clientCols+` FROM client
		ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *clientRepoPG) CountMissingEmail(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM client WHERE is_active AND (email IS NULL OR email = '')`).Scan(&n)
	return n, err
}
