package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepoPG struct{ pool *pgxpool.Pool }

// NewUserRepoPG creates a new PostgreSQL-backed user repository.
func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, first_name, last_name, email, phone, title, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*UserProfile, error) {
	var u UserProfile
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.Title, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *UserProfile) error {
	u.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_profile (id, first_name, last_name, email, phone, title, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone, u.Title, u.IsActive)
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM user_profile WHERE id = $1`, id))
}

func (r *userRepoPG) Update(ctx context.Context, u *UserProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE user_profile SET first_name=$2, last_name=$3, email=$4, phone=$5,
			title=$6, is_active=$7, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone, u.Title, u.IsActive)
	return err
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*UserProfile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_profile`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userCols+` FROM user_profile
		ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, nil
}

func (r *userRepoPG) ListByRole(ctx context.Context, role string) ([]*UserProfile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixCols("u", userCols)+`
		FROM user_profile u
		JOIN user_role ur ON ur.user_id = u.id
		WHERE ur.role = $1 AND u.is_active`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, nil
}

func (r *userRepoPG) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_role (id, user_id, role) VALUES ($1,$2,$3)
		ON CONFLICT (user_id, role) DO NOTHING`,
		uuid.New(), userID, role)
	return err
}

func (r *userRepoPG) RemoveRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_role WHERE user_id = $1 AND role = $2`, userID, role)
	return err
}

func (r *userRepoPG) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT role FROM user_role WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// prefixCols qualifies a comma-separated column list with a table alias.
func prefixCols(alias, cols string) string {
	out := ""
	for i, c := range splitCols(cols) {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}

func splitCols(cols string) []string {
	var out []string
	cur := ""
	for _, r := range cols {
		switch r {
		case ',':
			out = append(out, cur)
			cur = ""
		case ' ', '\n', '\t':
		default:
			cur += string(r)
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}
