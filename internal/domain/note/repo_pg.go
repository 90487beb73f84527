package note

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type noteRepoPG struct{ pool *pgxpool.Pool }

// NewNoteRepoPG creates a new PostgreSQL-backed clinical note repository.
func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

const noteCols = `id, client_id, clinician_id, note_type, status, session_date,
	due_date, signed_at, created_at, updated_at`

func scanNote(row pgx.Row) (*ClinicalNote, error) {
	var n ClinicalNote
	err := row.Scan(&n.ID, &n.ClientID, &n.ClinicianID, &n.NoteType, &n.Status,
		&n.SessionDate, &n.DueDate, &n.SignedAt, &n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *noteRepoPG) Create(ctx context.Context, n *ClinicalNote) error {
	n.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinical_note (id, client_id, clinician_id, note_type, status,
			session_date, due_date, signed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		n.ID, n.ClientID, n.ClinicianID, n.NoteType, n.Status,
		n.SessionDate, n.DueDate, n.SignedAt)
	return err
}

func (r *noteRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	return scanNote(r.pool.QueryRow(ctx, `SELECT `+noteCols+` FROM clinical_note WHERE id = $1`, id))
}

func (r *noteRepoPG) Update(ctx context.Context, n *ClinicalNote) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE clinical_note SET note_type=$2, status=$3, session_date=$4,
			due_date=$5, signed_at=$6, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.NoteType, n.Status, n.SessionDate, n.DueDate, n.SignedAt)
	return err
}

func (r *noteRepoPG) ListByClinician(ctx context.Context, clinicianID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_note WHERE clinician_id = $1`, clinicianID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+noteCols+` FROM clinical_note
		WHERE clinician_id = $1 ORDER BY due_date LIMIT $2 OFFSET $3`, clinicianID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ClinicalNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, nil
}

func (r *noteRepoPG) ListOverdue(ctx context.Context, cutoff time.Time) ([]*ClinicalNote, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+noteCols+` FROM clinical_note
		WHERE status = $1 AND due_date < $2 ORDER BY due_date`, StatusDraft, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ClinicalNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, nil
}
