package note

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NoteRepository defines the data access interface for clinical notes.
type NoteRepository interface {
	Create(ctx context.Context, n *ClinicalNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalNote, error)
	Update(ctx context.Context, n *ClinicalNote) error
	ListByClinician(ctx context.Context, clinicianID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error)

	// ListOverdue returns unsigned notes whose due date is before the cutoff.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*ClinicalNote, error)
}
