package note

import (
	"time"

	"github.com/google/uuid"
)

// Note statuses.
const (
	StatusDraft    = "Draft"
	StatusSigned   = "Signed"
	StatusCosigned = "Cosigned"
	StatusLocked   = "Locked"
)

// ClinicalNote maps to the clinical_note table. Documentation for a session;
// unsigned notes past their due date drive the overdue-note notifications.
type ClinicalNote struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    uuid.UUID  `db:"client_id" json:"client_id"`
	ClinicianID uuid.UUID  `db:"clinician_id" json:"clinician_id"`
	NoteType    string     `db:"note_type" json:"note_type"`
	Status      string     `db:"status" json:"status"`
	SessionDate time.Time  `db:"session_date" json:"session_date"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	SignedAt    *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsOverdue reports whether the note is unsigned past its due date.
func (n *ClinicalNote) IsOverdue(now time.Time) bool {
	return n.Status == StatusDraft && now.After(n.DueDate)
}

// DaysOverdue returns whole days past the due date, zero when not overdue.
func (n *ClinicalNote) DaysOverdue(now time.Time) int {
	if !n.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(n.DueDate).Hours() / 24)
}
