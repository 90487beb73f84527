package identity

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile maps to the user_profile table. A profile is a staff member of
// the practice: clinician, supervisor, front office, administrator.
type UserProfile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Title     *string   `db:"title" json:"title,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the display name used in notification content.
func (u *UserProfile) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RoleAssignment maps to the user_role table. Role names are free-form labels
// ("clinician", "supervisor", "administrator", "front_office").
type RoleAssignment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
