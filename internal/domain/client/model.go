package client

import (
	"time"

	"github.com/google/uuid"
)

// Client maps to the client table (a person receiving care at the practice).
type Client struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	MRN                string     `db:"mrn" json:"mrn"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	PreferredName      *string    `db:"preferred_name" json:"preferred_name,omitempty"`
	BirthDate          *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Email              *string    `db:"email" json:"email,omitempty"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	PortalAccess       bool       `db:"portal_access" json:"portal_access"`
	PrimaryClinicianID *uuid.UUID `db:"primary_clinician_id" json:"primary_clinician_id,omitempty"`
	IsActive           bool       `db:"is_active" json:"is_active"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the preferred name when set, otherwise the first name.
func (c *Client) DisplayName() string {
	if c.PreferredName != nil && *c.PreferredName != "" {
		return *c.PreferredName
	}
	return c.FirstName
}
