package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the data access interface for user profiles.
type UserRepository interface {
	Create(ctx context.Context, u *UserProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	Update(ctx context.Context, u *UserProfile) error
	List(ctx context.Context, limit, offset int) ([]*UserProfile, int, error)
	ListByRole(ctx context.Context, role string) ([]*UserProfile, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role string) error
	RemoveRole(ctx context.Context, userID uuid.UUID, role string) error
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}
