package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for user management.
type Service struct {
	repo UserRepository
}

// NewService creates a new identity service.
func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateUser(ctx context.Context, u *UserProfile) error {
	if u.FirstName == "" || u.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	u.IsActive = true
	return s.repo.Create(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, u *UserProfile) error {
	if u.FirstName == "" || u.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.repo.Update(ctx, u)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*UserProfile, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByRole(ctx context.Context, role string) ([]*UserProfile, error) {
	if role == "" {
		return nil, fmt.Errorf("role is required")
	}
	return s.repo.ListByRole(ctx, role)
}

func (s *Service) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	if role == "" {
		return fmt.Errorf("role is required")
	}
	return s.repo.AssignRole(ctx, userID, role)
}

func (s *Service) RemoveRole(ctx context.Context, userID uuid.UUID, role string) error {
	return s.repo.RemoveRole(ctx, userID, role)
}

func (s *Service) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.repo.RolesForUser(ctx, userID)
}
