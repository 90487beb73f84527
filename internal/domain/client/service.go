package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for client records.
type Service struct {
	repo ClientRepository
}

// NewService creates a new client service.
func NewService(repo ClientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateClient(ctx context.Context, c *Client) error {
	if c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if c.MRN == "" {
		return fmt.Errorf("mrn is required")
	}
	c.IsActive = true
	return s.repo.Create(ctx, c)
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateClient(ctx context.Context, c *Client) error {
	if c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) ListClients(ctx context.Context, limit, offset int) ([]*Client, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) CountMissingEmail(ctx context.Context) (int, error) {
	return s.repo.CountMissingEmail(ctx)
}
