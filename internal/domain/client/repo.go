package client

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines the data access interface for client records.
type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	List(ctx context.Context, limit, offset int) ([]*Client, int, error)
	// CountMissingEmail backs the contact-information data-quality check.
	CountMissingEmail(ctx context.Context) (int, error)
}
