package main

import (
	"context"

	"github.com/google/uuid"

	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/alert"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/client"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/identity"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/notification"
)

// directoryAdapter exposes the identity and client services as the
// notification pipeline's recipient directory.
type directoryAdapter struct {
	users   *identity.Service
	clients *client.Service
}

func (d *directoryAdapter) UserByID(ctx context.Context, id uuid.UUID) (*notification.Recipient, error) {
	u, err := d.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &notification.Recipient{ID: u.ID, Type: "User", Email: u.Email, Phone: u.Phone}, nil
}

func (d *directoryAdapter) UsersByRole(ctx context.Context, role string) ([]*notification.Recipient, error) {
	users, err := d.users.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]*notification.Recipient, 0, len(users))
	for _, u := range users {
		out = append(out, &notification.Recipient{ID: u.ID, Type: "User", Email: u.Email, Phone: u.Phone})
	}
	return out, nil
}

func (d *directoryAdapter) ClientByID(ctx context.Context, id uuid.UUID) (*notification.Recipient, error) {
	c, err := d.clients.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &notification.Recipient{ID: c.ID, Type: "Client", Email: c.Email, Phone: c.Phone}, nil
}

// alertSinkAdapter exposes the alert service as the notification pipeline's
// dashboard alert sink.
type alertSinkAdapter struct {
	svc *alert.Service
}

func (a *alertSinkAdapter) CreateAlert(ctx context.Context, recipientID uuid.UUID, recipientType, notificationType, title, message string) error {
	return a.svc.CreateAlert(ctx, &alert.Alert{
		RecipientID:      recipientID,
		RecipientType:    recipientType,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
	})
}
