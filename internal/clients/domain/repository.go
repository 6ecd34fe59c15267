package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/trainbook/internal/shared/domain"
)

// Repository persists clients. FindByID and FindByName return
// ErrClientNotFound when nothing matches.
type Repository interface {
	sharedDomain.Repository[*Client]

	// FindByName looks a client up by name, ignoring case.
	FindByName(ctx context.Context, name string) (*Client, error)

	// FindAll returns every client in the order they were added.
	FindAll(ctx context.Context) ([]*Client, error)
}
