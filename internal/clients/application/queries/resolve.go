package queries

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"github.com/google/uuid"
)

// ErrEmptyRef is returned when no client reference is given.
var ErrEmptyRef = errors.New("client reference is required")

// ResolveClient finds a client by UUID, by name or by 1-based roster
// position, in that order. An all-digit reference matches a client with that
// exact name before it is read as a position.
func ResolveClient(ctx context.Context, repo domain.Repository, ref string) (*domain.Client, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}

	if id, err := uuid.Parse(ref); err == nil {
		return repo.FindByID(ctx, id)
	}

	position, err := strconv.Atoi(ref)
	if err != nil {
		return repo.FindByName(ctx, ref)
	}

	client, err := repo.FindByName(ctx, ref)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, domain.ErrClientNotFound) {
		return nil, err
	}

	roster, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if position < 1 || position > len(roster) {
		return nil, fmt.Errorf("%w: no client at position %d", domain.ErrClientNotFound, position)
	}
	return roster[position-1], nil
}
