package queries

import (
	"context"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
)

// GetClientQuery names a client by UUID, roster position or name.
type GetClientQuery struct {
	Ref string
}

// GetClientHandler handles the GetClientQuery.
type GetClientHandler struct {
	clientRepo domain.Repository
}

// NewGetClientHandler creates a new GetClientHandler.
func NewGetClientHandler(clientRepo domain.Repository) *GetClientHandler {
	return &GetClientHandler{clientRepo: clientRepo}
}

// Handle executes the GetClientQuery.
func (h *GetClientHandler) Handle(ctx context.Context, query GetClientQuery) (*ClientDTO, error) {
	client, err := ResolveClient(ctx, h.clientRepo, query.Ref)
	if err != nil {
		return nil, err
	}

	roster, err := h.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	position := 0
	for i, c := range roster {
		if c.ID() == client.ID() {
			position = i + 1
			break
		}
	}

	dto := toDTO(client, position)
	return &dto, nil
}
