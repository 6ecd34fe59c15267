package commands

import (
	"context"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	sharedApplication "github.com/felixgeelhaar/trainbook/internal/shared/application"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteClientCommand removes a client.
type DeleteClientCommand struct {
	ClientID uuid.UUID
	Source   string
}

// DeleteClientResult echoes the removed client.
type DeleteClientResult struct {
	ClientID uuid.UUID
	Name     string
}

// DeleteClientHandler handles the DeleteClientCommand.
type DeleteClientHandler struct {
	clientRepo domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteClientHandler creates a new DeleteClientHandler.
func NewDeleteClientHandler(clientRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteClientHandler {
	return &DeleteClientHandler{
		clientRepo: clientRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the DeleteClientCommand.
func (h *DeleteClientHandler) Handle(ctx context.Context, cmd DeleteClientCommand) (*DeleteClientResult, error) {
	var result *DeleteClientResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		client, err := h.clientRepo.FindByID(txCtx, cmd.ClientID)
		if err != nil {
			return err
		}
		if err := client.MarkDeleted(); err != nil {
			return err
		}
		if err := h.clientRepo.Delete(txCtx, client.ID()); err != nil {
			return err
		}
		if err := flushEvents(txCtx, h.outboxRepo, client, cmd.Source); err != nil {
			return err
		}

		result = &DeleteClientResult{ClientID: client.ID(), Name: client.Name()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
