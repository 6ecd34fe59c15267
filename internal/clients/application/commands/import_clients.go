package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/services"
	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
)

// ImportClientsCommand adds every draft. Drafts whose name is already on the
// roster are skipped; other failures stop the import.
type ImportClientsCommand struct {
	Drafts []domain.Draft
	Source string
}

// ImportClientsResult summarises an import.
type ImportClientsResult struct {
	Added     []string
	Skipped   []string
	Conflicts []services.ConflictView
}

// ImportClientsHandler handles the ImportClientsCommand one client at a time,
// so each client commits in its own unit of work.
type ImportClientsHandler struct {
	add    *AddClientHandler
	logger *slog.Logger
}

// NewImportClientsHandler creates a new ImportClientsHandler.
func NewImportClientsHandler(add *AddClientHandler, logger *slog.Logger) *ImportClientsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportClientsHandler{add: add, logger: logger}
}

// Handle executes the ImportClientsCommand.
func (h *ImportClientsHandler) Handle(ctx context.Context, cmd ImportClientsCommand) (*ImportClientsResult, error) {
	result := &ImportClientsResult{}

	for _, draft := range cmd.Drafts {
		added, err := h.add.Handle(ctx, AddClientCommandFromDraft(draft, cmd.Source))
		if errors.Is(err, domain.ErrDuplicateClient) {
			h.logger.Info("skipping existing client", "name", draft.Profile.Name)
			result.Skipped = append(result.Skipped, draft.Profile.Name)
			continue
		}
		if err != nil {
			return result, err
		}

		result.Added = append(result.Added, draft.Profile.Name)
		result.Conflicts = append(result.Conflicts, added.Conflicts...)
	}

	return result, nil
}
