package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/services"
	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/trainbook/internal/shared/application"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// AddClientCommand contains the data needed to add a client.
type AddClientCommand struct {
	Name           string
	Phone          string
	Goals          string
	MedicalHistory string
	Location       string
	Tags           []string
	Recurring      []string
	OneTime        []string
	Source         string
}

// AddClientCommandFromDraft converts an imported draft.
func AddClientCommandFromDraft(d domain.Draft, source string) AddClientCommand {
	return AddClientCommand{
		Name:           d.Profile.Name,
		Phone:          d.Profile.Phone,
		Goals:          d.Profile.Goals,
		MedicalHistory: d.Profile.MedicalHistory,
		Location:       d.Profile.Location,
		Tags:           d.Profile.Tags,
		Recurring:      d.Recurring,
		OneTime:        d.OneTime,
		Source:         source,
	}
}

func (c AddClientCommand) profile() domain.Profile {
	return domain.Profile{
		Name:           c.Name,
		Phone:          c.Phone,
		Goals:          c.Goals,
		MedicalHistory: c.MedicalHistory,
		Location:       c.Location,
		Tags:           c.Tags,
	}
}

// AddClientResult contains the new client ID and the conflicts found. The
// client is stored even when Conflicts is not empty.
type AddClientResult struct {
	ClientID  uuid.UUID
	Conflicts []services.ConflictView
}

// AddClientHandler handles the AddClientCommand.
type AddClientHandler struct {
	clientRepo domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	normalizer scheduling.DateNormalizer
}

// NewAddClientHandler creates a new AddClientHandler.
func NewAddClientHandler(
	clientRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	normalizer scheduling.DateNormalizer,
) *AddClientHandler {
	return &AddClientHandler{
		clientRepo: clientRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		normalizer: normalizer,
	}
}

// Handle executes the AddClientCommand.
func (h *AddClientHandler) Handle(ctx context.Context, cmd AddClientCommand) (*AddClientResult, error) {
	schedule, err := scheduling.BuildScheduleSet(h.normalizer, cmd.Recurring, cmd.OneTime)
	if err != nil {
		return nil, err
	}

	client, err := domain.NewClient(cmd.profile(), schedule)
	if err != nil {
		return nil, err
	}

	var result *AddClientResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		roster, err := h.clientRepo.FindAll(txCtx)
		if err != nil {
			return err
		}
		for _, existing := range roster {
			if existing.IsSameClient(client) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateClient, client.Name())
			}
		}

		conflicts := services.DetectClientConflicts(client.ID(), client.Schedule(), roster)

		if err := h.clientRepo.Save(txCtx, client); err != nil {
			return err
		}
		if err := flushEvents(txCtx, h.outboxRepo, client, cmd.Source); err != nil {
			return err
		}

		result = &AddClientResult{ClientID: client.ID(), Conflicts: conflicts}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
