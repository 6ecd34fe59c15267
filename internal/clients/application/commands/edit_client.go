package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/services"
	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/trainbook/internal/shared/application"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ErrNothingToEdit is returned when an edit names no field.
var ErrNothingToEdit = errors.New("at least one field to edit must be provided")

// EditClientCommand edits a client. Nil fields are left unchanged. A non-nil
// empty slice clears tags or a schedule kind; schedules are replaced whole.
type EditClientCommand struct {
	ClientID       uuid.UUID
	Name           *string
	Phone          *string
	Goals          *string
	MedicalHistory *string
	Location       *string
	Tags           []string
	Recurring      []string
	OneTime        []string
	Source         string
}

func (c EditClientCommand) isEmpty() bool {
	return c.Name == nil && c.Phone == nil && c.Goals == nil && c.MedicalHistory == nil &&
		c.Location == nil && c.Tags == nil && c.Recurring == nil && c.OneTime == nil
}

func (c EditClientCommand) apply(p domain.Profile) domain.Profile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, c.Name)
	set(&p.Phone, c.Phone)
	set(&p.Goals, c.Goals)
	set(&p.MedicalHistory, c.MedicalHistory)
	set(&p.Location, c.Location)
	if c.Tags != nil {
		p.Tags = c.Tags
	}
	return p
}

// EditClientResult lists the conflicts of the edited schedule. The edit is
// stored regardless.
type EditClientResult struct {
	ClientID  uuid.UUID
	Conflicts []services.ConflictView
}

// EditClientHandler handles the EditClientCommand.
type EditClientHandler struct {
	clientRepo domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	normalizer scheduling.DateNormalizer
}

// NewEditClientHandler creates a new EditClientHandler.
func NewEditClientHandler(
	clientRepo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	normalizer scheduling.DateNormalizer,
) *EditClientHandler {
	return &EditClientHandler{
		clientRepo: clientRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		normalizer: normalizer,
	}
}

// Handle executes the EditClientCommand.
func (h *EditClientHandler) Handle(ctx context.Context, cmd EditClientCommand) (*EditClientResult, error) {
	if cmd.isEmpty() {
		return nil, ErrNothingToEdit
	}

	var result *EditClientResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		client, err := h.clientRepo.FindByID(txCtx, cmd.ClientID)
		if err != nil {
			return err
		}

		schedule, err := h.nextSchedule(client.Schedule(), cmd)
		if err != nil {
			return err
		}

		roster, err := h.clientRepo.FindAll(txCtx)
		if err != nil {
			return err
		}

		if err := client.Update(cmd.apply(client.Profile()), schedule); err != nil {
			return err
		}
		for _, other := range roster {
			if other.ID() != client.ID() && other.IsSameClient(client) {
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

		result = &EditClientResult{ClientID: client.ID(), Conflicts: conflicts}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// nextSchedule builds the replacement schedule. A kind that is not supplied
// keeps its current windows.
func (h *EditClientHandler) nextSchedule(current scheduling.ScheduleSet, cmd EditClientCommand) (scheduling.ScheduleSet, error) {
	if cmd.Recurring == nil && cmd.OneTime == nil {
		return current, nil
	}

	recurring := cmd.Recurring
	if recurring == nil {
		recurring = current.RecurringTokens()
	}
	oneTime := cmd.OneTime
	if oneTime == nil {
		oneTime = current.OneTimeTokens()
	}

	return scheduling.BuildScheduleSet(h.normalizer, recurring, oneTime)
}
