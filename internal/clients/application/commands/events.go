package commands

import (
	"context"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	sharedApplication "github.com/felixgeelhaar/trainbook/internal/shared/application"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
)

// Sources recorded in event metadata.
const (
	SourceCLI    = "cli"
	SourceImport = "import"
	SourceSeed   = "seed"
)

// flushEvents writes the client's pending events to the outbox inside the
// caller's unit of work.
func flushEvents(ctx context.Context, outboxRepo outbox.Repository, client *domain.Client, source string) error {
	events := client.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	if source == "" {
		source = SourceCLI
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, source))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}

	client.ClearDomainEvents()
	return nil
}
