package queries

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/services"
	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ErrNothingToCheck is returned when neither a client nor windows are given.
var ErrNothingToCheck = errors.New("a client or schedule windows are required")

// CheckConflictsQuery checks a schedule against the roster without changing
// anything. With Ref only, the client's stored schedule is checked. With
// windows, they are checked as a candidate, excluding Ref's own windows.
type CheckConflictsQuery struct {
	Ref       string
	Recurring []string
	OneTime   []string
}

// CheckConflictsHandler handles the CheckConflictsQuery.
type CheckConflictsHandler struct {
	clientRepo domain.Repository
	normalizer scheduling.DateNormalizer
}

// NewCheckConflictsHandler creates a new CheckConflictsHandler.
func NewCheckConflictsHandler(clientRepo domain.Repository, normalizer scheduling.DateNormalizer) *CheckConflictsHandler {
	return &CheckConflictsHandler{clientRepo: clientRepo, normalizer: normalizer}
}

// Handle executes the CheckConflictsQuery.
func (h *CheckConflictsHandler) Handle(ctx context.Context, query CheckConflictsQuery) ([]services.ConflictView, error) {
	hasWindows := len(query.Recurring) > 0 || len(query.OneTime) > 0
	if query.Ref == "" && !hasWindows {
		return nil, ErrNothingToCheck
	}

	owner := uuid.Nil
	var schedule scheduling.ScheduleSet
	if query.Ref != "" {
		client, err := ResolveClient(ctx, h.clientRepo, query.Ref)
		if err != nil {
			return nil, err
		}
		owner = client.ID()
		schedule = client.Schedule()
	}

	if hasWindows {
		candidate, err := scheduling.BuildScheduleSet(h.normalizer, query.Recurring, query.OneTime)
		if err != nil {
			return nil, err
		}
		schedule = candidate
	}

	roster, err := h.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return services.DetectClientConflicts(owner, schedule, roster), nil
}
