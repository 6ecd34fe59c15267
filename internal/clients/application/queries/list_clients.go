package queries

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
)

// RosterCache stores the encoded roster between invocations.
type RosterCache interface {
	Load(ctx context.Context) ([]byte, bool, error)
	Store(ctx context.Context, roster []byte) error
	Invalidate(ctx context.Context) error
}

// ListClientsQuery filters the roster. Keywords match whole words of the
// name, ignoring case; any keyword is enough.
type ListClientsQuery struct {
	Keywords []string
	Tag      string
}

// ListClientsHandler handles the ListClientsQuery.
type ListClientsHandler struct {
	clientRepo domain.Repository
	cache      RosterCache
	logger     *slog.Logger
}

// NewListClientsHandler creates a new ListClientsHandler. cache may be nil.
func NewListClientsHandler(clientRepo domain.Repository, cache RosterCache, logger *slog.Logger) *ListClientsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListClientsHandler{clientRepo: clientRepo, cache: cache, logger: logger}
}

// Handle executes the ListClientsQuery.
func (h *ListClientsHandler) Handle(ctx context.Context, query ListClientsQuery) ([]ClientDTO, error) {
	roster, err := h.roster(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]ClientDTO, 0, len(roster))
	for _, dto := range roster {
		if !dto.matchesKeywords(query.Keywords) {
			continue
		}
		if query.Tag != "" && !dto.hasTag(query.Tag) {
			continue
		}
		result = append(result, dto)
	}
	return result, nil
}

// roster reads through the cache. Cache failures are logged and the
// repository answers instead.
func (h *ListClientsHandler) roster(ctx context.Context) ([]ClientDTO, error) {
	if h.cache != nil {
		raw, ok, err := h.cache.Load(ctx)
		if err != nil {
			h.logger.Warn("roster cache read failed", "error", err)
		}
		if ok {
			var cached []ClientDTO
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			h.logger.Warn("discarding unreadable roster cache entry")
		}
	}

	clients, err := h.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	roster := ToDTOs(clients)

	if h.cache != nil {
		raw, err := json.Marshal(roster)
		if err == nil {
			err = h.cache.Store(ctx, raw)
		}
		if err != nil {
			h.logger.Warn("roster cache write failed", "error", err)
		}
	}
	return roster, nil
}
