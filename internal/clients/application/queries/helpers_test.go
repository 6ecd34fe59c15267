package queries

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNormalizer = scheduling.NewDateNormalizer(2026)

// rosterRepo is a slice-backed domain.Repository.
type rosterRepo struct {
	clients  []*domain.Client
	findAlls int
}

func (r *rosterRepo) Save(_ context.Context, client *domain.Client) error {
	for i, c := range r.clients {
		if c.ID() == client.ID() {
			r.clients[i] = client
			return nil
		}
	}
	r.clients = append(r.clients, client)
	return nil
}

func (r *rosterRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Client, error) {
	for _, c := range r.clients {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *rosterRepo) FindByName(_ context.Context, name string) (*domain.Client, error) {
	for _, c := range r.clients {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *rosterRepo) FindAll(_ context.Context) ([]*domain.Client, error) {
	r.findAlls++
	return append([]*domain.Client(nil), r.clients...), nil
}

func (r *rosterRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, c := range r.clients {
		if c.ID() == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return domain.ErrClientNotFound
}

func newClient(t *testing.T, profile domain.Profile, recurring, oneTime []string) *domain.Client {
	t.Helper()
	schedule, err := scheduling.BuildScheduleSet(testNormalizer, recurring, oneTime)
	require.NoError(t, err)
	c, err := domain.NewClient(profile, schedule)
	require.NoError(t, err)
	return c
}

// sampleRoster holds Alex (Mon 1400-1600, 25/02 1000-1200), Bernice
// (Mon 1600-1800) and Charlotte (Tue 1400-1600).
func sampleRoster(t *testing.T) *rosterRepo {
	t.Helper()
	return &rosterRepo{clients: []*domain.Client{
		newClient(t, domain.Profile{
			Name: "Alex Yeoh", Phone: "87438807", Location: "Jurong West ActiveSG", Tags: []string{"friends"},
		}, []string{"Mon 1400 1600"}, []string{"25/02 1000 1200"}),
		newClient(t, domain.Profile{
			Name: "Bernice Yu", Phone: "99272758", Tags: []string{"colleagues", "friends"},
		}, []string{"Mon 1600 1800"}, nil),
		newClient(t, domain.Profile{
			Name: "Charlotte Oliveiro", Phone: "93210283", Tags: []string{"neighbours"},
		}, []string{"Tue 1400 1600"}, nil),
	}}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
