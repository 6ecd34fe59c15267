package domain

import (
	"errors"
	"strings"
	"time"

	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/trainbook/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("a client with this name already exists")
	ErrClientDeleted   = errors.New("client is deleted")
)

// Client is a person the trainer coaches, with the windows they train in.
type Client struct {
	sharedDomain.BaseAggregateRoot
	profile  Profile
	schedule scheduling.ScheduleSet
	deleted  bool
}

// NewClient validates profile and creates a client owning schedule.
func NewClient(profile Profile, schedule scheduling.ScheduleSet) (*Client, error) {
	normalized, err := profile.Normalize()
	if err != nil {
		return nil, err
	}

	client := &Client{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		profile:           normalized,
		schedule:          schedule,
	}
	client.AddDomainEvent(NewClientAdded(client))

	return client, nil
}

// Getters
func (c *Client) Name() string                     { return c.profile.Name }
func (c *Client) Phone() string                    { return c.profile.Phone }
func (c *Client) Goals() string                    { return c.profile.Goals }
func (c *Client) MedicalHistory() string           { return c.profile.MedicalHistory }
func (c *Client) Location() string                 { return c.profile.Location }
func (c *Client) Tags() []string                   { return append([]string(nil), c.profile.Tags...) }
func (c *Client) Profile() Profile                 { return c.profile.clone() }
func (c *Client) Schedule() scheduling.ScheduleSet { return c.schedule }
func (c *Client) IsDeleted() bool                  { return c.deleted }

// Update replaces the profile and the schedule as a whole.
func (c *Client) Update(profile Profile, schedule scheduling.ScheduleSet) error {
	if c.deleted {
		return ErrClientDeleted
	}

	normalized, err := profile.Normalize()
	if err != nil {
		return err
	}

	c.profile = normalized
	c.schedule = schedule
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientEdited(c))

	return nil
}

// MarkDeleted records the removal of the client.
func (c *Client) MarkDeleted() error {
	if c.deleted {
		return ErrClientDeleted
	}
	c.deleted = true
	c.AddDomainEvent(NewClientDeleted(c))
	return nil
}

// IsSameClient reports whether other has the same name, ignoring case.
func (c *Client) IsSameClient(other *Client) bool {
	if other == nil {
		return false
	}
	return SameName(c.profile.Name, other.profile.Name)
}

// SameName compares client names the way duplicates are detected.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// MatchesKeywords reports whether any keyword equals a whole word of the
// name, ignoring case. No keywords match every client.
func (c *Client) MatchesKeywords(keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	words := strings.Fields(c.profile.Name)
	for _, keyword := range keywords {
		for _, word := range words {
			if strings.EqualFold(word, keyword) {
				return true
			}
		}
	}
	return false
}

// OwnedSchedule pairs the client ID with its schedule for conflict detection.
func (c *Client) OwnedSchedule() scheduling.OwnedSchedule {
	return scheduling.OwnedSchedule{OwnerID: c.ID(), Schedule: c.schedule}
}

// Roster returns the owned schedules of clients in order.
func Roster(clients []*Client) []scheduling.OwnedSchedule {
	roster := make([]scheduling.OwnedSchedule, 0, len(clients))
	for _, c := range clients {
		roster = append(roster, c.OwnedSchedule())
	}
	return roster
}

// RehydrateClient recreates a client from persisted state without generating events.
func RehydrateClient(
	id uuid.UUID,
	profile Profile,
	schedule scheduling.ScheduleSet,
	version int,
	createdAt time.Time,
	updatedAt time.Time,
) *Client {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)

	return &Client{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity, version),
		profile:           profile.clone(),
		schedule:          schedule,
	}
}
