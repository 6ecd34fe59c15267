package domain

import (
	sharedDomain "github.com/felixgeelhaar/trainbook/internal/shared/domain"
	"github.com/google/uuid"
)

const AggregateType = "Client"

// Routing keys of client events.
const (
	RoutingKeyClientAdded   = "clients.client.added"
	RoutingKeyClientEdited  = "clients.client.edited"
	RoutingKeyClientDeleted = "clients.client.deleted"
)

// ClientSnapshot is the client state carried by added and edited events.
type ClientSnapshot struct {
	ClientID  uuid.UUID `json:"client_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Recurring []string  `json:"recurring,omitempty"`
	OneTime   []string  `json:"one_time,omitempty"`
}

func snapshot(c *Client) ClientSnapshot {
	return ClientSnapshot{
		ClientID:  c.ID(),
		Name:      c.Name(),
		Phone:     c.Phone(),
		Location:  c.Location(),
		Tags:      c.Tags(),
		Recurring: c.Schedule().RecurringTokens(),
		OneTime:   c.Schedule().OneTimeTokens(),
	}
}

// ClientAdded is emitted when a client joins the roster.
type ClientAdded struct {
	sharedDomain.BaseEvent
	ClientSnapshot
}

// NewClientAdded creates a ClientAdded event.
func NewClientAdded(c *Client) *ClientAdded {
	return &ClientAdded{
		BaseEvent:      sharedDomain.NewBaseEvent(c.ID(), AggregateType, RoutingKeyClientAdded),
		ClientSnapshot: snapshot(c),
	}
}

// ClientEdited is emitted when a client's profile or schedule is replaced.
type ClientEdited struct {
	sharedDomain.BaseEvent
	ClientSnapshot
	Version int `json:"version"`
}

// NewClientEdited creates a ClientEdited event.
func NewClientEdited(c *Client) *ClientEdited {
	return &ClientEdited{
		BaseEvent:      sharedDomain.NewBaseEvent(c.ID(), AggregateType, RoutingKeyClientEdited),
		ClientSnapshot: snapshot(c),
		Version:        c.Version(),
	}
}

// ClientDeleted is emitted when a client is removed.
type ClientDeleted struct {
	sharedDomain.BaseEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
}

// NewClientDeleted creates a ClientDeleted event.
func NewClientDeleted(c *Client) *ClientDeleted {
	return &ClientDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), AggregateType, RoutingKeyClientDeleted),
		ClientID:  c.ID(),
		Name:      c.Name(),
	}
}
