package queries

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"github.com/google/uuid"
)

// ClientDTO is a data transfer object for clients. Position is the 1-based
// place of the client on the roster.
type ClientDTO struct {
	Position       int       `json:"position"`
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Goals          string    `json:"goals,omitempty"`
	MedicalHistory string    `json:"medical_history,omitempty"`
	Location       string    `json:"location,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Recurring      []string  `json:"recurring,omitempty"`
	OneTime        []string  `json:"one_time,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toDTO(c *domain.Client, position int) ClientDTO {
	return ClientDTO{
		Position:       position,
		ID:             c.ID(),
		Name:           c.Name(),
		Phone:          c.Phone(),
		Goals:          c.Goals(),
		MedicalHistory: c.MedicalHistory(),
		Location:       c.Location(),
		Tags:           c.Tags(),
		Recurring:      c.Schedule().RecurringTokens(),
		OneTime:        c.Schedule().OneTimeTokens(),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}
}

// ToDTOs converts a roster, numbering positions from 1.
func ToDTOs(clients []*domain.Client) []ClientDTO {
	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toDTO(c, i+1)
	}
	return dtos
}

func (d ClientDTO) matchesKeywords(keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, word := range strings.Fields(d.Name) {
		for _, keyword := range keywords {
			if strings.EqualFold(word, keyword) {
				return true
			}
		}
	}
	return false
}

func (d ClientDTO) hasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
