// Package vcard reads and writes client rosters as vCard files.
package vcard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
)

// Extension fields carrying what vCard has no property for. Each schedule
// field holds one window token.
const (
	FieldGoals     = "X-TRAINBOOK-GOALS"
	FieldLocation  = "X-TRAINBOOK-LOCATION"
	FieldRecurring = "X-TRAINBOOK-RECURRING"
	FieldOneTime   = "X-TRAINBOOK-ONETIME"
)

// Decoder turns vCards into client drafts.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a Decoder.
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// Decode reads every card from r. Cards that cannot be parsed or have no
// name are skipped with a warning.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]domain.Draft, error) {
	decoder := vcard.NewDecoder(r)
	drafts := make([]domain.Draft, 0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			d.logger.Warn("skipping unreadable vcard", "error", err)
			continue
		}

		draft, ok := toDraft(card)
		if !ok {
			d.logger.Warn("skipping vcard without a name")
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts, nil
}

func toDraft(card vcard.Card) (domain.Draft, bool) {
	name := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName))
	if name == "" {
		return domain.Draft{}, false
	}

	location := card.PreferredValue(FieldLocation)
	if location == "" {
		if addr := card.Address(); addr != nil {
			location = addr.Locality
		}
	}

	return domain.Draft{
		Profile: domain.Profile{
			Name:           name,
			Phone:          digits(card.PreferredValue(vcard.FieldTelephone)),
			Goals:          card.PreferredValue(FieldGoals),
			MedicalHistory: card.PreferredValue(vcard.FieldNote),
			Location:       location,
			Tags:           categories(card),
		},
		Recurring: card.Values(FieldRecurring),
		OneTime:   card.Values(FieldOneTime),
	}, true
}

// digits drops the separators people put in phone numbers.
func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func categories(card vcard.Card) []string {
	var tags []string
	for _, value := range card.Values(vcard.FieldCategories) {
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// Encoder writes a roster as vCard 4.0.
type Encoder struct{}

// NewEncoder creates an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode writes one card per client.
func (e *Encoder) Encode(w io.Writer, roster []queries.ClientDTO) error {
	encoder := vcard.NewEncoder(w)
	for _, client := range roster {
		if err := encoder.Encode(toCard(client)); err != nil {
			return fmt.Errorf("failed to encode vcard for %s: %w", client.Name, err)
		}
	}
	return nil
}

func toCard(client queries.ClientDTO) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, client.Name)
	card.SetName(&vcard.Name{GivenName: client.Name})
	card.SetValue(vcard.FieldUID, "urn:uuid:"+client.ID.String())
	card.SetValue(vcard.FieldTelephone, client.Phone)

	setOptional(card, FieldGoals, client.Goals)
	setOptional(card, vcard.FieldNote, client.MedicalHistory)
	setOptional(card, FieldLocation, client.Location)
	if len(client.Tags) > 0 {
		card.SetValue(vcard.FieldCategories, strings.Join(client.Tags, ","))
	}
	for _, token := range client.Recurring {
		card.AddValue(FieldRecurring, token)
	}
	for _, token := range client.OneTime {
		card.AddValue(FieldOneTime, token)
	}

	vcard.ToV4(card)
	return card
}

func setOptional(card vcard.Card, field, value string) {
	if value != "" {
		card.SetValue(field, value)
	}
}

var _ queries.RosterEncoder = (*Encoder)(nil)
