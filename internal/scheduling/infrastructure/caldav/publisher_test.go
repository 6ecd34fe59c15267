package caldav

import (
	"context"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/icalexport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_Defaults(t *testing.T) {
	p := NewPublisher(Config{URL: FastmailCalDAVURL, Username: "coach"}, nil, nil)

	assert.Equal(t, 30*time.Second, p.cfg.Timeout)
	assert.Equal(t, "coach", p.cfg.Username)
	assert.NotNil(t, p.logger)
}

func TestObjectPath(t *testing.T) {
	tests := []struct {
		calPath string
		uid     string
		want    string
	}{
		{"/calendars/coach/training/", "abc@trainbook", "/calendars/coach/training/abc.ics"},
		{"/calendars/coach/training", "abc@trainbook", "/calendars/coach/training/abc.ics"},
		{"/cal/", "plain", "/cal/plain.ics"},
	}

	for _, tt := range tests {
		t.Run(tt.uid, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectPath(tt.calPath, tt.uid))
		})
	}
}

func TestTrainbookOwner(t *testing.T) {
	owner := uuid.New()

	t.Run("nil calendar", func(t *testing.T) {
		_, ok := trainbookOwner(nil)
		assert.False(t, ok)
	})

	t.Run("foreign event", func(t *testing.T) {
		cal := ical.NewCalendar()
		event := ical.NewEvent()
		event.Props.SetText(ical.PropSummary, "Dentist")
		cal.Children = append(cal.Children, event.Component)

		_, ok := trainbookOwner(cal)
		assert.False(t, ok)
	})

	t.Run("trainbook event", func(t *testing.T) {
		cal := ical.NewCalendar()
		event := ical.NewEvent()
		event.Props.SetText(icalexport.PropXTrainbook, "recurring")
		event.Props.SetText(icalexport.PropXTrainbookClient, owner.String())
		cal.Children = append(cal.Children, event.Component)

		got, ok := trainbookOwner(cal)
		require.True(t, ok)
		assert.Equal(t, owner, got)
	})
}

func TestPublisher_SyncFailsWithoutServer(t *testing.T) {
	p := NewPublisher(Config{URL: "http://127.0.0.1:1", Timeout: time.Second}, icalexport.NewExporter(nil, time.UTC, nil), nil)

	_, err := p.Sync(context.Background(), nil)
	assert.Error(t, err)
}
