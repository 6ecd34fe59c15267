package icalexport

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const (
	// PropXTrainbook marks events written by trainbook with the window kind.
	PropXTrainbook = "X-TRAINBOOK"
	// PropXTrainbookClient carries the owning client's ID.
	PropXTrainbookClient = "X-TRAINBOOK-CLIENT"
)

const productID = "-//Trainbook//Client Schedule//EN"

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Entry is one client's schedule to export.
type Entry struct {
	OwnerID  uuid.UUID
	Name     string
	Location string
	Schedule domain.ScheduleSet
}

// Exporter renders schedules as an iCalendar feed.
type Exporter struct {
	clock  domain.Clock
	loc    *time.Location
	logger *slog.Logger
}

// NewExporter creates an exporter. Recurring windows are anchored on the
// first matching weekday on or after the clock's current date.
func NewExporter(clock domain.Clock, loc *time.Location, logger *slog.Logger) *Exporter {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{clock: clock, loc: loc, logger: logger}
}

// Calendar builds the VCALENDAR for the given entries.
func (e *Exporter) Calendar(entries []Entry) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	now := e.clock.Now().In(e.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)

	for _, entry := range entries {
		for _, w := range entry.Schedule.Recurring() {
			anchor := domain.DateOf(nextWeekday(today, w.Day))
			event := e.newEvent(entry, w, anchor, now)
			event.Props.SetRecurrenceRule(&rrule.ROption{
				Freq:      rrule.WEEKLY,
				Byweekday: []rrule.Weekday{rruleWeekdays[w.Day]},
			})
			cal.Children = append(cal.Children, event.Component)
		}
		for _, w := range entry.Schedule.OneTime() {
			event := e.newEvent(entry, w, w.Date, now)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	return cal
}

// Encode writes the feed for entries to w.
func (e *Exporter) Encode(w io.Writer, entries []Entry) error {
	cal := e.Calendar(entries)
	if len(cal.Children) == 0 {
		e.logger.Debug("exporting empty calendar", "clients", len(entries))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	e.logger.Info("calendar exported", "clients", len(entries), "events", len(cal.Children))
	return nil
}

func (e *Exporter) newEvent(entry Entry, w domain.Window, day domain.CalendarDate, now time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, eventUID(entry.OwnerID, w))
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, day.At(w.StartTime(), e.loc))
	event.Props.SetDateTime(ical.PropDateTimeEnd, day.At(w.EndTime(), e.loc))
	event.Props.SetText(ical.PropSummary, fmt.Sprintf("Training: %s", entry.Name))
	if entry.Location != "" {
		event.Props.SetText(ical.PropLocation, entry.Location)
	}

	marker := ical.NewProp(PropXTrainbook)
	marker.Value = string(w.Kind())
	event.Props[PropXTrainbook] = []ical.Prop{*marker}

	owner := ical.NewProp(PropXTrainbookClient)
	owner.Value = entry.OwnerID.String()
	event.Props[PropXTrainbookClient] = []ical.Prop{*owner}
	return event
}

// Object is a calendar holding a single session, as stored by CalDAV servers.
type Object struct {
	UID      string
	OwnerID  uuid.UUID
	Calendar *ical.Calendar
}

// Objects splits the feed for entries into one calendar per event.
func (e *Exporter) Objects(entries []Entry) []Object {
	feed := e.Calendar(entries)

	objects := make([]Object, 0, len(feed.Children))
	for _, child := range feed.Children {
		cal := ical.NewCalendar()
		cal.Props = feed.Props
		cal.Children = []*ical.Component{child}

		obj := Object{Calendar: cal}
		if prop := child.Props.Get(ical.PropUID); prop != nil {
			obj.UID = prop.Value
		}
		obj.OwnerID = OwnerOf(child)
		objects = append(objects, obj)
	}
	return objects
}

// OwnerOf returns the client ID stamped on a trainbook event, or uuid.Nil.
func OwnerOf(event *ical.Component) uuid.UUID {
	prop := event.Props.Get(PropXTrainbookClient)
	if prop == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(prop.Value)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// eventUID is stable for the same owner and window across exports.
func eventUID(owner uuid.UUID, w domain.Window) string {
	return uuid.NewSHA1(owner, []byte(w.String())).String() + "@trainbook"
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}
