package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

var (
	// ErrInvalidRange is returned when the agenda range ends before it starts.
	ErrInvalidRange = errors.New("agenda range end is before start")
	// ErrRangeTooLong is returned when the agenda range spans more than
	// MaxRangeDays days.
	ErrRangeTooLong = fmt.Errorf("agenda range is longer than %d days", MaxRangeDays)
)

// MaxRangeDays bounds a single agenda.
const MaxRangeDays = 366

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Session is one concrete occurrence of a window.
type Session struct {
	OwnerID uuid.UUID
	Window  domain.Window
	Date    domain.CalendarDate
	Start   time.Time
	End     time.Time
}

// AgendaBuilder expands schedules into dated sessions.
type AgendaBuilder struct {
	loc *time.Location
}

// NewAgendaBuilder creates a builder that lays sessions out in loc.
func NewAgendaBuilder(loc *time.Location) *AgendaBuilder {
	if loc == nil {
		loc = time.Local
	}
	return &AgendaBuilder{loc: loc}
}

// Build returns every session between from and to (inclusive dates), sorted
// by start time. Recurring windows expand weekly. The range may cover at most
// MaxRangeDays days.
func (b *AgendaBuilder) Build(schedules []domain.OwnedSchedule, from, to domain.CalendarDate) ([]Session, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	rangeStart := from.Time(b.loc)
	rangeEnd := to.Time(b.loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if rangeStart.AddDate(0, 0, MaxRangeDays-1).Before(to.Time(b.loc)) {
		return nil, ErrRangeTooLong
	}

	sessions := make([]Session, 0)
	for _, owned := range schedules {
		for _, w := range owned.Schedule.Recurring() {
			r, err := rrule.NewRRule(rrule.ROption{
				Freq:      rrule.WEEKLY,
				Byweekday: []rrule.Weekday{rruleWeekdays[w.Day]},
				Dtstart:   rangeStart,
			})
			if err != nil {
				return nil, err
			}
			for _, day := range r.Between(rangeStart, rangeEnd, true) {
				sessions = append(sessions, b.session(owned.OwnerID, w, domain.DateOf(day.In(b.loc))))
			}
		}
		for _, w := range owned.Schedule.OneTime() {
			if w.Date.Before(from) || to.Before(w.Date) {
				continue
			}
			sessions = append(sessions, b.session(owned.OwnerID, w, w.Date))
		}
	}

	slices.SortStableFunc(sessions, func(a, b Session) int {
		return a.Start.Compare(b.Start)
	})
	return sessions, nil
}

func (b *AgendaBuilder) session(owner uuid.UUID, w domain.Window, date domain.CalendarDate) Session {
	return Session{
		OwnerID: owner,
		Window:  w,
		Date:    date,
		Start:   date.At(w.StartTime(), b.loc),
		End:     date.At(w.EndTime(), b.loc),
	}
}
