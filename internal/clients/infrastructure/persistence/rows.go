package persistence

import (
	"time"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/google/uuid"
)

// clientRow represents a database row for clients.
type clientRow struct {
	ID        uuid.UUID
	Profile   domain.Profile
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// recurringRow represents a database row for weekly windows.
type recurringRow struct {
	Weekday     int
	StartMinute int
	EndMinute   int
}

// oneTimeRow represents a database row for dated windows.
type oneTimeRow struct {
	Date        scheduling.CalendarDate
	StartMinute int
	EndMinute   int
}

type windowRows struct {
	recurring []recurringRow
	oneTime   []oneTimeRow
}

func toRecurringRows(schedule scheduling.ScheduleSet) []recurringRow {
	rows := make([]recurringRow, 0, len(schedule.Recurring()))
	for _, w := range schedule.Recurring() {
		rows = append(rows, recurringRow{Weekday: int(w.Day), StartMinute: int(w.Start), EndMinute: int(w.End)})
	}
	return rows
}

func toOneTimeRows(schedule scheduling.ScheduleSet) []oneTimeRow {
	rows := make([]oneTimeRow, 0, len(schedule.OneTime()))
	for _, w := range schedule.OneTime() {
		rows = append(rows, oneTimeRow{Date: w.Date, StartMinute: int(w.Start), EndMinute: int(w.End)})
	}
	return rows
}

func (w windowRows) schedule() (scheduling.ScheduleSet, error) {
	recurring := make([]scheduling.RecurringWindow, 0, len(w.recurring))
	for _, row := range w.recurring {
		window, err := scheduling.NewRecurringWindow(
			time.Weekday(row.Weekday),
			scheduling.ClockTime(row.StartMinute),
			scheduling.ClockTime(row.EndMinute),
		)
		if err != nil {
			return scheduling.ScheduleSet{}, err
		}
		recurring = append(recurring, window)
	}

	oneTime := make([]scheduling.OneTimeWindow, 0, len(w.oneTime))
	for _, row := range w.oneTime {
		window, err := scheduling.NewOneTimeWindow(
			row.Date,
			scheduling.ClockTime(row.StartMinute),
			scheduling.ClockTime(row.EndMinute),
		)
		if err != nil {
			return scheduling.ScheduleSet{}, err
		}
		oneTime = append(oneTime, window)
	}

	return scheduling.NewScheduleSet(recurring, oneTime), nil
}

func (r clientRow) toDomain(windows windowRows) (*domain.Client, error) {
	schedule, err := windows.schedule()
	if err != nil {
		return nil, err
	}
	return domain.RehydrateClient(r.ID, r.Profile, schedule, r.Version, r.CreatedAt, r.UpdatedAt), nil
}
