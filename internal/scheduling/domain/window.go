package domain

import (
	"fmt"
	"strings"
	"time"
)

// WindowKind distinguishes weekly slots from dated slots.
type WindowKind string

const (
	WindowKindRecurring WindowKind = "recurring"
	WindowKindOneTime   WindowKind = "one_time"
)

// Window is a bounded interval of one day.
type Window interface {
	Kind() WindowKind
	StartTime() ClockTime
	EndTime() ClockTime
	String() string
}

// TimeRange is a half-open [Start, End) interval within a day.
type TimeRange struct {
	Start ClockTime
	End   ClockTime
}

// Overlaps checks if two ranges share any minute. Touching ranges do not overlap.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start < other.End && other.Start < t.End
}

// Intersect returns the shared part of two overlapping ranges.
func (t TimeRange) Intersect(other TimeRange) TimeRange {
	return TimeRange{Start: max(t.Start, other.Start), End: min(t.End, other.End)}
}

// Duration returns the length of the range.
func (t TimeRange) Duration() time.Duration {
	return (t.End - t.Start).Duration()
}

func newTimeRange(start, end ClockTime) (TimeRange, error) {
	if end <= start {
		return TimeRange{}, fmt.Errorf("end %s must be after start %s: %w", end, start, ErrRange)
	}
	return TimeRange{Start: start, End: end}, nil
}

var weekdayAbbrev = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// ParseWeekday resolves a 3-letter, case-insensitive weekday abbreviation.
func ParseWeekday(text string) (time.Weekday, error) {
	day, ok := weekdayAbbrev[strings.ToLower(text)]
	if !ok {
		return 0, fmt.Errorf("weekday %q: %w", text, ErrFormat)
	}
	return day, nil
}

// WeekdayAbbrev returns the 3-letter abbreviation used in schedule tokens.
func WeekdayAbbrev(day time.Weekday) string {
	return day.String()[:3]
}

// RecurringWindow is a slot repeating every week on the same weekday.
type RecurringWindow struct {
	Day   time.Weekday
	Start ClockTime
	End   ClockTime
}

// NewRecurringWindow validates start < end.
func NewRecurringWindow(day time.Weekday, start, end ClockTime) (RecurringWindow, error) {
	if _, err := newTimeRange(start, end); err != nil {
		return RecurringWindow{}, err
	}
	return RecurringWindow{Day: day, Start: start, End: end}, nil
}

func (w RecurringWindow) Kind() WindowKind     { return WindowKindRecurring }
func (w RecurringWindow) StartTime() ClockTime { return w.Start }
func (w RecurringWindow) EndTime() ClockTime   { return w.End }
func (w RecurringWindow) Range() TimeRange     { return TimeRange{Start: w.Start, End: w.End} }

// String renders the token form, e.g. "Mon 1400 1600".
func (w RecurringWindow) String() string {
	return fmt.Sprintf("%s %s %s", WeekdayAbbrev(w.Day), w.Start, w.End)
}

// OneTimeWindow is a slot on a single calendar date.
type OneTimeWindow struct {
	Date  CalendarDate
	Start ClockTime
	End   ClockTime
}

// NewOneTimeWindow validates start < end.
func NewOneTimeWindow(date CalendarDate, start, end ClockTime) (OneTimeWindow, error) {
	if _, err := newTimeRange(start, end); err != nil {
		return OneTimeWindow{}, err
	}
	return OneTimeWindow{Date: date, Start: start, End: end}, nil
}

func (w OneTimeWindow) Kind() WindowKind     { return WindowKindOneTime }
func (w OneTimeWindow) StartTime() ClockTime { return w.Start }
func (w OneTimeWindow) EndTime() ClockTime   { return w.End }
func (w OneTimeWindow) Range() TimeRange     { return TimeRange{Start: w.Start, End: w.End} }

// String renders the token form, e.g. "25/02/26 1000 1200".
func (w OneTimeWindow) String() string {
	return fmt.Sprintf("%s %s %s", w.Date, w.Start, w.End)
}

// ParseRecurringWindow parses "<Weekday> <HHMM> <HHMM>".
func ParseRecurringWindow(token string) (RecurringWindow, error) {
	fields := strings.Fields(token)
	if len(fields) != 3 {
		return RecurringWindow{}, newScheduleFormatError(token, "expected <day> <start> <end>", ErrFormat)
	}
	day, err := ParseWeekday(fields[0])
	if err != nil {
		return RecurringWindow{}, newScheduleFormatError(token, "unknown day of week", err)
	}
	start, end, err := parseTimes(token, fields[1], fields[2])
	if err != nil {
		return RecurringWindow{}, err
	}
	return RecurringWindow{Day: day, Start: start, End: end}, nil
}

// ParseOneTimeWindow parses "<D/M[/YY]> <HHMM> <HHMM>". The last two fields
// are the times; everything before them is the date.
func ParseOneTimeWindow(normalizer DateNormalizer, token string) (OneTimeWindow, error) {
	fields := strings.Fields(token)
	if len(fields) < 3 {
		return OneTimeWindow{}, newScheduleFormatError(token, "expected <date> <start> <end>", ErrFormat)
	}
	datePart := strings.Join(fields[:len(fields)-2], "")
	date, err := normalizer.Normalize(datePart)
	if err != nil {
		return OneTimeWindow{}, newScheduleFormatError(token, "invalid date", err)
	}
	start, end, err := parseTimes(token, fields[len(fields)-2], fields[len(fields)-1])
	if err != nil {
		return OneTimeWindow{}, err
	}
	return OneTimeWindow{Date: date, Start: start, End: end}, nil
}

func parseTimes(token, startText, endText string) (ClockTime, ClockTime, error) {
	start, err := ParseClockTime(startText)
	if err != nil {
		return 0, 0, newScheduleFormatError(token, "invalid start time", err)
	}
	end, err := ParseClockTime(endText)
	if err != nil {
		return 0, 0, newScheduleFormatError(token, "invalid end time", err)
	}
	if end <= start {
		return 0, 0, newScheduleFormatError(token, "end time must be after start time", ErrRange)
	}
	return start, end, nil
}
