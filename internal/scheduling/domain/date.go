package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var datePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2}))?$`)

// Clock abstracts time.Now so the current year can be injected.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// CalendarDate is a validated day on the proleptic Gregorian calendar.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// NewCalendarDate validates the triple and returns the date.
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	if month < time.January || month > time.December {
		return CalendarDate{}, fmt.Errorf("month %d: %w", month, ErrRange)
	}
	if day < 1 || day > DaysIn(month, year) {
		return CalendarDate{}, fmt.Errorf("day %d of %s %d: %w", day, month, year, ErrRange)
	}
	return CalendarDate{year: year, month: month, day: day}, nil
}

func (d CalendarDate) Year() int         { return d.year }
func (d CalendarDate) Month() time.Month { return d.month }
func (d CalendarDate) Day() int          { return d.day }

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Weekday returns the day of the week d falls on.
func (d CalendarDate) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Time returns midnight of d in loc.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// At returns the wall-clock time c on d in loc. On a day with a DST
// transition this differs from midnight plus c.Duration().
func (d CalendarDate) At(c ClockTime, loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, c.Hour(), c.Minute(), 0, 0, loc)
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

// String renders the canonical dd/mm/yy form.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%02d/%02d/%02d", d.day, int(d.month), d.year%100)
}

// ISO renders the date as YYYY-MM-DD.
func (d CalendarDate) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// ParseISODate parses a YYYY-MM-DD value as written by ISO.
func ParseISODate(value string) (CalendarDate, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return CalendarDate{}, &DateError{Input: value, Err: ErrFormat}
	}
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// IsLeapYear applies the Gregorian leap year rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month for year.
func DaysIn(month time.Month, year int) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// DateNormalizer turns D/M[/YY] text into calendar dates. Two-digit years
// are read as 20yy; a missing year takes the reference year.
type DateNormalizer struct {
	referenceYear int
}

// NewDateNormalizer creates a normalizer that defaults missing years to referenceYear.
func NewDateNormalizer(referenceYear int) DateNormalizer {
	return DateNormalizer{referenceYear: referenceYear}
}

// DateNormalizerFromClock takes the reference year from clock.
func DateNormalizerFromClock(clock Clock) DateNormalizer {
	if clock == nil {
		clock = SystemClock{}
	}
	return NewDateNormalizer(clock.Now().Year())
}

// ReferenceYear returns the year used when the input omits one.
func (n DateNormalizer) ReferenceYear() int {
	return n.referenceYear
}

// Normalize parses text into a CalendarDate.
func (n DateNormalizer) Normalize(text string) (CalendarDate, error) {
	compact := strings.Join(strings.Fields(text), "")
	m := datePattern.FindStringSubmatch(compact)
	if m == nil {
		return CalendarDate{}, &DateError{Input: text, Err: ErrFormat}
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := 2000 + n.referenceYear%100
	if m[3] != "" {
		yy, _ := strconv.Atoi(m[3])
		year = 2000 + yy
	}

	date, err := NewCalendarDate(year, time.Month(month), day)
	if err != nil {
		return CalendarDate{}, &DateError{Input: text, Err: err}
	}
	return date, nil
}

// NormalizeRef is Normalize for an optional input; nil yields ErrNullInput.
func (n DateNormalizer) NormalizeRef(text *string) (CalendarDate, error) {
	if text == nil {
		return CalendarDate{}, &DateError{Err: ErrNullInput}
	}
	return n.Normalize(*text)
}

// FormatDateString returns the canonical dd/mm/yy rendering of text.
func (n DateNormalizer) FormatDateString(text string) (string, error) {
	date, err := n.Normalize(text)
	if err != nil {
		return "", err
	}
	return date.String(), nil
}

// IsValidDateString reports whether text normalizes without error.
func (n DateNormalizer) IsValidDateString(text string) bool {
	_, err := n.Normalize(text)
	return err == nil
}

// IsValidDateStringRef is IsValidDateString for an optional input.
func (n DateNormalizer) IsValidDateStringRef(text *string) bool {
	return text != nil && n.IsValidDateString(*text)
}

// ParseToCalendarDate is Normalize with every rejection reported as ErrInvalidArgument.
func (n DateNormalizer) ParseToCalendarDate(text string) (CalendarDate, error) {
	date, err := n.Normalize(text)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return date, nil
}
