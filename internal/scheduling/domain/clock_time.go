package domain

import (
	"fmt"
	"time"
)

// MinutesPerDay bounds ClockTime.
const MinutesPerDay = 24 * 60

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// NewClockTime builds a ClockTime from an hour and minute.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%02d:%02d: %w", hour, minute, ErrRange)
	}
	return ClockTime(hour*60 + minute), nil
}

// ParseClockTime parses an HHMM literal such as "1400".
func ParseClockTime(text string) (ClockTime, error) {
	if len(text) != 4 {
		return 0, fmt.Errorf("time %q must be 4 digits: %w", text, ErrFormat)
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("time %q must be 4 digits: %w", text, ErrFormat)
		}
	}
	hour := int(text[0]-'0')*10 + int(text[1]-'0')
	minute := int(text[2]-'0')*10 + int(text[3]-'0')
	return NewClockTime(hour, minute)
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

// Duration returns the offset from midnight.
func (c ClockTime) Duration() time.Duration {
	return time.Duration(c) * time.Minute
}

// String renders the HHMM literal.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d%02d", c.Hour(), c.Minute())
}

// Clock renders HH:MM for display.
func (c ClockTime) Clock() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
