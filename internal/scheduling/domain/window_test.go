package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input    string
		expected ClockTime
		err      error
	}{
		{"0000", 0, nil},
		{"1400", 14 * 60, nil},
		{"2359", 23*60 + 59, nil},
		{"0930", 9*60 + 30, nil},
		{"2400", 0, ErrRange},
		{"1260", 0, ErrRange},
		{"930", 0, ErrFormat},
		{"14:00", 0, ErrFormat},
		{"12a0", 0, ErrFormat},
		{"", 0, ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestTimeRange_Overlaps(t *testing.T) {
	at := func(hhmm string) ClockTime {
		c, err := ParseClockTime(hhmm)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name     string
		range1   TimeRange
		range2   TimeRange
		expected bool
	}{
		{"overlapping ranges", TimeRange{at("1400"), at("1600")}, TimeRange{at("1500"), at("1700")}, true},
		{"non-overlapping ranges", TimeRange{at("1000"), at("1100")}, TimeRange{at("1200"), at("1300")}, false},
		{"adjacent ranges (no overlap)", TimeRange{at("1400"), at("1600")}, TimeRange{at("1600"), at("1800")}, false},
		{"one minute past adjacent", TimeRange{at("1400"), at("1601")}, TimeRange{at("1600"), at("1800")}, true},
		{"one contains the other", TimeRange{at("0800"), at("1800")}, TimeRange{at("1000"), at("1100")}, true},
		{"same range", TimeRange{at("1000"), at("1100")}, TimeRange{at("1000"), at("1100")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.range1.Overlaps(tt.range2))
			assert.Equal(t, tt.expected, tt.range2.Overlaps(tt.range1))
		})
	}
}

func TestTimeRange_IntersectAndDuration(t *testing.T) {
	a := TimeRange{Start: 14 * 60, End: 16 * 60}
	b := TimeRange{Start: 15 * 60, End: 17 * 60}

	shared := a.Intersect(b)
	assert.Equal(t, TimeRange{Start: 15 * 60, End: 16 * 60}, shared)
	assert.Equal(t, time.Hour, shared.Duration())
}

func TestParseWeekday(t *testing.T) {
	for _, input := range []string{"Mon", "mon", "MON", "mOn"} {
		day, err := ParseWeekday(input)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, day)
	}

	day, err := ParseWeekday("sun")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)

	for _, input := range []string{"Monday", "yay", "", "Mo"} {
		_, err := ParseWeekday(input)
		assert.ErrorIs(t, err, ErrFormat, input)
	}
}

func TestParseRecurringWindow(t *testing.T) {
	w, err := ParseRecurringWindow("Mon 1400 1600")
	require.NoError(t, err)
	assert.Equal(t, RecurringWindow{Day: time.Monday, Start: 14 * 60, End: 16 * 60}, w)
	assert.Equal(t, "Mon 1400 1600", w.String())
	assert.Equal(t, WindowKindRecurring, w.Kind())

	w, err = ParseRecurringWindow("  wed   0900 1030 ")
	require.NoError(t, err)
	assert.Equal(t, "Wed 0900 1030", w.String())
}

func TestParseRecurringWindow_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"unknown day", "yay 1400 1600"},
		{"missing end", "Mon 1400"},
		{"extra field", "Mon 1400 1600 1800"},
		{"bad start", "Mon 14h0 1600"},
		{"bad end", "Mon 1400 2500"},
		{"end before start", "Mon 1600 1400"},
		{"end equals start", "Mon 1400 1400"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecurringWindow(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrScheduleFormat)

			var sfe *ScheduleFormatError
			require.True(t, errors.As(err, &sfe))
			assert.Equal(t, tt.token, sfe.Token)
			assert.Contains(t, err.Error(), tt.token)
		})
	}
}

func TestParseOneTimeWindow(t *testing.T) {
	n := NewDateNormalizer(2026)

	w, err := ParseOneTimeWindow(n, "25/02 1000 1200")
	require.NoError(t, err)
	assert.Equal(t, "25/02/26 1000 1200", w.String())
	assert.Equal(t, 2026, w.Date.Year())
	assert.Equal(t, WindowKindOneTime, w.Kind())

	w, err = ParseOneTimeWindow(n, " 2 / 2 /24 1000 1200")
	require.NoError(t, err)
	assert.Equal(t, "02/02/24 1000 1200", w.String())
}

func TestParseOneTimeWindow_Errors(t *testing.T) {
	n := NewDateNormalizer(2026)

	tests := []struct {
		name  string
		token string
		cause error
	}{
		{"bad date", "abc 1000 1200", ErrFormat},
		{"impossible date", "30/02 1000 1200", ErrRange},
		{"missing times", "25/02", ErrFormat},
		{"end before start", "25/02 1200 1000", ErrRange},
		{"bad time", "25/02 10:00 1200", ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOneTimeWindow(n, tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrScheduleFormat)
			assert.ErrorIs(t, err, tt.cause)

			var sfe *ScheduleFormatError
			require.True(t, errors.As(err, &sfe))
			assert.Equal(t, tt.token, sfe.Token)
		})
	}
}

func TestNewRecurringWindow_RejectsEmptyRange(t *testing.T) {
	_, err := NewRecurringWindow(time.Monday, 600, 600)
	assert.ErrorIs(t, err, ErrRange)

	date, err := NewCalendarDate(2026, time.March, 1)
	require.NoError(t, err)
	_, err = NewOneTimeWindow(date, 700, 600)
	assert.ErrorIs(t, err, ErrRange)
}
