package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchedule(t *testing.T, recurring, oneTime []string) ScheduleSet {
	t.Helper()
	set, err := BuildScheduleSet(NewDateNormalizer(2026), recurring, oneTime)
	require.NoError(t, err)
	return set
}

func TestDetectConflicts_RecurringOverlap(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	candidate := mustSchedule(t, []string{"Tue 0900 1000", "Mon 1500 1700"}, nil)
	others := []OwnedSchedule{
		{OwnerID: alice, Schedule: mustSchedule(t, []string{"Mon 1400 1600"}, nil)},
	}

	report := DetectConflicts(candidate, bob, others)

	require.Len(t, report, 1)
	assert.True(t, report.HasConflicts())
	assert.Equal(t, alice, report[0].OtherOwnerID)
	assert.Equal(t, "Mon 1500 1700", report[0].Own.String())
	assert.Equal(t, "Mon 1400 1600", report[0].Other.String())
	assert.Equal(t, "Mon 15:00-16:00", report[0].Overlap)
	assert.Equal(t, []uuid.UUID{alice}, report.OwnerIDs())
}

func TestDetectConflicts_TouchingWindowsDoNotConflict(t *testing.T) {
	candidate := mustSchedule(t, []string{"Mon 1600 1800"}, nil)
	others := []OwnedSchedule{
		{OwnerID: uuid.New(), Schedule: mustSchedule(t, []string{"Mon 1400 1600"}, nil)},
	}

	report := DetectConflicts(candidate, uuid.New(), others)
	assert.False(t, report.HasConflicts())
	assert.NotNil(t, report)
}

func TestDetectConflicts_OneMinuteOverlap(t *testing.T) {
	candidate := mustSchedule(t, []string{"Mon 1600 1800"}, nil)
	others := []OwnedSchedule{
		{OwnerID: uuid.New(), Schedule: mustSchedule(t, []string{"Mon 1400 1601"}, nil)},
	}

	report := DetectConflicts(candidate, uuid.New(), others)
	require.Len(t, report, 1)
	assert.Equal(t, "Mon 16:00-16:01", report[0].Overlap)
}

func TestDetectConflicts_DifferentWeekdays(t *testing.T) {
	candidate := mustSchedule(t, []string{"Tue 1400 1600"}, nil)
	others := []OwnedSchedule{
		{OwnerID: uuid.New(), Schedule: mustSchedule(t, []string{"Mon 1400 1600"}, nil)},
	}

	assert.Empty(t, DetectConflicts(candidate, uuid.New(), others))
}

func TestDetectConflicts_OneTimeOverlap(t *testing.T) {
	other := uuid.New()
	candidate := mustSchedule(t, nil, []string{"25/02 1100 1300", "26/02 1000 1200"})
	others := []OwnedSchedule{
		{OwnerID: other, Schedule: mustSchedule(t, nil, []string{"25/02/26 1000 1200"})},
	}

	report := DetectConflicts(candidate, uuid.New(), others)
	require.Len(t, report, 1)
	assert.Equal(t, "25/02/26 1100 1300", report[0].Own.String())
	assert.Equal(t, "25/02/26 11:00-12:00", report[0].Overlap)
	assert.Equal(t, WindowKindOneTime, report[0].Own.Kind())
}

func TestDetectConflicts_CrossKindNotCompared(t *testing.T) {
	// 2026-10-19 is a Monday.
	candidate := mustSchedule(t, []string{"Mon 1000 1200"}, nil)
	others := []OwnedSchedule{
		{OwnerID: uuid.New(), Schedule: mustSchedule(t, nil, []string{"19/10/26 1000 1200"})},
	}

	assert.Empty(t, DetectConflicts(candidate, uuid.New(), others))
}

func TestDetectConflicts_SkipsCandidateOwner(t *testing.T) {
	self := uuid.New()
	candidate := mustSchedule(t, []string{"Mon 1400 1600"}, nil)
	others := []OwnedSchedule{
		{OwnerID: self, Schedule: mustSchedule(t, []string{"Mon 1400 1600"}, nil)},
	}

	assert.Empty(t, DetectConflicts(candidate, self, others))
}

func TestDetectConflicts_EmptyInputs(t *testing.T) {
	assert.Empty(t, DetectConflicts(ScheduleSet{}, uuid.New(), nil))

	others := []OwnedSchedule{
		{OwnerID: uuid.New(), Schedule: mustSchedule(t, []string{"Mon 1400 1600"}, nil)},
	}
	assert.Empty(t, DetectConflicts(ScheduleSet{}, uuid.New(), others))
}

func TestDetectConflicts_Symmetric(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	scheduleA := mustSchedule(t, []string{"Mon 1400 1600", "Wed 0800 0900"}, []string{"1/3 1000 1100"})
	scheduleB := mustSchedule(t, []string{"Mon 1500 1530", "Wed 0900 1000"}, []string{"01/03/26 1030 1200"})

	ab := DetectConflicts(scheduleA, a, []OwnedSchedule{{OwnerID: b, Schedule: scheduleB}})
	ba := DetectConflicts(scheduleB, b, []OwnedSchedule{{OwnerID: a, Schedule: scheduleA}})

	require.Len(t, ab, 2)
	require.Len(t, ba, len(ab))
	for i := range ab {
		assert.Equal(t, ab[i].Own, ba[i].Other)
		assert.Equal(t, ab[i].Other, ba[i].Own)
		assert.Equal(t, ab[i].Overlap, ba[i].Overlap)
	}
}

func TestDetectConflicts_Ordering(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	candidate := mustSchedule(t,
		[]string{"Mon 0900 1100", "Fri 0900 1100"},
		[]string{"2/2 0900 1000"},
	)
	others := []OwnedSchedule{
		{OwnerID: first, Schedule: mustSchedule(t, []string{"Fri 1000 1200", "Mon 1000 1200"}, []string{"2/2 0930 1030"})},
		{OwnerID: second, Schedule: mustSchedule(t, []string{"Mon 0800 0930"}, nil)},
	}

	report := DetectConflicts(candidate, uuid.New(), others)

	got := make([]string, 0, len(report))
	for _, c := range report {
		got = append(got, c.Own.String()+" x "+c.Other.String())
	}
	assert.Equal(t, []string{
		"Mon 0900 1100 x Mon 1000 1200",
		"Fri 0900 1100 x Fri 1000 1200",
		"02/02/26 0900 1000 x 02/02/26 0930 1030",
		"Mon 0900 1100 x Mon 0800 0930",
	}, got)
	assert.Equal(t, []uuid.UUID{first, second}, report.OwnerIDs())
}

func TestDetectConflicts_EndToEnd(t *testing.T) {
	n := NewDateNormalizer(2026)

	a, err := BuildScheduleSet(n, []string{"Mon 1400 1600"}, []string{"25/02 1000 1200"})
	require.NoError(t, err)
	b, err := BuildScheduleSet(n, []string{"Mon 1500 1700", "Tue 1400 1600"}, []string{"25/2/26 1100 1300"})
	require.NoError(t, err)

	idA, idB := uuid.New(), uuid.New()
	report := DetectConflicts(b, idB, []OwnedSchedule{{OwnerID: idA, Schedule: a}})

	require.Len(t, report, 2)
	assert.Equal(t, time.Monday, report[0].Own.(RecurringWindow).Day)
	assert.Equal(t, "Mon 15:00-16:00", report[0].Overlap)
	assert.Equal(t, "25/02/26 11:00-12:00", report[1].Overlap)
	for _, c := range report {
		assert.Equal(t, idA, c.OtherOwnerID)
	}
}
