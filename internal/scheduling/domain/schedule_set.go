package domain

// ScheduleSet holds the recurring and one-time windows owned by one client.
// Windows keep insertion order and duplicates collapse by value equality.
type ScheduleSet struct {
	recurring []RecurringWindow
	oneTime   []OneTimeWindow
}

// NewScheduleSet builds a set from already-validated windows.
func NewScheduleSet(recurring []RecurringWindow, oneTime []OneTimeWindow) ScheduleSet {
	var s ScheduleSet
	for _, w := range recurring {
		s.recurring = appendUnique(s.recurring, w)
	}
	for _, w := range oneTime {
		s.oneTime = appendUnique(s.oneTime, w)
	}
	return s
}

// BuildScheduleSet parses raw schedule tokens into a ScheduleSet.
// The first malformed token aborts construction.
func BuildScheduleSet(normalizer DateNormalizer, recurringTokens, oneTimeTokens []string) (ScheduleSet, error) {
	recurring := make([]RecurringWindow, 0, len(recurringTokens))
	for _, token := range recurringTokens {
		w, err := ParseRecurringWindow(token)
		if err != nil {
			return ScheduleSet{}, err
		}
		recurring = append(recurring, w)
	}

	oneTime := make([]OneTimeWindow, 0, len(oneTimeTokens))
	for _, token := range oneTimeTokens {
		w, err := ParseOneTimeWindow(normalizer, token)
		if err != nil {
			return ScheduleSet{}, err
		}
		oneTime = append(oneTime, w)
	}

	return NewScheduleSet(recurring, oneTime), nil
}

// Recurring returns a copy of the weekly windows.
func (s ScheduleSet) Recurring() []RecurringWindow {
	return append([]RecurringWindow(nil), s.recurring...)
}

// OneTime returns a copy of the dated windows.
func (s ScheduleSet) OneTime() []OneTimeWindow {
	return append([]OneTimeWindow(nil), s.oneTime...)
}

// Windows returns every window, recurring first.
func (s ScheduleSet) Windows() []Window {
	out := make([]Window, 0, s.Len())
	for _, w := range s.recurring {
		out = append(out, w)
	}
	for _, w := range s.oneTime {
		out = append(out, w)
	}
	return out
}

// Len returns the total number of windows.
func (s ScheduleSet) Len() int {
	return len(s.recurring) + len(s.oneTime)
}

// IsEmpty reports whether the set holds no windows.
func (s ScheduleSet) IsEmpty() bool {
	return s.Len() == 0
}

// ContainsRecurring reports whether w is in the set.
func (s ScheduleSet) ContainsRecurring(w RecurringWindow) bool {
	return contains(s.recurring, w)
}

// ContainsOneTime reports whether w is in the set.
func (s ScheduleSet) ContainsOneTime(w OneTimeWindow) bool {
	return contains(s.oneTime, w)
}

// Equals compares two sets ignoring order.
func (s ScheduleSet) Equals(other ScheduleSet) bool {
	if len(s.recurring) != len(other.recurring) || len(s.oneTime) != len(other.oneTime) {
		return false
	}
	for _, w := range s.recurring {
		if !other.ContainsRecurring(w) {
			return false
		}
	}
	for _, w := range s.oneTime {
		if !other.ContainsOneTime(w) {
			return false
		}
	}
	return true
}

// RecurringTokens renders the weekly windows as schedule tokens.
func (s ScheduleSet) RecurringTokens() []string {
	out := make([]string, len(s.recurring))
	for i, w := range s.recurring {
		out[i] = w.String()
	}
	return out
}

// OneTimeTokens renders the dated windows as schedule tokens.
func (s ScheduleSet) OneTimeTokens() []string {
	out := make([]string, len(s.oneTime))
	for i, w := range s.oneTime {
		out[i] = w.String()
	}
	return out
}

func appendUnique[T comparable](items []T, item T) []T {
	if contains(items, item) {
		return items
	}
	return append(items, item)
}

func contains[T comparable](items []T, item T) bool {
	for _, existing := range items {
		if existing == item {
			return true
		}
	}
	return false
}
