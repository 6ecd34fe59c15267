package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// OwnedSchedule pairs a client with their schedule for conflict detection.
type OwnedSchedule struct {
	OwnerID  uuid.UUID
	Schedule ScheduleSet
}

// Conflict is one overlapping pair between the candidate and another client.
type Conflict struct {
	OtherOwnerID uuid.UUID
	Own          Window
	Other        Window
	Overlap      string
}

// ConflictReport lists overlapping window pairs. Empty means no conflicts.
type ConflictReport []Conflict

// HasConflicts reports whether any overlap was found.
func (r ConflictReport) HasConflicts() bool {
	return len(r) > 0
}

// OwnerIDs returns the distinct other owners in report order.
func (r ConflictReport) OwnerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r))
	for _, c := range r {
		ids = appendUnique(ids, c.OtherOwnerID)
	}
	return ids
}

// DetectConflicts compares the candidate schedule against every other
// owner's schedule. Windows are only compared within the same kind: weekly
// slots by weekday, dated slots by date. Entries owned by candidateOwner are
// skipped. The result is ordered by others, then by the candidate's windows.
func DetectConflicts(candidate ScheduleSet, candidateOwner uuid.UUID, others []OwnedSchedule) ConflictReport {
	report := ConflictReport{}

	for _, other := range others {
		if other.OwnerID == candidateOwner {
			continue
		}

		for _, own := range candidate.recurring {
			for _, theirs := range other.Schedule.recurring {
				if own.Day != theirs.Day || !own.Range().Overlaps(theirs.Range()) {
					continue
				}
				report = append(report, Conflict{
					OtherOwnerID: other.OwnerID,
					Own:          own,
					Other:        theirs,
					Overlap:      describeOverlap(WeekdayAbbrev(own.Day), own.Range().Intersect(theirs.Range())),
				})
			}
		}

		for _, own := range candidate.oneTime {
			for _, theirs := range other.Schedule.oneTime {
				if own.Date != theirs.Date || !own.Range().Overlaps(theirs.Range()) {
					continue
				}
				report = append(report, Conflict{
					OtherOwnerID: other.OwnerID,
					Own:          own,
					Other:        theirs,
					Overlap:      describeOverlap(own.Date.String(), own.Range().Intersect(theirs.Range())),
				})
			}
		}
	}

	return report
}

func describeOverlap(day string, shared TimeRange) string {
	return fmt.Sprintf("%s %s-%s", day, shared.Start.Clock(), shared.End.Clock())
}
