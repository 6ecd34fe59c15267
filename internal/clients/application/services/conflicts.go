package services

import (
	"fmt"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ConflictView is a detected overlap with the other client's name resolved.
type ConflictView struct {
	OtherClientID   uuid.UUID `json:"other_client_id"`
	OtherClientName string    `json:"other_client_name"`
	Own             string    `json:"own"`
	Other           string    `json:"other"`
	Overlap         string    `json:"overlap"`
}

// Message renders the warning shown after an add or edit.
func (v ConflictView) Message() string {
	return fmt.Sprintf("schedule conflict with %s: %s overlaps %s (%s)", v.OtherClientName, v.Own, v.Other, v.Overlap)
}

// DetectClientConflicts checks schedule against every client in roster except
// candidateID and resolves the other clients' names.
func DetectClientConflicts(candidateID uuid.UUID, schedule scheduling.ScheduleSet, roster []*domain.Client) []ConflictView {
	names := make(map[uuid.UUID]string, len(roster))
	for _, c := range roster {
		names[c.ID()] = c.Name()
	}

	report := scheduling.DetectConflicts(schedule, candidateID, domain.Roster(roster))

	views := make([]ConflictView, 0, len(report))
	for _, conflict := range report {
		views = append(views, ConflictView{
			OtherClientID:   conflict.OtherOwnerID,
			OtherClientName: names[conflict.OtherOwnerID],
			Own:             conflict.Own.String(),
			Other:           conflict.Other.String(),
			Overlap:         conflict.Overlap,
		})
	}
	return views
}
