package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflictsHandler_AdHocWindows(t *testing.T) {
	handler := NewCheckConflictsHandler(sampleRoster(t), testNormalizer)

	got, err := handler.Handle(context.Background(), CheckConflictsQuery{
		Recurring: []string{"Mon 1500 1700"},
		OneTime:   []string{"25/02 1100 1130"},
	})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Alex Yeoh", got[0].OtherClientName)
	assert.Equal(t, "Mon 15:00-16:00", got[0].Overlap)
	assert.Equal(t, "Alex Yeoh", got[1].OtherClientName)
	assert.Equal(t, "25/02/26 11:00-11:30", got[1].Overlap)
	assert.Equal(t, "Bernice Yu", got[2].OtherClientName)
	assert.Equal(t, "Mon 16:00-17:00", got[2].Overlap)
}

func TestCheckConflictsHandler_StoredScheduleSkipsOwnWindows(t *testing.T) {
	handler := NewCheckConflictsHandler(sampleRoster(t), testNormalizer)

	got, err := handler.Handle(context.Background(), CheckConflictsQuery{Ref: "Alex Yeoh"})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheckConflictsHandler_CandidateForExistingClient(t *testing.T) {
	handler := NewCheckConflictsHandler(sampleRoster(t), testNormalizer)

	got, err := handler.Handle(context.Background(), CheckConflictsQuery{
		Ref:       "1",
		Recurring: []string{"Mon 1400 1700"},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bernice Yu", got[0].OtherClientName)
}

func TestCheckConflictsHandler_Errors(t *testing.T) {
	handler := NewCheckConflictsHandler(sampleRoster(t), testNormalizer)
	ctx := context.Background()

	_, err := handler.Handle(ctx, CheckConflictsQuery{})
	assert.ErrorIs(t, err, ErrNothingToCheck)

	_, err = handler.Handle(ctx, CheckConflictsQuery{Recurring: []string{"Mon 1400"}})
	assert.ErrorIs(t, err, scheduling.ErrScheduleFormat)

	_, err = handler.Handle(ctx, CheckConflictsQuery{Ref: "Nobody"})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}
