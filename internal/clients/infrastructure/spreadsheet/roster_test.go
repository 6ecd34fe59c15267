package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRosterEncoder_Encode(t *testing.T) {
	roster := []queries.ClientDTO{
		{
			Position:  1,
			ID:        uuid.New(),
			Name:      "Alex Yeoh",
			Phone:     "87438807",
			Location:  "Jurong West ActiveSG",
			Tags:      []string{"friends"},
			Recurring: []string{"Mon 1400 1600", "Wed 1600 1800"},
		},
		{Position: 2, ID: uuid.New(), Name: "Bernice Yu", Phone: "99272758"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRosterEncoder().Encode(&buf, roster))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Alex Yeoh", rows[1][1])
	assert.Equal(t, "87438807", rows[1][2])
	assert.Equal(t, "friends", rows[1][6])
	assert.Equal(t, "Mon 1400 1600\nWed 1600 1800", rows[1][7])
	assert.Equal(t, "Bernice Yu", rows[2][1])
}

func TestRosterEncoder_EmptyRoster(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRosterEncoder().Encode(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
