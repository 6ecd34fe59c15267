package cli

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)

	out := runCmd(t, seedCmd)
	assert.Equal(t, "Imported 6 client(s).\n", out)

	clients, err := app.ListClientsHandler.Handle(context.Background(), queries.ListClientsQuery{})
	require.NoError(t, err)
	require.Len(t, clients, 6)
	assert.Equal(t, "Alex Yeoh", clients[0].Name)

	out = runCmd(t, seedCmd)
	assert.Equal(t, "Imported 0 client(s), skipped 6 already in the book.\n", out)
}

func TestHealthCmd(t *testing.T) {
	setupLocalModeTestApp(t)
	runCmd(t, seedCmd)

	out := runCmd(t, healthCmd)
	assert.Contains(t, out, "database: ok")
	assert.Contains(t, out, "outbox: 6 published, 0 failed, 0 dead")
}
