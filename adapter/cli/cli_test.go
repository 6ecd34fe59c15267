package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	internalApp "github.com/felixgeelhaar/trainbook/internal/app"
	"github.com/felixgeelhaar/trainbook/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func setupLocalModeTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                 "test",
		LocalMode:              true,
		DatabaseDriver:         "sqlite",
		SQLitePath:             filepath.Join(t.TempDir(), "test.db"),
		ReferenceYear:          2026,
		TimeZone:               "UTC",
		RosterCacheTTL:         time.Minute,
		OutboxBatchSize:        50,
		OutboxMaxRetries:       3,
		OutboxProcessorEnabled: true,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	a := NewApp(container)
	SetApp(a)
	t.Cleanup(func() { SetApp(nil) })
	return a
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}
