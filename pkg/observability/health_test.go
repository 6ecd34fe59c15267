package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestHealthRegistry_Check(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("database", DatabaseHealthChecker(ok))
	registry.Register("redis", RedisHealthChecker(down))

	results := registry.Check(context.Background())

	require.Len(t, results, 2)
	assert.Equal(t, HealthStatusHealthy, results["database"].Status)
	assert.Equal(t, HealthStatusDegraded, results["redis"].Status)
	assert.Contains(t, results["redis"].Message, "connection refused")
	assert.False(t, results["redis"].Timestamp.IsZero())
	assert.Equal(t, []string{"database", "redis"}, registry.Names())
}

func TestHealthRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		database func(context.Context) error
		redis    func(context.Context) error
		want     HealthStatus
	}{
		{"all healthy", ok, ok, HealthStatusHealthy},
		{"optional component down", ok, down, HealthStatusDegraded},
		{"required component down", down, ok, HealthStatusUnhealthy},
		{"both down", down, down, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			registry.Register("database", DatabaseHealthChecker(tt.database))
			registry.Register("redis", RedisHealthChecker(tt.redis))

			assert.Equal(t, tt.want, registry.GetOverallHealth(context.Background()).Status)
		})
	}
}

func TestHealthRegistry_EmptyIsHealthy(t *testing.T) {
	assert.Equal(t, HealthStatusHealthy, NewHealthRegistry().GetOverallHealth(context.Background()).Status)
}

func TestHealthRegistry_Handler(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("database", DatabaseHealthChecker(down))

	rec := httptest.NewRecorder()
	registry.Handler(time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body OverallHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, HealthStatusUnhealthy, body.Status)
	assert.Contains(t, body.Checks, "database")
}
