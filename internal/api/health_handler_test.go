package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealth_Greeting(t *testing.T) {
	hc := NewHealthChecker("memory", nil, nil)
	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "Gotta catch them all!", status.Message)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "memory", status.Storage)
	assert.Empty(t, status.Checks)
}

func TestHandleReadiness_DatabaseDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	hc := NewHealthChecker("postgres", db, nil)
	rec := httptest.NewRecorder()
	hc.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":false`)
	assert.Contains(t, rec.Body.String(), "Storage temporarily unavailable")
}

func TestHandleReadiness_DatabaseUp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	hc := NewHealthChecker("postgres", db, nil)
	rec := httptest.NewRecorder()
	hc.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleHealth_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	hc := NewHealthChecker("redis", nil, client)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	checks := hc.check(ctx)
	assert.Equal(t, "up", checks["redis"].Status)
	assert.NotContains(t, checks, "database")

	addr := mr.Addr()
	mr.Close()
	checks = hc.check(ctx)
	assert.Equal(t, "down", checks["redis"].Status)
	assert.Equal(t, "Storage temporarily unavailable", checks["redis"].Error)
	assert.NotContains(t, checks["redis"].Error, addr)
	assert.Equal(t, "unhealthy", overallStatus(checks))
}

func TestHandleLiveness(t *testing.T) {
	hc := NewHealthChecker("memory", nil, nil)
	rec := httptest.NewRecorder()
	hc.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alive"`)
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]ComponentCheck
		want   string
	}{
		{"nothing to check", map[string]ComponentCheck{}, "healthy"},
		{"all up", map[string]ComponentCheck{"database": {Status: "up"}}, "healthy"},
		{"slow database", map[string]ComponentCheck{"database": {Status: "degraded"}}, "degraded"},
		{"redis down", map[string]ComponentCheck{
			"database": {Status: "degraded"},
			"redis":    {Status: "down"},
		}, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overallStatus(tt.checks))
		})
	}
}

func TestProbe_SlowIsDegraded(t *testing.T) {
	p := probe{
		timeout: time.Second,
		slow:    time.Millisecond,
		ping: func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			return nil
		},
	}
	assert.Equal(t, "degraded", p.run(context.Background()).Status)
}
