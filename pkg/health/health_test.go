package health_test

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

	"github.com/dmitrymomot/outreach/pkg/health"
)

func ok(context.Context) error { return nil }

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(context.Background(), nil)
		assert.Equal(t, health.StatusHealthy, resp.Status)
		assert.Empty(t, resp.Checks)
	})

	t.Run("one failure marks unhealthy", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(context.Background(), health.Checks{
			"scheduler": ok,
			"redis":     func(context.Context) error { return errors.New("connection refused") },
		})
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, health.StatusHealthy, resp.Checks["scheduler"].Status)
		assert.Equal(t, health.StatusUnhealthy, resp.Checks["redis"].Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"].Error)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(20*time.Millisecond))

		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Contains(t, resp.Checks["slow"].Error, health.ErrCheckTimeout.Error())
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(context.Background(), nil, health.WithStats(func() map[string]int {
			return map[string]int{"live_units": 3}
		}))
		assert.Equal(t, 3, resp.Stats["live_units"])
	})
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live?format=json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	failing := health.Checks{
		"scheduler": ok,
		"postgres":  func(context.Context) error { return errors.New("down") },
		"redis":     func(context.Context) error { return errors.New("down") },
	}

	t.Run("healthy text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(health.Checks{"scheduler": ok})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("unhealthy text names failed checks", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(failing)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Service Unavailable: postgres, redis", rec.Body.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()

		health.ReadinessHandler(failing, health.WithStats(func() map[string]int {
			return map[string]int{"pending_jobs": 4}
		}))(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Len(t, resp.Checks, 3)
		assert.Equal(t, 4, resp.Stats["pending_jobs"])
	})
}
