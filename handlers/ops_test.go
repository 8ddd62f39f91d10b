package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/helpdesk/helpdesk/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func get(g *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestOpsEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	metrics.HelpRequestsStored.Set(2)

	redisUp := true
	g := gin.New()
	RegisterOps(g, reg, map[string]ReadinessCheck{
		"store": func(ctx context.Context) error { return nil },
		"redis": func(ctx context.Context) error {
			if !redisUp {
				return errors.New("down")
			}
			return nil
		},
	})

	w := get(g, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())

	w = get(g, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string          `json:"status"`
		Deps   map[string]bool `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ready", body.Status)
	require.Equal(t, map[string]bool{"store": true, "redis": true}, body.Deps)

	redisUp = false
	w = get(g, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_ready", body.Status)
	require.False(t, body.Deps["redis"])

	w = get(g, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "helpdesk_help_requests_stored 2")
}
