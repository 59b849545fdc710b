package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/zerpitt/prompt-keeper-project/internal/config"
	"github.com/zerpitt/prompt-keeper-project/pkg/middleware"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	for _, k := range []string{"MONGODB_URI", "REDIS_HOST", "MINIO_ENDPOINT", "KEYCLOAK_URL", "ALLOW_INSECURE_TOKEN", "SERVER_ENVIRONMENT"} {
		t.Setenv(k, "")
	}
	c, err := config.LoadConfig()
	require.NoError(t, err)
	return c
}

func TestRouter_MemoryMode(t *testing.T) {
	c := memoryConfig(t)
	rt, err := openRuntime(context.Background(), c)
	require.NoError(t, err)
	defer rt.close(context.Background())
	require.Nil(t, rt.verifier)
	require.Nil(t, rt.backups)

	g := newRouter(rt, prometheus.NewRegistry())

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ready"`)

	req := httptest.NewRequest(http.MethodPost, "/api/prompts", strings.NewReader(`{"title":"t","workflow":[{"id":"1","content":"x"}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserHeader, "alice")
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"sub":"local"`)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "promptkeeper_prompt_saves_total")

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/prompts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_InsecureTokenMode(t *testing.T) {
	c := memoryConfig(t)
	c.Auth.AllowInsecureToken = true
	rt, err := openRuntime(context.Background(), c)
	require.NoError(t, err)
	defer rt.close(context.Background())

	g := newRouter(rt, prometheus.NewRegistry())
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prompts", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBackupCommandRequiresUser(t *testing.T) {
	backupUser = ""
	err := withBackups(context.Background(), func(*runtime) error { return nil })
	require.EqualError(t, err, "--user is required")
}
