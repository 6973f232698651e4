package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apisetup "collab-server/internal/api"
	"collab-server/internal/bootstrap"
	"collab-server/internal/config"
	"collab-server/internal/observability"
)

// testServer bundles an in-process HTTP server with the dependencies behind
// it, so tests can both drive the API and inspect state through the store.
type testServer struct {
	URL  string
	Deps *bootstrap.Dependencies
}

// setupTestServer boots the full API stack on the memory backend and returns
// a running httptest server. Everything is torn down via t.Cleanup.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Database.Driver = "memory"

	logger := observability.NewLogger()
	deps, err := bootstrap.Initialize(context.Background(), cfg, logger)
	require.NoError(t, err)

	router := gin.New()
	api := apisetup.New(router.Group("/"), deps.AccountsHandler, deps.CollabHandler)
	api.RegisterRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		_ = deps.Close()
	})

	return &testServer{URL: srv.URL, Deps: deps}
}

// makeRequest sends an HTTP request to the test server and returns the
// response along with its fully read body.
func (s *testServer) makeRequest(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, respBody
}

func parseJSONResponse(t *testing.T, body []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v), "failed to parse response body: %s", string(body))
}

func assertStatusCode(t *testing.T, resp *http.Response, body []byte, expected int) {
	t.Helper()
	require.Equal(t, expected, resp.StatusCode, "unexpected status, body: %s", string(body))
}

func generateTestEmail() string {
	return fmt.Sprintf("test-%s@example.com", uuid.New().String()[:8])
}
