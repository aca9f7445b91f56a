//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/forge-journal/forge-identity/internal/adapter/postgres/testhelper"
	"github.com/forge-journal/forge-identity/internal/app"
	authpkg "github.com/forge-journal/forge-identity/internal/auth"
	"github.com/forge-journal/forge-identity/internal/config"
	"github.com/forge-journal/forge-identity/pkg/envelope"
)

const (
	jwtSecret = "test-secret-at-least-32-chars-long!!"
	jwtIssuer = "test-issuer"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application handler backed by a real
// PostgreSQL container (shared via testhelper). Rate limiting is off.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      jwtSecret,
			JWTIssuer:      jwtIssuer,
			AccessTokenTTL: 15 * time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PUT,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
			MaxAge:         86400,
		},
		Profile: config.ProfileConfig{
			CacheTTL:            time.Minute,
			CacheSize:           128,
			DefaultHistoryLimit: 10,
			MaxHistoryLimit:     100,
		},
		MCP: config.MCPConfig{Enabled: true, Path: "/mcp"},
	}

	handler, cleanup := app.NewHandler(cfg, pool, logger)
	t.Cleanup(cleanup)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    authpkg.NewJWTManager(jwtSecret, jwtIssuer, 15*time.Minute),
	}
}

// token mints an access token for a fresh user.
func (ts *testServer) token(t *testing.T, role string) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	tok, err := ts.jwt.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return userID, tok
}

// do sends a JSON request and returns the status and raw body.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// doJSON is do plus a decode into dst; the status must be 200.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body, dst any) {
	t.Helper()
	status, raw := ts.do(t, method, path, token, body)
	require.Equal(t, http.StatusOK, status, string(raw))
	require.NoError(t, envelope.Decode(raw, dst))
}

// callTool invokes a named tool over the streamable HTTP endpoint and
// returns the JSON-RPC result, which is the content-array envelope.
func (ts *testServer) callTool(t *testing.T, token, name string, args map[string]any) json.RawMessage {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/mcp", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rpc struct {
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpc))
	require.NotEmpty(t, rpc.Result)
	return rpc.Result
}
