package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/forge-journal/forge-identity/internal/app"
	"github.com/forge-journal/forge-identity/internal/transport/mcp"
)

// caller fetches raw response bodies. Bodies are decoded with
// pkg/envelope, which accepts both the bare payload and the tool
// content-array envelope.
type caller interface {
	Profile(ctx context.Context) ([]byte, error)
	History(ctx context.Context, limit, offset int) ([]byte, error)
	Version(ctx context.Context, historyID int64) ([]byte, error)
	Compare(ctx context.Context, historyID1, historyID2 int64) ([]byte, error)
	Restore(ctx context.Context, historyID int64) ([]byte, error)
	Close() error
}

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20
)

func newCaller(ctx context.Context, opts *options) (caller, error) {
	base := strings.TrimRight(opts.server, "/")
	if opts.tools {
		return newToolClient(ctx, base+opts.toolsPath, opts.token)
	}
	return &restClient{
		base:  base,
		token: opts.token,
		http:  &http.Client{Timeout: requestTimeout},
	}, nil
}

// restClient talks to the JSON REST API.
type restClient struct {
	base  string
	token string
	http  *http.Client
}

func (c *restClient) Profile(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/profile", nil)
}

func (c *restClient) History(ctx context.Context, limit, offset int) ([]byte, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return c.do(ctx, http.MethodGet, "/api/profile/history", q)
}

func (c *restClient) Version(ctx context.Context, historyID int64) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/profile/history/"+strconv.FormatInt(historyID, 10), nil)
}

func (c *restClient) Compare(ctx context.Context, historyID1, historyID2 int64) ([]byte, error) {
	q := url.Values{}
	q.Set("historyId1", strconv.FormatInt(historyID1, 10))
	q.Set("historyId2", strconv.FormatInt(historyID2, 10))
	return c.do(ctx, http.MethodGet, "/api/profile/compare", q)
}

func (c *restClient) Restore(ctx context.Context, historyID int64) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/api/profile/history/"+strconv.FormatInt(historyID, 10)+"/restore", nil)
}

func (c *restClient) Close() error { return nil }

// do returns the body of any response that has one; error statuses carry
// an error body that the envelope decoder reports.
func (c *restClient) do(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest && !json.Valid(body) {
		return nil, fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return body, nil
}

// toolClient calls the named profile tools over streamable HTTP.
type toolClient struct {
	c *client.Client
}

func newToolClient(ctx context.Context, endpoint, token string) (*toolClient, error) {
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	c, err := client.NewStreamableHttpClient(endpoint, transport.WithHTTPHeaders(headers))
	if err != nil {
		return nil, fmt.Errorf("create tool client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start tool client: %w", err)
	}

	init := mcpgo.InitializeRequest{}
	init.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcpgo.Implementation{Name: "forgectl", Version: app.Version}
	if _, err := c.Initialize(ctx, init); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize tool session: %w", err)
	}

	return &toolClient{c: c}, nil
}

func (t *toolClient) Profile(ctx context.Context) ([]byte, error) {
	return t.call(ctx, mcp.ToolGetProfile, nil)
}

func (t *toolClient) History(ctx context.Context, limit, offset int) ([]byte, error) {
	return t.call(ctx, mcp.ToolHistory, map[string]any{"limit": limit, "offset": offset})
}

func (t *toolClient) Version(ctx context.Context, historyID int64) ([]byte, error) {
	return t.call(ctx, mcp.ToolVersion, map[string]any{"historyId": historyID})
}

func (t *toolClient) Compare(ctx context.Context, historyID1, historyID2 int64) ([]byte, error) {
	return t.call(ctx, mcp.ToolCompare, map[string]any{"historyId1": historyID1, "historyId2": historyID2})
}

func (t *toolClient) Restore(ctx context.Context, historyID int64) ([]byte, error) {
	return t.call(ctx, mcp.ToolRestoreVersion, map[string]any{"historyId": historyID})
}

func (t *toolClient) Close() error { return t.c.Close() }

// call returns the tool result re-encoded as JSON, which is the
// content-array envelope.
func (t *toolClient) call(ctx context.Context, name string, args map[string]any) ([]byte, error) {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := t.c.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", name, err)
	}
	return raw, nil
}
