// Package mcp exposes the identity profile operations as named tool calls
// over the streamable HTTP transport of mark3labs/mcp-go.
package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/internal/service/profile"
)

const serverName = "forge-identity"

type profileService interface {
	GetProfile(ctx context.Context) (*domain.IdentityProfile, error)
	SaveProfile(ctx context.Context, input profile.SaveProfileInput) (*domain.SaveResult, error)
	UpdateSection(ctx context.Context, input profile.UpdateSectionInput) (*domain.SaveResult, error)
	ListHistory(ctx context.Context, input profile.ListHistoryInput) (*domain.HistoryPage, error)
	GetSnapshot(ctx context.Context, historyID int64) (*domain.HistoryEntry, error)
	Compare(ctx context.Context, input profile.CompareInput) (*domain.ComparisonResult, error)
	Restore(ctx context.Context, historyID int64) (*domain.SaveResult, error)
}

// NewServer creates the tool server with every profile tool registered.
func NewServer(svc profileService, logger *slog.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	t := &Tools{svc: svc, log: logger.With("handler", "mcp")}
	for _, tool := range t.all() {
		s.AddTool(tool.def, tool.handle)
	}
	return s
}

// NewHandler serves s over stateless streamable HTTP. Tool calls run with
// the request context, so the user set by the auth middleware is visible.
func NewHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithStateLess(true))
}
