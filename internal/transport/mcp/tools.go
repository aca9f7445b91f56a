package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/internal/service/profile"
	"github.com/forge-journal/forge-identity/internal/transport/response"
)

// Tool names.
const (
	ToolGetProfile     = "getIdentityProfile"
	ToolUpdateProfile  = "updateIdentityProfile"
	ToolUpdateSection  = "updateProfileSection"
	ToolHistory        = "getProfileVersionHistory"
	ToolVersion        = "getProfileVersion"
	ToolCompare        = "compareProfileVersions"
	ToolRestoreVersion = "restoreProfileVersion"
)

const defaultHistoryLimit = 10

// Tools implements the tool handlers.
type Tools struct {
	svc profileService
	log *slog.Logger
}

type tool struct {
	def    mcpgo.Tool
	handle server.ToolHandlerFunc
}

func (t *Tools) all() []tool {
	return []tool{
		{
			def: mcpgo.NewTool(ToolGetProfile,
				mcpgo.WithDescription("Get the identity profile of the current user, creating the default profile on first access"),
				mcpgo.WithReadOnlyHintAnnotation(true),
			),
			handle: t.GetProfile,
		},
		{
			def: mcpgo.NewTool(ToolUpdateProfile,
				mcpgo.WithDescription("Replace the biographical and personality sections of the current user's profile and record a history entry"),
				mcpgo.WithObject("biographical", mcpgo.Description("Biographical section")),
				mcpgo.WithObject("personality_profile", mcpgo.Description("Personality profile section")),
				mcpgo.WithString("section",
					mcpgo.Description("Section recorded in history"),
					mcpgo.Enum("all", "biographical", "personality_profile"),
					mcpgo.DefaultString("all"),
				),
				mcpgo.WithString("description", mcpgo.Description("Change description recorded in history")),
			),
			handle: t.UpdateProfile,
		},
		{
			def: mcpgo.NewTool(ToolUpdateSection,
				mcpgo.WithDescription("Replace one editable section of the current user's profile"),
				mcpgo.WithString("section",
					mcpgo.Required(),
					mcpgo.Enum("biographical", "personality_profile", "personalityProfile"),
				),
				mcpgo.WithObject("data", mcpgo.Required(), mcpgo.Description("The full content of the section")),
				mcpgo.WithString("description", mcpgo.Description("Change description recorded in history")),
			),
			handle: t.UpdateSection,
		},
		{
			def: mcpgo.NewTool(ToolHistory,
				mcpgo.WithDescription("List the version history of the current user's profile, newest first"),
				mcpgo.WithNumber("limit", mcpgo.Description("Maximum number of entries"), mcpgo.DefaultNumber(defaultHistoryLimit)),
				mcpgo.WithNumber("offset", mcpgo.Description("Entries to skip"), mcpgo.DefaultNumber(0)),
				mcpgo.WithReadOnlyHintAnnotation(true),
			),
			handle: t.History,
		},
		{
			def: mcpgo.NewTool(ToolVersion,
				mcpgo.WithDescription("Get the profile snapshot stored in a history entry"),
				mcpgo.WithNumber("historyId", mcpgo.Required(), mcpgo.Description("History entry id")),
				mcpgo.WithReadOnlyHintAnnotation(true),
			),
			handle: t.Version,
		},
		{
			def: mcpgo.NewTool(ToolCompare,
				mcpgo.WithDescription("Compare two profile versions section by section"),
				mcpgo.WithNumber("historyId1", mcpgo.Required(), mcpgo.Description("First history entry id")),
				mcpgo.WithNumber("historyId2", mcpgo.Required(), mcpgo.Description("Second history entry id")),
				mcpgo.WithReadOnlyHintAnnotation(true),
			),
			handle: t.Compare,
		},
		{
			def: mcpgo.NewTool(ToolRestoreVersion,
				mcpgo.WithDescription("Make a past profile version current again; the restore itself is recorded in history"),
				mcpgo.WithNumber("historyId", mcpgo.Required(), mcpgo.Description("History entry id to restore")),
				mcpgo.WithDestructiveHintAnnotation(false),
			),
			handle: t.Restore,
		},
	}
}

// GetProfile handles getIdentityProfile.
func (t *Tools) GetProfile(ctx context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	p, err := t.svc.GetProfile(ctx)
	if err != nil {
		return t.failure(ctx, ToolGetProfile, err), nil
	}
	return jsonResult(response.NewProfile(p))
}

// UpdateProfile handles updateIdentityProfile. Arguments may use camelCase keys.
func (t *Tools) UpdateProfile(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return t.failure(ctx, ToolUpdateProfile, fmt.Errorf("%w: %w", domain.ErrParse, err)), nil
	}

	var args struct {
		domain.ProfileDocument
		Section     string  `json:"section"`
		Description *string `json:"description"`
	}
	if err := domain.DecodeNormalized(raw, &args); err != nil {
		return t.failure(ctx, ToolUpdateProfile, err), nil
	}
	if args.Section == "" {
		args.Section = domain.SectionAll.String()
	}

	res, err := t.svc.SaveProfile(ctx, profile.SaveProfileInput{
		Document:    args.ProfileDocument,
		Section:     domain.ProfileSection(args.Section),
		Description: args.Description,
	})
	if err != nil {
		return t.failure(ctx, ToolUpdateProfile, err), nil
	}
	return jsonResult(response.NewSaved(res))
}

// UpdateSection handles updateProfileSection.
func (t *Tools) UpdateSection(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	section, err := req.RequireString("section")
	if err != nil {
		return t.failure(ctx, ToolUpdateSection, domain.NewValidationError("section", "required")), nil
	}
	data, ok := req.GetArguments()["data"].(map[string]any)
	if !ok {
		return t.failure(ctx, ToolUpdateSection, domain.NewValidationError("data", "must be an object")), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return t.failure(ctx, ToolUpdateSection, fmt.Errorf("%w: %w", domain.ErrParse, err)), nil
	}

	input := profile.UpdateSectionInput{
		Section: domain.ProfileSection(domain.SnakeCase(section)),
		Data:    raw,
	}
	if d := req.GetString("description", ""); d != "" {
		input.Description = &d
	}

	res, err := t.svc.UpdateSection(ctx, input)
	if err != nil {
		return t.failure(ctx, ToolUpdateSection, err), nil
	}
	return jsonResult(response.NewSaved(res))
}

// History handles getProfileVersionHistory.
func (t *Tools) History(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	page, err := t.svc.ListHistory(ctx, profile.ListHistoryInput{
		Limit:  req.GetInt("limit", defaultHistoryLimit),
		Offset: req.GetInt("offset", 0),
	})
	if err != nil {
		return t.failure(ctx, ToolHistory, err), nil
	}
	return jsonResult(response.NewHistory(page))
}

// Version handles getProfileVersion.
func (t *Tools) Version(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	id, err := requireID(req, "historyId")
	if err != nil {
		return t.failure(ctx, ToolVersion, err), nil
	}

	entry, err := t.svc.GetSnapshot(ctx, id)
	if err != nil {
		return t.failure(ctx, ToolVersion, err), nil
	}
	return jsonResult(response.NewVersion(entry))
}

// Compare handles compareProfileVersions.
func (t *Tools) Compare(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	first, err := requireID(req, "historyId1")
	if err != nil {
		return t.failure(ctx, ToolCompare, err), nil
	}
	second, err := requireID(req, "historyId2")
	if err != nil {
		return t.failure(ctx, ToolCompare, err), nil
	}

	res, err := t.svc.Compare(ctx, profile.CompareInput{HistoryID1: first, HistoryID2: second})
	if err != nil {
		return t.failure(ctx, ToolCompare, err), nil
	}
	return jsonResult(response.Comparison{Comparison: res})
}

// Restore handles restoreProfileVersion.
func (t *Tools) Restore(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	id, err := requireID(req, "historyId")
	if err != nil {
		return t.failure(ctx, ToolRestoreVersion, err), nil
	}

	res, err := t.svc.Restore(ctx, id)
	if err != nil {
		return t.failure(ctx, ToolRestoreVersion, err), nil
	}
	return jsonResult(response.NewSaved(res))
}

// requireID reads a positive integer argument. JSON numbers arrive as float64.
func requireID(req mcpgo.CallToolRequest, name string) (int64, error) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return 0, domain.NewValidationError(name, "required")
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, domain.NewValidationError(name, "must be an integer")
		}
		return int64(n), nil
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, domain.NewValidationError(name, "must be an integer")
		}
		return id, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, domain.NewValidationError(name, "must be a number")
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcpgo.NewToolResultText(string(raw)), nil
}

// failure converts err into an error result carrying the same
// {error:true,message} body as the REST transport.
func (t *Tools) failure(ctx context.Context, tool string, err error) *mcpgo.CallToolResult {
	f := response.FromError(err)
	if f.Internal {
		t.log.ErrorContext(ctx, "tool call failed",
			slog.String("tool", tool),
			slog.String("error", err.Error()),
		)
	} else if !errors.Is(err, domain.ErrValidation) {
		t.log.DebugContext(ctx, "tool call rejected",
			slog.String("tool", tool),
			slog.String("error", err.Error()),
		)
	}

	raw, _ := json.Marshal(f.Body)
	return &mcpgo.CallToolResult{
		Content: []mcpgo.Content{mcpgo.NewTextContent(string(raw))},
		IsError: true,
	}
}
