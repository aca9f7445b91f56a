// Package response shapes the payloads shared by the REST and tool-call
// transports, including the {error:true,message} error body.
package response

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forge-journal/forge-identity/internal/domain"
)

// ParseFailureMessage is reported when stored profile data is unreadable.
// Clients treat it as "no data" rather than a hard failure.
const ParseFailureMessage = "profile data could not be parsed"

// Error is the body of every failed operation.
type Error struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Failure describes how an error is presented to a client. Internal
// failures carry a generic message and should be logged by the caller.
type Failure struct {
	Status   int
	Body     Error
	Internal bool
}

// FromError maps a domain error onto an HTTP status and a client-safe message.
func FromError(err error) Failure {
	fail := func(status int, msg string) Failure {
		return Failure{Status: status, Body: Error{Error: true, Message: msg}}
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return fail(http.StatusBadRequest, validationMessage(ve))
	case errors.Is(err, domain.ErrValidation):
		return fail(http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return fail(http.StatusForbidden, "access denied")
	case errors.Is(err, domain.ErrNotFound):
		return fail(http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		return fail(http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrParse):
		return fail(http.StatusUnprocessableEntity, ParseFailureMessage)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fail(http.StatusRequestTimeout, "request canceled")
	default:
		f := fail(http.StatusInternalServerError, "storage error")
		f.Internal = true
		return f
	}
}

func validationMessage(ve *domain.ValidationError) string {
	parts := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// History is the payload of a history page.
type History struct {
	History []HistoryItem `json:"history"`
	Total   int           `json:"total"`
}

// HistoryItem is a history entry without its snapshot.
type HistoryItem struct {
	ID                int64     `json:"id"`
	SectionChanged    string    `json:"section_changed"`
	ChangeDescription *string   `json:"change_description"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewHistory converts a page.
func NewHistory(page *domain.HistoryPage) History {
	items := make([]HistoryItem, 0, len(page.Entries))
	for _, e := range page.Entries {
		items = append(items, HistoryItem{
			ID:                e.ID,
			SectionChanged:    e.SectionChanged.String(),
			ChangeDescription: e.ChangeDescription,
			CreatedAt:         e.CreatedAt,
		})
	}
	return History{History: items, Total: page.Total}
}

// Profile is a profile document together with its owner.
type Profile struct {
	UserID uuid.UUID `json:"user_id"`
	domain.ProfileDocument
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewProfile converts the live profile.
func NewProfile(p *domain.IdentityProfile) Profile {
	updated := p.UpdatedAt
	return Profile{UserID: p.UserID, ProfileDocument: p.ProfileDocument, UpdatedAt: &updated}
}

// Version is the payload of a single history snapshot.
type Version struct {
	Profile        Profile   `json:"profile"`
	HistoryID      int64     `json:"historyId"`
	SectionChanged string    `json:"section_changed"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewVersion converts a full history entry. The entry must carry its snapshot.
func NewVersion(e *domain.HistoryEntry) Version {
	var doc domain.ProfileDocument
	if e.ProfileData != nil {
		doc = *e.ProfileData
	}
	return Version{
		Profile:        Profile{UserID: e.UserID, ProfileDocument: doc},
		HistoryID:      e.ID,
		SectionChanged: e.SectionChanged.String(),
		Timestamp:      e.CreatedAt,
	}
}

// Comparison wraps a comparison result.
type Comparison struct {
	Comparison *domain.ComparisonResult `json:"comparison"`
}

// Saved is the payload of a save, section update or restore.
type Saved struct {
	Success   bool        `json:"success"`
	Profile   Profile     `json:"profile"`
	HistoryID int64       `json:"historyId"`
	Entry     HistoryItem `json:"history_entry"`
}

// NewSaved converts a write result.
func NewSaved(res *domain.SaveResult) Saved {
	return Saved{
		Success:   true,
		Profile:   NewProfile(res.Profile),
		HistoryID: res.Entry.ID,
		Entry: HistoryItem{
			ID:                res.Entry.ID,
			SectionChanged:    res.Entry.SectionChanged.String(),
			ChangeDescription: res.Entry.ChangeDescription,
			CreatedAt:         res.Entry.CreatedAt,
		},
	}
}

// Audit is a page of audit records.
type Audit struct {
	Records []domain.AuditRecord `json:"records"`
}
