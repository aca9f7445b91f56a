package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is an immutable snapshot of a profile taken on every save
// or restore. ProfileData is nil on list pages, which carry metadata only.
type HistoryEntry struct {
	ID                int64            `json:"id"`
	UserID            uuid.UUID        `json:"user_id"`
	ProfileData       *ProfileDocument `json:"profile_data,omitempty"`
	SectionChanged    ProfileSection   `json:"section_changed"`
	ChangeDescription *string          `json:"change_description"`
	CreatedAt         time.Time        `json:"created_at"`
}

// HistoryPage is one newest-first page of a user's history plus the total
// number of entries the user has.
type HistoryPage struct {
	Entries []HistoryEntry `json:"history"`
	Total   int            `json:"total"`
}

// SaveResult is returned by every write to the profile store: the new
// current profile and the history entry recorded for it.
type SaveResult struct {
	Profile *IdentityProfile `json:"profile"`
	Entry   *HistoryEntry    `json:"history_entry"`
}

// AuditRecord logs a mutation event on a domain entity.
type AuditRecord struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	EntityType EntityType     `json:"entity_type"`
	EntityID   *int64         `json:"entity_id"`
	Action     AuditAction    `json:"action"`
	Changes    map[string]any `json:"changes"`
	CreatedAt  time.Time      `json:"created_at"`
}
