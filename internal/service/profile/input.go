package profile

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/forge-journal/forge-identity/internal/domain"
)

const maxDescriptionLen = 500

// SaveProfileInput replaces the editable sections of the caller's profile.
// Document.Meta is ignored: meta is maintained by the service.
type SaveProfileInput struct {
	Document    domain.ProfileDocument
	Section     domain.ProfileSection
	Description *string
}

// Validate checks all fields and collects all errors.
func (i SaveProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.Section == "" {
		errs = append(errs, domain.FieldError{Field: "section", Message: "required"})
	} else if !i.Section.IsValid() || i.Section == domain.SectionMeta {
		errs = append(errs, domain.FieldError{Field: "section", Message: "must be biographical, personality_profile or all"})
	}
	errs = append(errs, descriptionErrors(i.Description)...)
	errs = append(errs, documentErrors(i.Document)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateSectionInput replaces one editable section. Data is the JSON of that
// section and may use camelCase keys.
type UpdateSectionInput struct {
	Section     domain.ProfileSection
	Data        json.RawMessage
	Description *string
}

// Validate checks all fields and collects all errors.
func (i UpdateSectionInput) Validate() error {
	var errs []domain.FieldError

	if !i.Section.IsEditable() {
		errs = append(errs, domain.FieldError{Field: "section", Message: "must be biographical or personality_profile"})
	}
	if len(i.Data) == 0 {
		errs = append(errs, domain.FieldError{Field: "data", Message: "required"})
	}
	errs = append(errs, descriptionErrors(i.Description)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListHistoryInput selects a page of history. UserID defaults to the caller.
// Limit 0 means the configured default; larger than the maximum is clamped.
type ListHistoryInput struct {
	UserID *uuid.UUID
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListHistoryInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID != nil && *i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "userId", Message: "invalid"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be positive"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CompareInput names two history entries of the caller.
type CompareInput struct {
	HistoryID1 int64
	HistoryID2 int64
}

// Validate checks all fields and collects all errors.
func (i CompareInput) Validate() error {
	var errs []domain.FieldError

	if i.HistoryID1 <= 0 {
		errs = append(errs, domain.FieldError{Field: "historyId1", Message: "must be positive"})
	}
	if i.HistoryID2 <= 0 {
		errs = append(errs, domain.FieldError{Field: "historyId2", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateHistoryID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("historyId", "must be positive")
	}
	return nil
}

func descriptionErrors(d *string) []domain.FieldError {
	if d != nil && len(strings.TrimSpace(*d)) > maxDescriptionLen {
		return []domain.FieldError{{Field: "description", Message: "max 500 characters"}}
	}
	return nil
}

func documentErrors(doc domain.ProfileDocument) []domain.FieldError {
	var ve *domain.ValidationError
	if err := doc.Validate(); err != nil && errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
