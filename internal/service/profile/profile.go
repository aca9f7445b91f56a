package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/pkg/ctxutil"
)

// GetProfile returns the caller's current profile, creating the default one
// on first access. Reads are served from the cache when possible.
func (s *Service) GetProfile(ctx context.Context) (*domain.IdentityProfile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opGet, domain.ErrUnauthorized)
	}

	cached, gen, hit := s.cache.Get(userID)
	if hit {
		return cached, s.observe(opGet, nil)
	}

	p, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, s.observe(opGet, fmt.Errorf("get profile: %w", err))
	}

	// Dropped by the cache if a write invalidated the user during the load.
	s.cache.Set(p, gen)
	return p, s.observe(opGet, nil)
}

// SaveProfile replaces the biographical and personality sections of the
// caller's profile and appends a history entry of the result.
func (s *Service) SaveProfile(ctx context.Context, input SaveProfileInput) (*domain.SaveResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opSave, domain.ErrUnauthorized)
	}
	if err := input.Validate(); err != nil {
		return nil, s.observe(opSave, err)
	}

	incoming := input.Document.Clone()
	res, err := s.write(ctx, userID, input.Section, trimOrNil(input.Description),
		func(current domain.ProfileDocument) domain.ProfileDocument {
			next := incoming
			next.Meta = current.Clone().Meta
			return next
		})
	if err != nil {
		return nil, s.observe(opSave, fmt.Errorf("save profile: %w", err))
	}

	s.log.InfoContext(ctx, "profile saved",
		slog.String("user_id", userID.String()),
		slog.String("section", input.Section.String()),
		slog.Int64("history_id", res.Entry.ID),
	)
	return res, s.observe(opSave, nil)
}

// UpdateSection replaces a single editable section of the caller's profile.
func (s *Service) UpdateSection(ctx context.Context, input UpdateSectionInput) (*domain.SaveResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opUpdateSection, domain.ErrUnauthorized)
	}
	if err := input.Validate(); err != nil {
		return nil, s.observe(opUpdateSection, err)
	}

	var (
		bio         domain.Biographical
		personality domain.PersonalityProfile
		target      any = &bio
	)
	if input.Section == domain.SectionPersonalityProfile {
		target = &personality
	}
	if err := domain.DecodeNormalized(input.Data, target); err != nil {
		return nil, s.observe(opUpdateSection, fmt.Errorf("decode %s: %w", input.Section, err))
	}

	// Only the decoded section is populated, so only its ranges are checked.
	if errs := documentErrors(domain.ProfileDocument{Biographical: bio, PersonalityProfile: personality}); len(errs) > 0 {
		return nil, s.observe(opUpdateSection, domain.NewValidationErrors(errs))
	}

	res, err := s.write(ctx, userID, input.Section, trimOrNil(input.Description),
		func(current domain.ProfileDocument) domain.ProfileDocument {
			next := current.Clone()
			if input.Section == domain.SectionBiographical {
				next.Biographical = bio
			} else {
				next.PersonalityProfile = personality
			}
			return next
		})
	if err != nil {
		return nil, s.observe(opUpdateSection, fmt.Errorf("update section: %w", err))
	}

	s.log.InfoContext(ctx, "profile section updated",
		slog.String("user_id", userID.String()),
		slog.String("section", input.Section.String()),
		slog.Int64("history_id", res.Entry.ID),
	)
	return res, s.observe(opUpdateSection, nil)
}

// write applies mutate to the current document, stamps meta.last_updated,
// persists the result and appends a history entry, all in one transaction.
func (s *Service) write(
	ctx context.Context,
	userID uuid.UUID,
	section domain.ProfileSection,
	description *string,
	mutate func(current domain.ProfileDocument) domain.ProfileDocument,
) (*domain.SaveResult, error) {
	var res domain.SaveResult

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.loadOrCreate(txCtx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		next := mutate(current.ProfileDocument)
		next.Meta.LastUpdated = &now
		next.Canonicalize()

		updated, err := s.profiles.Update(txCtx, userID, next, now)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		entry, err := s.appendHistory(txCtx, updated, section, description)
		if err != nil {
			return err
		}

		changes, err := domain.CompareDocuments(current.ProfileDocument, updated.ProfileDocument)
		if err != nil {
			return err
		}
		if err := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeIdentityProfile,
			EntityID:   &entry.ID,
			Action:     domain.AuditActionUpdate,
			Changes: map[string]any{
				"section":  section.String(),
				"sections": sectionCounts(changes),
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		res = domain.SaveResult{Profile: updated, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(userID)
	return &res, nil
}

// appendHistory records a snapshot of p.
func (s *Service) appendHistory(
	ctx context.Context,
	p *domain.IdentityProfile,
	section domain.ProfileSection,
	description *string,
) (*domain.HistoryEntry, error) {
	snapshot := p.ProfileDocument.Clone()
	entry := &domain.HistoryEntry{
		UserID:            p.UserID,
		ProfileData:       &snapshot,
		SectionChanged:    section,
		ChangeDescription: description,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return entry, nil
}

// loadOrCreate returns the stored profile, inserting the default document
// if the user has none. A concurrent insert by another request is tolerated.
func (s *Service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*domain.IdentityProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	created, err := s.profiles.Create(ctx, domain.NewIdentityProfile(userID, s.now()))
	if errors.Is(err, domain.ErrAlreadyExists) {
		return s.profiles.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("create default profile: %w", err)
	}

	s.log.InfoContext(ctx, "default profile created", slog.String("user_id", userID.String()))
	return created, nil
}
