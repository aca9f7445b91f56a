package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/pkg/ctxutil"
)

// Restore makes a past snapshot the caller's current profile. The overwrite,
// the new "all" history entry and the audit record commit together or not
// at all. Concurrent writers are last-write-wins.
func (s *Service) Restore(ctx context.Context, historyID int64) (*domain.SaveResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opRestore, domain.ErrUnauthorized)
	}
	if err := validateHistoryID(historyID); err != nil {
		return nil, s.observe(opRestore, err)
	}

	var res domain.SaveResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		source, err := s.history.GetByID(txCtx, historyID)
		if err != nil {
			return fmt.Errorf("get history %d: %w", historyID, err)
		}
		if source.UserID != userID {
			return fmt.Errorf("history %d belongs to another user: %w", historyID, domain.ErrForbidden)
		}

		previous, err := s.loadOrCreate(txCtx, userID)
		if err != nil {
			return err
		}

		restored, err := s.profiles.Update(txCtx, userID, source.ProfileData.Clone(), s.now())
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		desc := restoreDescription(source)
		entry, err := s.appendHistory(txCtx, restored, domain.SectionAll, &desc)
		if err != nil {
			return err
		}

		changes, err := domain.CompareDocuments(previous.ProfileDocument, restored.ProfileDocument)
		if err != nil {
			return err
		}
		if err := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeIdentityProfile,
			EntityID:   &entry.ID,
			Action:     domain.AuditActionRestore,
			Changes: map[string]any{
				"restored_from": source.ID,
				"sections":      sectionCounts(changes),
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		res = domain.SaveResult{Profile: restored, Entry: entry}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			s.log.WarnContext(ctx, "restore of foreign history entry rejected",
				slog.String("user_id", userID.String()),
				slog.Int64("history_id", historyID),
			)
		}
		return nil, s.observe(opRestore, fmt.Errorf("restore: %w", err))
	}

	s.cache.Invalidate(userID)

	s.log.InfoContext(ctx, "profile restored",
		slog.String("user_id", userID.String()),
		slog.Int64("restored_from", historyID),
		slog.Int64("history_id", res.Entry.ID),
	)
	return &res, s.observe(opRestore, nil)
}

func restoreDescription(source *domain.HistoryEntry) string {
	return fmt.Sprintf("Restored from version #%d (%s)", source.ID, source.CreatedAt.UTC().Format(time.RFC3339))
}
