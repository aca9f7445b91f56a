package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/pkg/ctxutil"
)

// ListHistory returns a newest-first page of history entries plus the total
// count. Entries carry no snapshot. Listing another user's history requires
// the admin role. An offset past the end yields an empty page.
func (s *Service) ListHistory(ctx context.Context, input ListHistoryInput) (*domain.HistoryPage, error) {
	callerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opListHistory, domain.ErrUnauthorized)
	}
	if err := input.Validate(); err != nil {
		return nil, s.observe(opListHistory, err)
	}

	userID := callerID
	if input.UserID != nil && *input.UserID != callerID {
		if !ctxutil.IsAdminCtx(ctx) {
			return nil, s.observe(opListHistory, domain.ErrForbidden)
		}
		userID = *input.UserID
	}

	limit := s.pageLimit(input.Limit)

	// Count and page share one snapshot so a concurrent append cannot make
	// them disagree.
	page := &domain.HistoryPage{Entries: []domain.HistoryEntry{}}
	err := s.tx.RunInSnapshot(ctx, func(txCtx context.Context) error {
		total, err := s.history.CountByUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("count history: %w", err)
		}
		page.Total = total
		if input.Offset >= total {
			return nil
		}

		entries, err := s.history.List(txCtx, userID, limit, input.Offset)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		if entries != nil {
			page.Entries = entries
		}
		return nil
	})
	if err != nil {
		return nil, s.observe(opListHistory, err)
	}
	return page, s.observe(opListHistory, nil)
}

// GetSnapshot returns a full history entry of the caller. Entries of other
// users are reported as not found.
func (s *Service) GetSnapshot(ctx context.Context, historyID int64) (*domain.HistoryEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opGetSnapshot, domain.ErrUnauthorized)
	}
	if err := validateHistoryID(historyID); err != nil {
		return nil, s.observe(opGetSnapshot, err)
	}

	entry, err := s.ownedEntry(ctx, userID, historyID)
	if err != nil {
		return nil, s.observe(opGetSnapshot, err)
	}
	return entry, s.observe(opGetSnapshot, nil)
}

// ownedEntry loads a history entry and hides it unless it belongs to userID.
func (s *Service) ownedEntry(ctx context.Context, userID uuid.UUID, historyID int64) (*domain.HistoryEntry, error) {
	entry, err := s.history.GetByID(ctx, historyID)
	if err != nil {
		return nil, fmt.Errorf("get history %d: %w", historyID, err)
	}
	if entry.UserID != userID {
		return nil, fmt.Errorf("get history %d: %w", historyID, domain.ErrNotFound)
	}
	return entry, nil
}

func (s *Service) pageLimit(limit int) int {
	switch {
	case limit == 0:
		return s.cfg.DefaultHistoryLimit
	case limit > s.cfg.MaxHistoryLimit:
		return s.cfg.MaxHistoryLimit
	default:
		return limit
	}
}
