package profile

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/pkg/ctxutil"
)

// Compare diffs two of the caller's history snapshots, section by section.
// The snapshots are fetched concurrently; either missing yields NotFound.
func (s *Service) Compare(ctx context.Context, input CompareInput) (*domain.ComparisonResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opCompare, domain.ErrUnauthorized)
	}
	if err := input.Validate(); err != nil {
		return nil, s.observe(opCompare, err)
	}

	var first, second *domain.HistoryEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, err = s.ownedEntry(gctx, userID, input.HistoryID1)
		return err
	})
	g.Go(func() error {
		var err error
		second, err = s.ownedEntry(gctx, userID, input.HistoryID2)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.observe(opCompare, fmt.Errorf("compare: %w", err))
	}

	changes, err := domain.CompareDocuments(*first.ProfileData, *second.ProfileData)
	if err != nil {
		return nil, s.observe(opCompare, fmt.Errorf("compare: %w", err))
	}

	s.log.DebugContext(ctx, "profile versions compared",
		slog.String("user_id", userID.String()),
		slog.Int64("history_id_1", input.HistoryID1),
		slog.Int64("history_id_2", input.HistoryID2),
	)

	return &domain.ComparisonResult{
		HistoryID1: first.ID,
		HistoryID2: second.ID,
		Date1:      first.CreatedAt,
		Date2:      second.CreatedAt,
		Changes:    changes,
	}, s.observe(opCompare, nil)
}
