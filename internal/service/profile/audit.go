package profile

import (
	"context"
	"fmt"

	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/pkg/ctxutil"
)

// AuditTrail returns a newest-first page of the caller's profile mutations.
func (s *Service) AuditTrail(ctx context.Context, limit, offset int) ([]domain.AuditRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, s.observe(opAuditTrail, domain.ErrUnauthorized)
	}
	if limit < 0 || offset < 0 {
		return nil, s.observe(opAuditTrail, domain.NewValidationError("limit", "limit and offset must not be negative"))
	}

	records, err := s.audit.GetByUser(ctx, userID, s.pageLimit(limit), offset)
	if err != nil {
		return nil, s.observe(opAuditTrail, fmt.Errorf("audit trail: %w", err))
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}
	return records, s.observe(opAuditTrail, nil)
}
