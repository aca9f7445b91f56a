package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/forge-journal/forge-identity/internal/domain"
)

type profileRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.IdentityProfile, error)
	Create(ctx context.Context, profile *domain.IdentityProfile) (*domain.IdentityProfile, error)
	Update(ctx context.Context, userID uuid.UUID, doc domain.ProfileDocument, updatedAt time.Time) (*domain.IdentityProfile, error)
}

type historyRepo interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	GetByID(ctx context.Context, historyID int64) (*domain.HistoryEntry, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
	GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	RunInSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

type profileCache interface {
	Get(userID uuid.UUID) (*domain.IdentityProfile, uint64, bool)
	Set(profile *domain.IdentityProfile, generation uint64)
	Invalidate(userID uuid.UUID)
}

type opsRecorder interface {
	RecordOperation(operation, outcome string)
}

// Config holds history paging limits.
type Config struct {
	DefaultHistoryLimit int
	MaxHistoryLimit     int
}

// Service implements the identity profile store, its history log, the
// version diff and restore.
type Service struct {
	profiles profileRepo
	history  historyRepo
	audit    auditLogger
	tx       txManager
	cache    profileCache
	ops      opsRecorder
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new profile service.
func NewService(
	log *slog.Logger,
	profiles profileRepo,
	history historyRepo,
	audit auditLogger,
	tx txManager,
	cache profileCache,
	ops opsRecorder,
	cfg Config,
) *Service {
	return &Service{
		profiles: profiles,
		history:  history,
		audit:    audit,
		tx:       tx,
		cache:    cache,
		ops:      ops,
		cfg:      cfg,
		log:      log.With("service", "profile"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Operation names reported to the ops recorder.
const (
	opGet           = "get"
	opSave          = "save"
	opUpdateSection = "update_section"
	opListHistory   = "list_history"
	opGetSnapshot   = "get_snapshot"
	opCompare       = "compare"
	opRestore       = "restore"
	opAuditTrail    = "audit_trail"
)

// observe reports the outcome of op and returns err unchanged.
func (s *Service) observe(op string, err error) error {
	s.ops.RecordOperation(op, outcome(err))
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrParse):
		return "parse"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// sectionCounts returns the number of changed leaves per section.
func sectionCounts(changes domain.ProfileChanges) map[string]any {
	out := make(map[string]any, 3)
	for _, section := range domain.DocumentSections() {
		out[section.String()] = changes.Section(section).Count()
	}
	return out
}
