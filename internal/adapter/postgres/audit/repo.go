// Package audit implements the Audit repository using PostgreSQL.
// It provides append-only operations for audit log records.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forge-journal/forge-identity/internal/adapter/postgres"
	"github.com/forge-journal/forge-identity/internal/domain"
)

const entity = "audit_record"

var columns = []string{"id", "user_id", "entity_type", "entity_id", "action", "changes", "created_at"}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new audit record and returns the persisted domain.AuditRecord.
// A zero ID or CreatedAt is filled in.
func (r *Repo) Create(ctx context.Context, record domain.AuditRecord) (domain.AuditRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	changes := record.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("%s marshal changes: %w", entity, err)
	}

	query, args, err := postgres.Builder().
		Insert("audit_log").
		Columns(columns...).
		Values(record.ID, record.UserID, string(record.EntityType), record.EntityID,
			string(record.Action), changesJSON, record.CreatedAt).
		Suffix("RETURNING id, user_id, entity_type, entity_id, action, changes, created_at").
		ToSql()
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("build insert %s: %w", entity, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, entity, record.ID)
	}
	got, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, entity, record.ID)
	}
	return got, nil
}

// Log creates an audit record without returning it (fire-and-forget).
// Satisfies the profile service's auditRepo.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	_, err := r.Create(ctx, record)
	return err
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByUser returns audit log records for a user, ordered by created_at DESC
// with pagination.
func (r *Repo) GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From("audit_log").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", entity, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get audit_records by user: %w", err)
	}
	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, postgres.MapError(err, entity, userID)
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanRecord(row pgx.CollectableRow) (domain.AuditRecord, error) {
	var (
		record             domain.AuditRecord
		entityType, action string
		changes            []byte
	)
	if err := row.Scan(&record.ID, &record.UserID, &entityType, &record.EntityID,
		&action, &changes, &record.CreatedAt); err != nil {
		return domain.AuditRecord{}, err
	}
	record.EntityType = domain.EntityType(entityType)
	record.Action = domain.AuditAction(action)

	if len(changes) > 0 {
		record.Changes = make(map[string]any)
		if err := json.Unmarshal(changes, &record.Changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("%s %s unmarshal changes: %w", entity, record.ID, err)
		}
	}
	return record, nil
}
