// Package profilehistory implements the append-only identity profile history
// store using PostgreSQL.
package profilehistory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forge-journal/forge-identity/internal/adapter/postgres"
	"github.com/forge-journal/forge-identity/internal/domain"
)

const entity = "identity_profile_history"

// Repo provides history persistence backed by PostgreSQL. Rows are never
// updated or deleted.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new profile history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Append records a snapshot. The entry's ID and CreatedAt are filled from
// the inserted row.
func (r *Repo) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry.ProfileData == nil {
		return fmt.Errorf("%s: snapshot is required: %w", entity, domain.ErrValidation)
	}

	raw, err := domain.EncodeProfileDocument(*entry.ProfileData)
	if err != nil {
		return err
	}

	query, args, err := postgres.Builder().
		Insert(entity).
		Columns("user_id", "profile_data", "section_changed", "change_description").
		Values(entry.UserID, raw, string(entry.SectionChanged), entry.ChangeDescription).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", entity, err)
	}

	err = postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, query, args...).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return postgres.MapError(err, entity, entry.UserID)
	}
	return nil
}

// List returns a page of a user's history, newest first. Ties on created_at
// are broken by id so later inserts come first. Entries carry no snapshot.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, error) {
	query, args, err := postgres.Builder().
		Select("id", "user_id", "section_changed", "change_description", "created_at").
		From(entity).
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", entity, err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, userID)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HistoryEntry, error) {
		var (
			e       domain.HistoryEntry
			section string
		)
		if err := row.Scan(&e.ID, &e.UserID, &section, &e.ChangeDescription, &e.CreatedAt); err != nil {
			return domain.HistoryEntry{}, err
		}
		e.SectionChanged = domain.ProfileSection(section)
		return e, nil
	})
	if err != nil {
		return nil, postgres.MapError(err, entity, userID)
	}
	return entries, nil
}

// CountByUser returns the number of history entries a user has.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query, args, err := postgres.Builder().
		Select("count(*)").
		From(entity).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s: %w", entity, err)
	}

	var total int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, postgres.MapError(err, entity, userID)
	}
	return total, nil
}

// GetByID returns a full entry including its snapshot. Ownership is not
// checked here. Returns domain.ErrNotFound for an unknown id and
// domain.ErrParse when the stored snapshot cannot be decoded.
func (r *Repo) GetByID(ctx context.Context, historyID int64) (*domain.HistoryEntry, error) {
	query, args, err := postgres.Builder().
		Select("id", "user_id", "profile_data", "section_changed", "change_description", "created_at").
		From(entity).
		Where("id = ?", historyID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s: %w", entity, err)
	}

	var (
		e       domain.HistoryEntry
		raw     string
		section string
	)
	err = postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.UserID, &raw, &section, &e.ChangeDescription, &e.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, entity, historyID)
	}
	e.SectionChanged = domain.ProfileSection(section)

	doc, err := domain.DecodeProfileDocument([]byte(raw))
	if err != nil {
		return nil, postgres.MapError(fmt.Errorf("decode profile_data: %w", err), entity, historyID)
	}
	e.ProfileData = &doc
	return &e, nil
}
