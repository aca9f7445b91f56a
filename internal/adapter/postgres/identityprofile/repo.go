// Package identityprofile implements the live identity profile store using
// PostgreSQL. Each user owns at most one row.
package identityprofile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forge-journal/forge-identity/internal/adapter/postgres"
	"github.com/forge-journal/forge-identity/internal/domain"
)

const entity = "identity_profile"

var columns = []string{"user_id", "profile_data", "created_at", "updated_at"}

// Repo provides identity profile persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new identity profile repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByUserID returns the current profile of a user.
// Returns domain.ErrNotFound if the user has no profile yet.
func (r *Repo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.IdentityProfile, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(entity).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", entity, err)
	}

	p, err := scanProfile(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, entity, userID)
	}
	return p, nil
}

// Create inserts a profile row. Returns domain.ErrAlreadyExists when the user
// already has one.
func (r *Repo) Create(ctx context.Context, profile *domain.IdentityProfile) (*domain.IdentityProfile, error) {
	raw, err := domain.EncodeProfileDocument(profile.ProfileDocument)
	if err != nil {
		return nil, err
	}

	query, args, err := postgres.Builder().
		Insert(entity).
		Columns(columns...).
		Values(profile.UserID, raw, profile.CreatedAt, profile.UpdatedAt).
		Suffix("RETURNING user_id, profile_data, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s: %w", entity, err)
	}

	p, err := scanProfile(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, entity, profile.UserID)
	}
	return p, nil
}

// Update replaces the stored document and bumps updated_at.
// Returns domain.ErrNotFound if the user has no profile.
func (r *Repo) Update(ctx context.Context, userID uuid.UUID, doc domain.ProfileDocument, updatedAt time.Time) (*domain.IdentityProfile, error) {
	raw, err := domain.EncodeProfileDocument(doc)
	if err != nil {
		return nil, err
	}

	query, args, err := postgres.Builder().
		Update(entity).
		Set("profile_data", raw).
		Set("updated_at", updatedAt).
		Where("user_id = ?", userID).
		Suffix("RETURNING user_id, profile_data, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update %s: %w", entity, err)
	}

	p, err := scanProfile(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, entity, userID)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.IdentityProfile, error) {
	var (
		p   domain.IdentityProfile
		raw string
	)
	if err := row.Scan(&p.UserID, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	doc, err := domain.DecodeProfileDocument([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decode profile_data: %w", err)
	}
	p.ProfileDocument = doc
	return &p, nil
}
