package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forge-journal/forge-identity/internal/domain"
)

// SeedProfile inserts an identity_profile row for a fresh user with the
// default document plus a name. Returns the stored profile.
func SeedProfile(t *testing.T, pool *pgxpool.Pool) domain.IdentityProfile {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	profile := domain.NewIdentityProfile(uuid.New(), now)
	name := "Test User " + uuid.New().String()[:8]
	profile.Biographical.Name = &name

	raw, err := domain.EncodeProfileDocument(profile.ProfileDocument)
	if err != nil {
		t.Fatalf("testhelper: SeedProfile encode: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO identity_profile (user_id, profile_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		profile.UserID, raw, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProfile insert: %v", err)
	}

	return *profile
}

// SeedHistory inserts a history row with an explicit created_at so tests can
// control ordering. Returns the entry with its generated id.
func SeedHistory(
	t *testing.T,
	pool *pgxpool.Pool,
	userID uuid.UUID,
	doc domain.ProfileDocument,
	section domain.ProfileSection,
	createdAt time.Time,
) domain.HistoryEntry {
	t.Helper()

	raw, err := domain.EncodeProfileDocument(doc)
	if err != nil {
		t.Fatalf("testhelper: SeedHistory encode: %v", err)
	}

	stored := doc.Clone()
	stored.Canonicalize()
	entry := domain.HistoryEntry{
		UserID:         userID,
		ProfileData:    &stored,
		SectionChanged: section,
		CreatedAt:      createdAt.UTC().Truncate(time.Microsecond),
	}

	err = pool.QueryRow(context.Background(),
		`INSERT INTO identity_profile_history (user_id, profile_data, section_changed, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, raw, string(section), entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedHistory insert: %v", err)
	}

	return entry
}

// SeedRawHistory inserts a history row whose profile_data is stored verbatim,
// for exercising decode failures.
func SeedRawHistory(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, raw string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO identity_profile_history (user_id, profile_data, section_changed)
		 VALUES ($1, $2, 'all')
		 RETURNING id`,
		userID, raw,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedRawHistory insert: %v", err)
	}
	return id
}
