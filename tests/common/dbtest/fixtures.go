//go:build unit || e2e

package dbtest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rentyard/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the raw password every fixture user is created with.
const TestPassword = "Password123!"

var (
	hashOnce     sync.Once
	passwordHash string
)

// testPasswordHash hashes TestPassword once per process; bcrypt is too slow
// to rehash per fixture.
func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		hash, err := password.HashPassword(TestPassword)
		require.NoError(t, err)
		passwordHash = hash
	})
	return passwordHash
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, name, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, "Test User", testPasswordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestCategory(t *testing.T, db DBLike, kind, name, slug string) uuid.UUID {
	t.Helper()

	categoryID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO categories (id, kind, name, slug) VALUES ($1, $2, $3, $4) ON CONFLICT (kind, slug) DO NOTHING",
		categoryID, kind, name, slug)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM categories WHERE kind = $1 AND slug = $2", kind, slug).Scan(&categoryID)
	}

	return categoryID
}

func CreateTestListing(t *testing.T, db DBLike, categoryID uuid.UUID, name string, priceCents int64, priceUnit string) uuid.UUID {
	t.Helper()

	listingID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO listings (id, kind, category_id, name, price_cents, price_unit, available) VALUES ($1, 'equipment', $2, $3, $4, $5, true)",
		listingID, categoryID, name, priceCents, priceUnit)
	require.NoError(t, err)

	return listingID
}

// CreateTestAuthToken stores a login or reset token whose raw secret the test
// knows, so the redeem endpoints can be exercised end to end.
func CreateTestAuthToken(t *testing.T, db DBLike, userID uuid.UUID, purpose, rawSecret string, expiresAt time.Time) uuid.UUID {
	t.Helper()

	tokenID := uuid.New()
	sum := sha256.Sum256([]byte(rawSecret))
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO auth_tokens (id, user_id, purpose, token_hash, expires_at) VALUES ($1, $2, $3, $4, $5)",
		tokenID, userID, purpose, hex.EncodeToString(sum[:]), expiresAt)
	require.NoError(t, err)

	return tokenID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO categories (id, kind, name, slug) VALUES
		    (gen_random_uuid(), 'equipment', 'Excavators', 'excavators'),
		    (gen_random_uuid(), 'equipment', 'Scaffolding', 'scaffolding'),
		    (gen_random_uuid(), 'brokerage', 'Heavy Machinery', 'heavy-machinery')
		ON CONFLICT (kind, slug) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
