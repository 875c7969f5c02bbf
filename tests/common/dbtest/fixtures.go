//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of DefaultPassword
const (
	DefaultPassword     = "password123"
	defaultPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, defaultPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

func CreateTestLocation(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	locationID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO locations (id, name, address) VALUES ($1, $2, $3)",
		locationID, name, "1 Test Street")
	require.NoError(t, err)

	return locationID
}

func CreateTestSpot(t *testing.T, db DBLike, locationID uuid.UUID, number string, hourlyRateCents int64) uuid.UUID {
	t.Helper()

	spotID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO parking_spots (id, location_id, spot_number, hourly_rate_cents) VALUES ($1, $2, $3, $4)",
		spotID, locationID, number, hourlyRateCents)
	require.NoError(t, err)

	return spotID
}

func CreateTestReservation(t *testing.T, db DBLike, userID, spotID uuid.UUID, start, end time.Time, status string) uuid.UUID {
	t.Helper()

	reservationID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO reservations (id, user_id, spot_id, start_time, end_time, status, price_cents, payment_ref, qr_token)
		VALUES ($1, $2, $3, $4, $5, $6, 10000, 'pay_fixture', encode(gen_random_bytes(32), 'hex'))`,
		reservationID, userID, spotID, start, end, status)
	require.NoError(t, err)

	return reservationID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO users (email, password_hash, role) VALUES
		    ('admin@example.com', $1, 'admin'),
		    ('operator@example.com', $1, 'operator')
		ON CONFLICT (email) DO NOTHING;
	`, defaultPasswordHash)
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
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
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
