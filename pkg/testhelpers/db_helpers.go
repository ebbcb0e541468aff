package testhelpers

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"assettracker/pkg/db"
)

var uniqueCounter int64

func nextSuffix() int64 {
	return atomic.AddInt64(&uniqueCounter, 1)
}

// SetupTestPool connects to DATABASE_URL_FOR_TEST and applies the embedded
// schema. Tests are skipped when the variable is unset.
func SetupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_FOR_TEST not set; skipping database tests")
	}

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	t.Cleanup(pool.Close)

	require.NoError(t, db.ApplySchema(ctx, pool, ""))
	return pool
}

func CleanAssets(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE assets")
	require.NoError(t, err)
}

// UniqueSerial returns a serial number no other helper call in this
// process has returned.
func UniqueSerial(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), nextSuffix())
}

// CreateTestAsset inserts an AVAILABLE asset with a unique serial number
// and returns its ID.
func CreateTestAsset(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		"INSERT INTO assets (name, serial_number, acquisition_date) VALUES ($1, $2, NOW()) RETURNING id",
		name, UniqueSerial("test-asset"),
	).Scan(&id)
	require.NoError(t, err)
	return id
}
