package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/db"
	"github.com/vytor/dailyenglish/internal/testutil"
)

func TestMigrate_IsIdempotent(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	require.NoError(t, db.Migrate(context.Background(), sqlDB))

	var applied int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 2, applied)
}

func TestMigrate_CreatesTables(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	for _, table := range []string{"day_logs", "student_summaries"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err == sql.ErrNoRows {
			t.Fatalf("table %s missing", table)
		}
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}

func TestOpen_FileDatabase(t *testing.T) {
	path := t.TempDir() + "/test.db"

	database, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	defer testutil.MustClose(t, database)

	_, err = database.Exec(`INSERT INTO day_logs (user_id, date_key, doc) VALUES ('u1', '2025-03-10', '{}')`)
	assert.NoError(t, err)
}
