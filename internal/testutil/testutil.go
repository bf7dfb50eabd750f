package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/db"
	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept open so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// ClockAt returns a fixed clock at the given local wall-clock time.
func ClockAt(year int, month time.Month, day, hour, min int) *logicalday.FixedClock {
	return logicalday.NewFixedClock(time.Date(year, month, day, hour, min, 0, 0, time.Local))
}

// ReadyVocabPatch fills both vocabulary slots so the vocab task can be completed.
func ReadyVocabPatch() models.Patch {
	return models.Patch{
		Vocab1Meaning: models.Ptr("nhà"),
		Vocab1Word:    models.Ptr("house"),
		Vocab1Method:  models.Ptr("my house is big"),
		Vocab2Meaning: models.Ptr("xe"),
		Vocab2Word:    models.Ptr("car"),
		Vocab2Method:  models.Ptr("a red car"),
	}
}
