package testutil

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studyflash/internal/db"
	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// One connection is kept so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB, QuietLogger()))
	return sqlDB
}

// QuietLogger returns a logger that discards everything.
func QuietLogger() *logger.Logger {
	return logger.New(logger.WithOutput(io.Discard))
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, sqlDB *sql.DB, username string) int64 {
	t.Helper()
	res, err := sqlDB.Exec(`INSERT INTO users (username) VALUES (?)`, username)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedCollection inserts a collection owned by ownerID and returns its id.
func SeedCollection(t *testing.T, sqlDB *sql.DB, ownerID int64, title string) int64 {
	t.Helper()
	res, err := sqlDB.Exec(`INSERT INTO collections (owner_id, title, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`, ownerID, title)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedCard inserts a flashcard created at createdAt with the given tags and returns its id.
func SeedCard(t *testing.T, sqlDB *sql.DB, collectionID int64, createdAt time.Time, tagIDs ...int) int64 {
	t.Helper()
	res, err := sqlDB.Exec(`INSERT INTO cards (collection_id, kind, content, created_at) VALUES (?, ?, ?, ?)`,
		collectionID, models.CardKindFlashcard, `{"front":"q","back":"a"}`, createdAt.UTC())
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	for _, tag := range tagIDs {
		_, err := sqlDB.Exec(`INSERT INTO card_tags (card_id, tag_id) VALUES (?, ?)`, id, tag)
		require.NoError(t, err)
	}
	return id
}
