// Package testutil provides a migrated in-memory database for tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"socialnet/internal/database"
	"socialnet/internal/domain"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

// NewDB opens a private in-memory sqlite database with every migration
// applied. It is closed when the test ends.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := pkgdb.Open(pkgdb.Config{
		Driver: string(pkgdb.DialectSQLite),
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	err = database.NewMigrationService(db, pkgdb.DialectSQLite, logger.Nop()).RunMigrations(context.Background())
	require.NoError(t, err)

	return db
}

// InsertUser writes a user row directly. The password hash is a placeholder
// that no password matches.
func InsertUser(t testing.TB, db *sql.DB, username string) *domain.User {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO users (name, username, email, password_hash, bio, created_at) VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP) RETURNING id`,
		username, username, username+"@example.com", "x", "",
	).Scan(&id)
	require.NoError(t, err)

	return &domain.User{ID: id, Name: username, Username: username, Email: username + "@example.com"}
}
