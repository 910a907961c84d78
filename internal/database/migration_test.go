package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

func openMemoryDB(t *testing.T) *MigrationService {
	t.Helper()

	db, err := pkgdb.Open(pkgdb.Config{
		Driver: string(pkgdb.DialectSQLite),
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewMigrationService(db, pkgdb.DialectSQLite, logger.Nop())
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := openMemoryDB(t)

	require.NoError(t, m.RunMigrations(ctx))
	require.NoError(t, m.RunMigrations(ctx))

	var applied int
	require.NoError(t, m.db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&applied))
	assert.Equal(t, len(Migrations()), applied)

	for _, migration := range Migrations() {
		ok, err := m.IsMigrationApplied(ctx, migration.Name)
		require.NoError(t, err)
		assert.True(t, ok, migration.Name)
	}
}

func TestAddPostMediaColumns_ToleratesExistingColumns(t *testing.T) {
	ctx := context.Background()
	m := openMemoryDB(t)
	require.NoError(t, m.RunMigrations(ctx))

	tx, err := m.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.NoError(t, AddPostMediaColumns(ctx, tx, pkgdb.DialectSQLite))
}

func TestSchema_ForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	m := openMemoryDB(t)
	require.NoError(t, m.RunMigrations(ctx))

	_, err := m.db.ExecContext(ctx, `INSERT INTO likes (post_id, user_id) VALUES (1, 1)`)
	require.Error(t, err)
	assert.True(t, pkgdb.IsForeignKeyViolation(err))
}
