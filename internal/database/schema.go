package database

import (
	"context"
	"database/sql"

	pkgdb "socialnet/pkg/database"
)

func Migrations() []Migration {
	return []Migration{
		{"create_users_table", statements(createUsers)},
		{"create_posts_table", statements(createPosts)},
		{"add_post_media_columns", AddPostMediaColumns},
		{"create_comments_table", statements(createComments)},
		{"create_likes_table", statements(createLikes)},
		{"create_follows_table", statements(createFollows)},
		{"create_audit_logs_table", statements(createAuditLogs)},
		{"create_indexes", statements(createIndexes)},
	}
}

type dialectStatements map[pkgdb.Dialect][]string

func statements(stmts dialectStatements) func(context.Context, *sql.Tx, pkgdb.Dialect) error {
	return func(ctx context.Context, tx *sql.Tx, dialect pkgdb.Dialect) error {
		for _, stmt := range stmts[dialect] {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}

var createUsers = dialectStatements{
	pkgdb.DialectSQLite: {`
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        username TEXT NOT NULL UNIQUE,
        email TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        bio TEXT NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`},
	pkgdb.DialectPostgres: {`
    CREATE TABLE IF NOT EXISTS users (
        id BIGSERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        username TEXT NOT NULL UNIQUE,
        email TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        bio TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
}

var createPosts = dialectStatements{
	pkgdb.DialectSQLite: {`
    CREATE TABLE IF NOT EXISTS posts (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL,
        content TEXT NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    )`},
	pkgdb.DialectPostgres: {`
    CREATE TABLE IF NOT EXISTS posts (
        id BIGSERIAL PRIMARY KEY,
        user_id BIGINT NOT NULL REFERENCES users (id),
        content TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
}

// AddPostMediaColumns is additive and best effort: databases created before
// media support get the columns, databases that already have them are left
// alone.
func AddPostMediaColumns(ctx context.Context, tx *sql.Tx, dialect pkgdb.Dialect) error {
	if dialect == pkgdb.DialectPostgres {
		for _, stmt := range []string{
			`ALTER TABLE posts ADD COLUMN IF NOT EXISTS media_url TEXT`,
			`ALTER TABLE posts ADD COLUMN IF NOT EXISTS media_type TEXT`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}

	for _, stmt := range []string{
		`ALTER TABLE posts ADD COLUMN media_url TEXT`,
		`ALTER TABLE posts ADD COLUMN media_type TEXT`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil && !pkgdb.IsDuplicateColumn(err) {
			return err
		}
	}
	return nil
}

var createComments = dialectStatements{
	pkgdb.DialectSQLite: {`
    CREATE TABLE IF NOT EXISTS comments (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        post_id INTEGER NOT NULL,
        user_id INTEGER NOT NULL,
        content TEXT NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (post_id) REFERENCES posts (id),
        FOREIGN KEY (user_id) REFERENCES users (id)
    )`},
	pkgdb.DialectPostgres: {`
    CREATE TABLE IF NOT EXISTS comments (
        id BIGSERIAL PRIMARY KEY,
        post_id BIGINT NOT NULL REFERENCES posts (id),
        user_id BIGINT NOT NULL REFERENCES users (id),
        content TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
}

var createLikes = dialectStatements{
	pkgdb.DialectSQLite: {`
    CREATE TABLE IF NOT EXISTS likes (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        post_id INTEGER NOT NULL,
        user_id INTEGER NOT NULL,
        UNIQUE (post_id, user_id),
        FOREIGN KEY (post_id) REFERENCES posts (id),
        FOREIGN KEY (user_id) REFERENCES users (id)
    )`},
	pkgdb.DialectPostgres: {`
    CREATE TABLE IF NOT EXISTS likes (
        id BIGSERIAL PRIMARY KEY,
        post_id BIGINT NOT NULL REFERENCES posts (id),
        user_id BIGINT NOT NULL REFERENCES users (id),
        UNIQUE (post_id, user_id)
    )`},
}

var createFollows = dialectStatements{
	pkgdb.DialectSQLite: {`
    CREATE TABLE IF NOT EXISTS follows (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        follower_id INTEGER NOT NULL,
        following_id INTEGER NOT NULL,
        UNIQUE (follower_id, following_id),
        FOREIGN KEY (follower_id) REFERENCES users (id),
        FOREIGN KEY (following_id) REFERENCES users (id)
    )`},
	pkgdb.DialectPostgres: {`
    CREATE TABLE IF NOT EXISTS follows (
        id BIGSERIAL PRIMARY KEY,
        follower_id BIGINT NOT NULL REFERENCES users (id),
        following_id BIGINT NOT NULL REFERENCES users (id),
        UNIQUE (follower_id, following_id)
    )`},
}

var createAuditLogs = dialectStatements{
	pkgdb.DialectSQLite: {`
    CREATE TABLE IF NOT EXISTS audit_logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        entity_type TEXT NOT NULL,
        entity_id INTEGER NOT NULL,
        action TEXT NOT NULL,
        details TEXT,
        created_at DATETIME NOT NULL
    )`},
	pkgdb.DialectPostgres: {`
    CREATE TABLE IF NOT EXISTS audit_logs (
        id BIGSERIAL PRIMARY KEY,
        entity_type TEXT NOT NULL,
        entity_id BIGINT NOT NULL,
        action TEXT NOT NULL,
        details TEXT,
        created_at TIMESTAMPTZ NOT NULL
    )`},
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at)`,
	`CREATE INDEX IF NOT EXISTS posts_user_id_created_at_idx ON posts (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS comments_post_id_created_at_idx ON comments (post_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS follows_following_id_idx ON follows (following_id)`,
	`CREATE INDEX IF NOT EXISTS audit_logs_entity_idx ON audit_logs (entity_type, entity_id)`,
}

var createIndexes = dialectStatements{
	pkgdb.DialectSQLite:   indexStatements,
	pkgdb.DialectPostgres: indexStatements,
}
