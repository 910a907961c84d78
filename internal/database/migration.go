package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

type Migration struct {
	Name string
	Up   func(ctx context.Context, tx *sql.Tx, dialect pkgdb.Dialect) error
}

type MigrationService struct {
	db      *sql.DB
	dialect pkgdb.Dialect
	logger  logger.Logger
}

func NewMigrationService(db *sql.DB, dialect pkgdb.Dialect, logger logger.Logger) *MigrationService {
	return &MigrationService{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

func (m *MigrationService) InitMigrationTable(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS migrations (
        name TEXT PRIMARY KEY,
        applied_at TIMESTAMP NOT NULL
    )
    `

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		m.logger.Error("migration table could not be created", map[string]interface{}{"error": err.Error()})
		return err
	}

	return nil
}

func (m *MigrationService) IsMigrationApplied(ctx context.Context, name string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM migrations WHERE name = $1"
	if err := m.db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
		m.logger.Error("migration status could not be checked", map[string]interface{}{"name": name, "error": err.Error()})
		return false, err
	}

	return count > 0, nil
}

func (m *MigrationService) ApplyMigration(ctx context.Context, migration Migration) (err error) {
	applied, err := m.IsMigrationApplied(ctx, migration.Name)
	if err != nil {
		return err
	}

	if applied {
		m.logger.Debug("migration already applied", map[string]interface{}{"name": migration.Name})
		return nil
	}

	m.logger.Info("applying migration", map[string]interface{}{"name": migration.Name})

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		m.logger.Error("migration transaction could not be started", map[string]interface{}{"error": err.Error()})
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			m.logger.Error("migration rolled back", map[string]interface{}{"name": migration.Name, "error": err.Error()})
		}
	}()

	if err = migration.Up(ctx, tx, m.dialect); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "INSERT INTO migrations (name, applied_at) VALUES ($1, $2)", migration.Name, time.Now().UTC()); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	m.logger.Info("migration applied", map[string]interface{}{"name": migration.Name})
	return nil
}

// RunMigrations is safe to call on every start: each step is recorded once
// and every statement is create-if-absent.
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	if err := m.InitMigrationTable(ctx); err != nil {
		return fmt.Errorf("migration table could not be created: %w", err)
	}

	for _, migration := range Migrations() {
		if err := m.ApplyMigration(ctx, migration); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
	}

	return nil
}
