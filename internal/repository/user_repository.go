package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"socialnet/internal/domain"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

const userColumns = `id, name, username, email, password_hash, COALESCE(bio, ''), created_at`

type UserRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, logger logger.Logger) domain.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) findOne(ctx context.Context, field string, query string, arg interface{}) (user *domain.User, err error) {
	defer observe("select", "user", time.Now(), &err)

	user, err = scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "user lookup failed", map[string]interface{}{field: arg, "error": err.Error()})
		return nil, fmt.Errorf("user lookup by %s failed: %w", field, err)
	}

	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// Create relies on the unique indexes on username and email; a violation is
// reported as domain.ErrDuplicateIdentity.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (err error) {
	defer observe("insert", "user", time.Now(), &err)

	query := `
		INSERT INTO users (name, username, email, password_hash, bio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	user.CreatedAt = time.Now().UTC()

	err = r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return domain.ErrDuplicateIdentity
		}
		r.logger.ErrorContext(ctx, "user could not be created", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("user could not be created: %w", err)
	}

	return nil
}
