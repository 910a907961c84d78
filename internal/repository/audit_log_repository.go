package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
)

type AuditLogRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAuditLogRepository(db *sql.DB, logger logger.Logger) domain.AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) (err error) {
	defer observe("insert", "audit_log", time.Now(), &err)

	query := `
		INSERT INTO audit_logs (entity_type, entity_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	err = r.db.QueryRowContext(
		ctx,
		query,
		log.EntityType,
		log.EntityID,
		log.Action,
		log.Details,
		log.CreatedAt,
	).Scan(&log.ID)

	if err != nil {
		r.logger.ErrorContext(ctx, "audit log could not be created", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("audit log could not be created: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) FindByEntityID(ctx context.Context, entityType domain.EntityType, entityID int64) (logs []*domain.AuditLog, err error) {
	defer observe("select", "audit_log", time.Now(), &err)

	query := `
		SELECT id, entity_type, entity_id, action, COALESCE(details, ''), created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		r.logger.ErrorContext(ctx, "audit logs could not be listed", map[string]interface{}{"entity_type": entityType, "entity_id": entityID, "error": err.Error()})
		return nil, fmt.Errorf("audit logs could not be listed: %w", err)
	}
	defer rows.Close()

	logs = make([]*domain.AuditLog, 0)
	for rows.Next() {
		var l domain.AuditLog
		if err = rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit log row could not be read: %w", err)
		}
		logs = append(logs, &l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("audit logs could not be listed: %w", err)
	}

	return logs, nil
}
