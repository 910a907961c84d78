package service

import (
	"context"
	"fmt"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
)

type AuditLogService struct {
	repo   domain.AuditLogRepository
	logger logger.Logger
}

func NewAuditLogService(repo domain.AuditLogRepository, logger logger.Logger) domain.AuditLogService {
	return &AuditLogService{
		repo:   repo,
		logger: logger,
	}
}

// LogAction is best effort. A failed write is logged and otherwise ignored so
// auditing never changes the outcome of the action being audited.
func (s *AuditLogService) LogAction(ctx context.Context, entityType domain.EntityType, entityID int64, action domain.ActionType, details string) {
	log := &domain.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.ErrorContext(ctx, "audit log could not be written", map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID,
			"action":      action,
			"error":       err.Error(),
		})
	}
}

func (s *AuditLogService) GetEntityLogs(ctx context.Context, entityType domain.EntityType, entityID int64) ([]*domain.AuditLog, error) {
	logs, err := s.repo.FindByEntityID(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("audit logs could not be loaded: %w", err)
	}
	return logs, nil
}
