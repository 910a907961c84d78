package domain

import (
	"context"
	"time"
)

type EntityType string
type ActionType string

const (
	EntityTypeUser EntityType = "user"

	ActionTypeRegister    ActionType = "register"
	ActionTypeLogin       ActionType = "login"
	ActionTypeLoginFailed ActionType = "login_failed"
	ActionTypeLogout      ActionType = "logout"
)

type AuditLog struct {
	ID         int64      `json:"id"`
	EntityType EntityType `json:"entity_type"`
	EntityID   int64      `json:"entity_id"`
	Action     ActionType `json:"action"`
	Details    string     `json:"details,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *AuditLog) error
	FindByEntityID(ctx context.Context, entityType EntityType, entityID int64) ([]*AuditLog, error)
}

type AuditLogService interface {
	LogAction(ctx context.Context, entityType EntityType, entityID int64, action ActionType, details string)
	GetEntityLogs(ctx context.Context, entityType EntityType, entityID int64) ([]*AuditLog, error)
}
