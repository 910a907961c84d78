package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
	"socialnet/pkg/metrics"
)

type AuthService struct {
	users      domain.UserRepository
	audit      domain.AuditLogService
	logger     logger.Logger
	bcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users domain.UserRepository, audit domain.AuditLogService, logger logger.Logger, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      users,
		audit:      audit,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	user := &domain.User{
		Name:     strings.TrimSpace(input.Name),
		Username: domain.NormalizeIdentity(input.Username),
		Email:    domain.NormalizeIdentity(input.Email),
	}

	if user.Name == "" || user.Username == "" || user.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password could not be hashed: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		metrics.RecordAuthEvent("register", "rejected")
		return nil, err
	}

	metrics.RecordAuthEvent("register", "ok")
	s.audit.LogAction(ctx, domain.EntityTypeUser, user.ID, domain.ActionTypeRegister, user.Username)
	s.logger.InfoContext(ctx, "user registered", map[string]interface{}{"user_id": user.ID, "username": user.Username})

	return user, nil
}

// Login answers every failure with domain.ErrInvalidCredentials so callers
// cannot tell an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeIdentity(email))
	if err != nil {
		s.logger.ErrorContext(ctx, "login lookup failed", map[string]interface{}{"error": err.Error()})
	}

	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		_ = ComparePassword(s.dummy(), password)
		metrics.RecordAuthEvent("login", "rejected")
		return nil, domain.ErrInvalidCredentials
	}

	if err := ComparePassword(user.PasswordHash, password); err != nil {
		metrics.RecordAuthEvent("login", "rejected")
		s.audit.LogAction(ctx, domain.EntityTypeUser, user.ID, domain.ActionTypeLoginFailed, "")
		return nil, domain.ErrInvalidCredentials
	}

	metrics.RecordAuthEvent("login", "ok")
	s.audit.LogAction(ctx, domain.EntityTypeUser, user.ID, domain.ActionTypeLogin, "")

	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64) {
	metrics.RecordAuthEvent("logout", "ok")
	s.audit.LogAction(ctx, domain.EntityTypeUser, userID, domain.ActionTypeLogout, "")
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("socialnet-dummy-password", s.bcryptCost)
		if err != nil {
			s.logger.Error("dummy hash could not be generated", map[string]interface{}{"error": err.Error()})
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
