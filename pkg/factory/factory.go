package factory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"socialnet/internal/config"
	"socialnet/internal/domain"
	"socialnet/internal/repository"
	"socialnet/internal/service"
	"socialnet/internal/session"
	"socialnet/internal/web"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
	pkgredis "socialnet/pkg/redis"
)

type Factory interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	GetDB() *sql.DB
	GetRedisClient() *redis.Client
	GetRenderer() *web.Renderer

	GetSessionStore() session.Store
	GetSessionManager() *session.Manager

	GetUserRepository() domain.UserRepository
	GetPostRepository() domain.PostRepository
	GetCommentRepository() domain.CommentRepository
	GetLikeRepository() domain.LikeRepository
	GetFollowRepository() domain.FollowRepository
	GetAuditLogRepository() domain.AuditLogRepository

	GetAuthService() domain.AuthService
	GetContentService() domain.ContentService
	GetSocialService() domain.SocialService
	GetProfileService() domain.ProfileService
	GetAuditLogService() domain.AuditLogService

	Close() error
}

type AppFactory struct {
	config      *config.Config
	logger      logger.Logger
	db          *sql.DB
	sessionDB   *sql.DB
	redisClient *redis.Client
	renderer    *web.Renderer

	sessionStore   session.Store
	sessionManager *session.Manager

	userRepository     domain.UserRepository
	postRepository     domain.PostRepository
	commentRepository  domain.CommentRepository
	likeRepository     domain.LikeRepository
	followRepository   domain.FollowRepository
	auditLogRepository domain.AuditLogRepository

	authService     domain.AuthService
	contentService  domain.ContentService
	socialService   domain.SocialService
	profileService  domain.ProfileService
	auditLogService domain.AuditLogService
}

// NewFactory loads configuration and opens every backing connection. On
// error, whatever was opened so far is closed again.
func NewFactory(ctx context.Context) (Factory, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), os.Stdout, cfg.IsDevelopment())

	f := &AppFactory{
		config: cfg,
		logger: log,
	}

	if err := f.init(ctx); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func (f *AppFactory) init(ctx context.Context) error {
	db, err := pkgdb.Open(f.databaseConfig())
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	f.db = db

	if err := f.initSessions(ctx); err != nil {
		return err
	}

	renderer, err := web.NewRenderer(f.config.Server.TemplatesDir, f.logger)
	if err != nil {
		return err
	}
	f.renderer = renderer

	f.initRepositories()
	f.initServices()

	return nil
}

func (f *AppFactory) databaseConfig() pkgdb.Config {
	return pkgdb.Config{
		Driver:       f.config.Database.Driver,
		Path:         f.config.Database.Path,
		Host:         f.config.Database.Host,
		Port:         f.config.Database.Port,
		User:         f.config.Database.User,
		Password:     f.config.Database.Password,
		Name:         f.config.Database.Name,
		SSLMode:      f.config.Database.SSLMode,
		MaxOpenConns: f.config.Database.MaxOpenConns,
	}
}

func (f *AppFactory) initSessions(ctx context.Context) error {
	switch f.config.Session.Store {
	case "redis":
		client, err := pkgredis.NewClient(ctx, pkgredis.Config{
			Host:     f.config.Redis.Host,
			Port:     f.config.Redis.Port,
			Password: f.config.Redis.Password,
			DB:       f.config.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		f.redisClient = client
		f.sessionStore = session.NewRedisStore(client, "socialnet", f.logger)

	default:
		db, err := pkgdb.Open(pkgdb.Config{Driver: string(pkgdb.DialectSQLite), Path: f.config.Session.DBPath})
		if err != nil {
			return fmt.Errorf("session database connection failed: %w", err)
		}
		f.sessionDB = db

		store := session.NewSQLStore(db, f.logger)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		if n, err := store.PurgeExpired(ctx); err != nil {
			f.logger.Warn("expired sessions could not be purged", map[string]interface{}{"error": err.Error()})
		} else if n > 0 {
			f.logger.Info("expired sessions purged", map[string]interface{}{"count": n})
		}
		f.sessionStore = store
	}

	f.sessionManager = session.NewManager(f.sessionStore, session.Options{
		Secret:       f.config.Session.Secret,
		TTL:          f.config.Session.TTL,
		CookieName:   f.config.Session.CookieName,
		CookieSecure: f.config.Session.CookieSecure,
	})

	return nil
}

func (f *AppFactory) initRepositories() {
	f.userRepository = repository.NewUserRepository(f.db, f.logger)
	f.postRepository = repository.NewPostRepository(f.db, f.logger)
	f.commentRepository = repository.NewCommentRepository(f.db, f.logger)
	f.likeRepository = repository.NewLikeRepository(f.db, f.logger)
	f.followRepository = repository.NewFollowRepository(f.db, f.logger)
	f.auditLogRepository = repository.NewAuditLogRepository(f.db, f.logger)
}

func (f *AppFactory) initServices() {
	f.auditLogService = service.NewAuditLogService(f.auditLogRepository, f.logger)
	f.authService = service.NewAuthService(f.userRepository, f.auditLogService, f.logger, f.config.Security.BcryptCost)
	f.contentService = service.NewContentService(f.postRepository, f.commentRepository, f.logger)
	f.socialService = service.NewSocialService(f.likeRepository, f.followRepository, f.logger)
	f.profileService = service.NewProfileService(f.userRepository, f.postRepository, f.followRepository, f.logger)
}

func (f *AppFactory) Close() error {
	var errs []error
	if f.redisClient != nil {
		errs = append(errs, f.redisClient.Close())
	}
	if f.sessionDB != nil {
		errs = append(errs, f.sessionDB.Close())
	}
	if f.db != nil {
		errs = append(errs, f.db.Close())
	}
	return errors.Join(errs...)
}

func (f *AppFactory) GetLogger() logger.Logger {
	return f.logger
}

func (f *AppFactory) GetConfig() *config.Config {
	return f.config
}

func (f *AppFactory) GetDB() *sql.DB {
	return f.db
}

// GetRedisClient is nil unless sessions are stored in Redis.
func (f *AppFactory) GetRedisClient() *redis.Client {
	return f.redisClient
}

func (f *AppFactory) GetRenderer() *web.Renderer {
	return f.renderer
}

func (f *AppFactory) GetSessionStore() session.Store {
	return f.sessionStore
}

func (f *AppFactory) GetSessionManager() *session.Manager {
	return f.sessionManager
}

func (f *AppFactory) GetUserRepository() domain.UserRepository {
	return f.userRepository
}

func (f *AppFactory) GetPostRepository() domain.PostRepository {
	return f.postRepository
}

func (f *AppFactory) GetCommentRepository() domain.CommentRepository {
	return f.commentRepository
}

func (f *AppFactory) GetLikeRepository() domain.LikeRepository {
	return f.likeRepository
}

func (f *AppFactory) GetFollowRepository() domain.FollowRepository {
	return f.followRepository
}

func (f *AppFactory) GetAuditLogRepository() domain.AuditLogRepository {
	return f.auditLogRepository
}

func (f *AppFactory) GetAuthService() domain.AuthService {
	return f.authService
}

func (f *AppFactory) GetContentService() domain.ContentService {
	return f.contentService
}

func (f *AppFactory) GetSocialService() domain.SocialService {
	return f.socialService
}

func (f *AppFactory) GetProfileService() domain.ProfileService {
	return f.profileService
}

func (f *AppFactory) GetAuditLogService() domain.AuditLogService {
	return f.auditLogService
}
