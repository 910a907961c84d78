package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialnet/internal/api"
	"socialnet/internal/database"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/factory"
	"socialnet/pkg/tracing"
)

func main() {
	ctx := context.Background()

	appFactory, err := factory.NewFactory(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "factory could not be created: %v\n", err)
		os.Exit(1)
	}
	defer appFactory.Close()

	log := appFactory.GetLogger()
	cfg := appFactory.GetConfig()
	db := appFactory.GetDB()

	log.Info("starting application", map[string]interface{}{"env": cfg.AppEnv, "db_driver": cfg.Database.Driver, "session_store": cfg.Session.Store})

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		log.Fatal("tracing could not be initialized", map[string]interface{}{"error": err.Error()})
	}

	migrationService := database.NewMigrationService(db, pkgdb.Dialect(cfg.Database.Driver), log)
	if err := migrationService.RunMigrations(ctx); err != nil {
		log.Fatal("migrations could not be applied", map[string]interface{}{"error": err.Error()})
	}

	sessions := appFactory.GetSessionManager()
	renderer := appFactory.GetRenderer()

	authHandler := api.NewAuthHandler(appFactory.GetAuthService(), sessions, renderer, log)
	contentHandler := api.NewContentHandler(appFactory.GetContentService(), renderer, log)
	socialHandler := api.NewSocialHandler(appFactory.GetSocialService(), log)
	profileHandler := api.NewProfileHandler(appFactory.GetProfileService(), appFactory.GetAuditLogService(), renderer, log)
	healthHandler := api.NewHealthHandler(db, appFactory.GetSessionStore(), appFactory.GetRedisClient(), log)

	handler := api.NewRouter(sessions, log, api.RouterOptions{AllowedOrigins: cfg.Security.AllowedOrigins},
		authHandler,
		contentHandler,
		socialHandler,
		profileHandler,
		healthHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("starting HTTP server", map[string]interface{}{"port": cfg.Server.Port})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server", map[string]interface{}{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("server stopped", map[string]interface{}{})
}
