package main

import (
	"context"
	"fmt"
	"os"

	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/seed"
	pkgdb "socialnet/pkg/database"
	"socialnet/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config could not be loaded: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), os.Stdout, cfg.IsDevelopment())

	dbCfg := pkgdb.Config{
		Driver:       cfg.Database.Driver,
		Path:         cfg.Database.Path,
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Name:         cfg.Database.Name,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}

	db, err := pkgdb.Open(dbCfg)
	if err != nil {
		log.Fatal("database connection failed", map[string]interface{}{"error": err.Error()})
	}
	defer db.Close()

	if err := database.NewMigrationService(db, dbCfg.Dialect(), log).RunMigrations(ctx); err != nil {
		log.Fatal("migrations could not be applied", map[string]interface{}{"error": err.Error()})
	}

	summary, err := seed.Run(ctx, db, log, cfg.Security.BcryptCost)
	if err != nil {
		log.Fatal("seed failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("seed finished", map[string]interface{}{
		"users":    summary.Users,
		"posts":    summary.Posts,
		"follows":  summary.Follows,
		"likes":    summary.Likes,
		"comments": summary.Comments,
	})
	fmt.Printf("Seed done. Demo accounts created. Password = %s\n", seed.DemoPassword)
}
