package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/auth"
	"github.com/mspcompass/compass-engine/pkg/config"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/handlers"
	"github.com/mspcompass/compass-engine/pkg/llm"
	"github.com/mspcompass/compass-engine/pkg/logging"
	"github.com/mspcompass/compass-engine/pkg/middleware"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
	"github.com/mspcompass/compass-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

// archivePurgeInterval controls how often expired archive rows are dropped.
const archivePurgeInterval = 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Host),
		zap.String("backup_dir", cfg.Backup.Directory),
		zap.String("ai_provider", cfg.AI.Provider))

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnIdleMinutes) * time.Minute,
		ConnectTimeout:  time.Duration(cfg.Database.ConnectTimeoutSecs) * time.Second,
	})
	if err != nil {
		// Driver errors can echo the connection string, credentials included.
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations",
			zap.String("error", logging.SanitizeError(err)))
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	assessmentRepo := repositories.NewAssessmentRepository(db)
	qaRepo := repositories.NewQARepository(db)
	cacheRepo := repositories.NewCacheRepository(db)
	backupRepo := repositories.NewBackupRepository(db)
	archiveRepo := repositories.NewArchiveRepository(db)
	logRepo := repositories.NewSystemLogRepository(db)

	// Services
	tokens := auth.NewTokenIssuer(cfg.Auth.TokenSigningKey, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	userService := services.NewUserService(userRepo, tokens, logger)
	profileService := services.NewProfileService(db, profileRepo, assessmentRepo, logger)
	cacheService := services.NewCacheVersionService(db, cacheRepo, logger)
	qaService := services.NewQAService(qaRepo, logger)
	backupService := services.NewBackupService(db, userRepo, profileRepo, assessmentRepo,
		qaRepo, cacheRepo, backupRepo, archiveRepo, logRepo, cfg.Backup.Directory, logger)
	llmFactory := llm.NewFactory(&cfg.AI, logger)

	go purgeArchivesLoop(ctx, backupService, logger)

	mux := http.NewServeMux()

	// Public routes
	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)
	authHandler := handlers.NewAuthHandler(userService, logger)
	authHandler.RegisterRoutes(mux)

	// Authenticated routes
	authed := http.NewServeMux()
	authHandler.RegisterProtectedRoutes(authed)
	handlers.NewChecklistHandler(logger).RegisterRoutes(authed)
	handlers.NewProfileHandler(profileService, logger).RegisterRoutes(authed)
	cacheHandler := handlers.NewCacheHandler(cacheService, llmFactory, cfg.AI.Provider, logger)
	cacheHandler.RegisterRoutes(authed)
	qaHandler := handlers.NewQAHandler(qaService, logger)
	qaHandler.RegisterRoutes(authed)

	// Capability-gated routes
	answerMux := http.NewServeMux()
	qaHandler.RegisterAnswerRoutes(answerMux)
	authed.Handle("/api/questions/", middleware.RequireCapability(models.CapAnswerQA)(answerMux))

	cacheAdminMux := http.NewServeMux()
	cacheHandler.RegisterAdminRoutes(cacheAdminMux)
	authed.Handle("/api/admin/cache/", middleware.RequireCapability(models.CapManageCache)(cacheAdminMux))

	userAdminMux := http.NewServeMux()
	handlers.NewUserHandler(userService, logger).RegisterRoutes(userAdminMux)
	authed.Handle("/api/admin/users/", middleware.RequireCapability(models.CapManageUsers)(userAdminMux))
	authed.Handle("GET /api/admin/users", middleware.RequireCapability(models.CapManageUsers)(userAdminMux))

	backupMux := http.NewServeMux()
	handlers.NewBackupHandler(backupService, logger).RegisterRoutes(backupMux)
	authed.Handle("/api/admin/backups/", middleware.RequireCapability(models.CapManageBackups)(backupMux))
	authed.Handle("GET /api/admin/backups", middleware.RequireCapability(models.CapManageBackups)(backupMux))
	authed.Handle("/api/admin/system/", middleware.RequireCapability(models.CapManageBackups)(backupMux))

	mux.Handle("/api/", middleware.RequireAuth(tokens, logger)(authed))

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting compass-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// runMigrations applies pending migrations over a short-lived stdlib
// connection, separate from the pgx pool serving requests.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return database.RunMigrations(sqlDB, cfg.MigrationsPath, logger)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// purgeArchivesLoop drops expired archive rows once a day.
func purgeArchivesLoop(ctx context.Context, backups services.BackupService, logger *zap.Logger) {
	ticker := time.NewTicker(archivePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := backups.PurgeExpiredArchives(ctx); err != nil {
				logger.Error("Archive purge failed", zap.Error(err))
			}
		}
	}
}
