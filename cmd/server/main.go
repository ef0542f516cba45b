package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/trading-journal/internal/auth"
	"github.com/aristath/trading-journal/internal/config"
	"github.com/aristath/trading-journal/internal/database"
	"github.com/aristath/trading-journal/internal/modules/fixedops"
	"github.com/aristath/trading-journal/internal/modules/ledger"
	"github.com/aristath/trading-journal/internal/modules/operations"
	"github.com/aristath/trading-journal/internal/modules/settings"
	"github.com/aristath/trading-journal/internal/modules/uploads"
	"github.com/aristath/trading-journal/internal/modules/users"
	"github.com/aristath/trading-journal/internal/scheduler"
	"github.com/aristath/trading-journal/internal/server"
	"github.com/aristath/trading-journal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		errLog := logger.New(logger.Config{Level: "error"})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting trading journal")

	// Databases
	journalDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "journal.db"),
		Profile: database.ProfileJournal,
		Name:    "journal",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open journal database")
	}
	defer journalDB.Close()

	configDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "config.db"),
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open config database")
	}
	defer configDB.Close()

	if err := journalDB.MigrateJournal(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate journal database")
	}
	if err := configDB.MigrateConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate config database")
	}

	// Repositories and services
	settingsRepo := settings.NewRepository(configDB.Conn(), log)
	if err := cfg.UpdateFromSettings(settingsRepo); err != nil {
		log.Warn().Err(err).Msg("Failed to apply settings overrides")
	}
	settingsService := settings.NewService(settingsRepo, cfg.InitialCapital, log)

	opsRepo := operations.NewRepository(journalDB.Conn(), log)
	fixedRepo := fixedops.NewRepository(journalDB.Conn(), log)
	fixedService := fixedops.NewService(fixedRepo, opsRepo, log)

	ledgerService := ledger.NewService(opsRepo, fixedRepo, settingsService, log)

	usersRepo := users.NewRepository(configDB.Conn(), log)
	verifier := auth.NewClient(cfg.AuthServiceURL, log)

	// Attachment uploads are optional; the API responds 503 when unset
	var uploadStore uploads.ObjectStore
	if cfg.Uploads.Bucket != "" {
		store, err := uploads.NewS3Store(context.Background(), uploads.Config{
			Bucket:    cfg.Uploads.Bucket,
			Region:    cfg.Uploads.Region,
			AccessKey: cfg.Uploads.AccessKey,
			SecretKey: cfg.Uploads.SecretKey,
			PublicURL: cfg.Uploads.PublicURL,
			MaxBytes:  cfg.Uploads.MaxBytes,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize uploads")
		}
		uploadStore = store
	} else {
		log.Warn().Msg("S3_BUCKET not set, attachment uploads disabled")
	}

	// Background maintenance
	sched := scheduler.New(log)
	if err := sched.AddJob("@hourly", scheduler.NewWALCheckpointJob(log, journalDB, configDB)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register checkpoint job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:           cfg.Port,
		DevMode:        cfg.DevMode,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
		AuthMiddleware: auth.Middleware(verifier, usersRepo, log),
		Operations:     operations.NewHandlers(opsRepo, log),
		FixedOps:       fixedops.NewHandlers(fixedService, log),
		Ledger:         ledger.NewHandlers(ledgerService, log),
		Settings:       settings.NewHandlers(settingsService, log),
		Uploads:        uploads.NewHandlers(uploadStore, cfg.Uploads.MaxBytes, log),
		Databases:      []*database.DB{journalDB, configDB},
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
