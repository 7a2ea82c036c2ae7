package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/studyflash/internal/api"
	"github.com/vytor/studyflash/internal/clock"
	"github.com/vytor/studyflash/internal/config"
	"github.com/vytor/studyflash/internal/db"
	"github.com/vytor/studyflash/internal/due"
	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/ratelimit"
	"github.com/vytor/studyflash/internal/repository/sqlite"
	"github.com/vytor/studyflash/internal/services"
	"github.com/vytor/studyflash/internal/session"
	"github.com/vytor/studyflash/internal/tags"
	"github.com/vytor/studyflash/internal/validation"
	"github.com/vytor/studyflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("time_zone=%s", cfg.TimeZone)
	log.Debug("due_batch_size=%d", cfg.DueBatchSize)
	log.Debug("streak_reset_on_gap=%t", cfg.StreakResetOnGap)
	log.Debug("rate_limit=%.2f/s burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	log.Debug("session_ttl=%v", cfg.SessionTTL)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("failed to load time zone: %v", err)
		os.Exit(1)
	}

	goldenList := tags.DefaultGoldenList()
	if cfg.GoldenListPath != "" {
		goldenList, err = tags.LoadGoldenListFile(cfg.GoldenListPath)
		if err != nil {
			log.Error("failed to load golden list: %v", err)
			os.Exit(1)
		}
	}
	log.Info("golden list %s loaded with %d tags", goldenList.Version(), goldenList.Len())
	tagResolver := tags.NewResolver(goldenList)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cardRepo := sqlite.NewCardRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)
	logRepo := sqlite.NewStudyLogRepository(database.DB)
	sessions := session.NewMemoryStore()
	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)

	studyService := services.NewStudyService(services.StudyDeps{
		Cards:    cardRepo,
		Reviews:  sqlite.NewReviewRepository(database.DB),
		Logs:     logRepo,
		Users:    userRepo,
		Tx:       sqlite.NewTransactor(database.DB),
		Sessions: sessions,
		Due:      due.NewResolver(cardRepo, cfg.DueBatchSize),
		Tags:     tagResolver,
		Clock:    clock.Real{},
		Location: loc,
		Streak:   session.StreakRule{ResetOnGap: cfg.StreakResetOnGap},
	})
	progressService := services.NewProgressService(userRepo, logRepo, clock.Real{}, loc)

	srv := &api.Server{
		Study:       studyService,
		Progress:    progressService,
		Users:       userRepo,
		Tags:        tagResolver,
		Validator:   validation.New(),
		Limiter:     limiter,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Ready:       database.Ready,
	}

	ctx, cancel := context.WithCancel(context.Background())
	maintenance := worker.NewPool(1, 4)
	maintenance.Start(ctx)
	go maintenance.Every(ctx, cfg.MaintenanceInterval, &worker.ExpireSessionsJob{Sessions: sessions, MaxAge: cfg.SessionTTL})
	go maintenance.Every(ctx, cfg.MaintenanceInterval, &worker.SweepRateLimitsJob{Limiter: limiter})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping maintenance pool")
	cancel()
	maintenance.Stop()

	log.Info("===========================================")
	log.Info("StudyFlash Server Stopped")
	log.Info("===========================================")
}
