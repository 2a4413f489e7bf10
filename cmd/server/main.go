package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/juju/clock"
	"github.com/juju/loggo"
	"github.com/yukikurage/vcc-collab-api/internal/changebus"
	"github.com/yukikurage/vcc-collab-api/internal/config"
	"github.com/yukikurage/vcc-collab-api/internal/constants"
	"github.com/yukikurage/vcc-collab-api/internal/database"
	"github.com/yukikurage/vcc-collab-api/internal/handlers"
	"github.com/yukikurage/vcc-collab-api/internal/kvstore"
	"github.com/yukikurage/vcc-collab-api/internal/logger"
	"github.com/yukikurage/vcc-collab-api/internal/middleware"
	"github.com/yukikurage/vcc-collab-api/internal/repository"
	"github.com/yukikurage/vcc-collab-api/internal/scheduler"
	"github.com/yukikurage/vcc-collab-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	logger.SetDefault(zl)
	defer func() { _ = zl.Sync() }()
	if err := loggo.ConfigureLoggers("<root>=WARNING"); err != nil {
		zl.Warn("failed to configure loggo", zap.Error(err))
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(database.GetDB()); err != nil {
		zl.Fatal("Failed to run migrations", zap.Error(err))
	}

	clk := clock.WallClock
	bus := changebus.New(clk)
	unsubscribe := bus.Subscribe(func(ev changebus.Event) {
		logger.Named("changebus").Debug("collection changed", zap.String("type", ev.Type), zap.Any("payload", ev.Payload))
	})
	defer unsubscribe()
	unsubscribeStorage := bus.SubscribeStorage(constants.StorageEventScope, func(change changebus.StorageChange) {
		logger.Named("kvstore").Debug("key written", zap.String("key", change.Key))
	})
	defer unsubscribeStorage()
	store := kvstore.NewObserved(kvstore.NewGormStore(database.GetDB()), bus)

	// Repositories and services
	userRepo := repository.NewUserRepository(store, bus)
	projectRepo := repository.NewProjectRepository(store, bus)

	authService := services.NewAuthService(userRepo, repository.NewSessionRepository(store, bus), clk, cfg.HashPasswords)
	notificationService := services.NewNotificationService(repository.NewNotificationRepository(store, bus), clk)
	activityService := services.NewActivityService(repository.NewActivityRepository(store, bus), clk)
	badgeService := services.NewBadgeService(authService, userRepo, projectRepo, cfg.SweepWorkers)
	projectService := services.NewProjectService(projectRepo, notificationService, activityService, badgeService, clk)

	svc := handlers.Services{
		Auth:            authService,
		Projects:        projectService,
		Notifications:   notificationService,
		Activities:      activityService,
		Matches:         services.NewMatchService(projectService, authService),
		Recommendations: services.NewRecommendationService(projectRepo, repository.NewProfileRepository(store, bus), clk),
		Bookmarks: services.NewBookmarkService(
			repository.NewSavedRepository(store, bus),
			repository.NewCompareRepository(store, bus),
			projectService,
		),
		AI: services.NewAIService(cfg.OpenAIAPIKey, clk),
	}
	if !svc.AI.Enabled() {
		zl.Info("OPENAI_API_KEY not set, task drafting disabled")
	}

	// Background badge sweep
	jobs, err := scheduler.NewManager()
	if err != nil {
		zl.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if cfg.BadgeSweepInterval > 0 {
		if err := jobs.RegisterBadgeSweep(badgeService, cfg.BadgeSweepInterval); err != nil {
			zl.Fatal("Failed to register badge sweep", zap.Error(err))
		}
	} else {
		zl.Info("badge sweep disabled")
	}
	jobs.Start()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Observe())

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		zl.Fatal("Failed to create session store", zap.Error(err))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	handlers.RegisterRoutes(r, svc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("HTTP shutdown failed", zap.Error(err))
	}
	if err := jobs.Stop(); err != nil {
		zl.Error("Scheduler shutdown failed", zap.Error(err))
	}
}

// newSessionStore returns a cookie store, or a Redis store when
// SESSION_STORE=redis.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "redis" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	// Secure cookies only in release mode, which is expected to sit behind HTTPS
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
