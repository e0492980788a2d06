package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	configs "github.com/Payphone-Digital/shortlink/config"
	"github.com/Payphone-Digital/shortlink/internal/handler"
	"github.com/Payphone-Digital/shortlink/internal/middleware"
	"github.com/Payphone-Digital/shortlink/internal/repository"
	"github.com/Payphone-Digital/shortlink/internal/router"
	"github.com/Payphone-Digital/shortlink/internal/service"
	"github.com/Payphone-Digital/shortlink/pkg/database"
	"github.com/Payphone-Digital/shortlink/pkg/logger"
	"github.com/Payphone-Digital/shortlink/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", version),
	)

	db, err := database.NewDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	linkRepo := repository.NewLinkRepository(db)

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer redisClient.Close()

	linkCache := service.NewTieredLinkCache(redisClient, config.Redis.LinkCacheTTL)
	defer linkCache.Close()

	// Services
	tokenService := service.NewTokenService(config.JWT)
	authService := service.NewAuthService(userRepo, sessionRepo, tokenService, service.NewBcryptHasher(config.Security.BcryptCost))
	linkService := service.NewLinkService(
		linkRepo,
		service.NewRandomCodeGenerator(config.Link.CodeLength),
		linkCache,
		config.Link.BaseURL,
		config.Link.MaxAllocations,
	)
	redirectService := service.NewRedirectService(linkRepo, linkCache)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := service.NewSessionSweeper(authService, config.Session.SweepInterval)
	go sweeper.Run(ctx)

	// Handlers
	cookies := middleware.NewCookies(config.Cookie)
	authHandler := handler.NewAuthHandler(authService, tokenService, cookies)
	linkHandler := handler.NewLinkHandler(linkService, redirectService)
	healthHandler := handler.NewHealthHandler(db, redisClient, version)

	r := router.NewRouter(
		authHandler,
		linkHandler,
		healthHandler,

		middleware.NewValidationMiddleware(),
		middleware.NewJWTMiddleware(tokenService, authService, cookies),
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:    ":" + config.App.Port,
		Handler: r,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	<-ctx.Done()
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
