package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"stocksim/configs"
	"stocksim/internal/adapter"
	"stocksim/internal/database"
	delivery "stocksim/internal/delivery/http"
	"stocksim/internal/infra"
	"stocksim/internal/logger"
	"stocksim/internal/middleware"
	"stocksim/internal/repository"
	"stocksim/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	// Initialize logger
	zlog, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize context
	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(ctx, db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize quote collaborator client
	quoteClient := adapter.NewQuoteClient(&cfg.Quote, zlog)

	// Initialize ledger service
	ledgerService := service.NewLedgerService(ledgerRepo, userRepo, quoteClient, zlog)

	// Initialize handlers
	authHandler := delivery.NewAuthHandler(
		userRepo,
		sessionRepo,
		cfg.Auth.JWTSecret,
		cfg.Auth.SessionTTL,
		cfg.Trading.SeedCash,
	)
	quoteHandler := delivery.NewQuoteHandler(ledgerService)
	tradeHandler := delivery.NewTradeHandler(ledgerService)
	portfolioHandler := delivery.NewPortfolioHandler(ledgerService)

	// Session housekeeping: purge expired rows hourly
	cronScheduler := cron.New()
	_, err = cronScheduler.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		purged, err := sessionRepo.DeleteExpired(ctx)
		if err != nil {
			zlog.Error("Session purge failed", zap.Error(err))
			return
		}
		if purged > 0 {
			zlog.Info("Purged expired sessions", zap.Int64("count", purged))
		}
	})
	if err != nil {
		zlog.Fatal("Failed to add session purge cron job", zap.Error(err))
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Initialize HTTP router
	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:      authHandler,
		QuoteHandler:     quoteHandler,
		TradeHandler:     tradeHandler,
		PortfolioHandler: portfolioHandler,
		AuthMiddleware:   middleware.AuthMiddleware(cfg.Auth.JWTSecret, sessionRepo),
		DBPinger:         db,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("Starting stocksim",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env),
		zap.String("seed_cash", cfg.Trading.SeedCash.StringFixed(2)),
	)

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited gracefully")
}
