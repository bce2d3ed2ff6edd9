package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/skill-swap/internal/config"
	"github.com/msomdec/skill-swap/internal/domain"
	"github.com/msomdec/skill-swap/internal/handler"
	"github.com/msomdec/skill-swap/internal/repository/memory"
	"github.com/msomdec/skill-swap/internal/repository/sqlite"
	"github.com/msomdec/skill-swap/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := openDatabase(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	sessions := service.NewSessionService(db.Sessions(), cfg.SessionTTL)
	notifications := service.NewNotificationService(db.Notifications(), db.Users())
	authService := service.NewAuthService(db.Users(), sessions, cfg.JWTSecret, cfg.BcryptCost)
	limiter := service.NewLoginLimiter(cfg.Login.Rate, cfg.Login.Burst)
	defer limiter.Close()

	if cfg.SeedDemo {
		if _, err := authService.SeedDemo(context.Background()); err != nil {
			slog.Error("failed to seed demo accounts", "error", err)
			os.Exit(1)
		}
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Auth:          authService,
		Users:         service.NewUserService(db.Users()),
		Swaps:         service.NewSwapService(db.Swaps(), db.Users(), notifications),
		Notifications: notifications,
		LoginLimiter:  limiter,
	}, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase picks SQLite when a path is configured and the in-memory
// backend otherwise.
func openDatabase(path string) (domain.Database, error) {
	if path == "" {
		slog.Info("using in-memory storage")
		return memory.New(), nil
	}
	slog.Info("using sqlite storage", "path", path)
	return sqlite.New(path)
}
