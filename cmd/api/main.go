package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/libraryhub/libraryhub-go/internal/config"
	"github.com/libraryhub/libraryhub-go/internal/crypto"
	"github.com/libraryhub/libraryhub-go/internal/handler"
	"github.com/libraryhub/libraryhub-go/internal/repository"
	"github.com/libraryhub/libraryhub-go/internal/repository/memory"
	mysqlstore "github.com/libraryhub/libraryhub-go/internal/repository/mysql"
	"github.com/libraryhub/libraryhub-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	store, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("store unavailable", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	scheme, err := crypto.ParseScheme(cfg.PasswordScheme)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	creds := service.NewCredentialService(store, scheme, cfg.ResetTokenTTL)
	tokens := service.NewTokenService(store, service.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Rotate:     cfg.RefreshTokenRotate,
	})
	ledger := service.NewLedgerService(store, cfg.LoanPeriod)

	router := handler.NewRouter(handler.Deps{
		Store:         store,
		Auth:          service.NewAuthService(store, creds, tokens, cfg.ExposeResetToken),
		Tokens:        tokens,
		Catalog:       service.NewCatalogService(store),
		Ledger:        ledger,
		Users:         service.NewUserService(store, ledger),
		CookieSecure:  cfg.CookieSecure,
		AuthRateRPS:   cfg.AuthRateLimitRPS,
		AuthRateBurst: cfg.AuthRateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.Production() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStore connects the configured store. The MySQL schema is migrated before use.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	if cfg.StorageDriver == config.StorageMemory {
		slog.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), nil
	}

	db, err := mysqlstore.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := mysqlstore.Migrate(ctx, db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return mysqlstore.NewStore(db), nil
}
