package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/vendas/internal/config"
	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/database"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/JonMunkholm/vendas/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_host", cfg.Database.Host,
		"db_max_conns", cfg.Database.MaxConns,
		"session_store", cfg.Session.Store,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"timezone", cfg.Display.Timezone,
	)

	ctx := context.Background()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, cfg.Database.DSN()); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	provider, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer provider.Close()
	slog.Info("connected to database", "name", cfg.Database.Name)

	store, closeStore, err := newSessionStore(ctx, &cfg.Session)
	if err != nil {
		slog.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	service, err := core.NewService(provider, cfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, store, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newSessionStore opens the backend selected by SESSION_STORE.
func newSessionStore(ctx context.Context, cfg *config.SessionConfig) (session.Store, func(), error) {
	if cfg.Store != "redis" {
		return session.NewMemoryStore(cfg.TTL), func() {}, nil
	}

	rdb, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using redis session store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return session.NewRedisStore(rdb, cfg.TTL), func() { rdb.Close() }, nil
}
