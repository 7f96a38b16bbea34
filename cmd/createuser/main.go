// Command createuser adds a login or resets its password.
//
//	createuser -u alice -p 's3cret'
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/vendas/internal/config"
	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/database"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("u", "", "username")
	password := flag.String("p", "", "password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createuser -u <username> -p <password>")
		os.Exit(2)
	}

	// .env is optional here as well
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(context.Background(), cfg, *username, *password); err != nil {
		slog.Error("create user failed", "username", *username, "error", err)
		os.Exit(1)
	}
	slog.Info("user saved", "username", *username)
}

func run(ctx context.Context, cfg *config.Config, username, password string) error {
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	provider, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer provider.Close()

	service, err := core.NewService(provider, cfg)
	if err != nil {
		return err
	}
	return service.CreateUser(ctx, username, password)
}
