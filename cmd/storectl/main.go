package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/cli"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// sessionFile is where the terminal app keeps its login between runs.
func sessionFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "storefront")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.db"), nil
}

func run() int {
	config.LoadDotEnv()
	cfg := config.Load()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	if os.Getenv("DATABASE_URL") == "" {
		path, err := sessionFile()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: cannot locate config dir:", err)
			return 1
		}
		cfg.DatabaseURL = path
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel).With("service", "storectl")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	backend, closeBackend, err := session.OpenBackend(openCtx, cfg)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: cannot open session store:", err)
		return 1
	}
	defer func() { _ = closeBackend() }()

	publisher := events.New(cfg.KafkaBrokers)
	defer func() { _ = publisher.Close() }()

	api := apiclient.New(cfg.CatalogAPIURL, cfg.HTTPTimeout, logger)
	app := &cli.App{
		Auth: auth.Gateway{
			API:   api,
			Store: session.New(backend, session.DefaultNamespace),
			Roles: auth.RolePolicy{AdminUsername: cfg.AdminUsername, AdminToken: cfg.AdminToken},
		},
		Catalog: &catalog.Client{API: api},
		Events:  events.Emitter{Publisher: publisher},
	}

	return cli.Execute(ctx, cli.NewRootCommand(app), os.Stderr)
}

func main() {
	os.Exit(run())
}
