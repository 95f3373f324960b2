package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/web"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/logging"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, closeBackend, err := session.OpenBackend(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("session backend: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)
	api := apiclient.New(cfg.CatalogAPIURL, cfg.HTTPTimeout, logger)

	tmpl, err := web.LoadTemplates()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	logger.Warn("admin_role_is_client_side", "admin_username", cfg.AdminUsername,
		"reason", "the catalog api does not check roles, anyone can call its mutation endpoints")

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	web.Register(e, &web.Deps{
		Templates: tmpl,
		Handler: &web.Handler{
			Catalog:      &catalog.Client{API: api},
			Auth:         auth.Gateway{API: api, Roles: auth.RolePolicy{AdminUsername: cfg.AdminUsername, AdminToken: cfg.AdminToken}},
			Sessions:     backend,
			Events:       events.Emitter{Publisher: publisher},
			SecureCookie: cfg.CookieSecure,
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second + cfg.HTTPTimeout,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("storefront_listening", "addr", srv.Addr, "catalog_api", cfg.CatalogAPIURL, "session_backend", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if err := closeBackend(); err != nil {
		logger.Error("session_backend_close_failed", "error", err)
	}

	logger.Info("storefront_stopped")
}
