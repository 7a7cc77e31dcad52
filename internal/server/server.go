// Copyright 2025 The ephios team
// Licensed under the MIT license

// Package server wires configuration, database, services and HTTP routes
// together and runs the Echo server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/olewun/ephios/internal/config"
	"github.com/olewun/ephios/internal/database"
	"github.com/olewun/ephios/internal/handlers"
	"github.com/olewun/ephios/internal/i18n"
	"github.com/olewun/ephios/internal/repository"
	"github.com/olewun/ephios/internal/services/auth"
	"github.com/olewun/ephios/internal/services/consequences"
	"github.com/olewun/ephios/internal/services/email"
	"github.com/olewun/ephios/internal/services/oauth"
	"github.com/olewun/ephios/internal/services/qualifications"
	"github.com/olewun/ephios/internal/services/session"
	"github.com/olewun/ephios/internal/services/users"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Sessions
	sessions, err := session.NewManager(
		cfg.Session.HashKey,
		cfg.Session.BlockKey,
		cfg.Session.CookieName,
		cfg.Session.MaxAge,
		cfg.UseSecureCookies(),
	)
	if err != nil {
		return fmt.Errorf("failed to init sessions: %w", err)
	}

	// Services
	repo := repository.New(db)
	s, err := buildServices(cfg, repo, sessions)
	if err != nil {
		return err
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewFormValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	setupMiddleware(e, cfg, repo, sessions)
	setupRoutes(e, s)

	return startWithGracefulShutdown(ctx, e, cfg)
}

func buildServices(cfg *config.Config, repo *repository.Repository, sessions *session.Manager) (*services, error) {
	var sender email.Sender = email.LogSender{}
	if cfg.SMTP.Host != "" {
		smtpSender, err := email.NewSMTPSender(&cfg.SMTP)
		if err != nil {
			return nil, fmt.Errorf("failed to init SMTP: %w", err)
		}
		sender = smtpSender
	}

	authSvc := auth.NewService(repo)
	emailSvc := email.NewService(sender, cfg.Server.BaseURL)

	return &services{
		repo:           repo,
		sessions:       sessions,
		auth:           authSvc,
		email:          emailSvc,
		users:          users.NewService(repo, authSvc, emailSvc),
		qualifications: qualifications.NewService(repo),
		oauth:          oauth.NewService(repo),
		consequences:   consequences.NewService(repo),
	}, nil
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
