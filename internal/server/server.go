// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

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

	"codeberg.org/oliverandrich/cafe-directory/internal/config"
	"codeberg.org/oliverandrich/cafe-directory/internal/database"
	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/handlers"
	"codeberg.org/oliverandrich/cafe-directory/internal/i18n"
	"codeberg.org/oliverandrich/cafe-directory/internal/repository"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/auth"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database, migrations run on open
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

	// Repository and services
	repo := repository.New(db)
	authSvc := auth.NewService(repo, &cfg.Auth)

	if cfg.Auth.HasAdminBootstrap() {
		if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	// Sessions
	sessMgr, err := session.NewManager(&cfg.Session, cfg.Session.Secure)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	e := newEcho(cfg, repo, authSvc, sessMgr)

	// Start server
	return startWithGracefulShutdown(ctx, e, cfg)
}

// newEcho builds the Echo instance with middleware and routes.
func newEcho(cfg *config.Config, repo *repository.Repository, authSvc *auth.Service, sessMgr *session.Manager) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// notices are signed with the session key
	flashes := flash.NewStore(sessMgr.SigningKey(), sessMgr.Secure())

	setupMiddleware(e, cfg, sessMgr, repo, flashes)
	setupRoutes(e, repo, authSvc, sessMgr)

	return e
}

func setupRoutes(e *echo.Echo, repo *repository.Repository, authSvc *auth.Service, sessMgr *session.Manager) {
	h := handlers.New(repo)
	ah := handlers.NewAuth(authSvc, sessMgr)
	getPost := []string{http.MethodGet, http.MethodPost}

	e.GET("/health", h.Health)

	// Public
	e.GET("/", h.Index)
	e.Match(getPost, "/cafe/:id", h.Show)
	e.POST("/search", h.Search)

	// Auth
	e.GET("/register", ah.RegisterPage)
	e.POST("/register", ah.Register)
	e.GET("/login", ah.LoginPage)
	e.POST("/login", ah.Login)
	e.GET("/logout", ah.Logout)

	// Members
	e.GET("/add", h.AddPage, RequireAuth())
	e.POST("/add", h.Add, RequireAuth())
	e.Match(getPost, "/delete/:id", h.Delete, RequireAuth())

	// Admin
	e.GET("/admin/users", h.AdminUsers, RequireAdmin())
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	// Channel for server errors
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal, cancellation or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server", "reason", ctx.Err())
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
