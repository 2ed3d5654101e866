package app

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

	httpapi "github.com/tracknorth/basecamp/internal/auth/http"
	"github.com/tracknorth/basecamp/internal/auth/identity"
	"github.com/tracknorth/basecamp/internal/auth/service"
	"github.com/tracknorth/basecamp/internal/auth/store"
	"github.com/tracknorth/basecamp/internal/auth/store/drivers/sqlite"
	"github.com/tracknorth/basecamp/pkg/jwtx"
	"github.com/tracknorth/basecamp/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db        store.Store
	signer    *jwtx.Signer
	directory *identity.Directory

	authService *service.AuthService
	manager     *service.Manager

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	signer, err := jwtx.NewSigner([]byte(cfg.SigningKey), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.bootstrapAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the store and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.directory = identity.NewDirectory(app.db, nil)

	app.authService = service.NewAuthService(service.AuthServiceConfig{
		Store:      app.db,
		Directory:  app.directory,
		Signer:     app.signer,
		Logger:     app.logger,
		BearerTTL:  app.cfg.BearerTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	})
	app.manager = service.NewManager(app.db, app.directory, app.logger, nil)
}

// bootstrapAdmin creates the initial admin account when configured and the
// username is still free. Reruns are no-ops.
func (app *Application) bootstrapAdmin(ctx context.Context) error {
	if app.cfg.BootstrapUsername == "" || app.cfg.BootstrapPassword == "" {
		return nil
	}

	_, err := app.manager.CreateUser(ctx, identity.NewUser{
		Username:    app.cfg.BootstrapUsername,
		DisplayName: app.cfg.BootstrapUsername,
		Password:    app.cfg.BootstrapPassword,
		Roles:       []string{"admin"},
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	app.logger.Info("bootstrap admin created", "username", app.cfg.BootstrapUsername)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.Manager = app.manager
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
