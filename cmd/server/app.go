package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasker-api/internal/config"
	"github.com/phrazzld/tasker-api/internal/platform/postgres"
	"github.com/phrazzld/tasker-api/internal/platform/s3store"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// newS3Client is a seam so tests can build the s3 backend without AWS.
var newS3Client = s3store.NewClient

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore    store.UserStore
	sessionStore store.SessionStore
	taskStore    store.TaskStore
	avatarStore  store.AvatarStore

	// Auth primitives
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	// Services
	sessionManager service.SessionManager
	userService    service.UserService
	taskService    service.TaskService
	avatarService  service.AvatarService
}

// newApplication wires stores, auth and services. The database connection
// must already be open and migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	verifier, err := auth.NewBcryptVerifier(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password verifier: %w", err)
	}
	app.passwordVerifier = verifier

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost)
	app.sessionStore = postgres.NewPostgresSessionStore(db)
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.avatarStore, err = newAvatarStore(ctx, cfg, db)
	if err != nil {
		return nil, err
	}
	logger.Info("Avatar storage initialized", "backend", cfg.Avatar.Backend)

	app.sessionManager, err = service.NewSessionManager(
		app.userStore,
		app.sessionStore,
		app.jwtService,
		app.passwordVerifier,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	app.userService, err = service.NewUserService(
		db,
		app.userStore,
		app.taskStore,
		app.avatarStore,
		app.sessionManager,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(db, app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.avatarService, err = service.NewAvatarService(
		app.userStore,
		app.avatarStore,
		cfg.Avatar.MaxBytes,
		cfg.Avatar.Size,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create avatar service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newAvatarStore selects the avatar backend named in the configuration.
func newAvatarStore(ctx context.Context, cfg *config.Config, db *sql.DB) (store.AvatarStore, error) {
	switch cfg.Avatar.Backend {
	case "", "postgres":
		return postgres.NewPostgresAvatarStore(db), nil
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, errors.New("avatar backend s3 requires s3.bucket")
		}
		client, err := newS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		return s3store.NewAvatarStore(client, cfg.S3.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown avatar backend %q", cfg.Avatar.Backend)
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
