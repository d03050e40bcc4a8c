// Package cli is the interactive terminal front-end of the fileshare
// client: a small REPL dispatching to the application services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/config"
	"github.com/dmitrijs2005/fileshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fileshare/internal/client/services"
	"github.com/dmitrijs2005/fileshare/internal/client/session"
	"github.com/dmitrijs2005/fileshare/internal/client/upload"
	"github.com/dmitrijs2005/fileshare/internal/logging"
)

type App struct {
	config          *config.Config
	db              *sql.DB
	session         *session.Manager
	authService     services.AuthService
	filesService    *services.FilesService
	downloadService *services.DownloadService
	tracker         *upload.Tracker
	reader          *bufio.Reader
	log             logging.Logger
}

// NewApp wires the client together: local database, session restore, API
// client, services. The session manager is handed to the API client as the
// token provider, so a login is visible to requests immediately.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := session.OpenDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	sess := session.NewManager(metadata.NewSQLiteMetadataRepository(db))
	if err := sess.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.ServerURL, cfg.HTTPTimeout, sess.Token, log)

	return &App{
		config:          cfg,
		db:              db,
		session:         sess,
		authService:     services.NewAuthService(apiClient, sess),
		filesService:    services.NewFilesService(apiClient, sess, log),
		downloadService: services.NewDownloadService(apiClient, sess, log),
		tracker:         upload.NewTracker(),
		reader:          bufio.NewReader(os.Stdin),
		log:             log,
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the local database.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}
