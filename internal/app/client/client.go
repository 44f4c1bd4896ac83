package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"sitecheck/internal/app/client/config"
)

type ctxKey int

// AppContextKey carries the App through the CLI command context.
const AppContextKey ctxKey = 0

// FromContext extracts the App placed on the command context at startup.
func FromContext(ctx context.Context) (*App, bool) {
	app, ok := ctx.Value(AppContextKey).(*App)
	return app, ok
}

// App wires the client stack together for the CLI: configuration, local
// storage, the HTTP backend, the sync queue and the inspection session.
type App struct {
	Config  *config.Config
	Session *Session

	log     *slog.Logger
	db      *sql.DB
	backend Backend
	drafts  *DraftStore
	queue   *SyncQueue
	online  ConnectivityChecker
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	db, err := OpenStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	backend := NewHTTPBackend(cfg, log)
	drafts := NewDraftStore(db, log)
	queue := NewSyncQueue(db, log)
	online := NewPingChecker(backend, time.Duration(cfg.PingTimeout)*time.Second)
	session := NewSession(backend, drafts, queue, online, MergeStrategy(cfg.MergePolicy), log)

	return &App{
		Config:  cfg,
		Session: session,
		log:     log,
		db:      db,
		backend: backend,
		drafts:  drafts,
		queue:   queue,
		online:  online,
	}, nil
}

// CheckConnection probes the server health endpoint.
func (a *App) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return a.backend.Ping(ctx)
}

// PendingWrites reports how many queued mutations await replay.
func (a *App) PendingWrites() (int, error) {
	return a.queue.Pending()
}

// Sync drains the queue against the server and returns how many entries
// were replayed.
func (a *App) Sync(ctx context.Context) (int, error) {
	return a.queue.Drain(ctx, a.backend)
}

// Drafts exposes the local draft store for read-only CLI views.
func (a *App) Drafts() *DraftStore {
	return a.drafts
}

func (a *App) Close() error {
	a.Session.Close()
	return a.db.Close()
}
