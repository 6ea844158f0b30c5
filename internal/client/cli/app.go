// Package cli is the interactive view layer of the EventHub client: a small
// REPL over the auth and event services. Views never reach into each other's
// state; everything shared goes through the session store and the resource
// cache owned by the services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/eventhub/internal/client/api"
	"github.com/dmitrijs2005/eventhub/internal/client/cache"
	"github.com/dmitrijs2005/eventhub/internal/client/config"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/client/repositories/state"
	"github.com/dmitrijs2005/eventhub/internal/client/services"
	"github.com/dmitrijs2005/eventhub/internal/client/session"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	apic    api.Client
	session *session.Store
	auth    services.AuthService
	events  services.EventService
	reader  *bufio.Reader
	filters models.EventFilters
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault(cfg.LogLevel)

	db, err := state.Open(ctx, cfg.StateDSN)
	if err != nil {
		logger.Error(ctx, "error initializing state database", "err", err)
		return nil, err
	}

	sess := session.New(db, logger)
	apiClient := api.NewHTTPClient(cfg.APIBaseURL, sess, cfg.RequestTimeout, logger)
	c := cache.New(logger)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		apic:    apiClient,
		session: sess,
		auth:    services.NewAuthService(apiClient, sess, c, logger),
		events:  services.NewEventService(apiClient, sess, c, logger),
		reader:  bufio.NewReader(os.Stdin),
		filters: models.DefaultFilters(),
	}, nil
}

// Run bootstraps the session from persisted state and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.auth.Bootstrap(ctx); err != nil {
		// server unreachable or local state trouble: stay in the current
		// state and let the user retry, do not force a logout
		a.logger.Warn(ctx, "could not validate stored session", "err", err)
	}
	a.restoreFilters(ctx)

	a.Root(ctx)
}

func (a *App) Close() {
	if err := a.apic.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing api client", "err", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing state database", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// restoreFilters rehydrates the whitelisted filter state from the last run.
func (a *App) restoreFilters(ctx context.Context) {
	raw, err := state.NewSQLiteRepository(a.db).Get(ctx, state.KeyFilters)
	if err != nil || len(raw) == 0 {
		return
	}
	var f models.EventFilters
	if err := json.Unmarshal(raw, &f); err != nil {
		return
	}
	if f.Limit > 0 {
		a.filters = f
	}
}

// saveFilters persists the current filter state; failures are not fatal to
// the view.
func (a *App) saveFilters(ctx context.Context) {
	raw, err := json.Marshal(a.filters)
	if err != nil {
		return
	}
	if err := state.NewSQLiteRepository(a.db).Set(ctx, state.KeyFilters, raw); err != nil {
		a.logger.Warn(ctx, "persisting filters", "err", err)
	}
}
