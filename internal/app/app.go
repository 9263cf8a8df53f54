package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/database"
	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/lobby"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/records"
	"github.com/vancomm/minesweeper/internal/repository"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log      *logrus.Logger
	config   config.Config
	db       *pgxpool.Pool
	sessions lobby.SessionStore
	records  records.Store
}

func New(log *logrus.Logger, c config.Config) *App {
	return &App{log: log, config: c}
}

// setupStores picks postgres when a database is configured and falls back to
// in-memory stores otherwise.
func (a *App) setupStores(ctx context.Context) error {
	url, ok := a.config.DbURL()
	if !ok {
		a.log.Warn("no database configured, sessions and records are kept in memory")
		a.sessions = lobby.NewMemoryStore()
		a.records = records.NewMemory(quartz.NewReal())
		return nil
	}
	db, err := database.ConnectAndMigrate(ctx, url)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	a.db = db
	queries := repository.New(db)
	a.sessions = queries
	a.records = queries
	return nil
}

// Handler builds the full middleware chain around the v1 routes.
func (a *App) Handler() (http.Handler, error) {
	jwt, err := a.config.JWT()
	if err != nil {
		return nil, err
	}
	registry := lobby.NewRegistry(a.log, a.sessions, a.records)
	router := handlers.NewRouter(
		handlers.NewGameHandler(a.log, registry, jwt),
		handlers.NewRecordsHandler(a.log, a.records),
	)
	return middleware.Wrap(
		router,
		middleware.Cors(a.config.AllowedOrigins),
		middleware.Logging(a.log),
		middleware.Auth(a.log, jwt),
	), nil
}

// Start serves until ctx is cancelled or the listener fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.setupStores(ctx); err != nil {
		return err
	}
	if a.db != nil {
		defer a.db.Close()
	}

	handler, err := a.Handler()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: handler,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.config.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
