package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/sessions"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	cfg        *config.Config
	log        *logrus.Logger
	router     *http.ServeMux
	db         *pgxpool.Pool
	sessions   *sessions.Store
	scores     repository.Scores
	tickets    *config.TicketIssuer
	ws         *config.WebSocket
	migrations fs.FS
}

func New(cfg *config.Config, log *logrus.Logger, migrations fs.FS) (*App, error) {
	tickets, err := config.NewTicketIssuer(cfg.Tickets)
	if err != nil {
		return nil, err
	}

	if cfg.Sessions.TTL <= 0 {
		cfg.Sessions.TTL = time.Hour
	}
	if cfg.Sessions.SweepInterval <= 0 {
		cfg.Sessions.SweepInterval = time.Minute
	}

	return &App{
		cfg:        cfg,
		log:        log,
		router:     http.NewServeMux(),
		sessions:   sessions.New(sessions.WithLogger(log)),
		tickets:    tickets,
		ws:         config.NewWebSocket(cfg),
		migrations: migrations,
	}, nil
}

// openScores connects to postgres when a database is configured and falls
// back to an in-memory score board otherwise.
func (a *App) openScores(ctx context.Context) error {
	if !a.cfg.Database.Enabled() {
		a.log.Warn("no database configured, scores are kept in memory")
		a.scores = repository.NewMemory()
		return nil
	}

	url, err := a.cfg.Database.ConnString()
	if err != nil {
		return err
	}
	db, err := database.ConnectAndMigrate(ctx, url, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}

	a.db = db
	a.scores = repository.NewPostgres(db)
	return nil
}

func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := strings.TrimSuffix(a.cfg.BasePath, "/"); base != "" {
		mux := http.NewServeMux()
		mux.Handle(base+"/", http.StripPrefix(base, a.router))
		h = mux
	}
	return middleware.Wrap(
		h,
		middleware.Recover(a.log),
		middleware.Cors(),
		middleware.Logging(a.log),
	)
}

func (a *App) Start(ctx context.Context) error {
	if err := a.openScores(ctx); err != nil {
		return err
	}
	defer func() {
		if a.db != nil {
			a.db.Close()
		}
	}()

	a.loadRoutes()

	server := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.WithField("addr", a.cfg.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.sessions.Run(ctx, a.cfg.Sessions.SweepInterval, a.cfg.Sessions.TTL)
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
