package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-rush/internal/config"
	"github.com/vancomm/minesweeper-rush/internal/database"
	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/lobby"
	"github.com/vancomm/minesweeper-rush/internal/match"
	"github.com/vancomm/minesweeper-rush/internal/repository"
)

type App struct {
	log        *logrus.Logger
	cfg        *config.App
	router     chi.Router
	track      *levels.Track
	store      *lobby.Store
	db         *pgxpool.Pool
	awards     *repository.AwardRepository
	seats      *config.Seats
	ws         *config.WebSocket
	migrations fs.FS
}

func New(log *logrus.Logger, cfg *config.App, migrations fs.FS) *App {
	return &App{
		log:        log,
		cfg:        cfg,
		migrations: migrations,
	}
}

func (a *App) loadTrack() error {
	if a.cfg.TrackPath == "" {
		a.track = levels.DefaultTrack()
		return nil
	}
	track, err := levels.LoadTrack(a.cfg.TrackPath)
	if err != nil {
		return err
	}
	a.track = track
	return nil
}

func (a *App) reporter() match.Reporter {
	if a.awards == nil {
		return match.LogReporter{Log: a.log}
	}
	return a.awards
}

func (a *App) setup(ctx context.Context) error {
	if err := a.loadTrack(); err != nil {
		return err
	}
	a.log.WithField("levels", a.track.Len()).Info("level track loaded")

	if config.DatabaseConfigured() {
		db, err := database.ConnectAndMigrate(ctx, a.migrations)
		if err != nil {
			return fmt.Errorf("unable to connect to db: %w", err)
		}
		a.db = db
		a.awards = repository.NewAwardRepository(db)
	} else {
		a.log.Warn("no database configured, match results are only logged")
	}

	seats, err := config.NewSeats()
	if err != nil {
		return err
	}
	a.seats = seats
	a.ws = config.NewWebSocket()
	a.store = lobby.NewStore(ctx, a.cfg.Lobby)

	a.loadRoutes()
	return nil
}

// Start serves until ctx is cancelled or the listener fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.setup(ctx); err != nil {
		return err
	}
	defer func() {
		a.store.Close()
		if a.db != nil {
			a.db.Close()
		}
	}()

	server := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.router,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.cfg.Addr)

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
		sCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
