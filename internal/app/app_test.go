package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-rush/internal/config"
	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/lobby"
	"github.com/vancomm/minesweeper-rush/internal/match"
)

func newTestApp(t *testing.T, basePath string) *App {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithCancel(context.Background())
	a := New(log, &config.App{
		BasePath: basePath,
		Match:    match.DefaultConfig(),
		Lobby:    lobby.DefaultConfig(),
	}, nil)
	a.track = levels.DefaultTrack()
	a.seats = config.NewSeatsWithSecret([]byte("test"), time.Minute)
	a.ws = config.NewWebSocket()
	a.store = lobby.NewStore(ctx, a.cfg.Lobby)
	t.Cleanup(func() {
		cancel()
		a.store.Close()
	})
	a.loadRoutes()
	return a
}

func serve(a *App, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	return rec
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, "/api")

	rec := serve(a, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"matches":0}`, rec.Body.String())

	rec = serve(a, http.MethodPost, "/api/matches", `{"players":[{"identity":"a"},{"identity":"b"},{"identity":"c"}]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, a.store.Len())

	rec = serve(a, http.MethodGet, "/api/track", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a, http.MethodGet, "/api/leaderboard", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "no leaderboard without a database")

	rec = serve(a, http.MethodGet, "/matches", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReporterFallsBackToLog(t *testing.T) {
	a := newTestApp(t, "")
	assert.IsType(t, match.LogReporter{}, a.reporter())
}

func TestLoadTrack(t *testing.T) {
	a := New(logrus.New(), &config.App{}, nil)
	require.NoError(t, a.loadTrack())
	assert.Equal(t, levels.DefaultTrack().Len(), a.track.Len())

	path := filepath.Join(t.TempDir(), "track.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start: 0\nlevels:\n  - {width: 3, height: 3, mines: 1}\n"), 0o644))
	a.cfg.TrackPath = path
	require.NoError(t, a.loadTrack())
	assert.Equal(t, 1, a.track.Len())

	a.cfg.TrackPath = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, a.loadTrack())
}
