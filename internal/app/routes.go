package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vancomm/minesweeper-rush/internal/handlers"
	"github.com/vancomm/minesweeper-rush/internal/middleware"
)

func (a *App) loadRoutes() {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Logging(a.log),
		chimw.Recoverer,
		middleware.Cors(),
	)

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		handlers.SendJSON(w, http.StatusOK, map[string]int{"matches": a.store.Len()})
	})

	api := chi.NewRouter()
	handlers.NewMatchHandler(
		a.store, a.track, a.cfg.Match, a.seats, a.ws, a.reporter(),
	).RegisterRoutes(api)
	if a.awards != nil {
		handlers.NewLeaderboardHandler(a.awards).RegisterRoutes(api)
	}

	base := a.cfg.BasePath
	if base == "" {
		base = "/"
	}
	r.Mount(base, api)
	a.router = r
}
