package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/vancomm/minesweeper-rush/internal/repository"
)

type LeaderboardDTO struct {
	Identity *string `schema:"identity"`
	Limit    int     `schema:"limit"`
}

func ParseLeaderboardDTO(src url.Values) (LeaderboardDTO, error) {
	dto := LeaderboardDTO{Limit: 20}
	err := decoder.Decode(&dto, src)
	if dto.Limit < 1 || dto.Limit > 100 {
		dto.Limit = 20
	}
	return dto, err
}

type LeaderboardHandler struct {
	repo *repository.AwardRepository
}

func NewLeaderboardHandler(repo *repository.AwardRepository) *LeaderboardHandler {
	return &LeaderboardHandler{repo: repo}
}

func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseLeaderboardDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}
	standings, err := h.repo.Leaderboard(
		r.Context(), repository.LeaderboardFilter{Identity: dto.Identity}, dto.Limit,
	)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		Log.WithError(err).Error("unable to fetch leaderboard")
		return
	}
	if standings == nil {
		standings = []repository.Standing{}
	}
	sendJSONOrLog(w, http.StatusOK, standings)
}

func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/leaderboard", h.Get)
}
