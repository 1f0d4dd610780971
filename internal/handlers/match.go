package handlers

import (
	"encoding/json"
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-rush/internal/config"
	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/lobby"
	"github.com/vancomm/minesweeper-rush/internal/match"
)

type MatchHandler struct {
	store    *lobby.Store
	track    *levels.Track
	cfg      match.Config
	seats    *config.Seats
	ws       *config.WebSocket
	reporter match.Reporter
}

func NewMatchHandler(
	store *lobby.Store,
	track *levels.Track,
	cfg match.Config,
	seats *config.Seats,
	ws *config.WebSocket,
	reporter match.Reporter,
) *MatchHandler {
	return &MatchHandler{
		store:    store,
		track:    track,
		cfg:      cfg,
		seats:    seats,
		ws:       ws,
		reporter: reporter,
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (h *MatchHandler) lookup(w http.ResponseWriter, r *http.Request) (*lobby.Match, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return nil, false
	}
	m, err := h.store.Get(id)
	if err != nil {
		sendErrorOrLog(w, http.StatusNotFound, err)
		return nil, false
	}
	return m, true
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateMatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}

	coord, err := match.New(h.cfg, dto.Players, h.track, createRand(), h.reporter)
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}

	created := CreatedMatchDTO{MatchID: coord.ID().String()}
	for i, p := range dto.Players {
		token, err := h.seats.Sign(created.MatchID, i)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			Log.WithError(err).Error("unable to sign seat token")
			return
		}
		created.Seats = append(created.Seats, SeatDTO{Seat: i, Identity: p.Identity, Token: token})
	}

	h.store.Host(coord)
	sendJSONOrLog(w, http.StatusCreated, created)
}

func (h *MatchHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var dto MatchDTO
	m.Do(func(c *match.Coordinator) error {
		dto = NewMatchDTO(c)
		return nil
	})
	sendJSONOrLog(w, http.StatusOK, dto)
}

func (h *MatchHandler) Track(w http.ResponseWriter, r *http.Request) {
	type levelDTO struct {
		levels.Level
		Description string `json:"description"`
	}
	out := struct {
		Start  int        `json:"start"`
		Levels []levelDTO `json:"levels"`
	}{Start: h.track.StartIndex()}
	for _, l := range h.track.Levels() {
		out.Levels = append(out.Levels, levelDTO{l, l.String()})
	}
	sendJSONOrLog(w, http.StatusOK, out)
}

// wsConn serializes writes from the command loop and the event pump.
type wsConn struct {
	mu        sync.Mutex
	c         *websocket.Conn
	writeWait time.Duration
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.c.WriteJSON(v)
}

func (h *MatchHandler) Connect(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	dto, err := ParseConnectDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, http.StatusBadRequest, err)
		return
	}
	if err := h.seats.Verify(dto.Token, m.ID().String(), dto.Seat); err != nil {
		sendErrorOrLog(w, http.StatusUnauthorized, err)
		return
	}

	log := Log.WithFields(logrus.Fields{"match": m.ID(), "seat": dto.Seat})
	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("upgrade")
		return
	}
	defer c.Close()
	conn := &wsConn{c: c, writeWait: h.ws.WriteWait}

	events := m.Events().Subscribe()
	defer m.Events().Unsubscribe(events)
	go func() {
		for e := range events {
			if err := conn.writeJSON(e); err != nil {
				log.WithError(err).Debug("event write")
				return
			}
		}
	}()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		text := strings.TrimSpace(string(message))
		log.Debug("\t> ", text)

		var view SeatView
		m.Do(func(coord *match.Coordinator) error {
			for _, command := range strings.Split(text, "\n") {
				if err := executeCommand(coord, dto.Seat, command); err != nil {
					view.Error = err.Error()
					break
				}
			}
			s, err := coord.Seat(dto.Seat)
			if err != nil {
				view.Error = err.Error()
				return err
			}
			errText := view.Error
			view = NewSeatView(coord, s)
			view.Error = errText
			return nil
		})
		if err := conn.writeJSON(view); err != nil {
			log.WithError(err).Error("write")
			return
		}
	}
}

func (h *MatchHandler) RegisterRoutes(r chi.Router) {
	r.Post("/matches", h.Create)
	r.Get("/matches/{id}", h.Fetch)
	r.Get("/matches/{id}/connect", h.Connect)
	r.Get("/track", h.Track)
}
