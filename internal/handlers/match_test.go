package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-rush/internal/config"
	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/lobby"
	"github.com/vancomm/minesweeper-rush/internal/match"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	store := lobby.NewStore(ctx, lobby.Config{TickInterval: time.Second, Retention: time.Hour})
	h := NewMatchHandler(
		store,
		levels.DefaultTrack(),
		match.Config{Length: time.Minute, LeadIn: time.Minute, HurryUp: 10 * time.Second},
		config.NewSeatsWithSecret([]byte("test secret"), time.Minute),
		config.NewWebSocket(),
		match.LogReporter{},
	)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		store.Close()
	})
	return srv
}

func createMatch(t *testing.T, srv *httptest.Server, body string) (*http.Response, CreatedMatchDTO) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/matches", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var dto CreatedMatchDTO
	if resp.StatusCode == http.StatusCreated {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	}
	return resp, dto
}

func TestCreateAndFetch(t *testing.T) {
	srv := newServer(t)

	resp, created := createMatch(t, srv, `{"players":[{"identity":"red"},{"identity":"blue","starting_score":4}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, created.Seats, 2)
	assert.Equal(t, "blue", created.Seats[1].Identity)
	assert.NotEmpty(t, created.Seats[0].Token)

	resp, err := http.Get(srv.URL + "/matches/" + created.MatchID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto MatchDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	assert.Equal(t, created.MatchID, dto.MatchID)
	assert.Equal(t, match.LeadIn.String(), dto.Stage)
	require.Len(t, dto.Players, 2)
	assert.Equal(t, 4, dto.Players[1].Score)
	assert.Equal(t, levels.DefaultTrack().StartIndex(), dto.Players[0].LevelIndex)
	assert.Nil(t, dto.Result)
}

func TestCreateRejects(t *testing.T) {
	srv := newServer(t)
	for name, body := range map[string]string{
		"one player": `{"players":[{"identity":"red"}]}`,
		"no players": `{}`,
		"not json":   `players`,
	} {
		resp, _ := createMatch(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
	}
}

func TestFetchUnknown(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		path   string
		status int
	}{
		{"/matches/nope", http.StatusBadRequest},
		{"/matches/" + uuid.NewString(), http.StatusNotFound},
		{"/matches/" + uuid.NewString() + "/connect", http.StatusNotFound},
	}
	for _, test := range tests {
		resp, err := http.Get(srv.URL + test.path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, test.status, resp.StatusCode, test.path)
	}
}

func TestTrack(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/track")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Start  int `json:"start"`
		Levels []struct {
			Width       int    `json:"width"`
			Description string `json:"description"`
		} `json:"levels"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Levels, levels.DefaultTrack().Len())
	assert.Contains(t, out.Levels[0].Description, "clear bonus")
}

func dial(srv *httptest.Server, matchID string, seat int, token string) (*websocket.Conn, *http.Response, error) {
	q := url.Values{}
	q.Set("seat", strconv.Itoa(seat))
	q.Set("token", token)
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/matches/" + matchID + "/connect?" + q.Encode()
	return websocket.DefaultDialer.Dial(u, nil)
}

// readView skips pushed events until the reply to a command batch arrives.
func readView(t *testing.T, c *websocket.Conn) SeatView {
	t.Helper()
	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, message, err := c.ReadMessage()
		require.NoError(t, err)
		var probe map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(message, &probe))
		if _, ok := probe["board"]; !ok {
			continue
		}
		var view SeatView
		require.NoError(t, json.Unmarshal(message, &view))
		return view
	}
}

func TestConnect(t *testing.T) {
	srv := newServer(t)
	_, created := createMatch(t, srv, `{"players":[{"identity":"red"},{"identity":"blue"}]}`)

	c, _, err := dial(srv, created.MatchID, 1, created.Seats[1].Token)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("g")))
	view := readView(t, c)
	assert.Equal(t, created.MatchID, view.MatchID)
	assert.Equal(t, 1, view.Player.Seat)
	assert.Equal(t, "blue", view.Player.Identity)
	assert.Empty(t, view.Error)
	assert.Len(t, view.Board.Cells, view.Board.Width*view.Board.Height)
	for _, cell := range view.Board.Cells {
		assert.Equal(t, "#", cell)
	}

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("g\no 0 0")))
	view = readView(t, c)
	assert.Equal(t, match.ErrNotRunning.Error(), view.Error)
	assert.Zero(t, view.Board.Revealed)
}

func TestConnectRejectsBadToken(t *testing.T) {
	srv := newServer(t)
	_, created := createMatch(t, srv, `{"players":[{"identity":"red"},{"identity":"blue"}]}`)

	_, resp, err := dial(srv, created.MatchID, 0, created.Seats[1].Token)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dial(srv, created.MatchID, 0, "garbage")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestParseConnectDTO(t *testing.T) {
	dto, err := ParseConnectDTO(url.Values{"seat": {"2"}, "token": {"abc"}, "extra": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, ConnectDTO{Seat: 2, Token: "abc"}, dto)

	_, err = ParseConnectDTO(url.Values{"seat": {"2"}})
	assert.Error(t, err)
}

func TestParseLeaderboardDTO(t *testing.T) {
	dto, err := ParseLeaderboardDTO(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 20, dto.Limit)
	assert.Nil(t, dto.Identity)

	dto, err = ParseLeaderboardDTO(url.Values{"identity": {"red"}, "limit": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, 5, dto.Limit)
	assert.Equal(t, "red", *dto.Identity)
}
