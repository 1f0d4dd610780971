package handlers

import (
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-rush/internal/match"
	"github.com/vancomm/minesweeper-rush/internal/mines"
	"github.com/vancomm/minesweeper-rush/internal/session"
)

type CreateMatchDTO struct {
	Players []match.Player `json:"players"`
}

type SeatDTO struct {
	Seat     int    `json:"seat"`
	Identity string `json:"identity"`
	Token    string `json:"token"`
}

type CreatedMatchDTO struct {
	MatchID string    `json:"match_id"`
	Seats   []SeatDTO `json:"seats"`
}

type ConnectDTO struct {
	Seat  int    `schema:"seat,required"`
	Token string `schema:"token,required"`
}

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

func ParseConnectDTO(src url.Values) (ConnectDTO, error) {
	var dto ConnectDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type BoardDTO struct {
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Mines          int      `json:"mines"`
	Flagged        int      `json:"flagged"`
	Revealed       int      `json:"revealed"`
	UnflaggedMines int      `json:"unflagged_mines"`
	Cursor         int      `json:"cursor"`
	Phase          string   `json:"phase"`
	Cells          []string `json:"cells"`
}

func NewBoardDTO(b *mines.Board) BoardDTO {
	cells := make([]string, b.Area())
	for i := range cells {
		cells[i] = b.Cell(i).String()
	}
	return BoardDTO{
		Width:          b.Width(),
		Height:         b.Height(),
		Mines:          b.TotalMines(),
		Flagged:        b.Flagged(),
		Revealed:       b.Revealed(),
		UnflaggedMines: b.UnflaggedMines(),
		Cursor:         b.Cursor(),
		Phase:          b.Phase().String(),
		Cells:          cells,
	}
}

type PlayerDTO struct {
	Seat       int    `json:"seat"`
	Identity   string `json:"identity"`
	Score      int    `json:"score"`
	LevelIndex int    `json:"level_index"`
	Level      string `json:"level"`
	Rounds     int    `json:"rounds"`
	Flagged    int    `json:"flagged"`
	Mines      int    `json:"mines"`
}

func NewPlayerDTO(s *session.Session) PlayerDTO {
	return PlayerDTO{
		Seat:       s.Index(),
		Identity:   s.Identity(),
		Score:      s.Score(),
		LevelIndex: s.LevelIndex(),
		Level:      s.Level().String(),
		Rounds:     s.Rounds(),
		Flagged:    s.Board().Flagged(),
		Mines:      s.Board().TotalMines(),
	}
}

type MatchDTO struct {
	MatchID   string        `json:"match_id"`
	Stage     string        `json:"stage"`
	Countdown float64       `json:"countdown"`
	Remaining float64       `json:"remaining"`
	HurryUp   bool          `json:"hurry_up"`
	Players   []PlayerDTO   `json:"players"`
	Result    *match.Result `json:"result,omitempty"`
}

func NewMatchDTO(c *match.Coordinator) MatchDTO {
	dto := MatchDTO{
		MatchID:   c.ID().String(),
		Stage:     c.Stage().String(),
		Countdown: c.CountdownLeft().Seconds(),
		Remaining: c.Remaining().Seconds(),
		HurryUp:   c.HurriedUp(),
	}
	for _, s := range c.Sessions() {
		dto.Players = append(dto.Players, NewPlayerDTO(s))
	}
	if result, ok := c.Result(); ok {
		dto.Result = &result
	}
	return dto
}

// SeatView is what a connected player gets back after each batch of commands.
type SeatView struct {
	MatchID   string    `json:"match_id"`
	Stage     string    `json:"stage"`
	Countdown float64   `json:"countdown"`
	Remaining float64   `json:"remaining"`
	Player    PlayerDTO `json:"player"`
	Board     BoardDTO  `json:"board"`
	Error     string    `json:"error,omitempty"`
}

func NewSeatView(c *match.Coordinator, s *session.Session) SeatView {
	return SeatView{
		MatchID:   c.ID().String(),
		Stage:     c.Stage().String(),
		Countdown: c.CountdownLeft().Seconds(),
		Remaining: c.Remaining().Seconds(),
		Player:    NewPlayerDTO(s),
		Board:     NewBoardDTO(s.Board()),
	}
}
