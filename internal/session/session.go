package session

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/mines"
)

var Log = logrus.New()

// RoundResolved describes one finished board and what it did to the player.
type RoundResolved struct {
	Round      int
	Win        bool
	Delta      int
	Score      int
	LevelIndex int
	Level      levels.Level
}

type Option func(*Session)

func WithStartingScore(score int) Option {
	return func(s *Session) { s.score = score }
}

// WithSnapshotDir makes the session write every finished board into dir.
func WithSnapshotDir(dir string) Option {
	return func(s *Session) { s.snapshotDir = dir }
}

/*
Session is one participant of a match. It owns the player's current board,
turns every finished board into a score change and a level step, and starts
the next board right away. Sessions are not safe for concurrent use.
*/
type Session struct {
	index    int
	identity string

	track    *levels.Track
	resolver levels.Resolver
	rng      *rand.Rand

	score      int
	levelIndex int
	rounds     int
	board      *mines.Board
	frozen     bool

	snapshotDir string

	roundObservers []func(RoundResolved)
	flagObservers  []func(count int)
	boardObservers []func(*mines.Board)
}

func New(index int, identity string, track *levels.Track, rng *rand.Rand, opts ...Option) *Session {
	if track == nil {
		panic(mines.NewAssertionError("session %d has no level track", index))
	}
	s := &Session{
		index:      index,
		identity:   identity,
		track:      track,
		resolver:   levels.Resolver{Track: track},
		rng:        rng,
		levelIndex: track.StartIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.spawn()
	return s
}

func (s *Session) Index() int          { return s.index }
func (s *Session) Identity() string    { return s.identity }
func (s *Session) Score() int          { return s.score }
func (s *Session) LevelIndex() int     { return s.levelIndex }
func (s *Session) Rounds() int         { return s.rounds }
func (s *Session) Frozen() bool        { return s.frozen }
func (s *Session) Board() *mines.Board { return s.board }

func (s *Session) Level() levels.Level {
	l, err := s.track.Level(s.levelIndex)
	if err != nil {
		panic(mines.NewAssertionError("session %d: %v", s.index, err))
	}
	return l
}

// OnRoundResolved registers fn to run after every scored board.
func (s *Session) OnRoundResolved(fn func(RoundResolved)) {
	s.roundObservers = append(s.roundObservers, fn)
}

// OnFlagCountChanged registers fn to run whenever the flag count of the
// current board changes.
func (s *Session) OnFlagCountChanged(fn func(count int)) {
	s.flagObservers = append(s.flagObservers, fn)
}

// OnNewBoard registers fn to run whenever a fresh board replaces a finished one.
func (s *Session) OnNewBoard(fn func(*mines.Board)) {
	s.boardObservers = append(s.boardObservers, fn)
}

func (s *Session) Reveal(index int) bool {
	return !s.frozen && s.board.Reveal(index)
}

func (s *Session) Flag(index int) bool {
	return !s.frozen && s.board.Flag(index)
}

func (s *Session) RevealCursor() bool {
	return !s.frozen && s.board.RevealCursor()
}

func (s *Session) FlagCursor() bool {
	return !s.frozen && s.board.FlagCursor()
}

func (s *Session) MoveCursor(dir mines.Direction) bool {
	return !s.frozen && s.board.MoveCursor(dir)
}

// Freeze stops the session at match end. The current board is left as is and
// never scored.
func (s *Session) Freeze() {
	if s.frozen {
		return
	}
	s.frozen = true
	s.board.Freeze()
}

func (s *Session) spawn() {
	level := s.Level()
	b := mines.NewBoard(level.Width, level.Height, level.MineCount, s.rng)
	b.OnGameOver(func(win bool) { s.resolve(b, win) })
	b.OnFlagCountChanged(func(count int) {
		for _, fn := range s.flagObservers {
			fn(count)
		}
	})
	s.board = b
}

func (s *Session) resolve(b *mines.Board, win bool) {
	if b != s.board || s.frozen {
		return
	}
	s.rounds++
	s.dump(b)

	level := s.Level()
	res, err := s.resolver.Resolve(s.score, s.levelIndex, b, win)
	if err != nil {
		panic(mines.NewAssertionError("session %d: %v", s.index, err))
	}
	s.score = res.Score
	s.levelIndex = res.LevelIndex

	Log.WithFields(logrus.Fields{
		"player": s.index,
		"round":  s.rounds,
		"win":    win,
		"delta":  res.Delta,
		"score":  res.Score,
		"level":  res.LevelIndex,
	}).Debug("round resolved")

	event := RoundResolved{
		Round:      s.rounds,
		Win:        win,
		Delta:      res.Delta,
		Score:      res.Score,
		LevelIndex: res.LevelIndex,
		Level:      level,
	}
	for _, fn := range s.roundObservers {
		fn(event)
	}

	s.spawn()
	for _, fn := range s.boardObservers {
		fn(s.board)
	}
}

func (s *Session) dump(b *mines.Board) {
	if s.snapshotDir == "" {
		return
	}
	out, err := b.Snapshot().Serialize()
	if err == nil {
		name := fmt.Sprintf("player%d-round%03d.yaml", s.index, s.rounds)
		err = os.WriteFile(filepath.Join(s.snapshotDir, name), []byte(out), 0o644)
	}
	if err != nil {
		Log.WithError(err).WithField("player", s.index).Warn("unable to dump board snapshot")
	}
}
