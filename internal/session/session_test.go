package session

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-rush/internal/levels"
	"github.com/vancomm/minesweeper-rush/internal/mines"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

var (
	// a 2x1 board with one mine is won by the first reveal
	trivial = levels.Level{Width: 2, Height: 1, MineCount: 1, CorrectWorth: 1, MinePenalty: 0, ClearBonus: 2}
	// the center of a 3x3 board with 4 mines is always a hint
	small = levels.Level{Width: 3, Height: 3, MineCount: 4, CorrectWorth: 2, MinePenalty: 1, ClearBonus: 5}
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	track, err := levels.NewTrack([]levels.Level{trivial, small}, 0)
	require.NoError(t, err)
	return New(2, "#00ff00", track, rand.New(rand.NewPCG(1, 2)), opts...)
}

func mineIndices(b *mines.Board) []int {
	var out []int
	for i := range b.Area() {
		if b.Cell(i).IsMine() {
			out = append(out, i)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, "#00ff00", s.Identity())
	assert.Zero(t, s.Score())
	assert.Zero(t, s.LevelIndex())
	assert.Zero(t, s.Rounds())
	assert.False(t, s.Frozen())
	assert.Equal(t, trivial, s.Level())
	assert.Equal(t, 2, s.Board().Area())
	assert.True(t, s.Board().Active())

	assert.Equal(t, 7, newSession(t, WithStartingScore(7)).Score())
}

func TestNewWithoutTrack(t *testing.T) {
	assert.Panics(t, func() { New(0, "", nil, nil) })
}

func TestRounds(t *testing.T) {
	s := newSession(t)
	var (
		events []RoundResolved
		counts []int
		boards int
	)
	s.OnRoundResolved(func(e RoundResolved) { events = append(events, e) })
	s.OnFlagCountChanged(func(count int) { counts = append(counts, count) })
	s.OnNewBoard(func(*mines.Board) { boards++ })

	first := s.Board()
	require.True(t, s.Reveal(0))
	assert.Equal(t, mines.Won, first.Phase())
	require.Len(t, events, 1)
	assert.Equal(t, RoundResolved{Round: 1, Win: true, Delta: 3, Score: 3, LevelIndex: 1, Level: trivial}, events[0])
	assert.Equal(t, 3, s.Score())
	assert.Equal(t, 1, s.LevelIndex())
	assert.Equal(t, 9, s.Board().Area(), "next board comes from the next level")
	assert.Equal(t, 1, boards)

	require.True(t, s.RevealCursor())
	mined := mineIndices(s.Board())
	require.Len(t, mined, 4)
	require.True(t, s.Flag(mined[0]))
	assert.Equal(t, []int{1}, counts)

	require.True(t, s.Reveal(mined[1]))
	require.Len(t, events, 2)
	// one mine found, three left: 1*2 - 3*1
	assert.Equal(t, RoundResolved{Round: 2, Win: false, Delta: -1, Score: 2, LevelIndex: 0, Level: small}, events[1])
	assert.Equal(t, 2, s.Rounds())
	assert.Equal(t, 2, s.Board().Area())
	assert.Equal(t, 2, boards)

	// the new board is wired as well
	require.True(t, s.Flag(1))
	assert.Equal(t, []int{1, 1}, counts)
}

func TestLevelStaysOnTrack(t *testing.T) {
	track, err := levels.NewTrack([]levels.Level{trivial}, 3)
	require.NoError(t, err)
	s := New(0, "", track, rand.New(rand.NewPCG(1, 2)))

	for range 3 {
		require.True(t, s.Reveal(0))
		assert.Zero(t, s.LevelIndex())
	}
	assert.Equal(t, 9, s.Score())
}

func TestFreeze(t *testing.T) {
	s := newSession(t)
	resolved := 0
	s.OnRoundResolved(func(RoundResolved) { resolved++ })

	s.Freeze()
	s.Freeze()
	assert.True(t, s.Frozen())
	assert.Equal(t, mines.Frozen, s.Board().Phase())

	assert.False(t, s.Reveal(0))
	assert.False(t, s.Flag(0))
	assert.False(t, s.RevealCursor())
	assert.False(t, s.FlagCursor())
	assert.False(t, s.MoveCursor(mines.East))
	assert.Zero(t, resolved)
	assert.Zero(t, s.Score())
}

func TestCursorInput(t *testing.T) {
	s := newSession(t)
	require.Zero(t, s.Board().Cursor())
	assert.True(t, s.MoveCursor(mines.East))
	assert.True(t, s.FlagCursor())
	assert.True(t, s.Board().Cell(1).Flagged())
	assert.False(t, s.RevealCursor())
}

func TestSnapshotDir(t *testing.T) {
	dir := t.TempDir()
	s := newSession(t, WithSnapshotDir(dir))
	require.True(t, s.Reveal(1))

	out, err := os.ReadFile(filepath.Join(dir, "player2-round001.yaml"))
	require.NoError(t, err)
	snap, err := mines.LoadSnapshot(out)
	require.NoError(t, err)
	assert.Equal(t, "won", snap.Phase)
	assert.Equal(t, 1, snap.Mines)
}
