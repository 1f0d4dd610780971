package levels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome struct{ total, unflagged int }

func (o outcome) TotalMines() int     { return o.total }
func (o outcome) UnflaggedMines() int { return o.unflagged }

var scoring = Level{Width: 5, Height: 5, MineCount: 5, CorrectWorth: 2, MinePenalty: 1, ClearBonus: 10}

func TestDelta(t *testing.T) {
	tests := []struct {
		name             string
		total, unflagged int
		want             int
	}{
		{"clear", 5, 0, 20},
		{"two left", 5, 2, 4},
		{"none found", 5, 5, -5},
		{"no mines", 0, 0, 10},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Delta(scoring, test.total, test.unflagged))
		})
	}
}

func TestNextIndex(t *testing.T) {
	assert.Equal(t, 3, NextIndex(2, 5, true))
	assert.Equal(t, 4, NextIndex(4, 5, true))
	assert.Equal(t, 1, NextIndex(2, 5, false))
	assert.Equal(t, 0, NextIndex(0, 5, false))
	assert.Equal(t, 0, NextIndex(0, 1, true))
}

func TestResolve(t *testing.T) {
	track, err := NewTrack([]Level{scoring, scoring}, 0)
	require.NoError(t, err)
	r := Resolver{Track: track}

	res, err := r.Resolve(7, 0, outcome{5, 0}, true)
	require.NoError(t, err)
	assert.Equal(t, Resolution{Win: true, Delta: 20, Score: 27, LevelIndex: 1}, res)

	res, err = r.Resolve(27, 1, outcome{5, 2}, false)
	require.NoError(t, err)
	assert.Equal(t, Resolution{Win: false, Delta: 4, Score: 31, LevelIndex: 0}, res)

	_, err = r.Resolve(0, 2, outcome{5, 0}, true)
	assert.ErrorIs(t, err, ErrNoSuchLevel)
}

func TestNewTrack(t *testing.T) {
	_, err := NewTrack(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyTrack)

	_, err = NewTrack([]Level{scoring, {Width: 0, Height: 3}}, 0)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = NewTrack([]Level{{Width: 3, Height: 3, MineCount: -1}}, 0)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = NewTrack([]Level{{Width: 3, Height: 3, ClearBonus: -2}}, 0)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestStartIndex(t *testing.T) {
	for start, want := range map[int]int{-3: 0, 0: 0, 1: 1, 2: 2, 9: 2} {
		track, err := NewTrack([]Level{scoring, scoring, scoring}, start)
		require.NoError(t, err)
		assert.Equal(t, want, track.StartIndex(), "start %d", start)
	}
}

func TestLevelLookup(t *testing.T) {
	track := DefaultTrack()
	for i := range track.Len() {
		_, err := track.Level(i)
		assert.NoError(t, err)
	}
	_, err := track.Level(-1)
	assert.ErrorIs(t, err, ErrNoSuchLevel)
	_, err = track.Level(track.Len())
	assert.ErrorIs(t, err, ErrNoSuchLevel)
}

func TestTrackIsReadOnly(t *testing.T) {
	levels := []Level{scoring}
	track, err := NewTrack(levels, 0)
	require.NoError(t, err)

	levels[0].MineCount = 99
	track.Levels()[0].MineCount = 99
	l, _ := track.Level(0)
	assert.Equal(t, 5, l.MineCount)
}

func TestParseTrack(t *testing.T) {
	track, err := ParseTrack([]byte(`
start: 1
levels:
  - {width: 4, height: 4, mines: 2, correct_worth: 1, mine_penalty: 0, clear_bonus: 2}
  - {width: 6, height: 5, mines: 5, correct_worth: 2, mine_penalty: 1, clear_bonus: 10}
`))
	require.NoError(t, err)
	assert.Equal(t, 2, track.Len())
	assert.Equal(t, 1, track.StartIndex())

	l, err := track.Level(1)
	require.NoError(t, err)
	assert.Equal(t, Level{Width: 6, Height: 5, MineCount: 5, CorrectWorth: 2, MinePenalty: 1, ClearBonus: 10}, l)
	assert.Equal(t, "5 mines, +2/-1 per, clear bonus +10", l.String())

	_, err = ParseTrack([]byte("start: 0\nlevels: []\n"))
	assert.ErrorIs(t, err, ErrEmptyTrack)

	_, err = ParseTrack([]byte("start: 0\nlevel: []\n"))
	assert.Error(t, err)
}

func TestLoadTrack(t *testing.T) {
	out, err := DefaultTrack().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "track.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o644))

	track, err := LoadTrack(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTrack().Levels(), track.Levels())
	assert.Equal(t, DefaultTrack().StartIndex(), track.StartIndex())

	_, err = LoadTrack(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
