package levels

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var (
	ErrEmptyTrack  = errors.New("level track has no levels")
	ErrNoSuchLevel = errors.New("no such level")
)

// Track is the fixed, ordered sequence of levels a player climbs and falls
// along. It is read-only once built.
type Track struct {
	levels []Level
	start  int
}

func NewTrack(levels []Level, start int) (*Track, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyTrack
	}
	for i, l := range levels {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
	}
	return &Track{
		levels: append([]Level(nil), levels...),
		start:  start,
	}, nil
}

func (t *Track) Len() int {
	return len(t.levels)
}

// StartIndex is the configured start, clamped onto the track.
func (t *Track) StartIndex() int {
	return max(0, min(t.start, len(t.levels)-1))
}

func (t *Track) Level(i int) (Level, error) {
	if i < 0 || i >= len(t.levels) {
		return Level{}, fmt.Errorf("%w: %d of %d", ErrNoSuchLevel, i, len(t.levels))
	}
	return t.levels[i], nil
}

func (t *Track) Levels() []Level {
	return append([]Level(nil), t.levels...)
}

type trackFile struct {
	Start  int     `yaml:"start"`
	Levels []Level `yaml:"levels"`
}

func ParseTrack(in []byte) (*Track, error) {
	var f trackFile
	if err := yaml.UnmarshalStrict(in, &f); err != nil {
		return nil, fmt.Errorf("unable to parse level track: %w", err)
	}
	return NewTrack(f.Levels, f.Start)
}

func LoadTrack(path string) (*Track, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read level track: %w", err)
	}
	return ParseTrack(b)
}

func (t *Track) Marshal() ([]byte, error) {
	return yaml.Marshal(trackFile{Start: t.start, Levels: t.levels})
}

var defaultLevels = []Level{
	{Width: 5, Height: 5, MineCount: 3, CorrectWorth: 1, MinePenalty: 0, ClearBonus: 2},
	{Width: 6, Height: 6, MineCount: 4, CorrectWorth: 1, MinePenalty: 1, ClearBonus: 3},
	{Width: 7, Height: 7, MineCount: 7, CorrectWorth: 2, MinePenalty: 1, ClearBonus: 5},
	{Width: 8, Height: 8, MineCount: 10, CorrectWorth: 2, MinePenalty: 2, ClearBonus: 8},
	{Width: 9, Height: 9, MineCount: 14, CorrectWorth: 3, MinePenalty: 2, ClearBonus: 12},
	{Width: 10, Height: 10, MineCount: 20, CorrectWorth: 3, MinePenalty: 3, ClearBonus: 20},
}

// DefaultTrack is used when no track file is configured.
func DefaultTrack() *Track {
	t, err := NewTrack(defaultLevels, 1)
	if err != nil {
		panic(err)
	}
	return t
}
