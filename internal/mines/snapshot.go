package mines

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v2"
)

// Snapshot glyphs, one per cell.
const (
	glyphSafe         = '.'
	glyphSafeOpen     = 'o'
	glyphSafeFlag     = 'f'
	glyphMine         = '*'
	glyphMineOpen     = 'x'
	glyphMineFlag     = 'F'
	glyphUndecided    = '#'
	glyphUndecidedFlg = '+'
)

type Snapshot struct {
	Mines          int    `yaml:"mines"`
	Cursor         int    `yaml:"cursor"`
	Phase          string `yaml:"phase"`
	UnflaggedMines int    `yaml:"unflagged_mines,omitempty"`
	Board          string `yaml:"board"`
}

var ErrBadSnapshot = errors.New("malformed board snapshot")

func (b *Board) Snapshot() *Snapshot {
	var sb strings.Builder
	for i, c := range b.cells {
		if i > 0 && i%b.width == 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte(c.glyph())
	}
	return &Snapshot{
		Mines:          b.mineCount,
		Cursor:         b.cursor,
		Phase:          b.phase.String(),
		UnflaggedMines: b.unflaggedMines,
		Board:          sb.String(),
	}
}

func (c Cell) glyph() byte {
	switch c.state {
	case Undecided:
		if c.flagged {
			return glyphUndecidedFlg
		}
		return glyphUndecided
	case Mine:
		switch {
		case c.flagged:
			return glyphMineFlag
		case c.revealed:
			return glyphMineOpen
		default:
			return glyphMine
		}
	default:
		switch {
		case c.flagged:
			return glyphSafeFlag
		case c.revealed:
			return glyphSafeOpen
		default:
			return glyphSafe
		}
	}
}

func (s *Snapshot) Serialize() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func LoadSnapshot(in []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(in, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	return &s, nil
}

/*
NewBoardFromSnapshot rebuilds a board from a snapshot. A board whose cells are
all undecided comes back unfilled with the recorded mine count; otherwise the
mines are exactly the mine glyphs and every other cell is decided from them.
An empty phase is taken from the layout.
*/
func NewBoardFromSnapshot(s *Snapshot, rng *rand.Rand) (*Board, error) {
	rows := strings.Split(strings.TrimSpace(s.Board), "\n")
	width := len(strings.TrimSpace(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrBadSnapshot)
	}

	b := NewBoard(width, len(rows), s.Mines, rng)
	var (
		mines     int
		undecided int
	)
	for y, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadSnapshot, y, len(row), width)
		}
		for x := range width {
			c := &b.cells[y*width+x]
			switch row[x] {
			case glyphUndecided, glyphUndecidedFlg:
				undecided++
				c.flagged = row[x] == glyphUndecidedFlg
			case glyphMine, glyphMineOpen, glyphMineFlag:
				mines++
				c.decide(Mine, 0)
				c.revealed = row[x] == glyphMineOpen
				c.flagged = row[x] == glyphMineFlag
			case glyphSafe, glyphSafeOpen, glyphSafeFlag:
				c.revealed = row[x] == glyphSafeOpen
				c.flagged = row[x] == glyphSafeFlag
			default:
				return nil, fmt.Errorf("%w: unknown glyph %q", ErrBadSnapshot, row[x])
			}
			if c.flagged {
				b.flagged++
			}
			if c.revealed && c.state != Mine {
				b.revealed++
			}
		}
	}

	switch {
	case undecided == b.Area():
		b.phase = Unfilled
	case undecided > 0:
		return nil, fmt.Errorf("%w: mixes undecided and decided cells", ErrBadSnapshot)
	case mines >= b.Area():
		return nil, fmt.Errorf("%w: no safe cell", ErrBadSnapshot)
	default:
		b.mineCount = mines
		b.decideHints()
		b.phase = Filled
	}

	if s.Phase != "" {
		phase, ok := parsePhase(s.Phase)
		if !ok {
			return nil, fmt.Errorf("%w: unknown phase %q", ErrBadSnapshot, s.Phase)
		}
		b.phase = phase
	}
	if 0 <= s.Cursor && s.Cursor < b.Area() {
		b.cursor = s.Cursor
	}
	b.unflaggedMines = s.UnflaggedMines
	return b, nil
}

// ParseBoard builds a board from a bare layout, one row per line.
func ParseBoard(layout string, rng *rand.Rand) (*Board, error) {
	return NewBoardFromSnapshot(&Snapshot{Board: layout, Cursor: -1}, rng)
}
