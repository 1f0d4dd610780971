package mines

import (
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Phase int

const (
	Unfilled Phase = iota // mines not placed yet
	Filled
	Won
	Lost
	Frozen // deactivated from outside, no result
)

func (p Phase) String() string {
	switch p {
	case Unfilled:
		return "unfilled"
	case Filled:
		return "active"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Frozen:
		return "frozen"
	default:
		return "invalid"
	}
}

func parsePhase(s string) (Phase, bool) {
	for p := Unfilled; p <= Frozen; p++ {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

type Board struct {
	width, height int
	mineCount     int
	cells         Grid

	revealed       int
	flagged        int
	unflaggedMines int
	cursor         int
	phase          Phase

	rng *rand.Rand

	gameOverObservers  []func(win bool)
	flagCountObservers []func(count int)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

/*
NewBoard allocates a width x height board of undecided cells. The mine count is
clamped so that at least one cell is always safe. Mines are planted on the
first reveal, around the revealed cell. A nil rng gets a randomly seeded one.
*/
func NewBoard(width, height, mineCount int, rng *rand.Rand) *Board {
	assertf(width > 0 && height > 0, "invalid board size %dx%d", width, height)
	if rng == nil {
		rng = newRand()
	}
	area := width * height
	return &Board{
		width:     width,
		height:    height,
		mineCount: max(0, min(mineCount, area-1)),
		cells:     make(Grid, area),
		cursor:    initialCursor(width, height),
		phase:     Unfilled,
		rng:       rng,
	}
}

// initialCursor picks the cell nearest the middle, leaning up-left on even
// areas.
func initialCursor(width, height int) int {
	area := width * height
	if area%2 == 0 {
		return max(0, area/2-width/2-1)
	}
	return area / 2
}

func (b *Board) Width() int          { return b.width }
func (b *Board) Height() int         { return b.height }
func (b *Board) Area() int           { return b.width * b.height }
func (b *Board) TotalMines() int     { return b.mineCount }
func (b *Board) UnflaggedMines() int { return b.unflaggedMines }
func (b *Board) Revealed() int       { return b.revealed }
func (b *Board) Flagged() int        { return b.flagged }
func (b *Board) Cursor() int         { return b.cursor }
func (b *Board) Phase() Phase        { return b.phase }
func (b *Board) Filled() bool        { return b.phase != Unfilled }

// Active reports whether the board still accepts reveals and flags.
func (b *Board) Active() bool {
	return b.phase == Unfilled || b.phase == Filled
}

func (b *Board) Cell(index int) Cell {
	return *b.cell(index)
}

func (b *Board) cell(index int) *Cell {
	assertf(0 <= index && index < len(b.cells), "cell %d out of range [0, %d)", index, len(b.cells))
	return &b.cells[index]
}

func (b *Board) neighbors(index int) [8]int {
	return Neighbors(index, b.width, b.height)
}

// OnGameOver registers fn to run once the board is won or lost.
func (b *Board) OnGameOver(fn func(win bool)) {
	b.gameOverObservers = append(b.gameOverObservers, fn)
}

// OnFlagCountChanged registers fn to run with the new count after every
// successful flag toggle.
func (b *Board) OnFlagCountChanged(fn func(count int)) {
	b.flagCountObservers = append(b.flagCountObservers, fn)
}

/*
Reveal opens the cell at index. Revealing an already revealed hint chords it.
Flagged cells and inactive boards are left alone. The very first reveal plants
the mines, so it is never a mine itself. Reports whether anything changed.
*/
func (b *Board) Reveal(index int) bool {
	c := b.cell(index)
	if !b.Active() || c.flagged {
		return false
	}
	if c.revealed {
		if c.state == Hint {
			return b.Chord(index)
		}
		return false
	}
	b.open(index)
	return true
}

func (b *Board) RevealCursor() bool {
	return b.Reveal(b.cursor)
}

func (b *Board) open(index int) {
	b.fill(index)

	if b.cells[index].state == Mine {
		b.end(false)
		return
	}

	var queue deque.Deque
	queue.PushBack(index)
	for queue.Len() > 0 {
		i := queue.PopFront().(int)
		c := &b.cells[i]
		if !c.reveal() {
			continue
		}
		b.revealed++
		if c.state != Empty {
			continue
		}
		for _, n := range b.neighbors(i) {
			if n != NoNeighbor && !b.cells[n].flagged {
				queue.PushBack(n)
			}
		}
	}

	if b.revealed+b.mineCount == b.Area() {
		b.end(true)
	}
}

/*
Chord reveals every unflagged neighbor of a revealed hint once at least as
many neighbors are flagged as the hint says. Neighbors are opened in
[Direction] order and the sweep stops as soon as one of them ends the game.
*/
func (b *Board) Chord(index int) bool {
	c := b.cell(index)
	if !b.Active() || !c.revealed || c.state != Hint {
		return false
	}

	neighbors := b.neighbors(index)
	flags := 0
	for _, n := range neighbors {
		if n != NoNeighbor && b.cells[n].flagged {
			flags++
		}
	}
	if flags < c.hint {
		return false
	}

	changed := false
	for _, n := range neighbors {
		if n == NoNeighbor {
			continue
		}
		if nc := &b.cells[n]; nc.flagged || nc.revealed {
			continue
		}
		b.open(n)
		changed = true
		if !b.Active() {
			break
		}
	}
	return changed
}

// Flag toggles the flag on an unrevealed cell and reports whether it did.
func (b *Board) Flag(index int) bool {
	c := b.cell(index)
	if !b.Active() || !c.toggleFlag() {
		return false
	}
	if c.flagged {
		b.flagged++
	} else {
		b.flagged--
	}
	for _, fn := range b.flagCountObservers {
		fn(b.flagged)
	}
	return true
}

func (b *Board) FlagCursor() bool {
	return b.Flag(b.cursor)
}

// MoveCursor steps the selection one cell in dir, if there is a cell there.
func (b *Board) MoveCursor(dir Direction) bool {
	if !b.Active() || dir < West || dir > SouthEast {
		return false
	}
	next := b.neighbors(b.cursor)[dir]
	if next == NoNeighbor {
		return false
	}
	b.cursor = next
	return true
}

// Freeze deactivates the board without resolving it. Calling it on an
// inactive board does nothing.
func (b *Board) Freeze() {
	if b.Active() {
		b.phase = Frozen
	}
}

/*
end finishes the round and exposes every cell. A lost board remembers how
many mines the player never flagged; on a win the leftover mines are flagged
for the player, since clearing every safe cell located them all.
*/
func (b *Board) end(win bool) {
	if win {
		b.phase = Won
	} else {
		b.phase = Lost
	}

	for i := range b.cells {
		c := &b.cells[i]
		if c.state == Mine && !c.flagged {
			if win {
				c.flagged = true
				b.flagged++
			} else {
				b.unflaggedMines++
			}
		}
		c.revealed = true
	}

	Log.WithFields(logrus.Fields{
		"phase":          b.phase,
		"size":           b.width * b.height,
		"mines":          b.mineCount,
		"unflaggedMines": b.unflaggedMines,
	}).Debug("board finished")

	for _, fn := range b.gameOverObservers {
		fn(win)
	}
}

func (b *Board) String() string {
	return b.cells.ToString(b.width)
}
