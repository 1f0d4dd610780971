package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Undecided CellState = iota
	Empty
	Hint
	Mine
)

func (s CellState) String() string {
	switch s {
	case Undecided:
		return "undecided"
	case Empty:
		return "empty"
	case Hint:
		return "hint"
	case Mine:
		return "mine"
	default:
		return "invalid"
	}
}

type Cell struct {
	state    CellState
	hint     int
	revealed bool
	flagged  bool
}

func (c Cell) State() CellState { return c.state }

// HintValue is the number of mined neighbors; zero unless the state is Hint.
func (c Cell) HintValue() int { return c.hint }

func (c Cell) Revealed() bool { return c.revealed }
func (c Cell) Flagged() bool  { return c.flagged }
func (c Cell) IsMine() bool   { return c.state == Mine }
func (c Cell) Decided() bool  { return c.state != Undecided }

// decide assigns the cell's content. It only ever succeeds once.
func (c *Cell) decide(state CellState, hint int) bool {
	if c.state != Undecided {
		return false
	}
	c.state = state
	if state == Hint {
		c.hint = hint
	}
	return true
}

func (c *Cell) reveal() bool {
	if c.revealed {
		return false
	}
	c.revealed = true
	return true
}

func (c *Cell) toggleFlag() bool {
	if c.revealed {
		return false
	}
	c.flagged = !c.flagged
	return true
}

// String renders what a player would see on the cell.
func (c Cell) String() string {
	switch {
	case c.flagged && !c.revealed:
		return "F"
	case !c.revealed:
		return "#"
	case c.state == Mine && c.flagged:
		return "F"
	case c.state == Mine:
		return "*"
	case c.state == Hint:
		return strconv.Itoa(c.hint)
	default:
		return "."
	}
}

type Grid []Cell

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
