package mines

import "github.com/sirupsen/logrus"

/*
fill plants the mines and decides every cell. It runs exactly once, on the
first reveal, and keeps safe free of mines. Mines are drawn uniformly with
rejection: a draw that hits safe or an already mined cell is thrown away.
Because mineCount < area there is always a cell left to draw, so the loop
terminates.
*/
func (b *Board) fill(safe int) {
	if b.phase != Unfilled {
		return
	}

	area := b.Area()
	planted := 0
	for planted < b.mineCount {
		i := b.rng.IntN(area)
		if i == safe || b.cells[i].state == Mine {
			continue
		}
		b.cells[i].decide(Mine, 0)
		planted++
	}
	b.decideHints()
	b.phase = Filled

	Log.WithFields(logrus.Fields{
		"width":  b.width,
		"height": b.height,
		"mines":  b.mineCount,
		"safe":   safe,
	}).Debug("board filled")
}

// decideHints gives every cell that is not a mine its neighbor count.
func (b *Board) decideHints() {
	for i := range b.cells {
		if b.cells[i].state == Mine {
			continue
		}
		count := 0
		for _, n := range b.neighbors(i) {
			if n != NoNeighbor && b.cells[n].state == Mine {
				count++
			}
		}
		if count == 0 {
			b.cells[i].decide(Empty, 0)
		} else {
			b.cells[i].decide(Hint, count)
		}
	}
}
