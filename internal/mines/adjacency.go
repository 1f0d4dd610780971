package mines

type Direction int

// Neighbor slots, in the order Neighbors reports them.
const (
	West Direction = iota
	East
	North
	South
	NorthWest
	SouthWest
	NorthEast
	SouthEast
)

// NoNeighbor fills the slot of a direction that falls off the board.
const NoNeighbor = -1

var directionNames = [...]string{"west", "east", "north", "south", "northwest", "southwest", "northeast", "southeast"}

func (d Direction) String() string {
	if d < West || d > SouthEast {
		return "invalid"
	}
	return directionNames[d]
}

// ParseDirection accepts full names and the single-letter forms w/e/n/s.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "w":
		return West, true
	case "e":
		return East, true
	case "n":
		return North, true
	case "s":
		return South, true
	}
	for d, name := range directionNames {
		if name == s {
			return Direction(d), true
		}
	}
	return 0, false
}

/*
Neighbors returns the indices around index on a width x height grid laid out
row by row. Slots are indexed by [Direction]; a direction with no cell holds
[NoNeighbor]. The grid never wraps.
*/
func Neighbors(index, width, height int) [8]int {
	assertf(width > 0 && height > 0, "invalid grid %dx%d", width, height)
	area := width * height
	assertf(0 <= index && index < area, "cell %d out of range [0, %d)", index, area)

	var (
		x     = index % width
		west  = x > 0
		east  = x < width-1
		north = index >= width
		south = index < area-width
	)

	n := [8]int{
		NoNeighbor, NoNeighbor, NoNeighbor, NoNeighbor,
		NoNeighbor, NoNeighbor, NoNeighbor, NoNeighbor,
	}
	if west {
		n[West] = index - 1
	}
	if east {
		n[East] = index + 1
	}
	if north {
		n[North] = index - width
	}
	if south {
		n[South] = index + width
	}
	if west && north {
		n[NorthWest] = index - 1 - width
	}
	if west && south {
		n[SouthWest] = index - 1 + width
	}
	if east && north {
		n[NorthEast] = index + 1 - width
	}
	if east && south {
		n[SouthEast] = index + 1 + width
	}
	return n
}
