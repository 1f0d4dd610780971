package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-rush/internal/match"
	"github.com/vancomm/minesweeper-rush/internal/mines"
	"github.com/vancomm/minesweeper-rush/internal/session"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // get
	"o": 2, // open x y
	"f": 2, // flag x y
	"r": 0, // reveal at cursor
	"t": 0, // toggle flag at cursor
	"m": 1, // move cursor w|e|n|s
}

var (
	errUnknownCommand = errors.New("unknown command")
	errBadPoint       = errors.New("invalid square coordinates")
)

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

// atPoint resolves x, y against whatever board the session holds when the
// input is applied.
func atPoint(x, y int, input func(*session.Session, int) bool, bad *bool) func(*session.Session) bool {
	return func(s *session.Session) bool {
		b := s.Board()
		if x < 0 || y < 0 || x >= b.Width() || y >= b.Height() {
			*bad = true
			return false
		}
		return input(s, y*b.Width()+x)
	}
}

func executeCommand(c *match.Coordinator, seat int, command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return fmt.Errorf("%w %q", errUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return fmt.Errorf("%q takes %d arguments", parts[0], nargs)
	}

	var input func(*session.Session) bool
	bad := false
	switch parts[0] {
	case "g":
		_, err := c.Seat(seat)
		return err
	case "o", "f":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		if parts[0] == "o" {
			input = atPoint(x, y, (*session.Session).Reveal, &bad)
		} else {
			input = atPoint(x, y, (*session.Session).Flag, &bad)
		}
	case "r":
		input = (*session.Session).RevealCursor
	case "t":
		input = (*session.Session).FlagCursor
	case "m":
		dir, ok := mines.ParseDirection(parts[1])
		if !ok {
			return fmt.Errorf("unknown direction %q", parts[1])
		}
		input = func(s *session.Session) bool { return s.MoveCursor(dir) }
	}

	if _, err := c.Play(seat, input); err != nil {
		return err
	}
	if bad {
		return errBadPoint
	}
	return nil
}
