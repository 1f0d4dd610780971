package levels

import (
	"errors"
	"fmt"
)

var ErrInvalidLevel = errors.New("invalid level")

// Level is one step of a difficulty track: the board to play and how a round
// on it is scored.
type Level struct {
	Width        int `yaml:"width" json:"width"`
	Height       int `yaml:"height" json:"height"`
	MineCount    int `yaml:"mines" json:"mine_count"`
	CorrectWorth int `yaml:"correct_worth" json:"correct_worth"`
	MinePenalty  int `yaml:"mine_penalty" json:"mine_penalty"`
	ClearBonus   int `yaml:"clear_bonus" json:"clear_bonus"`
}

func (l Level) Validate() error {
	switch {
	case l.Width < 1 || l.Height < 1:
		return fmt.Errorf("%w: board %dx%d", ErrInvalidLevel, l.Width, l.Height)
	case l.MineCount < 0:
		return fmt.Errorf("%w: %d mines", ErrInvalidLevel, l.MineCount)
	case l.ClearBonus < 0:
		return fmt.Errorf("%w: clear bonus %d", ErrInvalidLevel, l.ClearBonus)
	}
	return nil
}

func (l Level) String() string {
	return fmt.Sprintf("%d mines, +%d/-%d per, clear bonus +%d",
		l.MineCount, l.CorrectWorth, l.MinePenalty, l.ClearBonus)
}
