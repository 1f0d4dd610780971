package levels

// Outcome is what scoring needs from a finished board.
type Outcome interface {
	TotalMines() int
	UnflaggedMines() int
}

type Resolution struct {
	Win        bool
	Delta      int
	Score      int
	LevelIndex int
}

/*
Delta scores a finished round: every mine the player located is worth
correctWorth, every mine left unflagged costs minePenalty, and a round that
leaves no mine undiscovered earns the clear bonus on top.
*/
func Delta(level Level, totalMines, unflaggedMines int) int {
	delta := (totalMines-unflaggedMines)*level.CorrectWorth - unflaggedMines*level.MinePenalty
	if unflaggedMines == 0 {
		delta += level.ClearBonus
	}
	return delta
}

// NextIndex moves one level up on a win and one down on a loss, never
// leaving [0, length-1].
func NextIndex(index, length int, win bool) int {
	if win {
		return min(index+1, length-1)
	}
	return max(index-1, 0)
}

type Resolver struct {
	Track *Track
}

func (r Resolver) Resolve(score, index int, outcome Outcome, win bool) (Resolution, error) {
	level, err := r.Track.Level(index)
	if err != nil {
		return Resolution{}, err
	}
	delta := Delta(level, outcome.TotalMines(), outcome.UnflaggedMines())
	return Resolution{
		Win:        win,
		Delta:      delta,
		Score:      score + delta,
		LevelIndex: NextIndex(index, r.Track.Len(), win),
	}, nil
}
