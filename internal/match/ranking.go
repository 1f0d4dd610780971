package match

import (
	"slices"
)

// Points awarded by place; places past the table get nothing.
var placePoints = []int{5, 3, 1}

func PointsFor(place int) int {
	if place < 1 || place > len(placePoints) {
		return 0
	}
	return placePoints[place-1]
}

type Placement struct {
	PlayerIndex int    `json:"player_index"`
	Identity    string `json:"identity"`
	Score       int    `json:"score"`
	Place       int    `json:"place"`
	Points      int    `json:"points"`
}

type Standing struct {
	PlayerIndex int
	Identity    string
	Score       int
}

/*
Rank orders standings by score, highest first, keeping player order among
equal scores, and assigns competition places: players with equal scores share
a place and the next distinct score skips the shared ones (1, 1, 3, 4).
*/
func Rank(standings []Standing) []Placement {
	sorted := slices.Clone(standings)
	slices.SortStableFunc(sorted, func(a, b Standing) int {
		return b.Score - a.Score
	})

	placements := make([]Placement, len(sorted))
	for i, s := range sorted {
		place := i + 1
		if i > 0 && s.Score == sorted[i-1].Score {
			place = placements[i-1].Place
		}
		placements[i] = Placement{
			PlayerIndex: s.PlayerIndex,
			Identity:    s.Identity,
			Score:       s.Score,
			Place:       place,
			Points:      PointsFor(place),
		}
	}
	return placements
}
